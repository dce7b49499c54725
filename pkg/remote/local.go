package remote

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/sul-dlss/ld4p-deploy/pkg/command"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// LocalExecutor runs commands on this machine through an embedded POSIX shell.
// It serves servers with `transport: local`.
type LocalExecutor struct {
	// Stream, when set, receives command output as it is produced.
	Stream io.Writer
}

func (e *LocalExecutor) Run(ctx context.Context, host schema.Server, cmd command.Spec) (*Result, error) {
	script := cmd.Render()
	start := time.Now()

	file, err := syntax.NewParser().Parse(strings.NewReader(script), host.Host)
	if err != nil {
		return nil, err
	}

	out := newOutputBuffer(e.Stream)
	runner, err := interp.New(
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, out, out),
	)
	if err != nil {
		return nil, err
	}

	result := &Result{Host: host.Host, Command: script}
	err = runner.Run(ctx, file)
	result.Output = out.String()
	result.Duration = time.Since(start)

	var status interp.ExitStatus
	switch {
	case err == nil:
	case errors.As(err, &status):
		result.ExitCode = int(status)
	case ctx.Err() != nil:
		return result, ctx.Err()
	default:
		return result, err
	}
	return result, nil
}
