package remote

import (
	"context"

	"github.com/sul-dlss/ld4p-deploy/pkg/command"
	"github.com/sul-dlss/ld4p-deploy/pkg/logger"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// DryRunExecutor logs each command instead of running it and reports success.
type DryRunExecutor struct{}

func (DryRunExecutor) Run(ctx context.Context, host schema.Server, cmd command.Spec) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	script := cmd.Render()
	logger.Info("Dry run", "host", host.Host, "command", script)
	return &Result{Host: host.Host, Command: script}, nil
}
