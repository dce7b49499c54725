package remote

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/command"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// Dispatcher routes each command to the executor for the server's transport.
type Dispatcher struct {
	SSH   Executor
	Local Executor
}

// New builds the executors the configured servers need. In dry-run mode every
// transport logs instead of running. SSH is only prepared when some server uses it.
func New(cfg *schema.DeployConfiguration, stream io.Writer) (*Dispatcher, error) {
	if cfg.DryRun {
		return &Dispatcher{SSH: DryRunExecutor{}, Local: DryRunExecutor{}}, nil
	}

	d := &Dispatcher{Local: &LocalExecutor{Stream: stream}}

	usesSSH := lo.SomeBy(cfg.Servers, func(s schema.Server) bool {
		return s.Transport == "" || s.Transport == schema.TransportSSH
	})
	if usesSSH {
		sshExec, err := NewSSHExecutor(cfg.SSH)
		if err != nil {
			return nil, err
		}
		sshExec.Stream = stream
		d.SSH = sshExec
	}
	return d, nil
}

func (d *Dispatcher) Run(ctx context.Context, host schema.Server, cmd command.Spec) (*Result, error) {
	var exec Executor
	switch host.Transport {
	case "", schema.TransportSSH:
		exec = d.SSH
	case schema.TransportLocal:
		exec = d.Local
	default:
		return nil, fmt.Errorf("%w: %q on host %s", errUtils.ErrUnknownTransport, host.Transport, host.Host)
	}
	if exec == nil {
		return nil, fmt.Errorf("%w: transport %q", errUtils.ErrNilExecutor, host.Transport)
	}
	return exec.Run(ctx, host, cmd)
}

// Close releases whatever connections the executors hold.
func (d *Dispatcher) Close() error {
	var errs []error
	for _, exec := range []Executor{d.SSH, d.Local} {
		if c, ok := exec.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
