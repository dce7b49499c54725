package cmd

import (
	"errors"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
)

// withHints attaches operator guidance for the failure classes a run can end with.
func withHints(err error) error {
	if err == nil {
		return nil
	}

	b := errUtils.Build(err).WithFailureContext()
	switch {
	case errors.Is(err, errUtils.ErrCommandFailure):
		b.WithHint("Re-run with --logs-level Debug to stream the output of each host")
	case errors.Is(err, errUtils.ErrRoleResolution):
		b.WithHint("Tag at least one entry under 'servers' with one of the task's roles, or set 'allow_empty_roles' on the task")
	case errors.Is(err, errUtils.ErrConfiguration):
		b.WithHint("Run 'ld4p-deploy describe config' to see the merged configuration")
	case errors.Is(err, errUtils.ErrUnknownEvent):
		b.WithHint("Run 'ld4p-deploy hooks list' to see the lifecycle events with bound tasks")
	case errors.Is(err, errUtils.ErrUnknownTask):
		b.WithHint("Run 'ld4p-deploy hooks list --all' to see the configured tasks")
	}
	return b.Err()
}
