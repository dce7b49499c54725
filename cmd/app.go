package cmd

import (
	"errors"
	"io"
	"os"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/config"
	"github.com/sul-dlss/ld4p-deploy/pkg/hooks"
	"github.com/sul-dlss/ld4p-deploy/pkg/lock"
	log "github.com/sul-dlss/ld4p-deploy/pkg/logger"
	"github.com/sul-dlss/ld4p-deploy/pkg/remote"
	"github.com/sul-dlss/ld4p-deploy/pkg/roles"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
	"github.com/sul-dlss/ld4p-deploy/pkg/store"
)

// newRunner validates cfg, takes the run lock and wires the runner to the
// configured transports and history store. Everything it opens is released by Cleanup.
func newRunner(cfg *schema.DeployConfiguration) (*hooks.Runner, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	registry, err := hooks.NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	lockPath := lock.PathFor(cfg.Application)
	runLock, err := lock.Acquire(lockPath, 0)
	if err != nil {
		return nil, errUtils.Build(err).
			WithHintf("Wait for the other run of %s to finish", cfg.Application).
			WithContext("lock", lockPath).
			Err()
	}
	deferCleanup(runLock.Release)

	dispatcher, err := remote.New(cfg, commandStream())
	if err != nil {
		return nil, err
	}
	deferCleanup(dispatcher.Close)

	var opts []hooks.Option
	history, err := openHistory(cfg)
	if err != nil {
		return nil, err
	}
	if history != nil {
		deferCleanup(history.Close)
		opts = append(opts, hooks.WithHistory(history))
	}

	return hooks.NewRunner(cfg, registry, roles.NewInventory(cfg.Servers), dispatcher, opts...)
}

// openHistory returns the configured store, or nil when history is disabled.
func openHistory(cfg *schema.DeployConfiguration) (store.Store, error) {
	history, err := store.New(cfg.History, cfg.Application)
	if errors.Is(err, errUtils.ErrHistoryDisabled) {
		return nil, nil
	}
	if err != nil {
		return nil, &errUtils.ConfigurationFailure{Key: "history", Reason: "cannot open the history store", Cause: err}
	}
	return history, nil
}

// commandStream is where host output is copied live. Output is only streamed
// at Debug and Trace; otherwise it is shown for failing commands.
func commandStream() io.Writer {
	if log.Default().GetLevel() <= log.DebugLevel {
		return os.Stderr
	}
	return nil
}
