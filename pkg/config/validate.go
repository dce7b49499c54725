package config

import (
	"errors"
	"fmt"
	"path"
	"regexp"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/git"
	"github.com/sul-dlss/ld4p-deploy/pkg/hooks"
	log "github.com/sul-dlss/ld4p-deploy/pkg/logger"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks everything a run depends on and returns every problem found,
// each as a ConfigurationFailure.
func Validate(cfg *schema.DeployConfiguration) error {
	var errs []error
	fail := func(key, reason string, cause error) {
		errs = append(errs, &errUtils.ConfigurationFailure{Key: key, Reason: reason, Cause: cause})
	}

	if cfg.Application == "" {
		fail("application", "is required", nil)
	}
	if cfg.DeployTo == "" {
		fail("deploy_to", "is required", nil)
	} else if !path.IsAbs(cfg.DeployTo) {
		fail("deploy_to", "must be an absolute path", nil)
	}
	if cfg.CurrentPath != "" && !path.IsAbs(cfg.CurrentPath) {
		fail("current_path", "must be an absolute path", nil)
	}
	if _, err := git.ParseRepoURL(cfg.RepoURL); err != nil {
		fail("repo_url", "is not a repository URL", err)
	}
	if cfg.Branch == "" {
		fail("branch", "could not be resolved; set it in deploy.yaml, LD4P_DEPLOY_BRANCH or --branch", errUtils.ErrBranchNotResolved)
	}
	if cfg.KeepReleases < 0 {
		fail("keep_releases", "must not be negative", nil)
	}
	if _, err := log.ParseLogLevel(cfg.Logs.Level); err != nil {
		fail("logs.level", "is not a log level", err)
	}

	for i, s := range cfg.Servers {
		key := fmt.Sprintf("servers[%d]", i)
		if s.Host == "" {
			fail(key+".host", "is required", nil)
		}
		switch s.Transport {
		case "", schema.TransportSSH, schema.TransportLocal:
		default:
			fail(key+".transport", fmt.Sprintf("must be %q or %q", schema.TransportSSH, schema.TransportLocal), errUtils.ErrUnknownTransport)
		}
	}

	for name, task := range cfg.Tasks {
		key := "tasks." + name
		if task.Command == "" {
			fail(key+".command", "is required", nil)
		}
		if task.Timeout < 0 {
			fail(key+".timeout", "must not be negative", nil)
		}
		if task.Retry != nil && task.Retry.MaxAttempts < 0 {
			fail(key+".retry.max_attempts", "must not be negative", nil)
		}
		for env := range task.Env {
			if !envNamePattern.MatchString(env) {
				fail(key+".env", fmt.Sprintf("%q is not a valid variable name", env), nil)
			}
		}
	}

	if _, err := hooks.NewRegistryFromConfig(cfg); err != nil {
		fail("hooks", "invalid binding", err)
	}

	return errors.Join(errs...)
}
