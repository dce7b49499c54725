package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

func validConfig(t *testing.T) schema.DeployConfiguration {
	t.Helper()
	cfg, err := LoadConfig(LoadOptions{WorkDir: isolate(t), Branch: "master"})
	require.NoError(t, err)
	cfg.Servers = []schema.Server{{Host: "app-1", Roles: []string{"app"}}}
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, Validate(&cfg))
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*schema.DeployConfiguration)
		want   error
	}{
		{"missing application", func(c *schema.DeployConfiguration) { c.Application = "" }, errUtils.ErrConfiguration},
		{"missing deploy path", func(c *schema.DeployConfiguration) { c.DeployTo = "" }, errUtils.ErrConfiguration},
		{"relative deploy path", func(c *schema.DeployConfiguration) { c.DeployTo = "opt/app" }, errUtils.ErrConfiguration},
		{"bad repo url", func(c *schema.DeployConfiguration) { c.RepoURL = "not a url" }, errUtils.ErrInvalidRepoURL},
		{"unresolved branch", func(c *schema.DeployConfiguration) { c.Branch = "" }, errUtils.ErrBranchNotResolved},
		{"bad log level", func(c *schema.DeployConfiguration) { c.Logs.Level = "Verbose" }, errUtils.ErrInvalidLogLevel},
		{"server without host", func(c *schema.DeployConfiguration) { c.Servers[0].Host = "" }, errUtils.ErrConfiguration},
		{"unknown transport", func(c *schema.DeployConfiguration) { c.Servers[0].Transport = "telnet" }, errUtils.ErrUnknownTransport},
		{"empty command", func(c *schema.DeployConfiguration) {
			c.Tasks["broken"] = schema.Task{Roles: []string{"app"}}
		}, errUtils.ErrConfiguration},
		{"bad env name", func(c *schema.DeployConfiguration) {
			c.Tasks["env"] = schema.Task{Roles: []string{"app"}, Command: "env", Env: map[string]string{"MAVEN-OPTS": "x"}}
		}, errUtils.ErrConfiguration},
		{"hook on unknown task", func(c *schema.DeployConfiguration) {
			c.Hooks = append(c.Hooks, schema.HookBinding{Event: "deploy.finished", Task: "maven:install"})
		}, errUtils.ErrUnknownTask},
		{"hook on unknown event", func(c *schema.DeployConfiguration) {
			c.Hooks = append(c.Hooks, schema.HookBinding{Event: "deploy.done", Task: "maven:package"})
		}, errUtils.ErrUnknownEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := Validate(&cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, errUtils.ErrConfiguration)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig(t)
	cfg.Application = ""
	cfg.Branch = ""

	err := Validate(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application")
	assert.Contains(t, err.Error(), "branch")
}
