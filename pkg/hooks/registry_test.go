package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent("deploy.finished")
	require.NoError(t, err)
	assert.Equal(t, DeployFinished, ev)

	ev, err = ParseEvent("  deploy.updated ")
	require.NoError(t, err)
	assert.Equal(t, DeployUpdated, ev)

	_, err = ParseEvent("")
	assert.ErrorIs(t, err, errUtils.ErrEmptyEventName)

	_, err = ParseEvent("deploy.done")
	assert.ErrorIs(t, err, errUtils.ErrUnknownEvent)
}

func TestRegistry_On(t *testing.T) {
	r := NewRegistry(testConfig().Tasks)

	require.NoError(t, r.On("deploy.finished", "maven:package"))
	require.NoError(t, r.On("deploy.updated", "db:migrate"))
	require.NoError(t, r.On("deploy.finished", "deploy:run_test"))

	assert.Equal(t, []string{"maven:package", "deploy:run_test"}, r.TasksFor(DeployFinished))
	assert.Equal(t, []string{"db:migrate"}, r.TasksFor(DeployUpdated))
	assert.Empty(t, r.TasksFor(DeployStarting))

	assert.Equal(t, []Binding{
		{Event: DeployFinished, Task: "maven:package"},
		{Event: DeployUpdated, Task: "db:migrate"},
		{Event: DeployFinished, Task: "deploy:run_test"},
	}, r.Bindings())
}

func TestRegistry_OnErrors(t *testing.T) {
	r := NewRegistry(testConfig().Tasks)
	require.NoError(t, r.On("deploy.finished", "maven:package"))

	tests := []struct {
		name  string
		event string
		task  string
		want  error
	}{
		{"empty event", "", "maven:package", errUtils.ErrEmptyEventName},
		{"unknown event", "deploy.done", "maven:package", errUtils.ErrUnknownEvent},
		{"unknown task", "deploy.finished", "maven:install", errUtils.ErrUnknownTask},
		{"duplicate binding", "deploy.finished", "maven:package", errUtils.ErrDuplicateBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.On(tt.event, tt.task), tt.want)
		})
	}

	assert.Len(t, r.Bindings(), 1, "failed registrations leave the registry unchanged")
}

func TestRegistry_TaskNamesFilled(t *testing.T) {
	r := NewRegistry(map[string]schema.Task{"maven:package": {Command: "mvn"}})

	task, ok := r.Task("maven:package")
	require.True(t, ok)
	assert.Equal(t, "maven:package", task.Name)

	_, ok = r.Task("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"maven:package"}, r.TaskNames())
}

func TestNewRegistryFromConfig(t *testing.T) {
	cfg := testConfig()
	r, err := NewRegistryFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"maven:package"}, r.TasksFor(DeployFinished))

	cfg.Hooks = append(cfg.Hooks, schema.HookBinding{Event: "deploy.finished", Task: "nope"})
	_, err = NewRegistryFromConfig(cfg)
	assert.ErrorIs(t, err, errUtils.ErrUnknownTask)
}
