package hooks

import (
	"fmt"
	"sort"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// Binding is one task registered for one event.
type Binding struct {
	Event HookEvent
	Task  string
}

// Registry holds the task definitions and the ordered event bindings.
// It is filled once at startup and only read during a run.
type Registry struct {
	tasks    map[string]schema.Task
	bindings []Binding
	byEvent  map[HookEvent][]string
}

// NewRegistry creates a registry for tasks, keyed by task name.
func NewRegistry(tasks map[string]schema.Task) *Registry {
	named := make(map[string]schema.Task, len(tasks))
	for name, task := range tasks {
		task.Name = name
		named[name] = task
	}
	return &Registry{
		tasks:   named,
		byEvent: make(map[HookEvent][]string),
	}
}

// NewRegistryFromConfig creates a registry and binds every configured hook in order.
func NewRegistryFromConfig(cfg *schema.DeployConfiguration) (*Registry, error) {
	r := NewRegistry(cfg.Tasks)
	for _, h := range cfg.Hooks {
		if err := r.On(h.Event, h.Task); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// On registers task to run when event fires, after the tasks already registered for it.
func (r *Registry) On(event, task string) error {
	ev, err := ParseEvent(event)
	if err != nil {
		return err
	}
	if _, ok := r.tasks[task]; !ok {
		return fmt.Errorf("%w: %q bound to %s", errUtils.ErrUnknownTask, task, ev)
	}
	for _, name := range r.byEvent[ev] {
		if name == task {
			return fmt.Errorf("%w: %s -> %s", errUtils.ErrDuplicateBinding, ev, task)
		}
	}

	r.byEvent[ev] = append(r.byEvent[ev], task)
	r.bindings = append(r.bindings, Binding{Event: ev, Task: task})
	return nil
}

// TasksFor returns the tasks bound to event in registration order.
func (r *Registry) TasksFor(event HookEvent) []string {
	return append([]string(nil), r.byEvent[event]...)
}

// Bindings returns every binding in registration order.
func (r *Registry) Bindings() []Binding {
	return append([]Binding(nil), r.bindings...)
}

// Task looks up a task definition by name.
func (r *Registry) Task(name string) (schema.Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// TaskNames returns all task names, sorted.
func (r *Registry) TaskNames() []string {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
