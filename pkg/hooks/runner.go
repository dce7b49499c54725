package hooks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/command"
	log "github.com/sul-dlss/ld4p-deploy/pkg/logger"
	"github.com/sul-dlss/ld4p-deploy/pkg/remote"
	"github.com/sul-dlss/ld4p-deploy/pkg/retry"
	"github.com/sul-dlss/ld4p-deploy/pkg/roles"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
	"github.com/sul-dlss/ld4p-deploy/pkg/store"
)

// Runner executes bound tasks on the hosts of their roles, one (task, host)
// pair at a time, stopping at the first failure.
type Runner struct {
	config    *schema.DeployConfiguration
	registry  *Registry
	inventory *roles.Inventory
	executor  remote.Executor
	history   store.Store
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithHistory records every run in s.
func WithHistory(s store.Store) Option {
	return func(r *Runner) {
		r.history = s
	}
}

// NewRunner creates a runner. Configuration, registry and inventory are read-only from here on.
func NewRunner(cfg *schema.DeployConfiguration, registry *Registry, inventory *roles.Inventory, executor remote.Executor, opts ...Option) (*Runner, error) {
	if executor == nil {
		return nil, errUtils.ErrNilExecutor
	}
	r := &Runner{
		config:    cfg,
		registry:  registry,
		inventory: inventory,
		executor:  executor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// plannedTask is a task with its hosts resolved.
type plannedTask struct {
	task  schema.Task
	hosts []schema.Server
}

// Fire runs every task bound to event in registration order.
// All roles are resolved before the first command is issued.
func (r *Runner) Fire(ctx context.Context, event string) (*Report, error) {
	ev, err := ParseEvent(event)
	if err != nil {
		return nil, err
	}
	if err := r.preflight(); err != nil {
		return nil, err
	}

	report := r.newReport(store.KindEvent, string(ev), nil)
	logger := log.Default().With("run", report.RunID, "event", ev)

	names := r.registry.TasksFor(ev)
	if len(names) == 0 {
		logger.Info("No tasks bound to event")
		return r.finish(ctx, report, nil)
	}

	plan := make([]plannedTask, 0, len(names))
	for _, name := range names {
		task, _ := r.registry.Task(name)
		p, ok, err := r.plan(task)
		if err != nil {
			return r.finish(ctx, report, err)
		}
		if !ok {
			logger.Info("Skipping task with no hosts", "task", name, "roles", task.Roles)
			report.Skipped = append(report.Skipped, name)
			continue
		}
		plan = append(plan, p)
	}

	logger.Info("Firing event", "tasks", len(plan))
	for _, p := range plan {
		if err := r.runTask(ctx, report, p, nil); err != nil {
			return r.finish(ctx, report, err)
		}
	}
	return r.finish(ctx, report, nil)
}

// RunTask runs one task on demand. Without args the task's default arguments are used.
func (r *Runner) RunTask(ctx context.Context, name string, args ...string) (*Report, error) {
	task, ok := r.registry.Task(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUtils.ErrUnknownTask, name)
	}
	if err := r.preflight(); err != nil {
		return nil, err
	}

	report := r.newReport(store.KindTask, name, args)

	p, ok, err := r.plan(task)
	if err != nil {
		return r.finish(ctx, report, err)
	}
	if !ok {
		log.Info("Skipping task with no hosts", "run", report.RunID, "task", name, "roles", task.Roles)
		report.Skipped = append(report.Skipped, name)
		return r.finish(ctx, report, nil)
	}

	err = r.runTask(ctx, report, p, args)
	return r.finish(ctx, report, err)
}

// preflight checks the values every command depends on.
func (r *Runner) preflight() error {
	if r.config.Branch == "" {
		return &errUtils.ConfigurationFailure{Key: "branch", Reason: "could not be resolved", Cause: errUtils.ErrBranchNotResolved}
	}
	if r.config.DeployTo == "" && r.config.CurrentPath == "" {
		return &errUtils.ConfigurationFailure{Key: "deploy_to", Reason: "is required"}
	}
	return nil
}

// plan resolves a task's hosts. ok is false for an allowed empty role set.
func (r *Runner) plan(task schema.Task) (plannedTask, bool, error) {
	hosts, err := r.inventory.Resolve(task.Name, task.Roles...)
	if err != nil {
		if task.AllowEmptyRoles && errors.Is(err, errUtils.ErrRoleResolution) {
			return plannedTask{}, false, nil
		}
		return plannedTask{}, false, err
	}
	return plannedTask{task: task, hosts: hosts}, true, nil
}

func (r *Runner) runTask(ctx context.Context, report *Report, p plannedTask, args []string) error {
	for _, host := range p.hosts {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, err := r.runOnHost(ctx, report.RunID, p.task, host, args)
		if outcome != nil {
			report.Outcomes = append(report.Outcomes, *outcome)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runOnHost(ctx context.Context, runID string, task schema.Task, host schema.Server, args []string) (*Outcome, error) {
	spec, err := command.FromTask(&task, schema.TemplateData{
		Application: r.config.Application,
		Branch:      r.config.Branch,
		DeployTo:    r.config.DeployTo,
		ReleasePath: r.config.ReleasePath(),
		Host:        host.Host,
		Args:        args,
	})
	if err != nil {
		return nil, &errUtils.ConfigurationFailure{Key: "tasks." + task.Name, Reason: "invalid template", Cause: err}
	}

	outcome := &Outcome{Task: task.Name, Host: host.Host, Command: spec.Render()}
	logger := log.Default().With("run", runID, "task", task.Name, "host", host.Host)
	logger.Info("Running", "command", outcome.Command)

	start := r.now()
	err = retry.WithPredicate(ctx, task.Retry, func() error {
		outcome.Attempts++
		if outcome.Attempts > 1 {
			logger.Warn("Retrying", "attempt", outcome.Attempts)
		}
		return r.invoke(ctx, task, host, spec, outcome)
	}, func(error) bool {
		return ctx.Err() == nil
	})
	outcome.Duration = r.now().Sub(start)

	if err != nil {
		logger.Error("Failed", "exit", outcome.ExitCode, "err", err)
		return outcome, err
	}
	logger.Debug("Finished", "duration", outcome.Duration)
	return outcome, nil
}

// invoke runs one attempt and turns a transport error or non-zero exit into a CommandFailure.
func (r *Runner) invoke(ctx context.Context, task schema.Task, host schema.Server, spec command.Spec, outcome *Outcome) error {
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	result, err := r.executor.Run(ctx, host, spec)
	if result != nil {
		outcome.Output = result.Output
		outcome.ExitCode = result.ExitCode
	}
	if err != nil {
		outcome.ExitCode = -1
		return &errUtils.CommandFailure{
			Task:    task.Name,
			Host:    host.Host,
			Command: outcome.Command,
			Output:  outcome.Output,
			Cause:   err,
		}
	}
	if result.ExitCode != 0 {
		return &errUtils.CommandFailure{
			Task:    task.Name,
			Host:    host.Host,
			Command: outcome.Command,
			Output:  result.Output,
			Status:  result.ExitCode,
		}
	}
	return nil
}

func (r *Runner) newReport(kind, name string, args []string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Name:      name,
		Args:      args,
		StartedAt: r.now(),
	}
}

// finish stamps the report and records it. A history failure is logged, not returned.
func (r *Runner) finish(ctx context.Context, report *Report, runErr error) (*Report, error) {
	report.FinishedAt = r.now()

	if r.history != nil {
		rec := report.record(r.config.Branch, runErr)
		if err := r.history.Save(context.WithoutCancel(ctx), rec); err != nil {
			log.Warn("Failed to record run", "run", report.RunID, "err", err)
		}
	}
	return report, runErr
}
