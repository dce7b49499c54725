package hooks

import (
	"time"

	"github.com/sul-dlss/ld4p-deploy/pkg/store"
)

// Outcome is the result of one task on one host.
type Outcome struct {
	Task     string
	Host     string
	Command  string
	ExitCode int
	Output   string
	Duration time.Duration
	Attempts int
}

// Report describes one Fire or RunTask call. On failure it holds the outcomes
// up to and including the failing one.
type Report struct {
	RunID      string
	Kind       string
	Name       string
	Args       []string
	Skipped    []string
	Outcomes   []Outcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded reports whether every invocation exited zero.
func (r *Report) Succeeded() bool {
	for _, o := range r.Outcomes {
		if o.ExitCode != 0 {
			return false
		}
	}
	return true
}

func (r *Report) record(branch string, runErr error) store.RunRecord {
	rec := store.RunRecord{
		ID:         r.RunID,
		Kind:       r.Kind,
		Name:       r.Name,
		Args:       r.Args,
		Branch:     branch,
		Status:     store.StatusSucceeded,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	if runErr != nil {
		rec.Status = store.StatusFailed
		rec.Error = runErr.Error()
	}
	for _, o := range r.Outcomes {
		rec.Hosts = append(rec.Hosts, store.HostRecord{
			Task:     o.Task,
			Host:     o.Host,
			Command:  o.Command,
			ExitCode: o.ExitCode,
			Duration: o.Duration,
		})
	}
	return rec
}
