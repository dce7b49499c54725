package store

import (
	"context"
	"time"
)

// Run kinds.
const (
	KindEvent = "event"
	KindTask  = "task"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RunRecord is the history entry for one event fire or one on-demand task run.
type RunRecord struct {
	ID         string       `json:"id"`
	Kind       string       `json:"kind"`
	Name       string       `json:"name"`
	Args       []string     `json:"args,omitempty"`
	Branch     string       `json:"branch,omitempty"`
	Status     string       `json:"status"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Hosts      []HostRecord `json:"hosts,omitempty"`
}

// HostRecord is one command invocation within a run.
type HostRecord struct {
	Task     string        `json:"task"`
	Host     string        `json:"host"`
	Command  string        `json:"command"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Store keeps run records, newest first.
type Store interface {
	Save(ctx context.Context, record RunRecord) error
	// List returns at most limit records, newest first. A limit of zero means all.
	List(ctx context.Context, limit int) ([]RunRecord, error)
	// Close releases the store's connections. The store is unusable afterwards.
	Close() error
}
