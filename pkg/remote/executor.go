package remote

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=$GOFILE -destination=mock_$GOFILE -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/sul-dlss/ld4p-deploy/pkg/command"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// Executor runs a command on one host.
//
// A command that ran and exited non-zero is not an error: the Result carries
// the exit code. An error means the command could not be run at all.
type Executor interface {
	Run(ctx context.Context, host schema.Server, cmd command.Spec) (*Result, error)
}

// Result is the outcome of one command on one host.
type Result struct {
	Host     string
	Command  string
	Output   string
	ExitCode int
	Duration time.Duration
}

// Success reports whether the command exited zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}
