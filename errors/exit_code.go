package errors

import (
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// OsExit is a variable so tests can intercept process exit.
var OsExit = os.Exit

// exitCodeCarrier is implemented by errors that know which status the process should exit with.
type exitCodeCarrier interface {
	ExitCode() int
}

type exitCoder struct {
	cause error
	code  int
}

func (e *exitCoder) Error() string { return e.cause.Error() }
func (e *exitCoder) Cause() error  { return e.cause }
func (e *exitCoder) Unwrap() error { return e.cause }
func (e *exitCoder) ExitCode() int { return e.code }

// WithExitCode attaches an exit code to an error.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitCoder{cause: err, code: code}
}

// GetExitCode extracts the exit code from an error chain.
// Returns 0 for nil, the first carried code found (explicit codes, remote exit statuses,
// local process exits), or 1.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ec *exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	var carrier exitCodeCarrier
	if errors.As(err, &carrier) {
		return carrier.ExitCode()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
