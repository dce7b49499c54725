package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// outputTailLines is how many lines of captured output a CommandFailure message quotes.
const outputTailLines = 5

// CommandFailure is a non-zero exit (or transport failure) of a remote command on one host.
type CommandFailure struct {
	Task     string
	Host     string
	Command  string
	Output   string
	Status   int
	// Cause is the transport error, if the command could not be run at all.
	Cause error
}

func (e *CommandFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "task %q failed on host %s", e.Task, e.Host)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	} else {
		fmt.Fprintf(&b, " (exit status %d)", e.Status)
	}
	fmt.Fprintf(&b, ": %s", e.Command)
	if tail := lastLines(e.Output, outputTailLines); tail != "" {
		b.WriteString("\n")
		b.WriteString(tail)
	}
	return b.String()
}

func (e *CommandFailure) Is(target error) bool {
	return target == ErrCommandFailure
}

func (e *CommandFailure) Unwrap() error {
	return e.Cause
}

// ExitCode mirrors the remote exit status so the process can exit with it.
func (e *CommandFailure) ExitCode() int {
	if e.Status <= 0 {
		return 1
	}
	return e.Status
}

// RoleResolutionFailure means a task's roles resolved to no hosts.
type RoleResolutionFailure struct {
	Task  string
	Roles []string
}

func (e *RoleResolutionFailure) Error() string {
	if len(e.Roles) == 0 {
		return fmt.Sprintf("%s: task %q declares no roles", ErrRoleResolution, e.Task)
	}
	return fmt.Sprintf("%s: no hosts match roles [%s] of task %q", ErrRoleResolution, strings.Join(e.Roles, ", "), e.Task)
}

func (e *RoleResolutionFailure) Is(target error) bool {
	return target == ErrRoleResolution
}

// ConfigurationFailure means a required configuration value is absent or invalid.
type ConfigurationFailure struct {
	Key    string
	Reason string
	Cause  error
}

func (e *ConfigurationFailure) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Key, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigurationFailure) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationFailure) Unwrap() error {
	return e.Cause
}

// failureFields describes the first typed failure in err's chain. Values never contain
// spaces, so they read back from a rendered context table.
func failureFields(err error) map[string]string {
	var (
		cmdErr  *CommandFailure
		roleErr *RoleResolutionFailure
		confErr *ConfigurationFailure
	)
	switch {
	case errors.As(err, &cmdErr):
		return map[string]string{
			"task":      cmdErr.Task,
			"host":      cmdErr.Host,
			"exit_code": strconv.Itoa(cmdErr.ExitCode()),
		}
	case errors.As(err, &roleErr):
		return map[string]string{
			"task":  roleErr.Task,
			"roles": strings.Join(roleErr.Roles, ","),
		}
	case errors.As(err, &confErr):
		return map[string]string{"key": confErr.Key}
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
