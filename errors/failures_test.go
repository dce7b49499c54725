package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFailure(t *testing.T) {
	failure := &CommandFailure{
		Task:    "maven:package",
		Host:    "host-a",
		Command: "cd /opt/app/current && mvn clean package",
		Output:  "line1\nline2\nline3\nline4\nline5\nline6\n",
		Status:  1,
	}

	err := fmt.Errorf("fire deploy.finished: %w", failure)

	assert.True(t, errors.Is(err, ErrCommandFailure))
	assert.False(t, errors.Is(err, ErrRoleResolution))
	assert.Contains(t, err.Error(), "host-a")
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "line6")
	assert.NotContains(t, err.Error(), "line1")

	var cf *CommandFailure
	require.True(t, errors.As(err, &cf))
	assert.Equal(t, "host-a", cf.Host)
	assert.Equal(t, 1, GetExitCode(err))
}

func TestCommandFailure_TransportCause(t *testing.T) {
	cause := fmt.Errorf("%w: dial tcp: i/o timeout", ErrSSHDial)
	failure := &CommandFailure{Task: "deploy:run_test", Host: "host-b", Command: "true", Cause: cause}

	assert.True(t, errors.Is(failure, ErrCommandFailure))
	assert.True(t, errors.Is(failure, ErrSSHDial))
	assert.Contains(t, failure.Error(), "i/o timeout")
	assert.Equal(t, 1, failure.ExitCode())
}

func TestCommandFailure_ExitCodePassthrough(t *testing.T) {
	failure := &CommandFailure{Task: "t", Host: "h", Command: "missing", Status: 127}
	assert.Equal(t, 127, GetExitCode(failure))
}

func TestRoleResolutionFailure(t *testing.T) {
	err := &RoleResolutionFailure{Task: "maven:package", Roles: []string{"app"}}

	assert.True(t, errors.Is(err, ErrRoleResolution))
	assert.Contains(t, err.Error(), "[app]")
	assert.Contains(t, err.Error(), "maven:package")

	noRoles := &RoleResolutionFailure{Task: "orphan"}
	assert.Contains(t, noRoles.Error(), "declares no roles")
}

func TestConfigurationFailure(t *testing.T) {
	err := &ConfigurationFailure{Key: "branch", Reason: "no value and no local branch", Cause: ErrDetachedHead}

	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.True(t, errors.Is(err, ErrDetachedHead))
	assert.Contains(t, err.Error(), "branch")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"explicit", WithExitCode(errors.New("boom"), 3), 3},
		{"wrapped explicit", fmt.Errorf("outer: %w", WithExitCode(errors.New("boom"), 4)), 4},
		{"builder", Build(ErrRunLocked).WithExitCode(75).Err(), 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestGetExitCode_ExecExitError(t *testing.T) {
	err := exec.Command("sh", "-c", "exit 5").Run()
	require.Error(t, err)
	assert.Equal(t, 5, GetExitCode(err))
}

func TestWithExitCode_Nil(t *testing.T) {
	assert.NoError(t, WithExitCode(nil, 2))
}
