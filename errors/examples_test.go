package errors

import (
	"fmt"
	"os"
	"testing"
)

// TestExampleErrorFormatting prints how the operator sees each failure class.
// Run with: go test -v ./errors -run TestExampleErrorFormatting.
func TestExampleErrorFormatting(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping example test in short mode")
	}

	fmt.Fprintf(os.Stderr, "\n=== Command failure ===\n")
	err := Build(&CommandFailure{
		Task:    "maven:package",
		Host:    "sul-ld4p-prod-a.stanford.edu",
		Command: "cd /opt/app/ld4p/ld4p-marc21-to-xml/current && mvn clean package",
		Output:  "[INFO] BUILD FAILURE\n[ERROR] Failed to execute goal on project xform-marc21-to-xml",
		Status:  1,
	}).WithHint("Run the command on the host to see the full build log").Err()
	fmt.Fprintf(os.Stderr, "%s\n\n", Format(err, FormatterConfig{MaxLineLength: 80}))

	fmt.Fprintf(os.Stderr, "=== Role resolution failure ===\n")
	err = Build(&RoleResolutionFailure{Task: "deploy:run_test", Roles: []string{"app"}}).
		WithHint("Tag at least one server with the role under `servers:` in deploy.yaml").
		WithContext("servers", 0).
		Err()
	fmt.Fprintf(os.Stderr, "%s\n\n", Format(err, FormatterConfig{MaxLineLength: 80}))

	fmt.Fprintf(os.Stderr, "=== Configuration failure (verbose) ===\n")
	err = Build(&ConfigurationFailure{Key: "branch", Reason: "could not be resolved", Cause: ErrBranchNotResolved}).
		WithHint("Pass --branch or set LD4P_DEPLOY_BRANCH").
		WithExitCode(2).
		Err()
	fmt.Fprintf(os.Stderr, "%s\n\n", Format(err, FormatterConfig{Verbose: true, MaxLineLength: 80}))
}
