package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sul-dlss/ld4p-deploy/cmd"
	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	log "github.com/sul-dlss/ld4p-deploy/pkg/logger"
)

// exitInterrupted is the POSIX status for a run stopped by SIGINT.
const exitInterrupted = 130

func main() {
	// Use errUtils.OsExit to allow test interception.
	errUtils.OsExit(run())
}

// run executes the CLI and returns the exit code, so deferred cleanup runs before exit.
func run() int {
	// Cancelling the context stops the current command and releases the run lock on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer cmd.Cleanup()

	err := cmd.Execute(ctx)
	if err == nil {
		return 0
	}

	errUtils.CaptureError(err, cmd.RunTags())

	os.Stderr.WriteString(errUtils.Format(err, errUtils.FormatterConfigFrom(cmd.Config())) + "\n")

	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	exitCode := errUtils.GetExitCode(err)
	log.Debug("Exiting with exit code", "code", exitCode)
	return exitCode
}
