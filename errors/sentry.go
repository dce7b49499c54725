package errors

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"

	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

const (
	// CloseSentryTimeout is how long pending events may take to flush on shutdown.
	CloseSentryTimeout = 2 * time.Second

	maxBreadcrumbs = 100
)

var sentryEnabled bool

// InitializeSentry sets up error reporting. It is a no-op unless `errors.sentry.enabled` is set.
func InitializeSentry(config *schema.SentryConfig) error {
	if config == nil || !config.Enabled {
		return nil
	}

	sampleRate := config.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.DSN,
		Environment:      config.Environment,
		Release:          config.Release,
		Debug:            config.Debug,
		SampleRate:       sampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		for key, value := range config.Tags {
			scope.SetTag(key, value)
		}
	})

	sentryEnabled = true
	return nil
}

func CloseSentry() {
	if !sentryEnabled {
		return
	}
	sentry.Flush(CloseSentryTimeout)
}

// CaptureError reports an error, tagged with the task and host of a command or role
// failure and with the run tags (application, branch). Safe to call when Sentry was
// never initialized.
func CaptureError(err error, tags map[string]string) {
	if err == nil || !sentryEnabled {
		return
	}

	event, extraDetails := errors.BuildSentryReport(err)
	if event.Tags == nil {
		event.Tags = make(map[string]string)
	}
	hub := sentry.CurrentHub()

	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range extraDetails {
			if contextMap, ok := value.(map[string]any); ok {
				scope.SetContext(key, contextMap)
			}
		}

		for key, value := range failureFields(err) {
			event.Tags["deploy."+key] = value
		}
		for key, value := range tags {
			event.Tags["deploy."+key] = value
		}

		for _, hint := range errors.GetAllHints(err) {
			scope.AddBreadcrumb(&sentry.Breadcrumb{
				Type:     "info",
				Category: "hint",
				Message:  hint,
				Level:    sentry.LevelInfo,
			}, maxBreadcrumbs)
		}

		hub.CaptureEvent(event)
	})
}
