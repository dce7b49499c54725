package errors

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder enriches an error with hints, safe context and an exit code.
//
//	err := errUtils.Build(errUtils.ErrRunLocked).
//		WithHintf("Wait for the run holding %s to finish", lockPath).
//		WithContext("application", cfg.Application).
//		Err()
type ErrorBuilder struct {
	err       error
	hints     []string
	context   map[string]any
	exitCode  *int
	sentinels []error
}

// Build starts a builder from a base error.
// Leaf errors (no wrapped cause) are marked as sentinels so errors.Is keeps matching them.
func Build(err error) *ErrorBuilder {
	builder := &ErrorBuilder{err: err}
	if err != nil && errors.UnwrapOnce(err) == nil {
		builder.sentinels = append(builder.sentinels, err)
	}
	return builder
}

func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hints = append(b.hints, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.hints = append(b.hints, fmt.Sprintf(format, args...))
	return b
}

// WithExplanation attaches a longer detail, shown in verbose output.
func (b *ErrorBuilder) WithExplanation(explanation string) *ErrorBuilder {
	b.err = errors.WithDetail(b.err, explanation)
	return b
}

// WithContext adds a key/value pair that is safe to report (no PII).
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	if b.context == nil {
		b.context = make(map[string]any)
	}
	b.context[key] = value
	return b
}

func (b *ErrorBuilder) WithExitCode(code int) *ErrorBuilder {
	b.exitCode = &code
	return b
}

// WithFailureContext records the task, host, roles or config key of the typed
// failure in the error chain as safe context.
func (b *ErrorBuilder) WithFailureContext() *ErrorBuilder {
	for key, value := range failureFields(b.err) {
		b.WithContext(key, value)
	}
	return b
}

func (b *ErrorBuilder) WithSentinel(sentinel error) *ErrorBuilder {
	b.sentinels = append(b.sentinels, sentinel)
	return b
}

// Err returns the enriched error, or nil if the base error was nil.
func (b *ErrorBuilder) Err() error {
	if b.err == nil {
		return nil
	}

	err := b.err
	for _, hint := range b.hints {
		err = errors.WithHint(err, hint)
	}

	if len(b.context) > 0 {
		keys := slices.Sorted(maps.Keys(b.context))
		pairs := make([]string, len(keys))
		values := make([]any, len(keys))
		for i, key := range keys {
			pairs[i] = key + "=%s"
			values[i] = errors.Safe(b.context[key])
		}
		err = errors.WithSafeDetails(err, strings.Join(pairs, " "), values...)
	}

	// Marks go on last so they sit at the top of the chain.
	for _, sentinel := range b.sentinels {
		err = errors.Mark(err, sentinel)
	}

	if b.exitCode != nil {
		err = WithExitCode(err, *b.exitCode)
	}
	return err
}
