package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// Func represents a function that can be retried.
type Func func() error

// Executor handles the retry logic.
type Executor struct {
	config schema.RetryConfig
	rand   *rand.Rand
}

// New creates a retry executor. Zero fields of config take DefaultConfig values.
func New(config schema.RetryConfig) *Executor {
	return &Executor{
		config: withDefaults(config),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type MaxElapsedTimeError struct {
	MaxElapsedTime time.Duration
	LastErr        error
}

func (e MaxElapsedTimeError) Error() string {
	return fmt.Sprintf("retry timeout exceeded after %v: %v", e.MaxElapsedTime, e.LastErr)
}

func (e MaxElapsedTimeError) Unwrap() error {
	return e.LastErr
}

var ErrUnexpected = errors.New("unexpected end of retry loop")

// Execute runs fn, retrying any error.
func (e *Executor) Execute(ctx context.Context, fn Func) error {
	return e.ExecuteWithPredicate(ctx, fn, RetryOnAnyError)
}

// ExecuteWithPredicate runs fn, retrying the errors shouldRetry accepts.
// With a single attempt the error of fn is returned as is.
func (e *Executor) ExecuteWithPredicate(ctx context.Context, fn Func, shouldRetry func(error) bool) error {
	startTime := time.Now()
	var lastErr error

	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		if attempt > 1 && time.Since(startTime) > e.config.MaxElapsedTime {
			return MaxElapsedTimeError{MaxElapsedTime: e.config.MaxElapsedTime, LastErr: lastErr}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if e.config.MaxAttempts == 1 || !shouldRetry(lastErr) {
			return lastErr
		}

		if attempt == e.config.MaxAttempts {
			return fmt.Errorf("max attempts (%d) exceeded, last error: %w", e.config.MaxAttempts, lastErr)
		}

		delay := e.calculateDelay(attempt)
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", errors.Join(ctx.Err(), lastErr))
		case <-time.After(delay):
		}
	}
	return ErrUnexpected
}

const jitterFlipChance = 0.5

func (e *Executor) calculateDelay(attempt int) time.Duration {
	var delay time.Duration

	switch e.config.BackoffStrategy {
	case schema.BackoffLinear:
		delay = time.Duration(float64(e.config.InitialDelay) * float64(attempt))
	case schema.BackoffExponential:
		delay = time.Duration(float64(e.config.InitialDelay) * math.Pow(e.config.Multiplier, float64(attempt-1)))
	default:
		delay = e.config.InitialDelay
	}

	if delay > e.config.MaxDelay {
		delay = e.config.MaxDelay
	}

	if e.config.RandomJitter {
		jitter := time.Duration(e.rand.Float64() * float64(delay) * 0.1) // 10%
		if e.rand.Float64() < jitterFlipChance {
			delay += jitter
		} else {
			delay -= jitter
		}
		if delay < 0 {
			delay = 0
		}
	}

	return delay
}

// WithPredicate runs fn with config, or with DefaultConfig when config is nil,
// retrying the errors shouldRetry accepts.
func WithPredicate(ctx context.Context, config *schema.RetryConfig, fn Func, shouldRetry func(error) bool) error {
	if config == nil {
		temp := DefaultConfig()
		config = &temp
	}
	return New(*config).ExecuteWithPredicate(ctx, fn, shouldRetry)
}

const (
	defaultInitialDelay   = 1 * time.Second
	defaultMaxDelay       = 30 * time.Second
	defaultMaxElapsedTime = 30 * time.Minute
	defaultMultiplier     = 2.0
)

// DefaultConfig is a single attempt: nothing is retried unless a task asks for it.
func DefaultConfig() schema.RetryConfig {
	return schema.RetryConfig{
		MaxAttempts:     1,
		BackoffStrategy: schema.BackoffExponential,
		InitialDelay:    defaultInitialDelay,
		MaxDelay:        defaultMaxDelay,
		RandomJitter:    true,
		Multiplier:      defaultMultiplier,
		MaxElapsedTime:  defaultMaxElapsedTime,
	}
}

func withDefaults(config schema.RetryConfig) schema.RetryConfig {
	def := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.BackoffStrategy == "" {
		config.BackoffStrategy = def.BackoffStrategy
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = def.InitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = def.MaxDelay
	}
	if config.Multiplier <= 0 {
		config.Multiplier = def.Multiplier
	}
	if config.MaxElapsedTime <= 0 {
		config.MaxElapsedTime = def.MaxElapsedTime
	}
	return config
}

// RetryOnAnyError retries on any error.
var RetryOnAnyError = func(error) bool { return true }
