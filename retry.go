package r3y

import (
	"context"
	"log/slog"
	"time"
)

// driverConfig holds the optional configuration for the retry driver.
type driverConfig struct {
	clock  Clock        // nil means RealClock
	logger *slog.Logger // nil means no exhaustion logging
}

// Option configures the retry driver.
type Option func(*driverConfig)

// WithClock sets the clock used to realize retry waits. The default is
// [RealClock].
func WithClock(c Clock) Option {
	return func(cfg *driverConfig) {
		cfg.clock = c
	}
}

// WithLogger sets a logger that records a warning when the schedule is
// exhausted and the driver gives up. Retry behavior is identical with or
// without a logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *driverConfig) {
		cfg.logger = l
	}
}

// Pattern: Retry with Backoff — masks transient failures by re-invoking the
// action per a pluggable delay schedule; respects Permanent error
// classification to stop early.

// Do retries action per strategy until it succeeds, fails permanently, or the
// schedule runs out of delays. Every transient error is retried and no
// observer is invoked; see [DoIf] for the full contract.
func Do[T any](ctx context.Context, strategy Strategy, action Action[T], opts ...Option) (T, error) {
	return DoIf(ctx, strategy, action, nil, nil, opts...)
}

// DoNotify is [Do] with an observer: notify is invoked before each wait with
// the failing error and the delay reported for that retry.
func DoNotify[T any](ctx context.Context, strategy Strategy, action Action[T], notify Notify, opts ...Option) (T, error) {
	return DoIf(ctx, strategy, action, nil, notify, opts...)
}

// DoIf drives attempts at action until one resolves. It returns the action's
// value on success. On failure it returns the last error the action produced,
// with its classification wrapper stripped: a permanent error, a transient
// error rejected by condition, and a transient error that outlived the
// schedule all surface identically.
//
// A transient error carrying a [TransientAfter] delay overrides the delay
// reported to notify for that one retry; the length of the wait itself always
// comes from the strategy. Cancelling ctx while an attempt or a wait is in
// flight abandons it and returns ctx.Err() without invoking the action or
// notify again.
//
// A nil condition retries every transient error; a nil notify is a no-op.
func DoIf[T any](ctx context.Context, strategy Strategy, action Action[T], condition Condition, notify Notify, opts ...Option) (T, error) {
	var cfg driverConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.clock == nil {
		cfg.clock = RealClock{}
	}

	r := &retrier[T]{
		action:    action,
		cursor:    strategy.Delays(),
		condition: condition,
		notify:    notify,
		clock:     cfg.clock,
		logger:    cfg.logger,
	}

	return r.run(ctx)
}

// retrier drives attempts and waits for a single retried operation. It owns
// exactly one in-flight sub-operation at a time and alternates between two
// phases: an attempt in flight (the executing Action.Run call in run) and a
// wait in flight (the timer select in sleep). All fields are exclusively
// owned by the calling goroutine; a retrier is created per DoIf call and
// never shared.
type retrier[T any] struct {
	action    Action[T]
	cursor    Cursor
	condition Condition
	notify    Notify
	clock     Clock
	logger    *slog.Logger

	// delay is the accumulated-delay register: the value reported to notify
	// and used as the fallback when no TransientAfter delay is attached. See
	// the update order in run.
	delay time.Duration
}

func (r *retrier[T]) run(ctx context.Context) (T, error) {
	var zero T

	for {
		// Attempt phase.
		item, err := r.action.Run(ctx)
		if err == nil {
			return item, nil
		}

		cause := unclassify(err)

		if IsPermanent(err) {
			return zero, cause
		}

		if r.condition != nil && !r.condition(cause) {
			return zero, cause
		}

		// Delay reported for this retry: the explicit TransientAfter value if
		// present, else the register's current value (zero before the first
		// retry).
		reported := r.delay
		if after, ok := RetryAfter(err); ok {
			reported = after
		}

		next, ok := r.cursor.Next()
		if !ok {
			if r.logger != nil {
				r.logger.Warn(
					"ending retry: schedule reached its limit",
					slog.Any("error", cause),
				)
			}

			return zero, cause
		}

		if r.notify != nil {
			r.notify(cause, reported)
		}

		// Register update order is load-bearing: it becomes the reported
		// value plus the freshly drawn delay, while the wait itself uses the
		// drawn delay alone. After a retry with an explicit TransientAfter
		// the register matches neither the last wait nor a running sum.
		r.delay = reported + next

		// Wait phase.
		if werr := r.sleep(ctx, next); werr != nil {
			return zero, werr
		}
	}
}

// sleep blocks until a timer of duration d fires or ctx is done.
func (r *retrier[T]) sleep(ctx context.Context, d time.Duration) error {
	timer := r.clock.NewTimer(d)
	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
}
