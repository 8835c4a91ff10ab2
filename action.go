package r3y

import (
	"context"
	"time"
)

// Action is the retried operation. Each call to Run must start a fresh
// attempt, independent of the outcomes of earlier calls; the driver never
// reuses a prior attempt. Run classifies its own failures with [Transient],
// [TransientAfter], or [Permanent]; an unclassified error is treated as
// transient.
type Action[T any] interface {
	Run(ctx context.Context) (T, error)
}

// ActionFunc adapts an ordinary function into an [Action].
type ActionFunc[T any] func(ctx context.Context) (T, error)

// Run calls the underlying function.
func (f ActionFunc[T]) Run(ctx context.Context) (T, error) { return f(ctx) }

// Condition decides whether a transient error should be retried. It is called
// with the unclassified error, only for transient failures, and must not
// block. A nil Condition retries every transient error.
type Condition func(err error) bool

// Notify observes an error that is about to be retried together with the
// delay reported for that retry. It is called synchronously, once per retry,
// strictly before the corresponding wait begins, and must not block. A nil
// Notify is a no-op.
type Notify func(err error, delay time.Duration)
