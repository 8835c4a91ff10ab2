package r3y

import (
	"errors"
	"time"
)

// ---------------------------------------------------------------------------
// Error classification wrappers
// ---------------------------------------------------------------------------.

type (
	// transientError marks a wrapped error as transient (retriable) and
	// optionally carries an explicit delay to use for the next retry.
	transientError struct {
		err      error
		after    time.Duration
		hasAfter bool
	}

	// permanentError marks a wrapped error as permanent (non-retriable).
	permanentError struct {
		err error
	}
)

func (e *transientError) Error() string { return "transient: " + e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func (e *permanentError) Error() string { return "permanent: " + e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Transient wraps err to mark it as a transient (retriable) error.
// Returns nil if err is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}

	return &transientError{err: err}
}

// TransientAfter wraps err to mark it as transient and requests that the next
// retry be reported with the explicit delay d instead of the driver's
// accumulated delay. A server-provided Retry-After value is the typical
// source of d. Returns nil if err is nil.
func TransientAfter(err error, d time.Duration) error {
	if err == nil {
		return nil
	}

	return &transientError{err: err, after: d, hasAfter: true}
}

// Permanent wraps err to mark it as a permanent (non-retriable) error.
// Returns nil if err is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &permanentError{err: err}
}

// IsTransient reports whether err is transient. Unclassified (unwrapped)
// errors are treated as transient. Returns false for nil.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	// Explicitly permanent errors are not transient.
	var pe *permanentError

	return !errors.As(err, &pe)
}

// IsPermanent reports whether err was explicitly marked as permanent.
// Returns false for nil and for unclassified errors.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}

	var pe *permanentError

	return errors.As(err, &pe)
}

// RetryAfter returns the explicit retry delay attached with [TransientAfter],
// if any. The second return value reports whether a delay was attached.
func RetryAfter(err error) (time.Duration, bool) {
	var te *transientError
	if errors.As(err, &te) && te.hasAfter {
		return te.after, true
	}

	return 0, false
}

// unclassify strips the classification wrapper from err, recovering the
// caller's own error. Terminal resolutions always surface the unclassified
// error; the driver never introduces an error kind of its own.
func unclassify(err error) error {
	switch e := err.(type) {
	case *transientError:
		return e.err
	case *permanentError:
		return e.err
	}

	return err
}
