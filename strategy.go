package r3y

import (
	"math"
	"math/rand/v2"
	"time"
)

// Strategy is a source of successive retry delays.
//
// Pattern: Strategy — swap delay schedules (constant, exponential, linear,
// jitter, explicit lists) without changing retry logic. Delays returns a
// fresh [Cursor] so that one Strategy value can configure many independent
// retried operations.
type Strategy interface {
	// Delays returns a new cursor positioned before the first delay.
	Delays() Cursor
}

// Cursor walks a single schedule of delays. The driver obtains one cursor at
// construction and advances it at most once per retry; ok == false signals
// that the schedule is exhausted and is terminal.
type Cursor interface {
	// Next returns the next delay. ok is false when no delay remains.
	Next() (d time.Duration, ok bool)
}

// ---------------------------------------------------------------------------
// Func adapters
// ---------------------------------------------------------------------------

// StrategyFunc adapts an ordinary function into a [Strategy].
type StrategyFunc func() Cursor

// Delays calls the underlying function.
func (f StrategyFunc) Delays() Cursor { return f() }

// CursorFunc adapts an ordinary function into a [Cursor].
type CursorFunc func() (time.Duration, bool)

// Next calls the underlying function.
func (f CursorFunc) Next() (time.Duration, bool) { return f() }

// ---------------------------------------------------------------------------
// Delays — explicit finite schedule
// ---------------------------------------------------------------------------

// delaysStrategy yields a fixed list of delays, then exhausts.
type delaysStrategy struct {
	ds []time.Duration
}

func (s *delaysStrategy) Delays() Cursor {
	i := 0
	return CursorFunc(func() (time.Duration, bool) {
		if i >= len(s.ds) {
			return 0, false
		}
		d := s.ds[i]
		i++
		return d, true
	})
}

// Delays returns a finite [Strategy] that yields exactly the given delays in
// order. Delays() with no arguments is the empty schedule: the action runs
// once and is never retried.
func Delays(ds ...time.Duration) Strategy {
	// Copy to avoid aliasing the caller's slice.
	cp := make([]time.Duration, len(ds))
	copy(cp, ds)

	return &delaysStrategy{ds: cp}
}

// ---------------------------------------------------------------------------
// Constant
// ---------------------------------------------------------------------------

// constantStrategy yields the same delay forever.
type constantStrategy struct {
	d time.Duration
}

func (s *constantStrategy) Delays() Cursor {
	d := s.d
	return CursorFunc(func() (time.Duration, bool) { return d, true })
}

// Constant returns an infinite [Strategy] that always yields the fixed delay
// d. Compose with [Limit] to bound the number of retries.
func Constant(d time.Duration) Strategy {
	return &constantStrategy{d: d}
}

// ---------------------------------------------------------------------------
// Exponential
// ---------------------------------------------------------------------------

// exponentialStrategy yields base * 2^n for n = 0, 1, 2, ...
type exponentialStrategy struct {
	base time.Duration
}

func (s *exponentialStrategy) Delays() Cursor {
	n := 0
	return CursorFunc(func() (time.Duration, bool) {
		d := time.Duration(float64(s.base) * math.Pow(2, float64(n)))
		n++
		return d, true
	})
}

// Exponential returns an infinite [Strategy] whose delay doubles with each
// retry: base * 2^n.
func Exponential(base time.Duration) Strategy {
	return &exponentialStrategy{base: base}
}

// ---------------------------------------------------------------------------
// Linear
// ---------------------------------------------------------------------------

// linearStrategy yields step * (n + 1) for n = 0, 1, 2, ...
type linearStrategy struct {
	step time.Duration
}

func (s *linearStrategy) Delays() Cursor {
	n := 0
	return CursorFunc(func() (time.Duration, bool) {
		n++
		return s.step * time.Duration(n), true
	})
}

// Linear returns an infinite [Strategy] whose delay increases linearly:
// step * (n + 1).
func Linear(step time.Duration) Strategy {
	return &linearStrategy{step: step}
}

// ---------------------------------------------------------------------------
// ExponentialJitter
// ---------------------------------------------------------------------------

// exponentialJitterStrategy yields a random duration in [0, base * 2^n].
type exponentialJitterStrategy struct {
	base time.Duration
}

func (s *exponentialJitterStrategy) Delays() Cursor {
	n := 0
	return CursorFunc(func() (time.Duration, bool) {
		max := int64(float64(s.base) * math.Pow(2, float64(n)))
		n++
		if max <= 0 {
			return 0, true
		}
		return time.Duration(rand.Int64N(max + 1)), true
	})
}

// ExponentialJitter returns an infinite [Strategy] whose delay is a random
// duration uniformly distributed in [0, base * 2^n]. This prevents
// thundering-herd problems by spreading retries across time.
func ExponentialJitter(base time.Duration) Strategy {
	return &exponentialJitterStrategy{base: base}
}

// ---------------------------------------------------------------------------
// Combinators
// ---------------------------------------------------------------------------

// limitStrategy truncates an inner schedule to at most n delays.
type limitStrategy struct {
	inner Strategy
	n     int
}

func (s *limitStrategy) Delays() Cursor {
	cur := s.inner.Delays()
	left := s.n
	return CursorFunc(func() (time.Duration, bool) {
		if left <= 0 {
			return 0, false
		}
		left--
		return cur.Next()
	})
}

// Limit truncates s to at most n delays, turning an infinite schedule into a
// finite one. n <= 0 yields the empty schedule.
func Limit(s Strategy, n int) Strategy {
	return &limitStrategy{inner: s, n: n}
}

// capStrategy clamps each delay of an inner schedule to a maximum.
type capStrategy struct {
	inner Strategy
	max   time.Duration
}

func (s *capStrategy) Delays() Cursor {
	cur := s.inner.Delays()
	return CursorFunc(func() (time.Duration, bool) {
		d, ok := cur.Next()
		if ok && d > s.max {
			d = s.max
		}
		return d, ok
	})
}

// CapDelay clamps every delay yielded by s to at most max.
func CapDelay(s Strategy, max time.Duration) Strategy {
	return &capStrategy{inner: s, max: max}
}
