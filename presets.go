package r3y

import "time"

// Pattern: Factory Function — each preset produces a ready-made schedule for
// a common use case, avoiding boilerplate configuration.

// StandardHTTPSchedule returns a schedule suitable for a typical HTTP client:
// 3 retries with 100ms exponential backoff capped at 2s.
func StandardHTTPSchedule() Strategy {
	return Limit(
		CapDelay(Exponential(100*time.Millisecond), 2*time.Second),
		3,
	)
}

// AggressiveSchedule returns a schedule for latency-sensitive clients:
// 5 retries with 50ms exponential jitter backoff capped at 1s.
func AggressiveSchedule() Strategy {
	return Limit(
		CapDelay(ExponentialJitter(50*time.Millisecond), time.Second),
		5,
	)
}

// PatientSchedule returns a schedule for slow-recovering dependencies such as
// databases coming back up: 10 retries with 1s linear backoff capped at 30s.
func PatientSchedule() Strategy {
	return Limit(CapDelay(Linear(time.Second), 30*time.Second), 10)
}
