package compiler

import "github.com/protoguard/protoguard/wellknown"

// Options configures a compiled Program: a small struct of knobs plus a
// function returning the documented defaults.
type Options struct {
	// MaxViolations is the violation cap for callers that allocate the
	// ViolationBuffer, such as filter.Spec.MaxViolations. Program.Validate
	// reports into the buffer its caller passes and does not read this
	// field. Zero means unbounded, useful for tests that want to see
	// every violation regardless of the production cap.
	MaxViolations int

	// EarlyExit, when true, makes every compiled validator stop at the
	// first violation.
	EarlyExit bool

	// StackBufferThreshold is the message-size cutoff (bytes) at or below
	// which the filter reuses a pooled decode buffer instead of allocating
	// a fresh one; it reaches the filter through filter.Spec.Threshold.
	// It has no effect on compilation itself; it
	// rides along on Options because both the compiler and the filter
	// share one schema-derived configuration surface.
	StackBufferThreshold int

	// Clock backs every timestamp.gt_now/lt_now/within rule compiled
	// from the registry. Defaults to wellknown.SystemClock; tests
	// substitute a wellknown.FakeClock for a deterministic "now".
	Clock wellknown.Clock
}

// DefaultOptions returns the documented defaults: unbounded violations, no
// early exit, a 1 KiB stack-buffer threshold, and the real wall clock.
func DefaultOptions() Options {
	return Options{
		MaxViolations:        0,
		EarlyExit:            false,
		StackBufferThreshold: 1024,
		Clock:                wellknown.SystemClock{},
	}
}
