package protoguard

import (
	"fmt"

	"github.com/protoguard/protoguard/runtime"
)

// ValidationError reports every constraint violation collected during one
// Validate call. It implements error so compiled validators compose with
// ordinary Go error handling.
type ValidationError struct {
	Violations []runtime.Violation
	Truncated  bool
}

// ErrorFrom converts a ViolationBuffer into a *ValidationError, or nil
// when the buffer holds no violations. The violations are copied out of
// the buffer so the returned error stays valid after the buffer's next
// Init.
func ErrorFrom(buf *runtime.ViolationBuffer) error {
	if buf == nil || !buf.HasAny() {
		return nil
	}
	violations := make([]runtime.Violation, buf.Count())
	copy(violations, buf.Violations())
	return &ValidationError{Violations: violations, Truncated: buf.Truncated()}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "no violations found"
	}
	first := e.Violations[0]
	if len(e.Violations) == 1 {
		return fmt.Sprintf("%s: %s", first.Path, first.Message)
	}
	suffix := fmt.Sprintf(" (and %d more)", len(e.Violations)-1)
	if e.Truncated {
		suffix += ", truncated"
	}
	return fmt.Sprintf("%s: %s%s", first.Path, first.Message, suffix)
}
