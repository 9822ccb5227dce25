// Package filter implements the decode-then-validate packet filter
// pipeline: the glue between raw TCP/UDP bytes, a codec.Codec, and a
// compiled validator. It is the one place in this module that touches
// untrusted wire bytes directly.
package filter

import (
	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/codec"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/value"
)

// Code is a filter outcome, stable across the wire: callers that only
// care about accept/reject can compare against OK, and anything else is
// a reject. Decode deliberately overloads wire-format failure and
// constraint-violation failure onto the same value — this package keeps
// that collapse on the wire while recording which actually happened
// internally (see Outcome).
type Code int

const (
	// OK: decoded and valid.
	OK Code = 0
	// InvalidInput: nil or zero-length bytes.
	InvalidInput Code = -1
	// NotRegistered: no active FilterSpec/Candidate set.
	NotRegistered Code = -2
	// Decode: wire-format error, or the decoded value failed validation.
	Decode Code = -3
	// NoValidator: a FilterSpec was registered with a nil Validate func.
	NoValidator Code = -4
)

// ValidateFunc is the uniform shape every envelope mode is adapted to
// before it can back a Spec: decode already happened, v is populated, and
// the func reports pass/fail by appending to buf. bridge is nil unless
// the schema declares streamed-callback fields.
type ValidateFunc func(v *value.Message, buf *runtime.ViolationBuffer, bridge *callback.Bridge) (bool, error)

// PreDecodeHook lets the application install callback.Source values on
// bridge before Decode runs, and observe isToServer. A Spec may leave it
// nil if the schema declares no streamed fields.
type PreDecodeHook func(bridge *callback.Bridge, isToServer bool)

// Spec is the registration record: a descriptor handle for the wire
// decoder, the in-memory size of the message value (so Process can pick
// a stack or heap allocation), a validator adapter, and an optional
// pre-decode hook.
type Spec struct {
	Codec         codec.Codec
	Descriptor    codec.Descriptor
	Size          int
	Validate      ValidateFunc
	PreDecodeHook PreDecodeHook

	// Threshold overrides defaultStackBufferThreshold for this Spec. Zero
	// means "use the default." Callers backed by a compiler.Program
	// should pass program.Options().StackBufferThreshold here so the
	// filter layer and the compiled validator agree on one cutoff.
	Threshold int

	// MaxViolations caps the ViolationBuffer Process hands the validator,
	// typically program.Options().MaxViolations. Zero means unbounded.
	// Once the cap is reached further violations are dropped and the
	// buffer's Truncated flag is set.
	MaxViolations int
}

// defaultStackBufferThreshold is the default cutoff, matching
// compiler.DefaultOptions's StackBufferThreshold. Go does not let library
// code choose stack vs. heap directly — escape analysis does that — so
// Process's "stack" path reuses one pooled buffer at or below this size instead
// of allocating fresh, capturing the same "small allocations are cheap
// and short-lived" intent as an explicit stack/heap branch would.
const defaultStackBufferThreshold = 1024

func (s *Spec) threshold() int {
	if s.Threshold > 0 {
		return s.Threshold
	}
	return defaultStackBufferThreshold
}
