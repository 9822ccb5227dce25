package filter

import (
	"sync"

	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/value"
)

// smallValuePool recycles value.Message values for Spec.Size at or below
// a Spec's threshold, standing in for a "stack if size <= threshold,
// heap otherwise" allocation strategy: a pooled, zeroed buffer serves
// small messages without protoguard pretending to control Go's escape
// analysis directly. Larger specs always allocate fresh.
var smallValuePool = sync.Pool{New: func() any { return value.NewMessage() }}

func acquireValue(size, threshold int) (*value.Message, func()) {
	if size > 0 && size <= threshold {
		v := smallValuePool.Get().(*value.Message)
		return v, func() { smallValuePool.Put(v) }
	}
	return value.NewMessage(), func() {}
}

// Result is what process computes before a caller collapses it onto the
// wire-stable Code: the ungrouped Outcome, plus the ViolationBuffer when
// a validator actually ran.
type Result struct {
	Outcome Outcome
	Buffer  *runtime.ViolationBuffer
}

// Code is the wire-stable outcome.
func (r Result) Code() Code { return r.Outcome.Code() }

// process implements the seven-step decode-then-validate algorithm,
// recording the ungrouped Outcome before Result.Code collapses wire
// error and validation failure onto Code.Decode.
func process(spec *Spec, logReject func(Code, string), bytes []byte, isToServer bool) Result {
	// Step 1: reject immediately on null or zero-length input.
	if len(bytes) == 0 {
		report(logReject, InvalidInput, "empty input")
		return Result{Outcome: OutcomeInvalidInput}
	}

	// Step 2: reject on no active registration.
	if spec == nil {
		report(logReject, NotRegistered, "no active filter spec")
		return Result{Outcome: OutcomeNotRegistered}
	}

	// Step 3: allocate a zero-initialized value buffer, released on
	// every return path below.
	v, release := acquireValue(spec.Size, spec.threshold())
	defer release()
	*v = *value.NewMessage()

	// Step 4: pre-decode hook, installing callback bridges if needed.
	var bridge *callback.Bridge
	if spec.PreDecodeHook != nil {
		bridge = callback.NewBridge()
		spec.PreDecodeHook(bridge, isToServer)
	}

	// Step 5: decode.
	if spec.Codec == nil {
		report(logReject, Decode, "no codec configured")
		return Result{Outcome: OutcomeDecodeError}
	}
	if err := spec.Codec.Decode(bytes, spec.Descriptor, v); err != nil {
		report(logReject, Decode, "wire decode failed")
		return Result{Outcome: OutcomeDecodeError}
	}

	// Step 6: reject if no validator is registered.
	if spec.Validate == nil {
		report(logReject, NoValidator, "spec has no Validate func")
		return Result{Outcome: OutcomeNoValidator}
	}

	// Step 7: fresh ViolationBuffer, invoke the validator.
	buf := runtime.NewViolationBuffer(spec.MaxViolations)
	ok, err := spec.Validate(v, buf, bridge)
	if err != nil {
		report(logReject, Decode, "validator error")
		return Result{Outcome: OutcomeValidationFailed, Buffer: buf}
	}
	if !ok {
		report(logReject, Decode, "constraint violation")
		return Result{Outcome: OutcomeValidationFailed, Buffer: buf}
	}
	return Result{Outcome: OutcomeOK, Buffer: buf}
}

func report(logReject func(Code, string), code Code, reason string) {
	if logReject != nil {
		logReject(code, reason)
	}
}
