package filter

import (
	"go.uber.org/zap"

	"github.com/protoguard/protoguard/runtime"
)

// Registry holds the single process-wide active Spec. Register mutates
// shared state and is not safe for concurrent callers; Process reads the
// slot and is only safe when no concurrent Register is in flight. This
// is the documented-unsafe default — ThreadSafeRegistry below is for
// callers that need Register to race safely against Process.
type Registry struct {
	spec *Spec

	// Logger, if set, receives Debug-level entries for every non-OK
	// Process outcome (Decode/NotRegistered/NoValidator/InvalidInput).
	// Validation itself never logs — no code path between PreDecodeHook
	// and the final Count comparison calls Logger — so a registered
	// Logger cannot put I/O on the hot per-rule path. nil disables logging
	// entirely.
	Logger *zap.Logger
}

// NewRegistry returns a Registry with no active Spec.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register sets spec as the active FilterSpec, replacing any previous
// one. At most one Spec is active at a time; calling Register
// concurrently with Process or another Register is undefined behavior.
func (r *Registry) Register(spec *Spec) {
	r.spec = spec
}

// Active returns the currently registered Spec, or nil if none.
func (r *Registry) Active() *Spec {
	return r.spec
}

func (r *Registry) logReject(code Code, reason string) {
	if r.Logger == nil {
		return
	}
	r.Logger.Debug("filter reject", zap.Int("code", int(code)), zap.String("reason", reason))
}

// Process decodes and validates bytes against r's active Spec, returning
// the wire-stable Code and the ViolationBuffer the validator reported
// into (nil if validation never ran). Call ProcessDetailed for the
// ungrouped Outcome.
func (r *Registry) Process(bytes []byte, isToServer bool) (Code, *runtime.ViolationBuffer) {
	res := process(r.spec, r.logReject, bytes, isToServer)
	return res.Code(), res.Buffer
}

// ProcessDetailed is Process without the wire-contract collapse: it
// returns the ungrouped Outcome so a caller can tell a wire decode error
// apart from a validation failure.
func (r *Registry) ProcessDetailed(bytes []byte, isToServer bool) Result {
	return process(r.spec, r.logReject, bytes, isToServer)
}
