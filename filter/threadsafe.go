package filter

import (
	"sync"

	"go.uber.org/zap"

	"github.com/protoguard/protoguard/runtime"
)

// ThreadSafeRegistry replaces the global mutable registration slot with
// a mutex-guarded handle: Register and Process both take the RWMutex,
// so a writer replacing the active Spec can never race with a reader
// mid-decode. It is not the default Registry because Registry's
// documented contract is the unsafe global slot; this type is the safer
// alternative offered alongside it for callers that need one.
type ThreadSafeRegistry struct {
	mu     sync.RWMutex
	spec   *Spec
	Logger *zap.Logger
}

// NewThreadSafeRegistry returns a ThreadSafeRegistry with no active Spec.
func NewThreadSafeRegistry() *ThreadSafeRegistry {
	return &ThreadSafeRegistry{}
}

// Register replaces the active Spec under the write lock.
func (r *ThreadSafeRegistry) Register(spec *Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spec = spec
}

// Active returns the currently registered Spec under the read lock.
func (r *ThreadSafeRegistry) Active() *Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.spec
}

func (r *ThreadSafeRegistry) logReject(code Code, reason string) {
	if r.Logger == nil {
		return
	}
	r.Logger.Debug("filter reject", zap.Int("code", int(code)), zap.String("reason", reason))
}

// Process decodes and validates bytes against the Spec active at the
// moment of the call, taking a snapshot under the read lock so a
// concurrent Register cannot mutate the Spec mid-decode.
func (r *ThreadSafeRegistry) Process(bytes []byte, isToServer bool) (Code, *runtime.ViolationBuffer) {
	res := r.ProcessDetailed(bytes, isToServer)
	return res.Code(), res.Buffer
}

// ProcessDetailed is Process without the wire-contract collapse: it
// returns the ungrouped Outcome so a caller can tell a wire decode error
// apart from a validation failure.
func (r *ThreadSafeRegistry) ProcessDetailed(bytes []byte, isToServer bool) Result {
	r.mu.RLock()
	spec := r.spec
	r.mu.RUnlock()
	return process(spec, r.logReject, bytes, isToServer)
}
