// Package envelope implements the three filter entry-point dispatch
// strategies: a trivial single-type mode, a oneof-discriminated
// wrapper, and a google.protobuf.Any-discriminated wrapper. Each mode
// wraps a *compiler.Program rather than reimplementing validation — the
// dispatch logic here only decides which compiled Validator runs and how
// its violations' paths are prefixed.
package envelope

import (
	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/compiler"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/value"
)

// Root is the trivial envelope mode: the filter decodes exactly one
// message type and validates it directly, with no dispatch step at all.
type Root struct {
	Program     *compiler.Program
	MessageType string
}

// Validate runs the compiled validator for r.MessageType against v.
func (r *Root) Validate(v *value.Message, buf *runtime.ViolationBuffer, bridge *callback.Bridge) (bool, error) {
	return r.Program.Validate(r.MessageType, v, buf, bridge)
}
