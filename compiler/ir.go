package compiler

import (
	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/value"
)

// fieldValidator is the compiled check for one declared field, oneof
// group, or message-level cross-field rule. It pushes/pops its own
// path segment(s) as needed and evaluates every rule built for it. It
// takes no return value: early-exit is communicated through
// ctx.Aborted() and structural path overflow through ctx.Overflowed(),
// both sticky for the call — every fieldValidator must check them before
// doing further work, the way a hand-written emitted check would test a
// single shared flag rather than thread a bool through every call site.
//
// bridge carries the callback.Bridge installed for streamed-callback
// fields; it is nil when the schema declares none, and every
// other storage mode ignores it.
type fieldValidator func(ctx *runtime.Context, v *value.Message, bridge *callback.Bridge)

// ruleCheck is one compiled rule: given the field's already-extracted Go
// value, report whether it is satisfied. The dispatch on the field's
// Kind happens once, while building this closure, not on every
// invocation — the compile-time equivalent of per-type emission, done
// with a Go closure instead of a text template.
type ruleCheck struct {
	constraintID string
	message      string
	satisfied    func(v any) bool
}

// runRuleChecks evaluates checks against raw in the order they were
// built: grouped by rule kind in the builder's fixed kind order, with
// same-kind rules in declaration order. It records a violation for each
// that fails. It stops early if
// ctx.Aborted() becomes true partway through (EarlyExit fired on a
// preceding rule), leaving later rules unevaluated rather than merely
// unreported.
func runRuleChecks(ctx *runtime.Context, checks []ruleCheck, raw any) {
	for _, c := range checks {
		if ctx.Aborted() {
			return
		}
		if !c.satisfied(raw) {
			ctx.Add(c.constraintID, c.message)
		}
	}
}

// boundMessage renders the short, stable message text for an ordering or
// equality rule — short and stable, suitable for logging rather than
// end-user display.
func boundMessage(kind rules.Kind) string {
	switch kind {
	case rules.Lt:
		return "Value must be < limit"
	case rules.Lte:
		return "Value must be <= limit"
	case rules.Gt:
		return "Value must be > limit"
	case rules.Gte:
		return "Value must be >= limit"
	default:
		return "Value must equal the required constant"
	}
}

// inMessage renders the short message text for an in/not_in rule.
func inMessage(wantIn bool) string {
	if wantIn {
		return "Value must be one of the allowed values"
	}
	return "Value must not be one of the disallowed values"
}
