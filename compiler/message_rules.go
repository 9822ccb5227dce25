package compiler

import (
	"fmt"

	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/schema"
	"github.com/protoguard/protoguard/value"
)

// buildMessageRuleChecks compiles msg.MessageRules: mutex, at_least,
// requires. Each evaluates value.Message.Present over sibling field
// names rather than reading the fields' actual values — presence alone
// is the entire contract for these cross-field rules.
func buildMessageRuleChecks(msg *schema.Message) ([]fieldValidator, error) {
	var out []fieldValidator

	for _, r := range msg.MessageRules.Get(rules.Mutex) {
		names, err := fieldNames(r)
		if err != nil {
			return nil, err
		}
		id := r.ConstraintID
		out = append(out, func(ctx *runtime.Context, v *value.Message, _ *callback.Bridge) {
			set := 0
			for _, n := range names {
				if v.Present(n) {
					set++
				}
			}
			if set > 1 {
				ctx.Add(id, "At most one of these fields may be set")
			}
		})
	}
	for _, r := range msg.MessageRules.Get(rules.AtLeast) {
		names, err := fieldNames(r)
		if err != nil {
			return nil, err
		}
		id := r.ConstraintID
		out = append(out, func(ctx *runtime.Context, v *value.Message, _ *callback.Bridge) {
			for _, n := range names {
				if v.Present(n) {
					return
				}
			}
			ctx.Add(id, "At least one of these fields must be set")
		})
	}
	for _, r := range msg.MessageRules.Get(rules.Requires) {
		names, err := fieldNames(r)
		if err != nil {
			return nil, err
		}
		if len(names) < 1 {
			continue
		}
		trigger, rest := names[0], names[1:]
		id := r.ConstraintID
		out = append(out, func(ctx *runtime.Context, v *value.Message, _ *callback.Bridge) {
			if !v.Present(trigger) {
				return
			}
			for _, n := range rest {
				if !v.Present(n) {
					ctx.Add(id, "Fields required alongside "+trigger+" are missing")
					return
				}
			}
		})
	}
	return out, nil
}

func fieldNames(r rules.Rule) ([]string, error) {
	fn, ok := r.Payload.(rules.FieldNames)
	if !ok {
		return nil, fmt.Errorf("compiler: rule %s expects a rules.FieldNames payload, got %T", r.ConstraintID, r.Payload)
	}
	return fn.Names, nil
}
