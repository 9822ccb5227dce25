package compiler

import (
	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/schema"
	"github.com/protoguard/protoguard/value"
)

// buildOneofCheck compiles one oneof group into a fieldValidator: if
// oneof_required and no variant is set, that alone is a violation named
// at the group's own path. Otherwise, when a variant is set, dispatch
// delegates to that member's own singular-field validator, which pushes
// its own field-name path segment exactly as if it had been read
// directly off the message. Dispatch is a name-indexed lookup built
// once at compile time rather than a switch over a fixed variant set,
// since the schema may declare any number of members.
func buildOneofCheck(bc *buildCtx, msg *schema.Message, o schema.Oneof) (fieldValidator, error) {
	members := make(map[string]fieldValidator, len(o.Members))
	for _, name := range o.Members {
		f := msg.FieldByName(name)
		if f == nil {
			continue
		}
		fv, err := buildSingularFieldValidator(bc, f)
		if err != nil {
			return nil, err
		}
		members[name] = fv
	}

	oneofName := o.Name
	required := o.Required

	return func(ctx *runtime.Context, v *value.Message, bridge *callback.Bridge) {
		active, ok := v.OneofActive(oneofName)
		if !ok {
			if required {
				if !ctx.PushField(oneofName) {
					return
				}
				ctx.Add("oneof.required", "Exactly one member of this oneof must be set")
				ctx.PopField()
			}
			return
		}
		if fv, found := members[active]; found {
			fv(ctx, v, bridge)
		}
	}, nil
}
