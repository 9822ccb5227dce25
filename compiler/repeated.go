package compiler

import (
	"fmt"
	"reflect"

	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/schema"
	"github.com/protoguard/protoguard/value"
)

// buildRepeatedField compiles a LabelRepeated field into a fieldValidator
// that runs the container-level checks against the whole slice first,
// then walks elements in index order running either the nested message
// validator (KindMessage) or the element-level scalar checks carried in
// the field's "items" rule payload — container rules always run before
// element rules, whatever order the rules were declared in.
func buildRepeatedField(bc *buildCtx, f *schema.Field) (fieldValidator, error) {
	containerChecks, err := buildContainerChecks(f)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}

	if f.Kind == schema.KindMessage {
		return buildRepeatedMessageField(bc, f, containerChecks)
	}
	return buildRepeatedScalarField(bc, f, containerChecks)
}

func buildRepeatedMessageField(bc *buildCtx, f *schema.Field, containerChecks []containerCheck) (fieldValidator, error) {
	name, msgType := f.Name, f.MessageType
	return func(ctx *runtime.Context, v *value.Message, bridge *callback.Bridge) {
		raw, ok := v.Get(name)
		if !ok {
			return
		}
		elems, ok := raw.([]*value.Message)
		if !ok {
			return
		}
		if !ctx.PushField(name) {
			return
		}
		defer ctx.PopField()

		rv := reflect.ValueOf(elems)
		for _, cc := range containerChecks {
			if ctx.Aborted() {
				return
			}
			cc(ctx, rv)
		}
		if ctx.Aborted() {
			return
		}

		nested := bc.validators[msgType]
		for i, elem := range elems {
			if ctx.Aborted() {
				return
			}
			if !ctx.PushIndex(i) {
				return
			}
			if nested != nil {
				nested.run(ctx, elem, bridge)
			}
			ctx.PopIndex()
		}
	}, nil
}

func buildRepeatedScalarField(bc *buildCtx, f *schema.Field, containerChecks []containerCheck) (fieldValidator, error) {
	elemChecks, err := buildElementRuleChecks(bc, f)
	if err != nil {
		return nil, fmt.Errorf("field %q items: %w", f.Name, err)
	}
	name := f.Name

	return func(ctx *runtime.Context, v *value.Message, bridge *callback.Bridge) {
		raw, ok := v.Get(name)
		if !ok {
			return
		}
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice {
			return
		}
		if !ctx.PushField(name) {
			return
		}
		defer ctx.PopField()

		for _, cc := range containerChecks {
			if ctx.Aborted() {
				return
			}
			cc(ctx, rv)
		}
		if ctx.Aborted() {
			return
		}

		for i := 0; i < rv.Len(); i++ {
			if ctx.Aborted() {
				return
			}
			if !ctx.PushIndex(i) {
				return
			}
			runRuleChecks(ctx, elemChecks, rv.Index(i).Interface())
			ctx.PopIndex()
		}
	}, nil
}

// buildElementRuleChecks resolves the nested RuleSet carried by a
// repeated scalar field's "items" rule and compiles it exactly
// as a singular field's rules of the same Kind would be compiled.
func buildElementRuleChecks(bc *buildCtx, f *schema.Field) ([]ruleCheck, error) {
	itemRules := f.Rules.Get(rules.Items)
	if len(itemRules) == 0 {
		return nil, nil
	}
	payload, ok := itemRules[0].Payload.(rules.ItemsPayload)
	if !ok {
		return nil, fmt.Errorf("rule %s expects a rules.ItemsPayload payload, got %T", itemRules[0].ConstraintID, itemRules[0].Payload)
	}
	return buildScalarRuleChecks(f.Name, f.Kind, f.EnumType, payload.Rules, bc.registry)
}
