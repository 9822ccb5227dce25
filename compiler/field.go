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

// buildScalarRuleChecks dispatches a field's rule Set to the rule-kind
// builder for its schema.Kind. This is the one place Kind decides which
// package's comparators get wired in; every builder downstream already
// knows its own concrete Go type.
func buildScalarRuleChecks(fieldName string, kind schema.Kind, enumType string, set rules.Set, reg *schema.Registry) ([]ruleCheck, error) {
	switch kind {
	case schema.KindString:
		return buildStringChecks(set)
	case schema.KindBytes:
		return buildBytesChecks(set)
	case schema.KindBool:
		return buildBoolChecks(set)
	case schema.KindEnum:
		return buildEnumChecks(fieldName, enumType, set, reg)
	default:
		return buildNumericChecks(kind, set)
	}
}

// buildFieldValidator compiles one declared field (not a oneof member;
// those are compiled once per group by buildOneofCheck) into a
// fieldValidator, routing to the repeated or singular builder.
func buildFieldValidator(bc *buildCtx, f *schema.Field) (fieldValidator, error) {
	if f.Label == schema.LabelRepeated {
		return buildRepeatedField(bc, f)
	}
	return buildSingularFieldValidator(bc, f)
}

// buildSingularFieldValidator routes a non-repeated field to the
// builder matching its StorageMode, folding Presence (single-optional-
// with-presence) into the pointer-based builder even when
// Storage says StorageInlineFixed, since presence-by-nil-pointer is a
// cardinality concern independent of where the backing bytes live.
func buildSingularFieldValidator(bc *buildCtx, f *schema.Field) (fieldValidator, error) {
	switch f.Storage {
	case schema.StorageStreamedCallback:
		return buildStreamedFieldValidator(bc, f)
	case schema.StoragePointerHeap:
		return buildPointerFieldValidator(bc, f)
	default:
		if f.Presence {
			return buildPointerFieldValidator(bc, f)
		}
		return buildInlineFieldValidator(bc, f)
	}
}

// buildInlineFieldValidator compiles a single-required field. It has no
// "required" check: a field missing from the decoded value (or a nil
// nested message) is skipped without a violation.
func buildInlineFieldValidator(bc *buildCtx, f *schema.Field) (fieldValidator, error) {
	name := f.Name

	if f.Kind == schema.KindMessage && isWellKnown(f.MessageType) {
		checks, err := buildWellKnownChecks(f, bc.opts)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		return func(ctx *runtime.Context, v *value.Message, _ *callback.Bridge) {
			raw, ok := v.Get(name)
			if !ok {
				return
			}
			if !ctx.PushField(name) {
				return
			}
			defer ctx.PopField()
			runRuleChecks(ctx, checks, raw)
		}, nil
	}

	if f.Kind == schema.KindMessage {
		msgType := f.MessageType
		return func(ctx *runtime.Context, v *value.Message, bridge *callback.Bridge) {
			raw, ok := v.Get(name)
			if !ok {
				return
			}
			nested, ok := raw.(*value.Message)
			if !ok || nested == nil {
				return
			}
			if !ctx.PushField(name) {
				return
			}
			defer ctx.PopField()
			if validator := bc.validators[msgType]; validator != nil {
				validator.run(ctx, nested, bridge)
			}
		}, nil
	}

	checks, err := buildScalarRuleChecks(f.Name, f.Kind, f.EnumType, f.Rules, bc.registry)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	return func(ctx *runtime.Context, v *value.Message, _ *callback.Bridge) {
		raw, ok := v.Get(name)
		if !ok {
			return
		}
		if !ctx.PushField(name) {
			return
		}
		defer ctx.PopField()
		runRuleChecks(ctx, checks, raw)
	}, nil
}

// buildPointerFieldValidator compiles a single-optional-with-presence
// or pointer-with-heap field: absence (a nil pointer) is either a
// "required" violation or a silent skip, and every other rule only
// runs once the value is known present.
func buildPointerFieldValidator(bc *buildCtx, f *schema.Field) (fieldValidator, error) {
	name := f.Name
	requiredRules := f.Rules.Get(rules.Required)
	hasRequired := len(requiredRules) > 0
	var requiredID string
	if hasRequired {
		requiredID = requiredRules[0].ConstraintID
	}

	if f.Kind == schema.KindMessage && isWellKnown(f.MessageType) {
		checks, err := buildWellKnownChecks(f, bc.opts)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		return func(ctx *runtime.Context, v *value.Message, _ *callback.Bridge) {
			raw, ok := v.Get(name)
			val, present := dereferenceScalar(raw)
			if !ok || !present {
				if hasRequired {
					if !ctx.PushField(name) {
						return
					}
					ctx.Add(requiredID, "Field is required")
					ctx.PopField()
				}
				return
			}
			if !ctx.PushField(name) {
				return
			}
			defer ctx.PopField()
			runRuleChecks(ctx, checks, val)
		}, nil
	}

	if f.Kind == schema.KindMessage {
		msgType := f.MessageType
		return func(ctx *runtime.Context, v *value.Message, bridge *callback.Bridge) {
			raw, _ := v.Get(name)
			nested, _ := raw.(*value.Message)
			if nested == nil {
				if hasRequired {
					if !ctx.PushField(name) {
						return
					}
					ctx.Add(requiredID, "Field is required")
					ctx.PopField()
				}
				return
			}
			if !ctx.PushField(name) {
				return
			}
			defer ctx.PopField()
			if validator := bc.validators[msgType]; validator != nil {
				validator.run(ctx, nested, bridge)
			}
		}, nil
	}

	checks, err := buildScalarRuleChecks(f.Name, f.Kind, f.EnumType, f.Rules, bc.registry)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	return func(ctx *runtime.Context, v *value.Message, _ *callback.Bridge) {
		raw, ok := v.Get(name)
		var val any
		present := false
		if ok {
			val, present = dereferenceScalar(raw)
		}
		if !present {
			if hasRequired {
				if !ctx.PushField(name) {
					return
				}
				ctx.Add(requiredID, "Field is required")
				ctx.PopField()
			}
			return
		}
		if !ctx.PushField(name) {
			return
		}
		defer ctx.PopField()
		runRuleChecks(ctx, checks, val)
	}, nil
}

// buildStreamedFieldValidator compiles a streamed-callback field:
// restricted to string/bytes, read through the Bridge by field name
// instead of off the decoded value.Message. Absence collapses required
// into a violation and every other rule into a silent skip, matching
// the pointer builder's absence handling.
func buildStreamedFieldValidator(bc *buildCtx, f *schema.Field) (fieldValidator, error) {
	if f.Kind != schema.KindString && f.Kind != schema.KindBytes {
		return nil, fmt.Errorf("field %q: streamed-callback storage is only valid for string/bytes fields", f.Name)
	}
	name := f.Name
	requiredRules := f.Rules.Get(rules.Required)
	hasRequired := len(requiredRules) > 0
	var requiredID string
	if hasRequired {
		requiredID = requiredRules[0].ConstraintID
	}

	checks, err := buildScalarRuleChecks(f.Name, f.Kind, "", f.Rules, bc.registry)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	isString := f.Kind == schema.KindString

	return func(ctx *runtime.Context, _ *value.Message, bridge *callback.Bridge) {
		var data []byte
		var present bool
		if bridge != nil {
			data, present = bridge.Read(name)
		}
		if !present {
			if hasRequired {
				if !ctx.PushField(name) {
					return
				}
				ctx.Add(requiredID, "Field is required")
				ctx.PopField()
			}
			return
		}
		if !ctx.PushField(name) {
			return
		}
		defer ctx.PopField()
		var val any
		if isString {
			val = string(data)
		} else {
			val = data
		}
		runRuleChecks(ctx, checks, val)
	}, nil
}

// dereferenceScalar unwraps a pointer-valued field's raw stored value,
// reporting false for a nil pointer (absent) or a nil raw value.
func dereferenceScalar(raw any) (any, bool) {
	if raw == nil {
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Ptr {
		return raw, true
	}
	if rv.IsNil() {
		return nil, false
	}
	return rv.Elem().Interface(), true
}
