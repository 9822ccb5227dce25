package compiler

import (
	"fmt"

	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/rules/primitive"
	"github.com/protoguard/protoguard/schema"
)

// buildEnumChecks compiles the enum rule kinds: eq/in/not_in (shared with
// numeric) plus defined_only, which needs the registry to
// resolve enumType to its declared value set. fieldName is used only to
// produce a readable compile error when enumType is unregistered.
func buildEnumChecks(fieldName, enumType string, set rules.Set, reg *schema.Registry) ([]ruleCheck, error) {
	checks, err := buildEnumEquality(set)
	if err != nil {
		return nil, err
	}
	if set.Has(rules.DefinedOnly) {
		enum, ok := reg.Enum(enumType)
		if !ok {
			return nil, fmt.Errorf("compiler: field %q references unregistered enum %q", fieldName, enumType)
		}
		values := make([]int32, len(enum.Values))
		for i, ev := range enum.Values {
			values[i] = ev.Number
		}
		for _, r := range set.Get(rules.DefinedOnly) {
			checks = append(checks, ruleCheck{
				constraintID: r.ConstraintID,
				message:      "Value is not a defined enum member",
				satisfied: func(v any) bool {
					x, ok := v.(int32)
					return ok && primitive.In(x, values)
				},
			})
		}
	}
	return checks, nil
}

// buildEnumEquality compiles eq/in/not_in over an enum's underlying
// int32 representation; ordering rules have no defined meaning for enums
// and are rejected at compile time.
func buildEnumEquality(set rules.Set) ([]ruleCheck, error) {
	for _, kind := range []rules.Kind{rules.Lt, rules.Lte, rules.Gt, rules.Gte} {
		if set.Has(kind) {
			return nil, fmt.Errorf("compiler: ordering rule %q is not valid for enum fields", kind)
		}
	}

	var checks []ruleCheck
	for _, r := range set.Get(rules.Eq) {
		b, ok := r.Payload.(rules.Bound)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Bound payload, got %T", r.ConstraintID, r.Payload)
		}
		want := int32(b.Value)
		checks = append(checks, ruleCheck{
			constraintID: r.ConstraintID,
			message:      boundMessage(rules.Eq),
			satisfied: func(v any) bool {
				x, ok := v.(int32)
				return ok && primitive.Eq(x, want)
			},
		})
	}
	for _, kind := range []rules.Kind{rules.In, rules.NotIn} {
		for _, r := range set.Get(kind) {
			cands, ok := r.Payload.(rules.Candidates)
			if !ok {
				return nil, fmt.Errorf("compiler: rule %s expects a rules.Candidates payload, got %T", r.ConstraintID, r.Payload)
			}
			values := numericCandidates[int32](cands)
			wantIn := kind == rules.In
			checks = append(checks, ruleCheck{
				constraintID: r.ConstraintID,
				message:      inMessage(wantIn),
				satisfied: func(v any) bool {
					x, ok := v.(int32)
					if !ok {
						return false
					}
					if wantIn {
						return primitive.In(x, values)
					}
					return primitive.NotIn(x, values)
				},
			})
		}
	}
	return checks, nil
}
