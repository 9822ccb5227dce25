package compiler

import (
	"fmt"

	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/rules/primitive"
)

// buildBoolChecks compiles the eq/in/not_in rules for a bool field.
// Ordering rules (lt/lte/gt/gte) have no meaning for bool and are a
// compile error rather than a silently-ignored rule.
func buildBoolChecks(set rules.Set) ([]ruleCheck, error) {
	for _, kind := range []rules.Kind{rules.Lt, rules.Lte, rules.Gt, rules.Gte} {
		if set.Has(kind) {
			return nil, fmt.Errorf("compiler: ordering rule %q is not valid for bool fields", kind)
		}
	}

	var checks []ruleCheck
	for _, r := range set.Get(rules.Eq) {
		b, ok := r.Payload.(rules.Bound)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Bound payload, got %T", r.ConstraintID, r.Payload)
		}
		want := b.Value != 0
		checks = append(checks, ruleCheck{
			constraintID: r.ConstraintID,
			message:      boundMessage(rules.Eq),
			satisfied: func(v any) bool {
				x, ok := v.(bool)
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
			values := make([]bool, len(cands.Numbers))
			for i, n := range cands.Numbers {
				values[i] = n != 0
			}
			wantIn := kind == rules.In
			checks = append(checks, ruleCheck{
				constraintID: r.ConstraintID,
				message:      inMessage(wantIn),
				satisfied: func(v any) bool {
					x, ok := v.(bool)
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
