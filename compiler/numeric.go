package compiler

import (
	"fmt"

	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/rules/primitive"
	"github.com/protoguard/protoguard/schema"
)

// buildNumericChecks compiles the lt/lte/gt/gte/eq/in/not_in rules for a
// scalar numeric field into ruleChecks, each a direct call into
// rules/primitive instantiated for the field's concrete Go type. The
// dispatch on Kind happens exactly once, here, rather than inside the
// hot per-value path: a Go-generic instantiation chosen once per field
// instead of a reflect.Value-driven dispatch repeated on every call.
func buildNumericChecks(kind schema.Kind, set rules.Set) ([]ruleCheck, error) {
	switch kind {
	case schema.KindInt32:
		return buildOrdered(set, func(v any) (int32, bool) { x, ok := v.(int32); return x, ok })
	case schema.KindInt64:
		return buildOrdered(set, func(v any) (int64, bool) { x, ok := v.(int64); return x, ok })
	case schema.KindUint32:
		return buildOrdered(set, func(v any) (uint32, bool) { x, ok := v.(uint32); return x, ok })
	case schema.KindUint64:
		return buildOrdered(set, func(v any) (uint64, bool) { x, ok := v.(uint64); return x, ok })
	case schema.KindFloat32:
		return buildOrdered(set, func(v any) (float32, bool) { x, ok := v.(float32); return x, ok })
	case schema.KindFloat64:
		return buildOrdered(set, func(v any) (float64, bool) { x, ok := v.(float64); return x, ok })
	default:
		return nil, fmt.Errorf("compiler: numeric rules are not valid for kind %v", kind)
	}
}

// buildOrdered builds every lt/lte/gt/gte/eq/in/not_in rule in set for a
// scalar type T, given an extractor that type-asserts the field's raw
// any value to T.
func buildOrdered[T primitive.Ordered](set rules.Set, assert func(any) (T, bool)) ([]ruleCheck, error) {
	var checks []ruleCheck
	for _, kind := range []rules.Kind{rules.Lt, rules.Lte, rules.Gt, rules.Gte} {
		for _, r := range set.Get(kind) {
			b, ok := r.Payload.(rules.Bound)
			if !ok {
				return nil, fmt.Errorf("compiler: rule %s expects a rules.Bound payload, got %T", r.ConstraintID, r.Payload)
			}
			bound := T(b.Value)
			op := orderedOp[T](kind)
			checks = append(checks, ruleCheck{
				constraintID: r.ConstraintID,
				message:      boundMessage(kind),
				satisfied: func(v any) bool {
					x, ok := assert(v)
					return ok && op(x, bound)
				},
			})
		}
	}
	for _, r := range set.Get(rules.Eq) {
		b, ok := r.Payload.(rules.Bound)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Bound payload, got %T", r.ConstraintID, r.Payload)
		}
		want := T(b.Value)
		checks = append(checks, ruleCheck{
			constraintID: r.ConstraintID,
			message:      boundMessage(rules.Eq),
			satisfied: func(v any) bool {
				x, ok := assert(v)
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
			values := numericCandidates[T](cands)
			wantIn := kind == rules.In
			checks = append(checks, ruleCheck{
				constraintID: r.ConstraintID,
				message:      inMessage(wantIn),
				satisfied: func(v any) bool {
					x, ok := assert(v)
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

func orderedOp[T primitive.Ordered](kind rules.Kind) func(T, T) bool {
	switch kind {
	case rules.Lt:
		return primitive.Lt[T]
	case rules.Lte:
		return primitive.Lte[T]
	case rules.Gt:
		return primitive.Gt[T]
	default:
		return primitive.Gte[T]
	}
}

// numericCandidates converts a rules.Candidates payload to []T, preferring
// the exact Ints set (built for int64/uint64/enum values that would lose
// precision through a float64 round-trip) and falling back to Numbers.
func numericCandidates[T primitive.Ordered](c rules.Candidates) []T {
	if len(c.Ints) > 0 {
		out := make([]T, len(c.Ints))
		for i, n := range c.Ints {
			out[i] = T(n)
		}
		return out
	}
	out := make([]T, len(c.Numbers))
	for i, n := range c.Numbers {
		out[i] = T(n)
	}
	return out
}
