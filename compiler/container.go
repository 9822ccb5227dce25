package compiler

import (
	"fmt"
	"reflect"

	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/rules/repeated"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/schema"
)

// containerCheck evaluates a container-level rule (min_items, max_items,
// unique) against the whole repeated value, reporting violations itself
// since unique must name the offending index rather than reuse the
// generic ruleCheck single-bool shape.
type containerCheck func(ctx *runtime.Context, items reflect.Value)

// buildContainerChecks compiles min_items/max_items/unique for a
// repeated field. items is passed as a reflect.Value because the
// compiler builds one closure per field regardless of element type;
// unlike the per-element scalar comparators, container size and
// uniqueness checks only need len() and a generic comparable key, so a
// single reflect-driven implementation here is simpler than N
// generic instantiations for no measurable cost (container checks run
// once per field, not once per byte of wire input).
func buildContainerChecks(f *schema.Field) ([]containerCheck, error) {
	var checks []containerCheck

	for _, r := range f.Rules.Get(rules.MinItems) {
		l, ok := r.Payload.(rules.Length)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Length payload, got %T", r.ConstraintID, r.Payload)
		}
		n := l.N
		id, msg := r.ConstraintID, "Repeated field has too few items"
		checks = append(checks, func(ctx *runtime.Context, items reflect.Value) {
			if !repeated.MinItems(asAnySlice(items), n) {
				ctx.Add(id, msg)
			}
		})
	}
	for _, r := range f.Rules.Get(rules.MaxItems) {
		l, ok := r.Payload.(rules.Length)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Length payload, got %T", r.ConstraintID, r.Payload)
		}
		n := l.N
		id, msg := r.ConstraintID, "Repeated field has too many items"
		checks = append(checks, func(ctx *runtime.Context, items reflect.Value) {
			if !repeated.MaxItems(asAnySlice(items), n) {
				ctx.Add(id, msg)
			}
		})
	}
	for _, r := range f.Rules.Get(rules.Unique) {
		id, msg := r.ConstraintID, "Repeated field contains duplicate values"
		checks = append(checks, func(ctx *runtime.Context, items reflect.Value) {
			dup, ok := repeated.Unique(asComparableKeys(items))
			if ok {
				return
			}
			if !ctx.PushIndex(dup) {
				return
			}
			ctx.Add(id, msg)
			ctx.PopIndex()
		})
	}
	return checks, nil
}

// asAnySlice copies a reflect.Value slice of any element type into
// []any, the shape rules/repeated.MinItems/MaxItems is generic over.
func asAnySlice(items reflect.Value) []any {
	out := make([]any, items.Len())
	for i := range out {
		out[i] = items.Index(i).Interface()
	}
	return out
}

// asComparableKeys renders each element as a comparable key suitable
// for rules/repeated.Unique. []byte elements (not itself comparable)
// are converted to string; every other supported element kind is
// already comparable.
func asComparableKeys(items reflect.Value) []any {
	out := make([]any, items.Len())
	for i := range out {
		v := items.Index(i).Interface()
		if b, ok := v.([]byte); ok {
			out[i] = string(b)
			continue
		}
		out[i] = v
	}
	return out
}
