package compiler

import (
	"bytes"
	"fmt"

	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/rules/format"
	"github.com/protoguard/protoguard/rules/strfmt"
)

// buildBytesChecks compiles the rule kinds valid for a KindBytes field.
// ascii is the only format predicate that applies to bytes; it is
// evaluated by treating the payload as a string of raw bytes, which is
// exactly what an ASCII range check means regardless of encoding.
func buildBytesChecks(set rules.Set) ([]ruleCheck, error) {
	var checks []ruleCheck

	for _, r := range set.Get(rules.MinLen) {
		l, ok := r.Payload.(rules.Length)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Length payload, got %T", r.ConstraintID, r.Payload)
		}
		n := l.N
		checks = append(checks, ruleCheck{r.ConstraintID, "Bytes too short", func(v any) bool {
			b, ok := v.([]byte)
			return ok && strfmt.BytesMinLen(b, n)
		}})
	}
	for _, r := range set.Get(rules.MaxLen) {
		l, ok := r.Payload.(rules.Length)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Length payload, got %T", r.ConstraintID, r.Payload)
		}
		n := l.N
		checks = append(checks, ruleCheck{r.ConstraintID, "Bytes too long", func(v any) bool {
			b, ok := v.([]byte)
			return ok && strfmt.BytesMaxLen(b, n)
		}})
	}
	for _, r := range set.Get(rules.Eq) {
		bt, ok := r.Payload.(rules.BytesText)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.BytesText payload, got %T", r.ConstraintID, r.Payload)
		}
		want := bt.B
		checks = append(checks, ruleCheck{r.ConstraintID, "Bytes do not match the required value", func(v any) bool {
			b, ok := v.([]byte)
			return ok && strfmt.BytesEq(b, want)
		}})
	}
	for _, r := range set.Get(rules.Prefix) {
		bt, ok := r.Payload.(rules.BytesText)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.BytesText payload, got %T", r.ConstraintID, r.Payload)
		}
		want := bt.B
		checks = append(checks, ruleCheck{r.ConstraintID, "Bytes missing required prefix", func(v any) bool {
			b, ok := v.([]byte)
			return ok && strfmt.BytesPrefix(b, want)
		}})
	}
	for _, r := range set.Get(rules.Suffix) {
		bt, ok := r.Payload.(rules.BytesText)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.BytesText payload, got %T", r.ConstraintID, r.Payload)
		}
		want := bt.B
		checks = append(checks, ruleCheck{r.ConstraintID, "Bytes missing required suffix", func(v any) bool {
			b, ok := v.([]byte)
			return ok && strfmt.BytesSuffix(b, want)
		}})
	}
	for _, r := range set.Get(rules.Contains) {
		bt, ok := r.Payload.(rules.BytesText)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.BytesText payload, got %T", r.ConstraintID, r.Payload)
		}
		want := bt.B
		checks = append(checks, ruleCheck{r.ConstraintID, "Bytes missing required substring", func(v any) bool {
			b, ok := v.([]byte)
			return ok && strfmt.BytesContains(b, want)
		}})
	}
	for _, r := range set.Get(rules.Ascii) {
		checks = append(checks, ruleCheck{r.ConstraintID, "Bytes contain non-ASCII values", func(v any) bool {
			b, ok := v.([]byte)
			return ok && format.Ascii(string(b))
		}})
	}
	for _, kind := range []rules.Kind{rules.In, rules.NotIn} {
		for _, r := range set.Get(kind) {
			cands, ok := r.Payload.(rules.Candidates)
			if !ok {
				return nil, fmt.Errorf("compiler: rule %s expects a rules.Candidates payload, got %T", r.ConstraintID, r.Payload)
			}
			values := make([][]byte, len(cands.Strings))
			for i, s := range cands.Strings {
				values[i] = []byte(s)
			}
			wantIn := kind == rules.In
			checks = append(checks, ruleCheck{r.ConstraintID, inMessage(wantIn), func(v any) bool {
				b, ok := v.([]byte)
				if !ok {
					return false
				}
				for _, cand := range values {
					if bytes.Equal(b, cand) {
						return wantIn
					}
				}
				return !wantIn
			}})
		}
	}
	return checks, nil
}
