package compiler

import (
	"fmt"

	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/rules/format"
	"github.com/protoguard/protoguard/rules/primitive"
	"github.com/protoguard/protoguard/rules/strfmt"
)

// buildStringChecks compiles every string/bytes rule kind that applies to
// a KindString field: min_len/max_len/eq/prefix/suffix/contains/ascii,
// the format predicates, and in/not_in.
func buildStringChecks(set rules.Set) ([]ruleCheck, error) {
	var checks []ruleCheck

	for _, r := range set.Get(rules.MinLen) {
		l, ok := r.Payload.(rules.Length)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Length payload, got %T", r.ConstraintID, r.Payload)
		}
		n := l.N
		checks = append(checks, ruleCheck{r.ConstraintID, "String too short", func(v any) bool {
			s, ok := v.(string)
			return ok && strfmt.MinLen(s, n)
		}})
	}
	for _, r := range set.Get(rules.MaxLen) {
		l, ok := r.Payload.(rules.Length)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Length payload, got %T", r.ConstraintID, r.Payload)
		}
		n := l.N
		checks = append(checks, ruleCheck{r.ConstraintID, "String too long", func(v any) bool {
			s, ok := v.(string)
			return ok && strfmt.MaxLen(s, n)
		}})
	}
	for _, r := range set.Get(rules.Eq) {
		t, ok := r.Payload.(rules.Text)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Text payload, got %T", r.ConstraintID, r.Payload)
		}
		want := t.S
		checks = append(checks, ruleCheck{r.ConstraintID, "String does not match the required value", func(v any) bool {
			s, ok := v.(string)
			return ok && strfmt.Eq(s, want)
		}})
	}
	for _, r := range set.Get(rules.Prefix) {
		t, ok := r.Payload.(rules.Text)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Text payload, got %T", r.ConstraintID, r.Payload)
		}
		want := t.S
		checks = append(checks, ruleCheck{r.ConstraintID, "String missing required prefix", func(v any) bool {
			s, ok := v.(string)
			return ok && strfmt.Prefix(s, want)
		}})
	}
	for _, r := range set.Get(rules.Suffix) {
		t, ok := r.Payload.(rules.Text)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Text payload, got %T", r.ConstraintID, r.Payload)
		}
		want := t.S
		checks = append(checks, ruleCheck{r.ConstraintID, "String missing required suffix", func(v any) bool {
			s, ok := v.(string)
			return ok && strfmt.Suffix(s, want)
		}})
	}
	for _, r := range set.Get(rules.Contains) {
		t, ok := r.Payload.(rules.Text)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Text payload, got %T", r.ConstraintID, r.Payload)
		}
		want := t.S
		checks = append(checks, ruleCheck{r.ConstraintID, "String missing required substring", func(v any) bool {
			s, ok := v.(string)
			return ok && strfmt.Contains(s, want)
		}})
	}
	for _, r := range set.Get(rules.Ascii) {
		checks = append(checks, ruleCheck{r.ConstraintID, "String contains non-ASCII bytes", func(v any) bool {
			s, ok := v.(string)
			return ok && format.Ascii(s)
		}})
	}
	for _, r := range set.Get(rules.Email) {
		checks = append(checks, ruleCheck{r.ConstraintID, "String is not a valid email address", func(v any) bool {
			s, ok := v.(string)
			return ok && format.Email(s)
		}})
	}
	for _, r := range set.Get(rules.Hostname) {
		checks = append(checks, ruleCheck{r.ConstraintID, "String is not a valid hostname", func(v any) bool {
			s, ok := v.(string)
			return ok && format.Hostname(s)
		}})
	}
	for _, r := range set.Get(rules.IP) {
		checks = append(checks, ruleCheck{r.ConstraintID, "String is not a valid IP address", func(v any) bool {
			s, ok := v.(string)
			return ok && format.IP(s)
		}})
	}
	for _, r := range set.Get(rules.IPv4) {
		checks = append(checks, ruleCheck{r.ConstraintID, "String is not a valid IPv4 address", func(v any) bool {
			s, ok := v.(string)
			return ok && format.IPv4(s)
		}})
	}
	for _, r := range set.Get(rules.IPv6) {
		checks = append(checks, ruleCheck{r.ConstraintID, "String is not a valid IPv6 address", func(v any) bool {
			s, ok := v.(string)
			return ok && format.IPv6(s)
		}})
	}
	for _, kind := range []rules.Kind{rules.In, rules.NotIn} {
		for _, r := range set.Get(kind) {
			cands, ok := r.Payload.(rules.Candidates)
			if !ok {
				return nil, fmt.Errorf("compiler: rule %s expects a rules.Candidates payload, got %T", r.ConstraintID, r.Payload)
			}
			values := cands.Strings
			wantIn := kind == rules.In
			checks = append(checks, ruleCheck{r.ConstraintID, inMessage(wantIn), func(v any) bool {
				s, ok := v.(string)
				if !ok {
					return false
				}
				if wantIn {
					return primitive.In(s, values)
				}
				return primitive.NotIn(s, values)
			}})
		}
	}
	return checks, nil
}
