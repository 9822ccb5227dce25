package compiler

import (
	"fmt"

	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/schema"
	"github.com/protoguard/protoguard/wellknown"
)

const (
	anyTypeName       = "google.protobuf.Any"
	timestampTypeName = "google.protobuf.Timestamp"
)

// isWellKnown reports whether messageType is one of the two well-known
// types the compiler gives dedicated rule support rather than walking
// as an ordinary nested message.
func isWellKnown(messageType string) bool {
	return messageType == anyTypeName || messageType == timestampTypeName
}

// buildWellKnownChecks dispatches a google.protobuf.Any or
// google.protobuf.Timestamp field to its dedicated rule builder.
func buildWellKnownChecks(f *schema.Field, opts Options) ([]ruleCheck, error) {
	switch f.MessageType {
	case anyTypeName:
		return buildAnyChecks(f.Rules)
	case timestampTypeName:
		return buildTimestampChecks(f.Rules, opts.Clock)
	default:
		return nil, fmt.Errorf("not a well-known type: %q", f.MessageType)
	}
}

// buildAnyChecks compiles any.in/any.not_in for a field whose
// MessageType is google.protobuf.Any. The field's raw stored value is a
// wellknown.Any rather than a *value.Message, since Any has no declared
// fields of its own for the compiler to walk.
func buildAnyChecks(set rules.Set) ([]ruleCheck, error) {
	var checks []ruleCheck
	for _, r := range set.Get(rules.AnyIn) {
		urls, ok := r.Payload.(rules.TypeURLs)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.TypeURLs payload, got %T", r.ConstraintID, r.Payload)
		}
		allowed := urls.URLs
		checks = append(checks, ruleCheck{r.ConstraintID, "Any type_url is not in the allowed set", func(v any) bool {
			a, ok := v.(wellknown.Any)
			return ok && a.InTypeURL(allowed)
		}})
	}
	for _, r := range set.Get(rules.AnyNotIn) {
		urls, ok := r.Payload.(rules.TypeURLs)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.TypeURLs payload, got %T", r.ConstraintID, r.Payload)
		}
		denied := urls.URLs
		checks = append(checks, ruleCheck{r.ConstraintID, "Any type_url is in the denied set", func(v any) bool {
			a, ok := v.(wellknown.Any)
			return ok && a.NotInTypeURL(denied)
		}})
	}
	return checks, nil
}

// buildTimestampChecks compiles timestamp.gt_now/lt_now/within
// against clk, so the compiled validator never calls time.Now directly.
func buildTimestampChecks(set rules.Set, clk wellknown.Clock) ([]ruleCheck, error) {
	var checks []ruleCheck
	for _, r := range set.Get(rules.TimestampGtNow) {
		checks = append(checks, ruleCheck{r.ConstraintID, "Timestamp must be after now", func(v any) bool {
			ts, ok := v.(wellknown.Timestamp)
			return ok && wellknown.GtNow(ts, clk)
		}})
	}
	for _, r := range set.Get(rules.TimestampLtNow) {
		checks = append(checks, ruleCheck{r.ConstraintID, "Timestamp must be before now", func(v any) bool {
			ts, ok := v.(wellknown.Timestamp)
			return ok && wellknown.LtNow(ts, clk)
		}})
	}
	for _, r := range set.Get(rules.TimestampWithin) {
		d, ok := r.Payload.(rules.Duration)
		if !ok {
			return nil, fmt.Errorf("compiler: rule %s expects a rules.Duration payload, got %T", r.ConstraintID, r.Payload)
		}
		want := d.D
		checks = append(checks, ruleCheck{r.ConstraintID, "Timestamp is not within the allowed window of now", func(v any) bool {
			ts, ok := v.(wellknown.Timestamp)
			return ok && wellknown.Within(ts, want, clk)
		}})
	}
	return checks, nil
}
