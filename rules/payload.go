package rules

import "time"

// Payload is a tagged-variant rule payload. Each Kind accepts exactly one
// concrete Payload type; the compiler is responsible for pairing them
// correctly when it builds a Rule, so the runtime never type-switches on an
// untyped pointer the way a reinterpret-cast based engine would. See
// DESIGN.md for the rationale behind this choice over a raw typed-pointer
// rule-data layout.
type Payload interface {
	isPayload()
}

// Bound carries the operand for lt/lte/gt/gte/eq on a scalar number. Values
// are normalized to float64 at compile time; float eq is exact (no epsilon)
// and uses Go's == on the field's float type, so +0 equals -0 and NaN
// equals nothing.
type Bound struct {
	Value float64
}

func (Bound) isPayload() {}

// Candidates carries the operand set for in/not_in, over numbers (as
// float64), strings, or enum numbers (as int64). The compiler normalizes
// every element to one of these before building the Rule.
type Candidates struct {
	Numbers []float64
	Strings []string
	Ints    []int64
}

func (Candidates) isPayload() {}

// Length carries the operand for min_len/max_len/min_items/max_items.
type Length struct {
	N uint32
}

func (Length) isPayload() {}

// Text carries the operand for string/bytes eq/prefix/suffix/contains.
type Text struct {
	S string
}

func (Text) isPayload() {}

// BytesText carries the operand for byte-slice eq/prefix/suffix/contains,
// kept distinct from Text because bytes comparisons must not assume UTF-8.
type BytesText struct {
	B []byte
}

func (BytesText) isPayload() {}

// ItemsPayload carries the nested RuleSet applied to each element of a
// repeated field.
type ItemsPayload struct {
	Rules Set
}

func (ItemsPayload) isPayload() {}

// FieldNames carries the operand for message-level mutex/at_least/requires
// rules, naming sibling fields by declared name.
type FieldNames struct {
	Names []string
}

func (FieldNames) isPayload() {}

// Duration carries the operand for timestamp.within.
type Duration struct {
	D time.Duration
}

func (Duration) isPayload() {}

// TypeURLs carries the allow/deny list for any.in / any.not_in.
type TypeURLs struct {
	URLs []string
}

func (TypeURLs) isPayload() {}

// None is used by rules that carry no operand (ascii, defined_only, unique,
// required, oneof_required).
type None struct{}

func (None) isPayload() {}
