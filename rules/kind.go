// Package rules defines the closed constraint taxonomy consumed by the
// compiler and evaluated by the runtime engine. The set of Kinds is fixed:
// the compiler never registers new ones at run time.
package rules

// Kind identifies one constraint from the closed taxonomy in the offline
// model. Kinds are grouped by the field class they apply to.
type Kind string

const (
	// Numeric (scalar) kinds.
	Lt    Kind = "lt"
	Lte   Kind = "lte"
	Gt    Kind = "gt"
	Gte   Kind = "gte"
	Eq    Kind = "eq"
	In    Kind = "in"
	NotIn Kind = "not_in"

	// String/bytes kinds. Eq/In/NotIn reuse the numeric constants above;
	// the remainder are string-specific.
	MinLen   Kind = "min_len"
	MaxLen   Kind = "max_len"
	Prefix   Kind = "prefix"
	Suffix   Kind = "suffix"
	Contains Kind = "contains"
	Ascii    Kind = "ascii"
	Email    Kind = "email"
	Hostname Kind = "hostname"
	IP       Kind = "ip"
	IPv4     Kind = "ipv4"
	IPv6     Kind = "ipv6"

	// Enum kinds (Eq/In/NotIn shared with numeric).
	DefinedOnly Kind = "defined_only"

	// Repeated (container-level) kinds.
	MinItems Kind = "min_items"
	MaxItems Kind = "max_items"
	Unique   Kind = "unique"
	Items    Kind = "items"

	// Message-level kinds.
	Required      Kind = "required"
	OneofRequired Kind = "oneof_required"
	Mutex         Kind = "mutex"
	AtLeast       Kind = "at_least"
	Requires      Kind = "requires"

	// Well-known-type kinds.
	AnyIn             Kind = "any.in"
	AnyNotIn          Kind = "any.not_in"
	TimestampGtNow    Kind = "timestamp.gt_now"
	TimestampLtNow    Kind = "timestamp.lt_now"
	TimestampWithin   Kind = "timestamp.within"
)
