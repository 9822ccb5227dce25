package rules

// Rule pairs one constraint Kind with the stable ConstraintID surfaced in
// violation reports (e.g. "int32.gte", "string.min_len", "repeated.unique")
// and the typed Payload the Kind expects.
type Rule struct {
	Kind         Kind
	ConstraintID string
	Payload      Payload
}

// Set is the per-field mapping from Kind to the (possibly several, in
// declaration order) rules of that kind. Declaration order is preserved so
// the compiler can tie-break same-kind rules by the order they were added.
type Set map[Kind][]Rule

// NewSet returns an empty RuleSet ready for Add.
func NewSet() Set {
	return make(Set)
}

// Add appends r to the set under r.Kind, preserving declaration order.
func (s Set) Add(r Rule) {
	s[r.Kind] = append(s[r.Kind], r)
}

// Has reports whether the set carries at least one rule of kind k.
func (s Set) Has(k Kind) bool {
	return len(s[k]) > 0
}

// Get returns the rules declared for kind k, in declaration order.
func (s Set) Get(k Kind) []Rule {
	return s[k]
}
