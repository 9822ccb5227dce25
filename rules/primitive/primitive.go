// Package primitive implements the scalar comparators behind the numeric,
// bool, and enum rule kinds: lt/lte/gt/gte/eq/in/not_in. The compiler
// emits a direct call per field, one for each concrete Go type the schema
// maps to (int32, int64, uint32, uint64, float32, float64, bool, enum-as-
// int32) rather than routing through reflection at validate time: Go
// generics make the compiled path for each field a direct, inlinable
// comparison with no kind switch.
package primitive

// Ordered is the set of scalar kinds the ordering comparators (Lt, Lte, Gt,
// Gte) apply to. bool and enum only ever use the equality family below.
type Ordered interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func Lt[T Ordered](v, bound T) bool  { return v < bound }
func Lte[T Ordered](v, bound T) bool { return v <= bound }
func Gt[T Ordered](v, bound T) bool  { return v > bound }
func Gte[T Ordered](v, bound T) bool { return v >= bound }

// Eq reports exact equality (no epsilon) for comparable scalar kinds,
// including float32/float64. It is Go's built-in ==, not a bit-pattern
// comparison: NaN never equals anything (including another NaN), and
// +0/-0 compare equal.
func Eq[T comparable](v, want T) bool { return v == want }

// In reports whether v matches any candidate.
func In[T comparable](v T, candidates []T) bool {
	for _, c := range candidates {
		if v == c {
			return true
		}
	}
	return false
}

// NotIn reports whether v matches none of the candidates.
func NotIn[T comparable](v T, candidates []T) bool {
	return !In(v, candidates)
}
