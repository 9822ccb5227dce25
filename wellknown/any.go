// Package wellknown implements the two well-known message types the
// compiler gives first-class rule support: google.protobuf.Any and
// google.protobuf.Timestamp. Every other well-known type is validated the
// same way as an ordinary message — its fields, not its semantics, drive
// the compiled checks.
package wellknown

// Any mirrors google.protobuf.Any: a type_url naming the packed message's
// full type name, and the serialized bytes of that message.
type Any struct {
	TypeURL string
	Value   []byte
}

// InTypeURL reports whether a.TypeURL matches one of allowed.
func (a Any) InTypeURL(allowed []string) bool {
	for _, u := range allowed {
		if a.TypeURL == u {
			return true
		}
	}
	return false
}

// NotInTypeURL reports whether a.TypeURL matches none of denied.
func (a Any) NotInTypeURL(denied []string) bool {
	return !a.InTypeURL(denied)
}
