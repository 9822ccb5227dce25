// Package value is the runtime message model: the language-neutral record
// tree a Codec decodes bytes into and a compiled Validator walks. It
// carries no wire-format or reflection-heavy struct tags — the compiler
// never needs a real generated Go type to validate against, only a
// Message's declared field names, stored in an explicit map so
// streamed-callback fields can be entirely absent from the tree without a
// zero-value ambiguity.
package value

import "reflect"

// Message is one decoded protobuf message value. Singular required fields
// store their native Go value directly (int32, int64, uint32, uint64,
// float32, float64, bool, string, []byte, *Message, int32 for enums).
// Singular optional-with-presence and pointer-with-heap fields store a
// pointer to that native value, or nil when absent. Repeated fields store
// a []T slice (T matching the element's native type). Oneof discriminator
// state is tracked separately via SetOneof/OneofActive: the active
// variant's value is still reachable through Get by its own field name.
type Message struct {
	fields      map[string]any
	oneofActive map[string]string
}

// NewMessage returns an empty Message ready for Set/SetOneof.
func NewMessage() *Message {
	return &Message{fields: make(map[string]any)}
}

// Set records v under name, overwriting any previous value.
func (m *Message) Set(name string, v any) {
	if m.fields == nil {
		m.fields = make(map[string]any)
	}
	m.fields[name] = v
}

// Get returns the value stored for name and whether it was ever set.
func (m *Message) Get(name string) (any, bool) {
	v, ok := m.fields[name]
	return v, ok
}

// Present reports whether name holds a value distinguishable from
// "unset". A field whose stored value is a non-pointer is always
// present once the key exists (single-required). A pointer-valued field
// (single-optional-with-presence, pointer-with-heap) is present only
// when the pointer is non-nil.
func (m *Message) Present(name string) bool {
	v, ok := m.fields[name]
	if !ok || v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		return !rv.IsNil()
	}
	return true
}

// SetOneof records fieldName as the active variant of the oneof group
// oneofName. An empty fieldName records "no variant set".
func (m *Message) SetOneof(oneofName, fieldName string) {
	if m.oneofActive == nil {
		m.oneofActive = make(map[string]string)
	}
	m.oneofActive[oneofName] = fieldName
}

// OneofActive returns the active member field name for oneofName and
// whether any variant is set at all.
func (m *Message) OneofActive(oneofName string) (string, bool) {
	name, ok := m.oneofActive[oneofName]
	return name, ok && name != ""
}
