// Package schema models the offline description of a set of protobuf
// files, messages, fields, oneofs, enums, and services the compiler
// consumes. It never reads wire bytes; that is the codec package's job.
//
// There is no codegen or .proto parsing in this package by design; a
// Registry is built programmatically (by a generated bridge, or by hand
// in tests) and handed to compiler.Compile.
package schema

import (
	"fmt"

	"github.com/protoguard/protoguard/rules"
)

// Kind is a field's wire-level value kind.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt32
	KindInt64
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindBytes
	KindEnum
	KindMessage
)

// Label distinguishes singular, repeated, and oneof-member fields.
type Label int

const (
	LabelSingular Label = iota
	LabelRepeated
	LabelOneofMember
)

// StorageMode selects how the compiler represents a variable-length field
// at runtime.
type StorageMode int

const (
	// StorageInlineFixed stores the value in a fixed-capacity array sized
	// at compile time; excess input is a length violation, not an overflow.
	StorageInlineFixed StorageMode = iota
	// StorageStreamedCallback reads through a callback.Source installed by
	// the application before decode; the message struct holds no backing
	// storage for the field at all.
	StorageStreamedCallback
	// StoragePointerHeap stores a pointer to a heap-allocated buffer,
	// filled in by the codec at decode time.
	StoragePointerHeap
)

// Field describes one message field.
type Field struct {
	Name        string
	Number      int32
	Kind        Kind
	Label       Label
	MessageType string // valid when Kind == KindMessage: the referenced Message.Name
	EnumType    string // valid when Kind == KindEnum: the referenced Enum.Name
	OneofIndex  int    // valid when Label == LabelOneofMember: index into Message.Oneofs
	Storage     StorageMode
	Rules       rules.Set // field-level constraints declared on this field

	// Presence distinguishes the two LabelSingular cardinalities:
	// false is single-required (always holds a value once decoded), true
	// is single-optional-with-presence (absence is meaningful and is
	// represented at runtime by a nil pointer in the decoded value.Message).
	// Meaningless when Label == LabelRepeated.
	Presence bool
}

// Oneof describes a oneof group: the mutually-exclusive set of member
// fields it governs, named by field name.
type Oneof struct {
	Name     string
	Members  []string // Field.Name values, in declaration order
	Required bool     // oneof_required: no variant set is a violation
}

// EnumValue is one named, numbered value of an Enum.
type EnumValue struct {
	Name   string
	Number int32
}

// Enum describes a closed, numbered set of named values.
type Enum struct {
	Name   string
	Values []EnumValue
}

// Message describes one message type: its fields (in declaration order),
// its oneof groups, and the nested enums it declares.
type Message struct {
	Name   string
	Fields []Field
	Oneofs []Oneof
	Enums  []Enum

	// MessageRules holds message-level rules that span more than one field:
	// mutex, at_least, requires. Each rule's Payload is a rules.FieldNames
	// naming the fields it governs. The compiler reads no other kinds from
	// this set: required is declared in a Field's Rules and oneof_required
	// through Oneof.Required.
	MessageRules rules.Set
}

// FieldByName returns the field named name, or nil if no such field
// exists.
func (m *Message) FieldByName(name string) *Field {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i]
		}
	}
	return nil
}

// Method describes one filter_udp/filter_tcp dispatch entry: its request
// type and its response type, both of which the service-derived filters
// decode and validate.
type Method struct {
	Name         string
	RequestType  string
	ResponseType string // may be empty (e.g. fire-and-forget methods)
	Transport    Transport
}

// Transport distinguishes the two packet filter surfaces.
type Transport int

const (
	TransportUDP Transport = iota
	TransportTCP
)

// Service groups the Methods a FilterSpec dispatch table is built from.
type Service struct {
	Name    string
	Methods []Method
}

// File is one compilation unit: its messages, enums, and services.
type File struct {
	Path     string
	Messages []Message
	Enums    []Enum
	Services []Service
}

// Registry is the complete offline model handed to compiler.Compile: every
// Message and Enum reachable by name across every added File, plus the
// Services that drive filter dispatch table construction.
type Registry struct {
	files    []*File
	messages map[string]*Message
	enums    map[string]*Enum
	fileOf   map[string]*File
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		messages: make(map[string]*Message),
		enums:    make(map[string]*Enum),
		fileOf:   make(map[string]*File),
	}
}

// AddFile registers f's messages and enums. It returns an error if any
// name collides with one already registered, or if a oneof's Members
// reference a field that either does not exist or is not itself tagged
// Label == LabelOneofMember with the matching OneofIndex — the
// oneof-membership invariant the compiler relies on.
func (r *Registry) AddFile(f *File) error {
	for i := range f.Messages {
		m := &f.Messages[i]
		if _, exists := r.messages[m.Name]; exists {
			return fmt.Errorf("schema: duplicate message %q", m.Name)
		}
		if err := validateOneofMembership(m); err != nil {
			return fmt.Errorf("schema: message %q: %w", m.Name, err)
		}
		r.messages[m.Name] = m
		r.fileOf[m.Name] = f
		for j := range m.Enums {
			e := &m.Enums[j]
			if _, exists := r.enums[e.Name]; exists {
				return fmt.Errorf("schema: duplicate enum %q", e.Name)
			}
			r.enums[e.Name] = e
		}
	}
	for i := range f.Enums {
		e := &f.Enums[i]
		if _, exists := r.enums[e.Name]; exists {
			return fmt.Errorf("schema: duplicate enum %q", e.Name)
		}
		r.enums[e.Name] = e
	}
	r.files = append(r.files, f)
	return nil
}

func validateOneofMembership(m *Message) error {
	for oi, o := range m.Oneofs {
		for _, memberName := range o.Members {
			f := m.FieldByName(memberName)
			if f == nil {
				return fmt.Errorf("oneof %q references unknown field %q", o.Name, memberName)
			}
			if f.Label != LabelOneofMember || f.OneofIndex != oi {
				return fmt.Errorf("field %q is not a member of oneof %q", memberName, o.Name)
			}
		}
	}
	return nil
}

// Message looks up a registered message by name.
func (r *Registry) Message(name string) (*Message, bool) {
	m, ok := r.messages[name]
	return m, ok
}

// Enum looks up a registered enum by name.
func (r *Registry) Enum(name string) (*Enum, bool) {
	e, ok := r.enums[name]
	return e, ok
}

// FileOf returns the File that declared the named message, if any.
func (r *Registry) FileOf(messageName string) (*File, bool) {
	f, ok := r.fileOf[messageName]
	return f, ok
}

// Files returns every registered File in AddFile order.
func (r *Registry) Files() []*File {
	return r.files
}
