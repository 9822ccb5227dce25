package compiler

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/protoguard/protoguard/schema"
)

// DescribeJSON renders the Program's registered messages as a JSON
// Schema document, one definition per message, so an external tool
// (or the protoguard-inspect CLI) can introspect message shapes without
// loading the Go types themselves. Each definition gives field types,
// arrays for repeated fields, references for message fields, and the
// required list; the fields' constraint rules are not included, and
// oneof members are omitted. The traversal walks
// schema.Message/Field directly rather than reflecting over generated Go
// structs, since this module never holds a generated Go type for the
// messages it validates.
func (p *Program) DescribeJSON() ([]byte, error) {
	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Definitions: make(jsonschema.Definitions),
	}
	for _, f := range p.registry.Files() {
		for i := range f.Messages {
			msg := &f.Messages[i]
			root.Definitions[msg.Name] = describeMessage(msg)
		}
	}
	return json.MarshalIndent(root, "", "  ")
}

func describeMessage(msg *schema.Message) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for i := range msg.Fields {
		f := &msg.Fields[i]
		if f.Label == schema.LabelOneofMember {
			continue
		}
		s.Properties.Set(f.Name, describeField(f))
		if f.Label == schema.LabelSingular && !f.Presence {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func describeField(f *schema.Field) *jsonschema.Schema {
	elem := describeKind(f)
	if f.Label != schema.LabelRepeated {
		return elem
	}
	return &jsonschema.Schema{
		Type:  "array",
		Items: elem,
	}
}

func describeKind(f *schema.Field) *jsonschema.Schema {
	switch f.Kind {
	case schema.KindString:
		return &jsonschema.Schema{Type: "string"}
	case schema.KindBytes:
		return &jsonschema.Schema{Type: "string", ContentEncoding: "base64"}
	case schema.KindBool:
		return &jsonschema.Schema{Type: "boolean"}
	case schema.KindEnum:
		return &jsonschema.Schema{Type: "integer"}
	case schema.KindFloat32, schema.KindFloat64:
		return &jsonschema.Schema{Type: "number"}
	case schema.KindMessage:
		return &jsonschema.Schema{Ref: "#/definitions/" + f.MessageType}
	default:
		return &jsonschema.Schema{Type: "integer"}
	}
}
