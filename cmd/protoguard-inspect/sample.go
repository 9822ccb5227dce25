package main

import (
	"github.com/protoguard/protoguard/compiler"
	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/schema"
)

// buildSample builds a small in-process Registry standing in for a
// schema a real pipeline would compile from generated bindings: a
// PingRequest/PongResponse pair wired behind a PingService method, so
// the demo can exercise both compiler.Program.DescribeJSON and the
// service-derived filter.Dispatch without any .proto frontend in this
// module.
func buildSample() (*compiler.Program, *schema.Registry, error) {
	reg := schema.NewRegistry()

	nameRules := rules.NewSet()
	nameRules.Add(rules.Rule{Kind: rules.MinLen, ConstraintID: "string.min_len", Payload: rules.Length{N: 1}})
	nameRules.Add(rules.Rule{Kind: rules.MaxLen, ConstraintID: "string.max_len", Payload: rules.Length{N: 64}})

	seqRules := rules.NewSet()
	seqRules.Add(rules.Rule{Kind: rules.Gte, ConstraintID: "int32.gte", Payload: rules.Bound{Value: 0}})

	pingRequest := schema.Message{
		Name: "PingRequest",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.KindString, Label: schema.LabelSingular, Rules: nameRules},
			{Name: "sequence", Kind: schema.KindInt32, Label: schema.LabelSingular, Rules: seqRules},
		},
	}

	pongResponse := schema.Message{
		Name: "PongResponse",
		Fields: []schema.Field{
			{Name: "sequence", Kind: schema.KindInt32, Label: schema.LabelSingular, Rules: seqRules},
		},
	}

	service := schema.Service{
		Name: "PingService",
		Methods: []schema.Method{
			{Name: "Ping", RequestType: "PingRequest", ResponseType: "PongResponse", Transport: schema.TransportUDP},
		},
	}

	err := reg.AddFile(&schema.File{
		Path:     "ping.proto",
		Messages: []schema.Message{pingRequest, pongResponse},
		Services: []schema.Service{service},
	})
	if err != nil {
		return nil, nil, err
	}

	program, err := compiler.Compile(reg, compiler.DefaultOptions())
	if err != nil {
		return nil, nil, err
	}
	return program, reg, nil
}
