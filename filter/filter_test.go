package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protoguard/protoguard/codec"
	"github.com/protoguard/protoguard/codec/codectest"
	"github.com/protoguard/protoguard/compiler"
	"github.com/protoguard/protoguard/envelope"
	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/schema"
	"github.com/protoguard/protoguard/value"
)

func envelopeProgram(t *testing.T) (*compiler.Program, *codectest.Fake) {
	t.Helper()
	reg := schema.NewRegistry()

	versionRules := rules.NewSet()
	versionRules.Add(rules.Rule{Kind: rules.Gte, ConstraintID: "uint32.gte", Payload: rules.Bound{Value: 1}})

	msg := schema.Message{
		Name: "Envelope",
		Fields: []schema.Field{
			{Name: "version", Kind: schema.KindUint32, Label: schema.LabelSingular, Rules: versionRules},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "envelope.proto", Messages: []schema.Message{msg}}))

	program, err := compiler.Compile(reg, compiler.DefaultOptions())
	require.NoError(t, err)

	fake := codectest.NewFake()
	fake.RegisterType("Envelope")
	return program, fake
}

func rootSpec(program *compiler.Program, fake *codectest.Fake) *Spec {
	root := &envelope.Root{Program: program, MessageType: "Envelope"}
	return &Spec{
		Codec:      fake,
		Descriptor: "Envelope",
		Size:       64,
		Validate:   root.Validate,
	}
}

func TestProcessAcceptsValidPayload(t *testing.T) {
	program, fake := envelopeProgram(t)
	msg := value.NewMessage()
	msg.Set("version", uint32(5))
	bytes := fake.Put("Envelope", msg)

	reg := NewRegistry()
	reg.Register(rootSpec(program, fake))

	code, buf := reg.Process(bytes, true)
	require.Equal(t, OK, code)
	require.False(t, buf.HasAny())
}

func TestProcessRejectsInvalidPayload(t *testing.T) {
	program, fake := envelopeProgram(t)
	msg := value.NewMessage()
	msg.Set("version", uint32(0))
	bytes := fake.Put("Envelope", msg)

	reg := NewRegistry()
	reg.Register(rootSpec(program, fake))

	code, buf := reg.Process(bytes, true)
	require.Equal(t, Decode, code)
	require.True(t, buf.HasAny())
	require.Equal(t, "uint32.gte", buf.Violations()[0].ConstraintID)
}

func TestProcessTruncatesViolationsAtCap(t *testing.T) {
	reg := schema.NewRegistry()

	versionRules := rules.NewSet()
	versionRules.Add(rules.Rule{Kind: rules.Gte, ConstraintID: "uint32.gte", Payload: rules.Bound{Value: 1}})
	nameRules := rules.NewSet()
	nameRules.Add(rules.Rule{Kind: rules.MinLen, ConstraintID: "string.min_len", Payload: rules.Length{N: 1}})

	msg := schema.Message{
		Name: "Envelope",
		Fields: []schema.Field{
			{Name: "version", Kind: schema.KindUint32, Label: schema.LabelSingular, Rules: versionRules},
			{Name: "name", Kind: schema.KindString, Label: schema.LabelSingular, Rules: nameRules},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "envelope.proto", Messages: []schema.Message{msg}}))

	program, err := compiler.Compile(reg, compiler.DefaultOptions())
	require.NoError(t, err)

	fake := codectest.NewFake()
	fake.RegisterType("Envelope")

	v := value.NewMessage()
	v.Set("version", uint32(0))
	v.Set("name", "")
	bytes := fake.Put("Envelope", v)

	spec := rootSpec(program, fake)
	spec.MaxViolations = 1

	filters := NewRegistry()
	filters.Register(spec)

	code, buf := filters.Process(bytes, true)
	require.Equal(t, Decode, code)
	require.Equal(t, 1, buf.Count(), "second violation is dropped at the cap")
	require.True(t, buf.Truncated())
	require.Equal(t, "uint32.gte", buf.Violations()[0].ConstraintID, "traversal order decides which violation survives")
}

func TestProcessRejectsEmptyInput(t *testing.T) {
	reg := NewRegistry()
	code, buf := reg.Process(nil, true)
	require.Equal(t, InvalidInput, code)
	require.Nil(t, buf)
}

func TestProcessRejectsWhenNotRegistered(t *testing.T) {
	reg := NewRegistry()
	code, buf := reg.Process([]byte("anything"), true)
	require.Equal(t, NotRegistered, code)
	require.Nil(t, buf)
}

func TestProcessRejectsOnDecodeFailure(t *testing.T) {
	program, fake := envelopeProgram(t)
	reg := NewRegistry()
	reg.Register(rootSpec(program, fake))

	code, buf := reg.Process([]byte("not-a-real-key"), true)
	require.Equal(t, Decode, code)
	require.Nil(t, buf)
}

func TestProcessDetailedSeparatesDecodeFromValidationFailure(t *testing.T) {
	program, fake := envelopeProgram(t)
	reg := NewRegistry()
	reg.Register(rootSpec(program, fake))

	res := reg.ProcessDetailed([]byte("not-a-real-key"), true)
	require.Equal(t, OutcomeDecodeError, res.Outcome)
	require.Equal(t, Decode, res.Code())

	msg := value.NewMessage()
	msg.Set("version", uint32(0))
	bytes := fake.Put("Envelope", msg)

	res = reg.ProcessDetailed(bytes, true)
	require.Equal(t, OutcomeValidationFailed, res.Outcome)
	require.Equal(t, Decode, res.Code())
	require.True(t, res.Buffer.HasAny())
}

func TestProcessRejectsWhenNoValidator(t *testing.T) {
	program, fake := envelopeProgram(t)
	msg := value.NewMessage()
	msg.Set("version", uint32(5))
	bytes := fake.Put("Envelope", msg)

	spec := rootSpec(program, fake)
	spec.Validate = nil

	reg := NewRegistry()
	reg.Register(spec)

	code, buf := reg.Process(bytes, true)
	require.Equal(t, NoValidator, code)
	require.Nil(t, buf)
}

func TestThreadSafeRegistryProcessesConcurrentlyWithRegister(t *testing.T) {
	program, fake := envelopeProgram(t)
	msg := value.NewMessage()
	msg.Set("version", uint32(5))
	bytes := fake.Put("Envelope", msg)

	reg := NewThreadSafeRegistry()
	reg.Register(rootSpec(program, fake))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			reg.Register(rootSpec(program, fake))
		}
		close(done)
	}()

	for i := 0; i < 100; i++ {
		code, _ := reg.Process(bytes, true)
		require.Equal(t, OK, code)
	}
	<-done
}

func TestEncodeDecodeValidateRoundTrip(t *testing.T) {
	program, fake := envelopeProgram(t)

	msg := value.NewMessage()
	msg.Set("version", uint32(5))

	wire, err := fake.Encode(msg, codec.Descriptor("Envelope"))
	require.NoError(t, err)

	reg := NewRegistry()
	reg.Register(rootSpec(program, fake))

	code, buf := reg.Process(wire, true)
	require.Equal(t, OK, code)
	require.False(t, buf.HasAny(), "round-tripped value must validate exactly like the pre-encode value")
}

func TestDispatchFilterUDPFirstMatchWins(t *testing.T) {
	program, fake := envelopeProgram(t)

	fake.RegisterType("Other")

	d := &Dispatch{
		Requests: []Candidate{
			{MessageType: "Envelope", Spec: rootSpec(program, fake)},
			{MessageType: "Other", Spec: rootSpec(program, fake)},
		},
	}

	msg := value.NewMessage()
	msg.Set("version", uint32(5))
	bytes := fake.Put("Envelope", msg)

	name, code := FilterUDP(d, bytes, true)
	require.Equal(t, OK, code)
	require.Equal(t, "Envelope", name)
}

func TestDispatchFilterTCPNarrowsByDirection(t *testing.T) {
	program, fake := envelopeProgram(t)

	msg := value.NewMessage()
	msg.Set("version", uint32(5))
	reqBytes := fake.Put("Envelope", msg)

	d := &Dispatch{
		Requests:  []Candidate{{MessageType: "Envelope", Spec: rootSpec(program, fake)}},
		Responses: nil,
	}

	name, code := FilterTCP(d, reqBytes, true)
	require.Equal(t, OK, code)
	require.Equal(t, "Envelope", name)

	_, code = FilterTCP(d, reqBytes, false)
	require.Equal(t, NotRegistered, code)
}

func TestFirstMatchReportsLastCodeWhenNoneAccept(t *testing.T) {
	program, fake := envelopeProgram(t)

	msg := value.NewMessage()
	msg.Set("version", uint32(0))
	bytes := fake.Put("Envelope", msg)

	d := &Dispatch{Requests: []Candidate{{MessageType: "Envelope", Spec: rootSpec(program, fake)}}}

	name, code := FilterUDP(d, bytes, true)
	require.Equal(t, Decode, code)
	require.Equal(t, "", name)
}
