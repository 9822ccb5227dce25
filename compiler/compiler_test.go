package compiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/rules"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/schema"
	"github.com/protoguard/protoguard/value"
	"github.com/protoguard/protoguard/wellknown"
)

func envelopeRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	versionRules := rules.NewSet()
	versionRules.Add(rules.Rule{Kind: rules.Gte, ConstraintID: "int32.gte", Payload: rules.Bound{Value: 1}})

	msgTypeRules := rules.NewSet()
	msgTypeRules.Add(rules.Rule{Kind: rules.MinLen, ConstraintID: "string.min_len", Payload: rules.Length{N: 1}})

	payloadRules := rules.NewSet()
	payloadRules.Add(rules.Rule{Kind: rules.MaxLen, ConstraintID: "bytes.max_len", Payload: rules.Length{N: 256}})

	envelope := schema.Message{
		Name: "Envelope",
		Fields: []schema.Field{
			{Name: "version", Kind: schema.KindInt32, Label: schema.LabelSingular, Rules: versionRules},
			{Name: "msg_type", Kind: schema.KindString, Label: schema.LabelSingular, Rules: msgTypeRules},
			{Name: "payload", Kind: schema.KindBytes, Label: schema.LabelSingular, Rules: payloadRules},
		},
	}

	require.NoError(t, reg.AddFile(&schema.File{Path: "envelope.proto", Messages: []schema.Message{envelope}}))
	return reg
}

func TestEnvelopeValidExample(t *testing.T) {
	reg := envelopeRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	msg.Set("version", int32(1))
	msg.Set("msg_type", "ping")
	msg.Set("payload", []byte("hi"))

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Envelope", msg, buf, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, buf.Count())
}

func TestEnvelopeRejectsBadVersionAndMessageType(t *testing.T) {
	reg := envelopeRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	msg.Set("version", int32(0))
	msg.Set("msg_type", "")
	msg.Set("payload", []byte("hi"))

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Envelope", msg, buf, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 2, buf.Count())

	paths := []string{buf.Violations()[0].Path, buf.Violations()[1].Path}
	require.Contains(t, paths, "version")
	require.Contains(t, paths, "msg_type")
}

func streamedRequestRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	methodRules := rules.NewSet()
	methodRules.Add(rules.Rule{Kind: rules.Required, ConstraintID: "string.required", Payload: rules.None{}})
	methodRules.Add(rules.Rule{Kind: rules.MinLen, ConstraintID: "string.min_len", Payload: rules.Length{N: 1}})

	request := schema.Message{
		Name: "Request",
		Fields: []schema.Field{
			{Name: "method", Kind: schema.KindString, Label: schema.LabelSingular, Storage: schema.StorageStreamedCallback, Rules: methodRules},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "request.proto", Messages: []schema.Message{request}}))
	return reg
}

func TestStreamedFieldRequiredFailsOnAbsence(t *testing.T) {
	reg := streamedRequestRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	bridge := callback.NewBridge()

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Request", msg, buf, bridge)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, buf.Count())
	require.Equal(t, "method", buf.Violations()[0].Path)
}

func TestValidateIgnoresPriorViolationsInBuffer(t *testing.T) {
	reg := envelopeRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	msg.Set("version", int32(1))
	msg.Set("msg_type", "ping")
	msg.Set("payload", []byte("hi"))

	buf := runtime.NewViolationBuffer(0)
	buf.Add("stale", "uint32.gte", "left over from an earlier call")

	ok, err := program.Validate("Envelope", msg, buf, nil)
	require.NoError(t, err)
	require.True(t, ok, "violations from prior calls must not affect this call's result")
	require.Equal(t, 1, buf.Count())
}

func TestValidateIsIdempotent(t *testing.T) {
	reg := envelopeRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	msg.Set("version", int32(0))
	msg.Set("msg_type", "")
	msg.Set("payload", []byte("hi"))

	first := runtime.NewViolationBuffer(0)
	_, err = program.Validate("Envelope", msg, first, nil)
	require.NoError(t, err)
	second := runtime.NewViolationBuffer(0)
	_, err = program.Validate("Envelope", msg, second, nil)
	require.NoError(t, err)
	require.Equal(t, first.Violations(), second.Violations())
}

func TestStreamedFieldRejectsEmptyPayload(t *testing.T) {
	reg := streamedRequestRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	bridge := callback.NewBridge()
	bridge.Install("method", callback.SliceSource{Data: []byte(""), Ready: true})

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Request", msg, buf, bridge)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, buf.Count())
	require.Equal(t, "method", buf.Violations()[0].Path)
	require.Equal(t, "string.min_len", buf.Violations()[0].ConstraintID)
}

func TestStreamedFieldRunsRulesWhenPresent(t *testing.T) {
	reg := streamedRequestRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	bridge := callback.NewBridge()
	bridge.Install("method", callback.SliceSource{Data: []byte("GET"), Ready: true})

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Request", msg, buf, bridge)
	require.NoError(t, err)
	require.True(t, ok)
}

func oneofRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	msg := schema.Message{
		Name: "Command",
		Fields: []schema.Field{
			{Name: "move", Kind: schema.KindString, Label: schema.LabelOneofMember, OneofIndex: 0},
			{Name: "stop", Kind: schema.KindBool, Label: schema.LabelOneofMember, OneofIndex: 0},
		},
		Oneofs: []schema.Oneof{
			{Name: "action", Members: []string{"move", "stop"}, Required: true},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "command.proto", Messages: []schema.Message{msg}}))
	return reg
}

func TestOneofRequiredFailsWhenNoneSet(t *testing.T) {
	reg := oneofRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Command", msg, buf, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, buf.Count())
	require.Equal(t, "oneof.required", buf.Violations()[0].ConstraintID)
}

func TestOneofDispatchesToActiveMember(t *testing.T) {
	reg := oneofRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	msg.Set("stop", true)
	msg.SetOneof("action", "stop")

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Command", msg, buf, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func nestedMessageRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	idRules := rules.NewSet()
	idRules.Add(rules.Rule{Kind: rules.MinLen, ConstraintID: "string.min_len", Payload: rules.Length{N: 1}})

	child := schema.Message{
		Name: "Child",
		Fields: []schema.Field{
			{Name: "id", Kind: schema.KindString, Label: schema.LabelSingular, Rules: idRules},
		},
	}
	parent := schema.Message{
		Name: "Parent",
		Fields: []schema.Field{
			{Name: "child", Kind: schema.KindMessage, MessageType: "Child", Label: schema.LabelSingular, Presence: true},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "nested.proto", Messages: []schema.Message{child, parent}}))
	return reg
}

func TestNestedMessageFieldRecursesAndPushesPath(t *testing.T) {
	reg := nestedMessageRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	child := value.NewMessage()
	child.Set("id", "")
	parent := value.NewMessage()
	parent.Set("child", child)

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Parent", parent, buf, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "child.id", buf.Violations()[0].Path)
}

func TestNestedMessageFieldSkippedWhenAbsent(t *testing.T) {
	reg := nestedMessageRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	parent := value.NewMessage()
	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Parent", parent, buf, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRepeatedFieldAppliesContainerAndElementRules(t *testing.T) {
	reg := schema.NewRegistry()

	itemRules := rules.NewSet()
	itemRules.Add(rules.Rule{
		Kind:         rules.Items,
		ConstraintID: "repeated.items",
		Payload: rules.ItemsPayload{Rules: func() rules.Set {
			s := rules.NewSet()
			s.Add(rules.Rule{Kind: rules.Gt, ConstraintID: "int32.gt", Payload: rules.Bound{Value: 0}})
			return s
		}()},
	})
	itemRules.Add(rules.Rule{Kind: rules.MaxItems, ConstraintID: "repeated.max_items", Payload: rules.Length{N: 2}})

	msg := schema.Message{
		Name: "Scores",
		Fields: []schema.Field{
			{Name: "values", Kind: schema.KindInt32, Label: schema.LabelRepeated, Rules: itemRules},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "scores.proto", Messages: []schema.Message{msg}}))

	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	v := value.NewMessage()
	v.Set("values", []int32{1, 0, -1})

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Scores", v, buf, nil)
	require.NoError(t, err)
	require.False(t, ok)

	var paths []string
	for _, violation := range buf.Violations() {
		paths = append(paths, violation.Path)
	}
	require.Contains(t, paths, "values")
	require.Contains(t, paths, "values[1]")
	require.Contains(t, paths, "values[2]")
}

func TestEarlyExitStopsAfterFirstViolation(t *testing.T) {
	reg := envelopeRegistry(t)
	opts := DefaultOptions()
	opts.EarlyExit = true
	program, err := Compile(reg, opts)
	require.NoError(t, err)

	msg := value.NewMessage()
	msg.Set("version", int32(0))
	msg.Set("msg_type", "")
	msg.Set("payload", []byte("hi"))

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Envelope", msg, buf, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, buf.Count())
}

func TestEnumDefinedOnly(t *testing.T) {
	reg := schema.NewRegistry()

	msgTypeRules := rules.NewSet()
	msgTypeRules.Add(rules.Rule{Kind: rules.DefinedOnly, ConstraintID: "enum.defined_only", Payload: rules.None{}})

	msg := schema.Message{
		Name: "Envelope",
		Fields: []schema.Field{
			{Name: "msg_type", Kind: schema.KindEnum, EnumType: "MsgType", Label: schema.LabelSingular, Rules: msgTypeRules},
		},
	}
	enum := schema.Enum{
		Name: "MsgType",
		Values: []schema.EnumValue{
			{Name: "MSG_UNSPECIFIED", Number: 0},
			{Name: "MSG_PING", Number: 1},
			{Name: "MSG_PONG", Number: 2},
			{Name: "MSG_AUTH", Number: 3},
			{Name: "MSG_DATA", Number: 4},
			{Name: "MSG_ACK", Number: 5},
			{Name: "MSG_CLOSE", Number: 6},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "envelope.proto", Messages: []schema.Message{msg}, Enums: []schema.Enum{enum}}))

	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	v := value.NewMessage()
	v.Set("msg_type", int32(3))
	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Envelope", v, buf, nil)
	require.NoError(t, err)
	require.True(t, ok)

	v.Set("msg_type", int32(99))
	buf2 := runtime.NewViolationBuffer(0)
	ok, err = program.Validate("Envelope", v, buf2, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, buf2.Count())
	require.Equal(t, "msg_type", buf2.Violations()[0].Path)
	require.Equal(t, "enum.defined_only", buf2.Violations()[0].ConstraintID)
}

func anyEnvelopeRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	payloadRules := rules.NewSet()
	payloadRules.Add(rules.Rule{
		Kind:         rules.AnyIn,
		ConstraintID: "any.in",
		Payload:      rules.TypeURLs{URLs: []string{"type.googleapis.com/demo.Ping"}},
	})

	msg := schema.Message{
		Name: "AnyEnvelope",
		Fields: []schema.Field{
			{Name: "payload", Kind: schema.KindMessage, MessageType: "google.protobuf.Any", Label: schema.LabelSingular, Rules: payloadRules},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "any.proto", Messages: []schema.Message{msg}}))
	return reg
}

func TestAnyInTypeURLAllowList(t *testing.T) {
	reg := anyEnvelopeRegistry(t)
	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	msg := value.NewMessage()
	msg.Set("payload", wellknown.Any{TypeURL: "type.googleapis.com/demo.Evil"})

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("AnyEnvelope", msg, buf, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "payload", buf.Violations()[0].Path)

	msg.Set("payload", wellknown.Any{TypeURL: "type.googleapis.com/demo.Ping"})
	buf2 := runtime.NewViolationBuffer(0)
	ok2, err := program.Validate("AnyEnvelope", msg, buf2, nil)
	require.NoError(t, err)
	require.True(t, ok2)
}

func TestTimestampWithinUsesInjectedClock(t *testing.T) {
	reg := schema.NewRegistry()
	tsRules := rules.NewSet()
	tsRules.Add(rules.Rule{
		Kind:         rules.TimestampWithin,
		ConstraintID: "timestamp.within",
		Payload:      rules.Duration{D: 5 * time.Second},
	})
	msg := schema.Message{
		Name: "Heartbeat",
		Fields: []schema.Field{
			{Name: "sent_at", Kind: schema.KindMessage, MessageType: "google.protobuf.Timestamp", Label: schema.LabelSingular, Rules: tsRules},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "heartbeat.proto", Messages: []schema.Message{msg}}))

	now := time.Unix(1_000_000, 0)
	opts := DefaultOptions()
	opts.Clock = wellknown.FakeClock{At: now}
	program, err := Compile(reg, opts)
	require.NoError(t, err)

	v := value.NewMessage()
	v.Set("sent_at", wellknown.Timestamp{Seconds: now.Unix() - 100})

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Heartbeat", v, buf, nil)
	require.NoError(t, err)
	require.False(t, ok)

	v.Set("sent_at", wellknown.Timestamp{Seconds: now.Unix() - 1})
	buf2 := runtime.NewViolationBuffer(0)
	ok2, err := program.Validate("Heartbeat", v, buf2, nil)
	require.NoError(t, err)
	require.True(t, ok2)
}

func TestInlineMessageCycleIsRejectedAtCompile(t *testing.T) {
	reg := schema.NewRegistry()
	msg := schema.Message{
		Name: "Self",
		Fields: []schema.Field{
			{Name: "next", Kind: schema.KindMessage, MessageType: "Self", Label: schema.LabelSingular},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "self.proto", Messages: []schema.Message{msg}}))

	_, err := Compile(reg, DefaultOptions())
	require.Error(t, err)
}

func TestPointerMessageSelfRecursionCompiles(t *testing.T) {
	reg := schema.NewRegistry()
	msg := schema.Message{
		Name: "Node",
		Fields: []schema.Field{
			{Name: "next", Kind: schema.KindMessage, MessageType: "Node", Label: schema.LabelSingular, Storage: schema.StoragePointerHeap},
		},
	}
	require.NoError(t, reg.AddFile(&schema.File{Path: "node.proto", Messages: []schema.Message{msg}}))

	program, err := Compile(reg, DefaultOptions())
	require.NoError(t, err)

	tail := value.NewMessage()
	head := value.NewMessage()
	head.Set("next", tail)

	buf := runtime.NewViolationBuffer(0)
	ok, err := program.Validate("Node", head, buf, nil)
	require.NoError(t, err)
	require.True(t, ok)
}
