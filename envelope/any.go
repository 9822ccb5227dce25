package envelope

import (
	"strings"

	"github.com/protoguard/protoguard/codec"
	"github.com/protoguard/protoguard/compiler"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/value"
	"github.com/protoguard/protoguard/wellknown"
)

// TypeURLPrefix is the well-known Any type_url prefix. It is
// stripped before resolving a codec.Descriptor, since codec.Codec keys
// descriptors by bare message type name, not the full type URL.
const TypeURLPrefix = "type.googleapis.com/"

// Unregistered and DecodeFailed are the two envelope-level violations
// AnyDispatched can report on its own, outside anything the compiled
// any.in/any.not_in rules already cover.
const (
	Unregistered = "any.unregistered"
	DecodeFailed = "any.decode"
)

// UnregisteredPolicy selects what an unregistered type_url means for one
// envelope: each envelope picks its own policy rather than sharing a
// single global default.
type UnregisteredPolicy int

const (
	// OnUnregisteredReject reports Unregistered and fails validation.
	OnUnregisteredReject UnregisteredPolicy = iota
	// OnUnregisteredAccept treats an unrecognized type_url as out of
	// scope for this envelope and does not fail validation for it alone.
	OnUnregisteredAccept
)

// AnyDispatched is the google.protobuf.Any envelope mode: the wrapping
// message carries a type_url/value pair, and this mode looks up the
// descriptor for type_url, decodes the inner bytes, and validates them
// against their own compiled rule set with paths nested under the Any
// field.
type AnyDispatched struct {
	Program *compiler.Program
	Codec   codec.Codec

	// MessageType is the envelope's own message type, compiled and run
	// first so its any.in/any.not_in allow/deny rules apply before
	// any inner decode is attempted.
	MessageType string
	// AnyField names the envelope field holding the wellknown.Any.
	AnyField string

	OnUnregistered UnregisteredPolicy
}

// Validate runs the envelope's own compiled validator, then — if the Any
// field's type_url resolves to a registered descriptor — decodes and
// validates the inner payload, reporting its violations at
// "<AnyField>.<type>.<field>" paths.
func (a *AnyDispatched) Validate(v *value.Message, buf *runtime.ViolationBuffer) (bool, error) {
	ok, err := a.Program.Validate(a.MessageType, v, buf, nil)
	if err != nil {
		return false, err
	}

	raw, present := v.Get(a.AnyField)
	if !present {
		return ok, nil
	}
	payload, isAny := asAny(raw)
	if !isAny {
		return ok, nil
	}

	messageType := strings.TrimPrefix(payload.TypeURL, TypeURLPrefix)
	desc, found := a.Codec.DescriptorOf(messageType)
	if !found {
		if a.OnUnregistered == OnUnregisteredAccept {
			return ok, nil
		}
		addEnvelopeViolation(buf, a.AnyField, Unregistered, "no descriptor registered for this type_url")
		return false, nil
	}

	inner := value.NewMessage()
	if err := a.Codec.Decode(payload.Value, desc, inner); err != nil {
		addEnvelopeViolation(buf, a.AnyField, DecodeFailed, "inner payload failed to decode")
		return false, nil
	}

	innerBuf := runtime.NewViolationBuffer(0)
	innerOK, err := a.Program.Validate(messageType, inner, innerBuf, nil)
	if err != nil {
		return false, err
	}
	prefix := a.AnyField + "." + messageType + "."
	for _, v := range innerBuf.Violations() {
		buf.Add(prefix+v.Path, v.ConstraintID, v.Message)
	}

	return ok && innerOK, nil
}

func asAny(raw any) (wellknown.Any, bool) {
	switch x := raw.(type) {
	case wellknown.Any:
		return x, true
	case *wellknown.Any:
		if x == nil {
			return wellknown.Any{}, false
		}
		return *x, true
	default:
		return wellknown.Any{}, false
	}
}

func addEnvelopeViolation(buf *runtime.ViolationBuffer, field, constraintID, message string) {
	ctx := runtime.NewContext(buf)
	if !ctx.PushField(field) {
		return
	}
	ctx.Add(constraintID, message)
	ctx.PopField()
}
