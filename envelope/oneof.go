package envelope

import (
	"github.com/protoguard/protoguard/callback"
	"github.com/protoguard/protoguard/compiler"
	"github.com/protoguard/protoguard/runtime"
	"github.com/protoguard/protoguard/value"
)

// OpcodeMismatch is the stable constraint ID reported when an envelope's
// opcode field does not name the oneof variant actually set on the
// decoded message.
const OpcodeMismatch = "oneof.opcode_mismatch"

// OneofDispatched is the opcode/discriminator envelope mode: the wire
// envelope carries an opcode alongside a oneof payload, and the two must
// agree under a schema-supplied correspondence table before the active
// variant's own rules are trusted. The correspondence table maps each
// wire opcode to the field name of the variant it selects, rather than
// a Go type, since protoguard has no generated Go struct per variant.
type OneofDispatched struct {
	Program     *compiler.Program
	MessageType string
	OneofName   string

	// OpcodeField names the envelope field holding the wire opcode, used
	// only to anchor the path of an opcode-mismatch violation.
	OpcodeField string

	// Correspondence maps a wire opcode to the oneof member field name it
	// is expected to select. An opcode absent from this table is not
	// itself a violation; it only disables the correspondence check for
	// that call, since the schema may not enumerate every possible value.
	Correspondence map[int32]string
}

// Validate runs the compiled validator for d.MessageType, then checks the
// opcode/discriminator correspondence: if opcode names a known variant and
// that variant is not the one actually active, it adds one OpcodeMismatch
// violation at d.OpcodeField, independent of whatever the active variant's
// own rules already reported.
func (d *OneofDispatched) Validate(v *value.Message, opcode int32, buf *runtime.ViolationBuffer, bridge *callback.Bridge) (bool, error) {
	ok, err := d.Program.Validate(d.MessageType, v, buf, bridge)
	if err != nil {
		return false, err
	}

	expected, known := d.Correspondence[opcode]
	if !known {
		return ok, nil
	}
	active, _ := v.OneofActive(d.OneofName)
	if active == expected {
		return ok, nil
	}

	addEnvelopeViolation(buf, d.OpcodeField, OpcodeMismatch, "opcode does not match the active oneof variant")
	return false, nil
}
