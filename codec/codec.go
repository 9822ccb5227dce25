// Package codec defines the external wire-format collaborator boundary.
// The wire-format encoder/decoder itself is not implemented here:
// protoguard depends only on this interface, and ships no
// implementation. filter.Process and envelope.AnyDispatched are written
// against Codec so any wire format — real protobuf, a test fake, or a
// memory-constrained custom encoding — can sit behind it.
package codec

// Descriptor is an opaque handle a Codec implementation hands back for a
// message type name. protoguard never inspects its contents; it only
// passes it back to Decode/Encode.
type Descriptor any

// Codec decodes and encodes wire bytes against a Descriptor. Decode must
// populate a zero-initialized *value.Message; protoguard passes the out
// parameter as `any` so this package has no dependency on value, keeping
// the collaborator boundary one-directional.
type Codec interface {
	// Decode populates out from the wire bytes in src. It returns an
	// error on any wire-format violation; out must not be read on error.
	Decode(src []byte, desc Descriptor, out any) error

	// Encode serializes value against desc. Used only by round-trip
	// tests in this module; the core never calls it.
	Encode(value any, desc Descriptor) ([]byte, error)

	// DescriptorOf resolves a message type's full name to the Descriptor
	// Decode/Encode expect. ok is false for an unregistered type name —
	// the Any-dispatched envelope mode uses this to implement its
	// unregistered-type_url policy.
	DescriptorOf(messageTypeName string) (Descriptor, bool)
}
