// Package callback bridges streamed-callback fields: fields whose decoded
// payload is delivered through an application-installed streaming hook at
// decode time and never retained in the value.Message tree. The compiler
// cannot read such a field off the message value the way it reads an
// inline-fixed or pointer-with-heap field — it must go through this
// bridge instead.
//
// Source is a Go interface the application implements, rather than a raw
// (ptr, len) slot the engine peeks through, so the read side is a normal
// method call instead of an unsafe pointer read.
package callback

// MaxStreamedLen bounds how large a streamed-callback field's payload may
// be before the read helper reports failure — one compile-time constant
// shared by every schema, not configurable per call, because the application's pre-decode
// hook sizes its buffers against this same bound.
const MaxStreamedLen = 64 * 1024

// Source is implemented by the application for one streamed-callback
// field. Read returns the buffered payload and true if the application
// has arranged for it to be available; false means "no value observed",
// which the compiler treats as skipped for format/length rules and
// failed for required.
type Source interface {
	Read() ([]byte, bool)
}

// SliceSource is the simplest Source: a fixed byte slice set once before
// decode, standing in for the application's real streaming buffer in
// tests and simple integrations.
type SliceSource struct {
	Data  []byte
	Ready bool
}

func (s SliceSource) Read() ([]byte, bool) {
	if !s.Ready {
		return nil, false
	}
	return s.Data, true
}

// Bridge is the per-message registry of Sources the application installs
// through a pre-decode hook (filter.Spec.PreDecodeHook) before the codec
// runs. The compiler's emitted checks for streamed-callback fields call
// Bridge.Read by field name rather than touching value.Message.
type Bridge struct {
	sources map[string]Source
}

// NewBridge returns an empty Bridge.
func NewBridge() *Bridge {
	return &Bridge{sources: make(map[string]Source)}
}

// Install registers src as the Source for the named field.
func (b *Bridge) Install(fieldName string, src Source) {
	if b.sources == nil {
		b.sources = make(map[string]Source)
	}
	b.sources[fieldName] = src
}

// Read returns the payload installed for fieldName. It reports false if
// no Source was installed, the Source reports no value, or the value
// exceeds MaxStreamedLen — all three collapse to the same "absent"
// signal the compiler's emitted check treats uniformly.
func (b *Bridge) Read(fieldName string) ([]byte, bool) {
	src, ok := b.sources[fieldName]
	if !ok {
		return nil, false
	}
	data, ok := src.Read()
	if !ok {
		return nil, false
	}
	if len(data) > MaxStreamedLen {
		return nil, false
	}
	return data, true
}
