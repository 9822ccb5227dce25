// Package codectest provides an in-memory codec.Codec fake so the filter
// pipeline and envelope dispatch can be exercised end to end in tests
// without a real wire-format implementation. "Wire bytes" are opaque
// UUID keys into an in-process table rather than a real serialization.
package codectest

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/protoguard/protoguard/codec"
	"github.com/protoguard/protoguard/value"
)

// Fake is a codec.Codec backed by an in-memory table of previously-Put
// value.Message values. Descriptor is simply the message's type name.
type Fake struct {
	mu          sync.Mutex
	byKey       map[string]*value.Message
	typeOfKey   map[string]string
	descriptors map[string]bool
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		byKey:       make(map[string]*value.Message),
		typeOfKey:   make(map[string]string),
		descriptors: make(map[string]bool),
	}
}

// RegisterType makes messageType resolvable through DescriptorOf, the
// way a real codec would expose a descriptor for every schema-known
// message.
func (f *Fake) RegisterType(messageType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.descriptors[messageType] = true
}

// Put stores msg under a fresh synthetic key and returns that key as the
// "wire bytes" a test can hand to filter.Process or Decode. The returned
// bytes are only ever meaningful to this Fake instance.
func (f *Fake) Put(messageType string, msg *value.Message) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, err := uuid.NewV4()
	if err != nil {
		panic(fmt.Sprintf("codectest: uuid generation failed: %v", err))
	}
	key := id.String()
	f.byKey[key] = msg
	f.typeOfKey[key] = messageType
	return []byte(key)
}

// Decode implements codec.Codec.
func (f *Fake) Decode(src []byte, desc codec.Descriptor, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := string(src)
	msg, ok := f.byKey[key]
	if !ok {
		return fmt.Errorf("codectest: unknown wire key %q", key)
	}
	if want, _ := desc.(string); want != "" && f.typeOfKey[key] != want {
		return fmt.Errorf("codectest: key %q holds type %q, not %q", key, f.typeOfKey[key], want)
	}
	ptr, ok := out.(*value.Message)
	if !ok {
		return fmt.Errorf("codectest: out must be *value.Message, got %T", out)
	}
	*ptr = *msg
	return nil
}

// Encode implements codec.Codec, registering v under a fresh key exactly
// as Put does — the two are equivalent entry points for test setup.
func (f *Fake) Encode(v any, desc codec.Descriptor) ([]byte, error) {
	msg, ok := v.(*value.Message)
	if !ok {
		return nil, fmt.Errorf("codectest: value must be *value.Message, got %T", v)
	}
	messageType, _ := desc.(string)
	return f.Put(messageType, msg), nil
}

// DescriptorOf implements codec.Codec.
func (f *Fake) DescriptorOf(messageTypeName string) (codec.Descriptor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok := f.descriptors[messageTypeName]
	if !ok {
		return nil, false
	}
	return messageTypeName, true
}
