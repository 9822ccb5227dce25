package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresentDistinguishesNilPointerFromUnset(t *testing.T) {
	m := NewMessage()
	var absent *string
	m.Set("nickname", absent)
	require.False(t, m.Present("nickname"))

	name := "alice"
	m.Set("name", &name)
	require.True(t, m.Present("name"))

	m.Set("version", int32(5))
	require.True(t, m.Present("version"))

	require.False(t, m.Present("missing"))
}

func TestOneofActive(t *testing.T) {
	m := NewMessage()
	_, ok := m.OneofActive("credential")
	require.False(t, ok)

	m.SetOneof("credential", "username")
	active, ok := m.OneofActive("credential")
	require.True(t, ok)
	require.Equal(t, "username", active)

	m.SetOneof("credential", "")
	_, ok = m.OneofActive("credential")
	require.False(t, ok)
}

func TestGetRoundTrip(t *testing.T) {
	m := NewMessage()
	m.Set("payload", []byte("hi"))
	v, ok := m.Get("payload")
	require.True(t, ok)
	require.Equal(t, []byte("hi"), v)

	_, ok = m.Get("absent")
	require.False(t, ok)
}
