package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextPathPushPop(t *testing.T) {
	buf := NewViolationBuffer(8)
	ctx := NewContext(buf)

	require.True(t, ctx.PushField("parent"))
	require.Equal(t, "parent", ctx.Path())

	require.True(t, ctx.PushField("children"))
	require.True(t, ctx.PushIndex(2))
	require.Equal(t, "parent.children[2]", ctx.Path())

	require.True(t, ctx.PushField("email"))
	require.Equal(t, "parent.children[2].email", ctx.Path())

	ctx.PopField()
	require.Equal(t, "parent.children[2]", ctx.Path())
	ctx.PopIndex()
	require.Equal(t, "parent.children", ctx.Path())
	ctx.PopField()
	require.Equal(t, "parent", ctx.Path())
	ctx.PopField()
	require.Equal(t, "", ctx.Path())
}

func TestContextAddReturnsTrueWithoutEarlyExit(t *testing.T) {
	buf := NewViolationBuffer(8)
	ctx := NewContext(buf)
	require.True(t, ctx.Add("string.min_len", "too short"))
	require.True(t, ctx.Add("string.max_len", "too long"))
	require.Equal(t, 2, buf.Count())
}

func TestContextEarlyExitStopsAfterFirstViolation(t *testing.T) {
	buf := NewViolationBuffer(8)
	ctx := NewContext(buf)
	ctx.EarlyExit = true
	require.False(t, ctx.Add("string.min_len", "too short"))
	require.Equal(t, 1, buf.Count())
}

func TestViolationBufferTruncates(t *testing.T) {
	buf := NewViolationBuffer(2)
	require.True(t, buf.Add("a", "x", "m"))
	require.True(t, buf.Add("b", "x", "m"))
	require.False(t, buf.Add("c", "x", "m"))
	require.True(t, buf.Truncated())
	require.Equal(t, 2, buf.Count())
}

func TestViolationBufferUnbounded(t *testing.T) {
	buf := NewViolationBuffer(0)
	for i := 0; i < 100; i++ {
		require.True(t, buf.Add("p", "c", "m"))
	}
	require.False(t, buf.Truncated())
	require.Equal(t, 100, buf.Count())
}

func TestAbortedStaysTrueAfterEarlyExit(t *testing.T) {
	buf := NewViolationBuffer(8)
	ctx := NewContext(buf)
	ctx.EarlyExit = true
	require.False(t, ctx.Aborted())
	ctx.Add("string.min_len", "too short")
	require.True(t, ctx.Aborted())
}

func TestOverflowedSetsStickyFlag(t *testing.T) {
	buf := NewViolationBuffer(8)
	ctx := NewContext(buf)
	long := make([]byte, maxPathLen)
	for i := range long {
		long[i] = 'a'
	}
	require.False(t, ctx.Overflowed())
	ctx.PushField(string(long))
	ctx.PushField("overflow")
	require.True(t, ctx.Overflowed())
}

func TestPathOverflowIsFatalNotAViolation(t *testing.T) {
	buf := NewViolationBuffer(8)
	ctx := NewContext(buf)
	long := make([]byte, maxPathLen)
	for i := range long {
		long[i] = 'a'
	}
	require.True(t, ctx.PushField(string(long)))
	require.False(t, ctx.PushField("overflow"))
	require.Equal(t, 0, buf.Count(), "overflow must not add a violation")
}
