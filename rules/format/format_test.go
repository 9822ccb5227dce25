package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAscii(t *testing.T) {
	require.True(t, Ascii("hello world"))
	require.False(t, Ascii("héllo"))
}

func TestHostname(t *testing.T) {
	require.True(t, Hostname("example.com"))
	require.True(t, Hostname("a.b.c"))
	require.False(t, Hostname("-bad.com"))
	require.False(t, Hostname("bad-.com"))
	require.False(t, Hostname(".leading"))
	require.False(t, Hostname("trailing."))
	require.False(t, Hostname(""))
}

func TestEmail(t *testing.T) {
	require.False(t, Email("a@b"), "length 3 but domain has no dot")
	require.True(t, Email("a@b.c"))
	require.False(t, Email("no-at-sign"))
	require.False(t, Email("two@at@signs.com"))
	require.False(t, Email("@missing-local.com"))
	require.False(t, Email(".leading@domain.com"))
}

func TestIPv4(t *testing.T) {
	require.True(t, IPv4("192.0.2.1"))
	require.True(t, IPv4("255.255.255.255"))
	require.False(t, IPv4("256.0.0.1"))
	require.False(t, IPv4("1.2.3"))
	require.False(t, IPv4("1.2.3.4.5"))
	require.True(t, IPv4("01.2.3.4"), "leading zeros are permitted by the grammar")
}

func TestIPv6(t *testing.T) {
	require.True(t, IPv6("::"), "all-zero compressed address")
	require.False(t, IPv6("2001:::1"), "triple colon must reject")
	require.True(t, IPv6("::ffff:192.0.2.1"), "trailing dotted-quad counts as two hextets")
	require.True(t, IPv6("::192.0.2.1"), "dotted-quad directly after the compression marker")
	require.True(t, IPv6("64:ff9b::192.0.2.33"))
	require.False(t, IPv6(":1.2.3.4"), "dotted-quad needs a full hextet prefix or a marker")
	require.True(t, IPv6("2001:0db8:0000:0000:0000:0000:0000:0001"), "full uncompressed form")
	require.True(t, IPv6("2001:db8::1"))
	require.False(t, IPv6("2001:db8::1::2"), "more than one compression marker")
	require.False(t, IPv6("2001:db8:0:0:0:0:0:0:1"), "nine hextets")
}

func TestIP(t *testing.T) {
	require.True(t, IP("192.0.2.1"))
	require.True(t, IP("::1"))
	require.False(t, IP("not-an-ip"))
}
