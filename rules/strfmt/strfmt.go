// Package strfmt implements the string/bytes rule kinds: min_len/max_len
// (byte length, not rune count), eq,
// prefix, suffix, contains. bytes variants operate on []byte directly so
// the compiler never has to round-trip through string conversion for a
// streamed-callback field bridge slot.
package strfmt

import "bytes"

func MinLen(s string, n uint32) bool { return uint32(len(s)) >= n }
func MaxLen(s string, n uint32) bool { return uint32(len(s)) <= n }

func Eq(s, want string) bool      { return s == want }
func Prefix(s, p string) bool     { return len(p) <= len(s) && s[:len(p)] == p }
func Suffix(s, sfx string) bool   { return len(sfx) <= len(s) && s[len(s)-len(sfx):] == sfx }
func Contains(s, sub string) bool { return indexString(s, sub) >= 0 }

func indexString(s, sub string) int {
	if len(sub) == 0 {
		return 0
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func BytesMinLen(b []byte, n uint32) bool { return uint32(len(b)) >= n }
func BytesMaxLen(b []byte, n uint32) bool { return uint32(len(b)) <= n }

func BytesEq(b, want []byte) bool      { return bytes.Equal(b, want) }
func BytesPrefix(b, p []byte) bool     { return bytes.HasPrefix(b, p) }
func BytesSuffix(b, sfx []byte) bool   { return bytes.HasSuffix(b, sfx) }
func BytesContains(b, sub []byte) bool { return bytes.Contains(b, sub) }
