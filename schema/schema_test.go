package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddFileRejectsDuplicateMessage(t *testing.T) {
	reg := NewRegistry()
	f1 := &File{Path: "a.proto", Messages: []Message{{Name: "Envelope"}}}
	f2 := &File{Path: "b.proto", Messages: []Message{{Name: "Envelope"}}}
	require.NoError(t, reg.AddFile(f1))
	require.Error(t, reg.AddFile(f2))
}

func TestOneofMembershipInvariant(t *testing.T) {
	good := &Message{
		Name: "Auth",
		Fields: []Field{
			{Name: "username", Kind: KindString, Label: LabelOneofMember, OneofIndex: 0},
			{Name: "token", Kind: KindString, Label: LabelOneofMember, OneofIndex: 0},
		},
		Oneofs: []Oneof{{Name: "credential", Members: []string{"username", "token"}}},
	}
	reg := NewRegistry()
	require.NoError(t, reg.AddFile(&File{Path: "auth.proto", Messages: []Message{*good}}))

	bad := &Message{
		Name: "BadAuth",
		Fields: []Field{
			{Name: "username", Kind: KindString, Label: LabelSingular},
		},
		Oneofs: []Oneof{{Name: "credential", Members: []string{"username"}}},
	}
	reg2 := NewRegistry()
	require.Error(t, reg2.AddFile(&File{Path: "bad.proto", Messages: []Message{*bad}}))
}

func TestMessageAndFileLookup(t *testing.T) {
	reg := NewRegistry()
	f := &File{Path: "x.proto", Messages: []Message{{Name: "X"}}}
	require.NoError(t, reg.AddFile(f))

	m, ok := reg.Message("X")
	require.True(t, ok)
	require.Equal(t, "X", m.Name)

	gotFile, ok := reg.FileOf("X")
	require.True(t, ok)
	require.Equal(t, "x.proto", gotFile.Path)

	_, ok = reg.Message("Missing")
	require.False(t, ok)
}

func TestFieldByName(t *testing.T) {
	m := &Message{Fields: []Field{{Name: "a"}, {Name: "b"}}}
	require.NotNil(t, m.FieldByName("b"))
	require.Nil(t, m.FieldByName("c"))
}
