package uxf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterRoundTripsMinimalList(t *testing.T) {
	u, err := Loads("uxf 1\n[1 2 3]\n", Options{})
	require.NoError(t, err)
	out, err := Dumps(u, Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "uxf 1\n"))
	assert.Contains(t, out, "[1 2 3]")
}

func TestWriterWrapsLongStrings(t *testing.T) {
	long := strings.Repeat("word ", 40)
	u := &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{},
		Value:    NewList(""),
	}
	u.Value.(*List).Push(Str(long))

	opts := Options{WrapWidth: 40}
	out, err := Dumps(u, opts)
	require.NoError(t, err)
	assert.Contains(t, out, " & ")

	u2, err := Loads(out, Options{})
	require.NoError(t, err)
	l2, ok := u2.Value.(*List)
	require.True(t, ok)
	require.Equal(t, 1, l2.Len())
	assert.Equal(t, Str(long), l2.Get(0))
}

func TestWriterRealDP(t *testing.T) {
	u := &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{},
		Value:    NewList(""),
	}
	u.Value.(*List).Push(Real(3.14159265))
	dp := 2
	out, err := Dumps(u, Options{RealDP: &dp})
	require.NoError(t, err)
	assert.Contains(t, out, "3.14")
	assert.NotContains(t, out, "3.14159265")
}

func TestWriterDropUnusedTClass(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}, {Name: "y", VType: TypeInt}}}
	unused := &TClass{TType: "Unused", Fields: []Field{{Name: "z", VType: TypeInt}}}
	u := &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{"Point": point, "Unused": unused},
		Value:    NewList(""),
	}
	tbl := NewTable(point)
	require.NoError(t, tbl.Append(Int(1), Int(2)))
	u.Value = tbl

	out, err := Dumps(u, Options{DropUnused: true})
	require.NoError(t, err)
	assert.Contains(t, out, "=Point")
	assert.NotContains(t, out, "=Unused")
}

func TestWriterSortsTTypeDefsCaseInsensitively(t *testing.T) {
	apple := &TClass{TType: "apple"}
	banana := &TClass{TType: "Banana"}
	u := &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{"Banana": banana, "apple": apple},
		Value:    NewList(""),
	}

	out, err := Dumps(u, Options{})
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "=apple"), strings.Index(out, "=Banana"))
}

func TestWriterBreaksMultiRecordTableRegardlessOfWidth(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}, {Name: "y", VType: TypeInt}}}
	u := &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{"Point": point},
		Value:    NewList(""),
	}
	tbl := NewTable(point)
	require.NoError(t, tbl.Append(Int(1), Int(2)))
	require.NoError(t, tbl.Append(Int(3), Int(4)))
	u.Value = tbl

	out, err := Dumps(u, Options{})
	require.NoError(t, err)
	assert.NotContains(t, out, "(Point 1 2 3 4)")

	u2, err := Loads(out, Options{})
	require.NoError(t, err)
	assert.True(t, Compare(u, u2, CompareIgnoreComments))
}

func TestWriterFieldlessRoundTrip(t *testing.T) {
	suit := &TClass{TType: "Suit"}
	u := &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{"Suit": suit},
		Value:    NewList(""),
	}
	u.Value.(*List).Push(FieldlessValue{TClass: suit})

	out, err := Dumps(u, Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "(Suit)")

	u2, err := Loads(out, Options{})
	require.NoError(t, err)
	assert.True(t, Compare(u, u2, CompareIgnoreComments))
}
