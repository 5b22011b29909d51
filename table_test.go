package uxf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAppendGetSetRemove(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}, {Name: "y", VType: TypeInt}}}
	tbl := NewTable(point)

	require.NoError(t, tbl.Append(Int(1), Int(2)))
	require.NoError(t, tbl.Append(Int(3), Int(4)))
	require.Equal(t, 2, tbl.Len())

	rec := tbl.Get(0)
	assert.Equal(t, Int(1), rec.First())
	assert.Equal(t, Int(2), rec.Second())
	assert.Equal(t, Int(2), rec.Last())

	require.NoError(t, tbl.Set(0, Int(9), Int(9)))
	assert.Equal(t, Int(9), tbl.Get(0).First())

	tbl.Remove(0)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, Int(3), tbl.Get(0).First())
}

func TestTableAppendWrongArity(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}, {Name: "y", VType: TypeInt}}}
	tbl := NewTable(point)
	err := tbl.Append(Int(1))
	assert.Error(t, err)
}

func TestTableAppendFieldlessRejected(t *testing.T) {
	suit := &TClass{TType: "Suit"}
	tbl := NewTable(suit)
	err := tbl.Append()
	assert.Error(t, err)
}

func TestRecordFieldByName(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}, {Name: "y", VType: TypeInt}}}
	rec := Record{TClass: point, Values: []Value{Int(1), Int(2)}}

	v, ok := rec.FieldByName("y")
	require.True(t, ok)
	assert.Equal(t, Int(2), v)

	_, ok = rec.FieldByName("z")
	assert.False(t, ok)
}

func TestTClassSameShape(t *testing.T) {
	a := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}}}
	b := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}}}
	c := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeReal}}}

	assert.True(t, a.SameShape(b))
	assert.False(t, a.SameShape(c))
}
