package uxf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformsScalars(t *testing.T) {
	assert.True(t, Conforms(Int(1), TypeInt, nil))
	assert.True(t, Conforms(Int(1), TypeReal, nil))
	assert.False(t, Conforms(Real(1.0), TypeInt, nil))
	assert.True(t, Conforms(Null{}, TypeInt, nil))
	assert.True(t, Conforms(Str("x"), "", nil))
}

func TestConformsTableAgainstTType(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}}}
	tbl := NewTable(point)
	assert.True(t, Conforms(tbl, TypeTable, nil))
	assert.True(t, Conforms(tbl, "Point", nil))
	assert.False(t, Conforms(tbl, "Other", nil))
}

func TestKnownType(t *testing.T) {
	registry := map[string]*TClass{"Point": {TType: "Point"}}
	assert.True(t, KnownType(TypeInt, registry))
	assert.True(t, KnownType("Point", registry))
	assert.False(t, KnownType("Nope", registry))
}

func TestWidensAndNarrows(t *testing.T) {
	assert.True(t, widens(Int(1), TypeReal))
	assert.False(t, widens(Real(1), TypeReal))
	assert.True(t, narrows(Real(1), TypeInt))
	assert.False(t, narrows(Int(1), TypeInt))
}

func TestListPushRejectsNonConformingItem(t *testing.T) {
	l := NewList(TypeInt)
	require.NoError(t, l.Push(Int(1)))
	err := l.Push(Str("nope"))
	require.Error(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestListInsertRejectsNonConformingItem(t *testing.T) {
	l := NewList(TypeInt)
	err := l.Insert(0, Real(1.5))
	require.Error(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestMapPutRejectsNonConformingKeyAndValue(t *testing.T) {
	m := NewMap(TypeInt, TypeStr)
	require.Error(t, m.Put(Str("x"), Str("ok")))
	require.Error(t, m.Put(Int(1), Int(2)))
	require.NoError(t, m.Put(Int(1), Str("ok")))
}

func TestMapPutRejectsIllegalKType(t *testing.T) {
	m := NewMap(TypeReal, "")
	err := m.Put(Real(1), Str("x"))
	require.Error(t, err)
}

func TestTableAppendAndSetRejectNonConformingField(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}, {Name: "y", VType: TypeInt}}}
	tbl := NewTable(point)
	require.Error(t, tbl.Append(Str("x"), Int(2)))
	require.NoError(t, tbl.Append(Int(1), Int(2)))
	require.Error(t, tbl.Set(0, Real(1.5), Int(2)))
}

func TestTableAppendWidensIntToReal(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeReal}}}
	tbl := NewTable(point)
	require.NoError(t, tbl.Append(Int(1)))
	assert.Equal(t, Real(1), tbl.Get(0).First())
}

func TestDumpsRechecksConformanceBuiltByHand(t *testing.T) {
	point := &TClass{TType: "Point", Fields: []Field{{Name: "x", VType: TypeInt}}}
	tbl := &Table{TClass: point, Records: []Record{{TClass: point, Values: []Value{Str("bad")}}}}
	u := &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{"Point": point},
		Value:    tbl,
	}
	_, err := Dumps(u, Options{})
	require.Error(t, err)
}
