package uxf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPutGetRemove(t *testing.T) {
	m := NewMap("", "")
	require.NoError(t, m.Put(Int(1), Str("one")))
	require.NoError(t, m.Put(Int(2), Str("two")))

	v, ok := m.Get(Int(1))
	require.True(t, ok)
	assert.Equal(t, Str("one"), v)

	m.Remove(Int(1))
	_, ok = m.Get(Int(1))
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMapPutOverwritePreservesPosition(t *testing.T) {
	m := NewMap("", "")
	require.NoError(t, m.Put(Int(1), Str("a")))
	require.NoError(t, m.Put(Int(2), Str("b")))
	require.NoError(t, m.Put(Int(1), Str("a2")))

	var keys []Value
	m.Entries(func(k, v Value) bool {
		keys = append(keys, k)
		return true
	})
	require.Len(t, keys, 2)
	assert.Equal(t, Int(1), keys[0])
	assert.Equal(t, Int(2), keys[1])

	v, ok := m.Get(Int(1))
	require.True(t, ok)
	assert.Equal(t, Str("a2"), v)
}

func TestMapEntriesStopsEarly(t *testing.T) {
	m := NewMap("", "")
	require.NoError(t, m.Put(Int(1), Int(10)))
	require.NoError(t, m.Put(Int(2), Int(20)))
	require.NoError(t, m.Put(Int(3), Int(30)))

	var seen int
	m.Entries(func(k, v Value) bool {
		seen++
		return k != Int(2)
	})
	assert.Equal(t, 2, seen)
}
