package uxf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareExactRequiresSameComment(t *testing.T) {
	a, err := Loads("uxf 1\n#<a>\n[]\n", Options{})
	require.NoError(t, err)
	b, err := Loads("uxf 1\n#<b>\n[]\n", Options{})
	require.NoError(t, err)

	assert.False(t, Compare(a, b, CompareExact))
	assert.True(t, Compare(a, b, CompareIgnoreComments))
}

func TestCompareUntypedEquivalentCrossesIntReal(t *testing.T) {
	a, err := Loads("uxf 1\n[1 2 3]\n", Options{})
	require.NoError(t, err)
	b, err := Loads("uxf 1\n[real 1.0 2.0 3.0]\n", Options{})
	require.NoError(t, err)

	assert.False(t, Compare(a, b, CompareExact))
	assert.True(t, Compare(a, b, CompareUntypedEquivalent))
}

func TestCompareMapsOrderMattersUnderExactButNotEquivalent(t *testing.T) {
	a, err := Loads("uxf 1\n{1 <one> 2 <two>}\n", Options{})
	require.NoError(t, err)
	b, err := Loads("uxf 1\n{2 <two> 1 <one>}\n", Options{})
	require.NoError(t, err)

	assert.False(t, Compare(a, b, CompareExact))
	assert.True(t, Compare(a, b, CompareEquivalent))
}

func TestCompareTablesDifferByLength(t *testing.T) {
	a, err := Loads("uxf 1\n=Point x:int y:int\n(Point 1 2)\n", Options{})
	require.NoError(t, err)
	b, err := Loads("uxf 1\n=Point x:int y:int\n(Point 1 2 3 4)\n", Options{})
	require.NoError(t, err)

	assert.False(t, Compare(a, b, CompareExact))
}

func TestIsCloseTolerance(t *testing.T) {
	assert.True(t, isClose(1.0, 1.0+1e-12))
	assert.False(t, isClose(1.0, 1.1))
}
