package uxf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitOrdersNestedContainers(t *testing.T) {
	u, err := Loads("uxf 1\n=Point x:int y:int\n[(Point 1 2) {1 <a>}]\n", Options{})
	require.NoError(t, err)

	var kinds []VisitKind
	u.Visit(func(kind VisitKind, value any) {
		kinds = append(kinds, kind)
	})

	require.GreaterOrEqual(t, len(kinds), 2)
	assert.Equal(t, UxfBegin, kinds[0])
	assert.Equal(t, UxfEnd, kinds[len(kinds)-1])
	assert.Equal(t, ListBegin, kinds[1])
	assert.Contains(t, kinds, TableBegin)
	assert.Contains(t, kinds, RecordBegin)
	assert.Contains(t, kinds, RecordEnd)
	assert.Contains(t, kinds, MapBegin)
	assert.Contains(t, kinds, Value_)
}

func TestVisitKindString(t *testing.T) {
	assert.Equal(t, "UXF_BEGIN", UxfBegin.String())
	assert.Equal(t, "VALUE", Value_.String())
}
