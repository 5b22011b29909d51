package util

import (
	"bytes"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformSlice(t *testing.T) {
	in := []int{1, 2, 3}
	out := TransformSlice(in, func(n int) string { return strconv.Itoa(n * 2) })
	assert.Equal(t, []string{"2", "4", "6"}, out)
}

func TestTransformSliceEmpty(t *testing.T) {
	out := TransformSlice([]int{}, func(n int) string { return "x" })
	assert.Empty(t, out)
}

func TestCanonicalMapIterSortsKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	var keys []string
	for k, v := range CanonicalMapIter(m) {
		keys = append(keys, k)
		assert.Equal(t, m[k], v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestCanonicalMapIterStopsEarly(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	var seen []string
	for k := range CanonicalMapIter(m) {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestCanonicalMapIterFoldSortsCaseInsensitively(t *testing.T) {
	m := map[string]int{"Banana": 2, "apple": 1, "cherry": 3}
	var keys []string
	for k := range CanonicalMapIterFold(m) {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"apple", "Banana", "cherry"}, keys)
}

func TestCanonicalMapIterFoldBreaksTiesCaseSensitively(t *testing.T) {
	m := map[string]int{"Apple": 1, "apple": 2}
	var keys []string
	for k := range CanonicalMapIterFold(m) {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"Apple", "apple"}, keys)
}

func TestNewSlogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogger(&buf, slog.LevelWarn)
	logger.Debug("should not appear")
	logger.Warn("should appear")
	assert.NotContains(t, buf.String(), "should not appear")
	assert.Contains(t, buf.String(), "should appear")
}
