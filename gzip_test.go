package uxf

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGunzipsTransparently(t *testing.T) {
	text := "uxf 1\n[1 2 3]\n"
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	path := filepath.Join(t.TempDir(), "doc.uxf.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	u, err := Load(path, Options{})
	require.NoError(t, err)
	l, ok := u.Value.(*List)
	require.True(t, ok)
	assert.Equal(t, 3, l.Len())
}
