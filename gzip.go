package uxf

import (
	"bytes"
	"compress/gzip"
	"io"
)

// gunzip decompresses raw, which must begin with the gzip magic number.
// Load calls this transparently so gzip-wrapped files need no special
// handling from the caller (spec.md §6); full gzip *file* management
// (choosing to compress on write, wrapping a CLI around it) stays with
// the external converter tooling this library does not implement.
func gunzip(raw []byte) (string, error) {
	r, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
