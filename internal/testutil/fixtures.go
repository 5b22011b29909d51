// Package testutil loads named YAML test cases the way the teacher's
// testutil.ReadTests does for its SQL fixtures: one YAML file holds many
// named cases, decoded strictly so a typo in a field name fails loudly
// instead of silently parsing to a zero value.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Case is one named UXF fixture: input text, and what's expected to
// happen when it's loaded. WantCode is 0 for a case that must parse
// cleanly; Want, when non-empty, is the text Dumps must reproduce
// (after reparsing Input and dumping it back out).
type Case struct {
	Doc      string `yaml:"doc"`
	Input    string `yaml:"input"`
	Want     string `yaml:"want"`
	WantCode int    `yaml:"want_code"`
	Skip     string `yaml:"skip"`
}

// File is the top-level shape of a fixture YAML file: a map from case
// name to Case, mirroring the teacher's "named test, one file, many
// cases" convention.
type File map[string]Case

// ReadCases globs pattern and decodes every match, returning the union
// keyed by case name. A name reused across two files is an error, the
// same duplicate-detection the teacher's ReadTests performs.
func ReadCases(pattern string) (map[string]Case, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	cases := map[string]Case{}
	origin := map[string]string{}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var file File
		dec := yaml.NewDecoder(bytes.NewReader(raw), yaml.DisallowUnknownField())
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		for name, c := range file {
			if prior, ok := origin[name]; ok {
				return nil, fmt.Errorf("case %q defined in both %s and %s", name, prior, path)
			}
			origin[name] = path
			cases[name] = c
		}
	}
	return cases, nil
}
