package testutil

import "github.com/k0kubun/pp/v3"

// Dump pretty-prints v to stdout the way database/mysql/parser.go logs a
// parsed AST: a cheap way to eyeball a failing case's tree shape without
// reaching for a debugger.
func Dump(v any) {
	pp.Println(v)
}
