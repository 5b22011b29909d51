package uxf

// systemTTypeSources embeds the built-in "system" ttypes resolvable by
// bare name (spec.md §4.4): small, well-known shapes a document can
// import without any file or network I/O. Each is itself a tiny UXF
// document, so the resolver can feed it through the ordinary parser
// instead of needing a special-cased in-memory TClass literal —
// mirroring the teacher's package-level alias-table idiom
// (schema/generator.go's dataTypeAliases) but expressed as data the
// existing parser already knows how to consume.
var systemTTypeSources = map[string]string{
	"complex":  "uxf 1\n=complex Real:real Imag:real\n[]\n",
	"fraction": "uxf 1\n=fraction numerator:int denominator:int\n[]\n",
	"numeric":  "uxf 1\n=numeric value:str scale:int\n[]\n",
}

// IsSystemTType reports whether name is one of the embedded system
// ttypes importable without I/O.
func IsSystemTType(name string) bool {
	_, ok := systemTTypeSources[name]
	return ok
}
