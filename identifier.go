package uxf

// reservedWords may not be used as identifiers (spec.md §3).
var reservedWords = map[string]bool{
	"yes": true, "no": true, "null": true,
}

var builtinTypeNames = map[string]bool{
	string(TypeInt): true, string(TypeReal): true, string(TypeStr): true,
	string(TypeBool): true, string(TypeBytes): true, string(TypeDate): true,
	string(TypeDateTime): true, string(TypeList): true, string(TypeMap): true,
	string(TypeTable): true,
}

// ValidIdentifier reports whether name satisfies spec.md §3's identifier
// rule: starts with a letter or underscore, 1-60 chars, letters/digits/
// underscore only, case-sensitive, and not a reserved keyword or
// built-in type name.
//
// Grounded on the teacher's NormalizeIdentifierName policy-table idiom
// (schema/identifier.go): one pure function, switched on a small set of
// named cases, no hidden state.
func ValidIdentifier(name string) bool {
	if len(name) == 0 || len(name) > 60 {
		return false
	}
	for i, r := range name {
		isLetter := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 {
			if !isLetter {
				return false
			}
			continue
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	if reservedWords[name] {
		return false
	}
	if builtinTypeNames[name] {
		return false
	}
	return true
}
