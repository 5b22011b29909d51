package uxf

import (
	"fmt"

	"github.com/msummerfield/uxf/errcode"
)

// checkConformance walks the value tree depth-first and verifies every
// contained value conforms to its container's declared vtype/ktype/
// field type. This is the full recheck spec.md §4.5 requires "on
// Uxf.dump": List.Push, Map.Put, and Table.Append/Set already enforce
// conformance at the point of mutation, but a document assembled
// directly against exported fields (e.g. Table.Records appended to by
// hand) bypasses those helpers, so the writer runs this pass before
// rendering a single byte.
func checkConformance(v Value, registry map[string]*TClass) error {
	switch val := v.(type) {
	case *List:
		for _, item := range val.Items {
			if val.VType != "" && !Conforms(item, val.VType, registry) {
				return &Error{Code: errcode.MutationTypeMismatch,
					Msg: fmt.Sprintf("list item does not conform to declared vtype %q", val.VType)}
			}
			if err := checkConformance(item, registry); err != nil {
				return err
			}
		}
	case *Map:
		var err error
		val.Entries(func(k, mv Value) bool {
			if val.KType != "" && !Conforms(k, val.KType, registry) {
				err = &Error{Code: errcode.MapKeyWrongVType,
					Msg: fmt.Sprintf("map key does not conform to declared ktype %q", val.KType)}
				return false
			}
			if val.VType != "" && !Conforms(mv, val.VType, registry) {
				err = &Error{Code: errcode.MutationTypeMismatch,
					Msg: fmt.Sprintf("map value does not conform to declared vtype %q", val.VType)}
				return false
			}
			err = checkConformance(mv, registry)
			return err == nil
		})
		if err != nil {
			return err
		}
	case *Table:
		for i := range val.Records {
			rec := val.Records[i]
			if len(rec.Values) != val.TClass.Arity() {
				return &Error{Code: errcode.IncompleteRecord,
					Msg: fmt.Sprintf("record of ttype %q has %d values, want %d",
						val.TClass.TType, len(rec.Values), val.TClass.Arity())}
			}
			for j, fv := range rec.Values {
				field := val.TClass.Fields[j]
				if field.VType != "" && !Conforms(fv, field.VType, registry) {
					return &Error{Code: errcode.MutationTypeMismatch,
						Msg: fmt.Sprintf("field %q of ttype %q does not conform to declared vtype %q",
							field.Name, val.TClass.TType, field.VType)}
				}
				if err := checkConformance(fv, registry); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Conforms is the single predicate (spec.md §4.5, §9 Design Notes) that
// decides whether value satisfies a declared vtype/ktype. It is a pure
// function over the Value's runtime tag, grounded on the teacher's
// NormalizeIdentifierName policy-switch idiom: one case per declared
// type, no interface dispatch, no hidden state.
//
// registry is not consulted: a declared user-defined ttype matches when
// the value's own TClass carries that ttype name, whether or not the
// name is registered. Conforms never mutates registry.
func Conforms(value Value, declared TypeName, registry map[string]*TClass) bool {
	if declared == "" {
		return true
	}
	if _, isNull := value.(Null); isNull {
		return true
	}
	switch v := value.(type) {
	case Bool:
		return declared == TypeBool
	case Int:
		return declared == TypeInt || declared == TypeReal
	case Real:
		return declared == TypeReal
	case Str:
		return declared == TypeStr
	case Bytes:
		return declared == TypeBytes
	case Date:
		return declared == TypeDate
	case DateTime:
		return declared == TypeDateTime
	case *List:
		return declared == TypeList
	case *Map:
		return declared == TypeMap
	case *Table:
		if declared == TypeTable {
			return true
		}
		return string(declared) == v.TClass.TType
	case FieldlessValue:
		return string(declared) == v.TClass.TType
	default:
		return false
	}
}

// KnownType reports whether name is usable as a declared vtype/ktype:
// a built-in scalar/container name, or a registered ttype.
func KnownType(name TypeName, registry map[string]*TClass) bool {
	if IsBuiltinScalar(name) || IsBuiltinContainer(name) {
		return true
	}
	_, ok := registry[string(name)]
	return ok
}

// widens reports whether value is an Int being inserted where declared
// is real: the one implicit widening conversion the format allows
// (spec.md §4.3, error 496 is informational, 498 is the reverse and
// rejected).
func widens(value Value, declared TypeName) bool {
	_, isInt := value.(Int)
	return isInt && declared == TypeReal
}

// narrows reports the rejected real->int case.
func narrows(value Value, declared TypeName) bool {
	_, isReal := value.(Real)
	return isReal && declared == TypeInt
}
