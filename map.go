package uxf

import (
	"fmt"

	"github.com/msummerfield/uxf/errcode"
)

// mapEntry keeps a Map's insertion order while allowing O(1) lookup.
type mapEntry struct {
	key   Value
	value Value
}

// Map is an insertion-ordered mapping from KeyType-conforming keys to
// Values. Serialisation preserves insertion order; comparison (see
// compare.go) is order-independent under the two Equivalent modes and
// positional under CompareExact and CompareIgnoreComments.
type Map struct {
	KType   TypeName // empty means untyped
	VType   TypeName // empty means untyped
	Comment string

	entries []mapEntry
	index   map[string]int // mapKey(k) -> position in entries
}

// NewMap constructs an empty Map, optionally typed.
func NewMap(ktype, vtype TypeName) *Map {
	return &Map{KType: ktype, VType: vtype, index: map[string]int{}}
}

func (*Map) uxfValue() {}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Put inserts or overwrites the value for key, preserving the original
// insertion position on overwrite. If the map is typed, key must
// satisfy KType and value must satisfy VType (spec.md §4.1, §4.5);
// violations raise 270/294 for an illegal ktype, 280 for a key that
// does not match KType, and 290 for the value, the same
// codes the parser raises for the equivalent mismatch while parsing.
func (m *Map) Put(key, value Value) error {
	if err := m.checkKType(key); err != nil {
		return err
	}
	if m.VType != "" && !Conforms(value, m.VType, nil) {
		return &Error{Code: errcode.MutationTypeMismatch,
			Msg: fmt.Sprintf("map value does not conform to declared vtype %q", m.VType)}
	}
	if m.index == nil {
		m.index = map[string]int{}
	}
	k, err := mapKey(key)
	if err != nil {
		return err
	}
	if i, ok := m.index[k]; ok {
		m.entries[i].value = value
		return nil
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, mapEntry{key: key, value: value})
	return nil
}

// Get looks up the value for key.
func (m *Map) Get(key Value) (Value, bool) {
	k, err := mapKey(key)
	if err != nil {
		return nil, false
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false
	}
	return m.entries[i].value, true
}

// Remove deletes key from the map, if present.
func (m *Map) Remove(key Value) {
	k, err := mapKey(key)
	if err != nil {
		return
	}
	i, ok := m.index[k]
	if !ok {
		return
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, k)
	for kk, idx := range m.index {
		if idx > i {
			m.index[kk] = idx - 1
		}
	}
}

// Entries iterates the map in insertion order, calling fn(key, value)
// for each. Returning false from fn stops the iteration early.
func (m *Map) Entries(fn func(key, value Value) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// checkKType validates key against a declared KType, mirroring the
// parser's ktype check in parseMap. A declared ktype that is itself
// illegal as a key type (e.g. "real": spec.md §8 boundary test "Map
// key of type real -> 294") is distinguished from a structurally
// impossible container ktype ("list"/"map"/"table" -> 270); a key
// value that simply doesn't match an otherwise-legal ktype raises 280.
func (m *Map) checkKType(key Value) error {
	if m.KType == "" {
		return nil
	}
	if !IsValidKeyType(m.KType) {
		if IsBuiltinContainer(m.KType) {
			return &Error{Code: errcode.MapKeyBadType,
				Msg: fmt.Sprintf("invalid map ktype %q", m.KType)}
		}
		return &Error{Code: errcode.MutationUnknownType,
			Msg: fmt.Sprintf("ktype %q cannot be used as a map key type", m.KType)}
	}
	if !Conforms(key, m.KType, nil) {
		return &Error{Code: errcode.MapKeyWrongVType,
			Msg: fmt.Sprintf("map key does not conform to declared ktype %q", m.KType)}
	}
	return nil
}

// mapKey renders a Value legal as a map key into a string usable as a
// Go map index, so that equal UXF keys (e.g. two identical date values)
// collide to the same entry.
func mapKey(v Value) (string, error) {
	switch k := v.(type) {
	case Int:
		return fmt.Sprintf("i:%d", int64(k)), nil
	case Str:
		return "s:" + string(k), nil
	case Bytes:
		return fmt.Sprintf("b:% x", []byte(k)), nil
	case Date:
		return "d:" + k.Format("2006-01-02"), nil
	case DateTime:
		return "t:" + k.Format("2006-01-02T15:04:05Z07:00"), nil
	default:
		return "", fmt.Errorf("value of type %T is not a valid map key", v)
	}
}

func (m *Map) String() string {
	return fmt.Sprintf("Map(ktype=%q, vtype=%q, len=%d)", m.KType, m.VType, len(m.entries))
}
