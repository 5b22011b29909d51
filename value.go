// Package uxf implements a codec for UXF (uniform exchange format): a
// plain-text, human-editable, typed superset of JSON with user-defined
// record classes, typed maps and lists, comments, dates, bytes, and
// file-level imports.
//
// The package is organised the way the reference Python/Rust
// implementations are: a streaming lexer (sub-package lexer) feeds a
// recursive-descent parser that builds a typed Value tree (this
// package), which callers can inspect, mutate, compare, visit, and
// write back out.
package uxf

import (
	"fmt"
	"time"

	"github.com/msummerfield/uxf/errcode"
)

// Value is the tagged union of every thing that can appear inside a
// UXF document: a scalar, a List, a Map, or a Table. It deliberately
// has no methods beyond the marker, the way a Rust enum has no vtable;
// callers type-switch on the concrete type, and Conforms (see
// conforms.go) is the only place that turns that type-switch into a
// runtime type check against a declared vtype.
type Value interface {
	uxfValue()
}

// Null is the UXF null scalar ('?').
type Null struct{}

func (Null) uxfValue() {}

// Bool is the UXF yes/no scalar.
type Bool bool

func (Bool) uxfValue() {}

// Int is the UXF integer scalar, stored in a platform-native signed type.
type Int int64

func (Int) uxfValue() {}

// Real is the UXF floating point scalar (IEEE 754 double).
type Real float64

func (Real) uxfValue() {}

// Str is the UXF string scalar.
type Str string

func (Str) uxfValue() {}

// Bytes is the UXF bytes scalar, decoded from a "(:hex:)" literal.
type Bytes []byte

func (Bytes) uxfValue() {}

// Date is the UXF date scalar (YYYY-MM-DD, no time-of-day).
type Date struct {
	time.Time
}

func (Date) uxfValue() {}

// DateTime is the UXF datetime scalar with 1-second resolution and an
// optional UTC offset.
type DateTime struct {
	time.Time
}

func (DateTime) uxfValue() {}

// TypeName names a scalar, container, or user-defined ttype usable as a
// list item type, map value type, or record field type.
type TypeName string

// Built-in scalar and container type names.
const (
	TypeInt      TypeName = "int"
	TypeReal     TypeName = "real"
	TypeStr      TypeName = "str"
	TypeBool     TypeName = "bool"
	TypeBytes    TypeName = "bytes"
	TypeDate     TypeName = "date"
	TypeDateTime TypeName = "datetime"
	TypeList     TypeName = "list"
	TypeMap      TypeName = "map"
	TypeTable    TypeName = "table"
)

// IsBuiltinScalar reports whether t names one of the built-in scalar types.
func IsBuiltinScalar(t TypeName) bool {
	switch t {
	case TypeInt, TypeReal, TypeStr, TypeBool, TypeBytes, TypeDate, TypeDateTime:
		return true
	default:
		return false
	}
}

// IsBuiltinContainer reports whether t names one of the built-in
// container types (list, map, table).
func IsBuiltinContainer(t TypeName) bool {
	switch t {
	case TypeList, TypeMap, TypeTable:
		return true
	default:
		return false
	}
}

// KeyType is the subset of TypeName legal as a Map key type.
type KeyType string

// Legal map key types.
const (
	KeyInt      KeyType = "int"
	KeyDate     KeyType = "date"
	KeyDateTime KeyType = "datetime"
	KeyStr      KeyType = "str"
	KeyBytes    KeyType = "bytes"
)

// IsValidKeyType reports whether t may be used as a map ktype.
func IsValidKeyType(t TypeName) bool {
	switch t {
	case TypeInt, TypeDate, TypeDateTime, TypeStr, TypeBytes:
		return true
	default:
		return false
	}
}

// List is an insertion-ordered, optionally homogeneously-typed sequence
// of Values.
type List struct {
	VType   TypeName // empty means untyped
	Comment string
	Items   []Value
}

func (*List) uxfValue() {}

// NewList constructs an empty List, optionally typed.
func NewList(vtype TypeName) *List {
	return &List{VType: vtype}
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.Items) }

// Push appends a value, matching a stack/queue-oriented vocabulary that
// a caller building a document incrementally expects. If the list is
// typed, v must conform to VType (spec.md §4.1 "all mutations enforce
// the invariants of §3"); a mismatch raises 290, the same code the
// parser raises for an ill-typed list item during parsing.
func (l *List) Push(v Value) error {
	if err := l.checkConforms(v); err != nil {
		return err
	}
	l.Items = append(l.Items, v)
	return nil
}

// Get returns the item at index i.
func (l *List) Get(i int) Value { return l.Items[i] }

// Insert inserts v before index i, subject to the same vtype
// conformance check as Push.
func (l *List) Insert(i int, v Value) error {
	if err := l.checkConforms(v); err != nil {
		return err
	}
	l.Items = append(l.Items, nil)
	copy(l.Items[i+1:], l.Items[i:])
	l.Items[i] = v
	return nil
}

func (l *List) checkConforms(v Value) error {
	if l.VType == "" || Conforms(v, l.VType, nil) {
		return nil
	}
	return &Error{Code: errcode.MutationTypeMismatch,
		Msg: fmt.Sprintf("list item does not conform to declared vtype %q", l.VType)}
}

// Remove deletes the item at index i.
func (l *List) Remove(i int) {
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
}

func (l *List) String() string {
	return fmt.Sprintf("List(vtype=%q, len=%d)", l.VType, len(l.Items))
}
