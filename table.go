package uxf

import (
	"fmt"

	"github.com/msummerfield/uxf/errcode"
)

// Field is one named, optionally typed column of a TClass.
type Field struct {
	Name  string
	VType TypeName // empty means untyped
}

// TClass is a user-defined record class: a ttype name plus an ordered
// list of fields. A TClass with zero fields is "fieldless": it is used
// only as an enumerated marker value via "(Name)", and no Record may
// ever be created for it (spec.md §3, invariant on fieldless ttypes).
type TClass struct {
	TType   string
	Comment string
	Fields  []Field
}

// Fieldless reports whether this TClass has no fields.
func (c *TClass) Fieldless() bool { return len(c.Fields) == 0 }

// Arity is the number of fields, i.e. the tuple width of its records.
func (c *TClass) Arity() int { return len(c.Fields) }

// SameShape reports whether two TClasses have the same ttype name and
// field list (name and vtype, in order). This is the predicate behind
// the "duplicate import must be structurally identical" rule (spec.md
// §4.3, error code 544).
func (c *TClass) SameShape(other *TClass) bool {
	if c.TType != other.TType || len(c.Fields) != len(other.Fields) {
		return false
	}
	for i := range c.Fields {
		if c.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// Record is a positional tuple whose arity equals its TClass's Arity.
type Record struct {
	TClass *TClass
	Values []Value
}

// FieldByName returns the value for the named field and true, or nil
// and false if no such field exists on this record's TClass.
func (r *Record) FieldByName(name string) (Value, bool) {
	for i, f := range r.TClass.Fields {
		if f.Name == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// First, Second, Third, Last are convenience accessors over the
// positional values, matching the "computed accessors" named in
// spec.md §4.1; they are a convenience, not part of the data model
// proper (spec.md §9 Design Notes).
func (r *Record) First() Value  { return r.at(0) }
func (r *Record) Second() Value { return r.at(1) }
func (r *Record) Third() Value  { return r.at(2) }
func (r *Record) Last() Value   { return r.at(len(r.Values) - 1) }

func (r *Record) at(i int) Value {
	if i < 0 || i >= len(r.Values) {
		return nil
	}
	return r.Values[i]
}

// FieldlessValue is the value produced by an occurrence of a fieldless
// ttype, e.g. "(On)" in "[(On) (Off) (On)]". Unlike a non-fieldless
// "(...)" construct, which yields one Table holding zero or more
// Records, a fieldless occurrence is itself the value: "only the
// ttype appears as a value" (spec.md §4.1).
type FieldlessValue struct {
	TClass *TClass
}

func (FieldlessValue) uxfValue() {}

func (f FieldlessValue) String() string { return fmt.Sprintf("(%s)", f.TClass.TType) }

// Table is an ordered sequence of Records sharing one TClass.
type Table struct {
	TClass  *TClass
	Comment string
	Records []Record
}

func (*Table) uxfValue() {}

// NewTable constructs an empty Table for the given TClass.
func NewTable(tclass *TClass) *Table {
	return &Table{TClass: tclass}
}

// TType is a convenience for Table.TClass.TType, used throughout the
// writer and comparator so they need not dereference TClass directly.
func (t *Table) TType() string { return t.TClass.TType }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// Append adds a record built from vals, which must have exactly
// t.TClass.Arity() elements (spec.md §4.3 "record packing", error 486
// for a short record) and whose values conform field-by-field to the
// TClass's declared field types (spec.md §4.1, §4.5), the same check
// the parser runs while packing records during parsing. An int value
// against a real field is widened in place; a real value against an
// int field raises 498; any other mismatch raises 290.
func (t *Table) Append(vals ...Value) error {
	if len(vals) != t.TClass.Arity() {
		return &Error{Code: errcode.IncompleteRecord,
			Msg: fmt.Sprintf("record has %d values, want %d for ttype %s",
				len(vals), t.TClass.Arity(), t.TClass.TType)}
	}
	if t.TClass.Fieldless() {
		return &Error{Code: errcode.FieldlessWithRecord,
			Msg: fmt.Sprintf("ttype %s is fieldless and may not have records", t.TClass.TType)}
	}
	if err := t.checkFields(vals); err != nil {
		return err
	}
	t.Records = append(t.Records, Record{TClass: t.TClass, Values: vals})
	return nil
}

// Get returns the record at index i.
func (t *Table) Get(i int) *Record { return &t.Records[i] }

// Set replaces the record at index i, subject to the same field
// conformance check as Append.
func (t *Table) Set(i int, vals ...Value) error {
	if len(vals) != t.TClass.Arity() {
		return fmt.Errorf("record has %d values, want %d for ttype %s",
			len(vals), t.TClass.Arity(), t.TClass.TType)
	}
	if err := t.checkFields(vals); err != nil {
		return err
	}
	t.Records[i] = Record{TClass: t.TClass, Values: vals}
	return nil
}

// checkFields validates vals against t.TClass.Fields in place, widening
// an Int value stored against a real field the way parseTableOrFieldless
// does for a freshly-parsed record.
func (t *Table) checkFields(vals []Value) error {
	for i, v := range vals {
		field := t.TClass.Fields[i]
		if field.VType == "" {
			continue
		}
		if widens(v, field.VType) {
			vals[i] = Real(float64(v.(Int)))
			continue
		}
		if narrows(v, field.VType) {
			return &Error{Code: errcode.RealToIntBad,
				Msg: fmt.Sprintf("field %q of ttype %q expects int, got real", field.Name, t.TClass.TType)}
		}
		if !Conforms(v, field.VType, nil) {
			return &Error{Code: errcode.MutationTypeMismatch,
				Msg: fmt.Sprintf("field %q of ttype %q does not conform to declared vtype %q",
					field.Name, t.TClass.TType, field.VType)}
		}
	}
	return nil
}

// Remove deletes the record at index i.
func (t *Table) Remove(i int) {
	t.Records = append(t.Records[:i], t.Records[i+1:]...)
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(ttype=%s, len=%d)", t.TClass.TType, len(t.Records))
}
