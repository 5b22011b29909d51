package uxf

import "fmt"

// VisitKind identifies which part of a document tree a Visitor
// callback fires for, mirroring the reference implementation's
// uxf.VisitKind enum (original_source/py/eg/visit.py): callers match
// on BEGIN/END pairs to track nesting and get a VALUE call for every
// scalar and fieldless marker.
type VisitKind int

const (
	UxfBegin VisitKind = iota
	UxfEnd
	ListBegin
	ListEnd
	MapBegin
	MapEnd
	TableBegin
	TableEnd
	RecordBegin
	RecordEnd
	Value_
)

func (k VisitKind) String() string {
	switch k {
	case UxfBegin:
		return "UXF_BEGIN"
	case UxfEnd:
		return "UXF_END"
	case ListBegin:
		return "LIST_BEGIN"
	case ListEnd:
		return "LIST_END"
	case MapBegin:
		return "MAP_BEGIN"
	case MapEnd:
		return "MAP_END"
	case TableBegin:
		return "TABLE_BEGIN"
	case TableEnd:
		return "TABLE_END"
	case RecordBegin:
		return "RECORD_BEGIN"
	case RecordEnd:
		return "RECORD_END"
	case Value_:
		return "VALUE"
	default:
		return fmt.Sprintf("VisitKind(%d)", int(k))
	}
}

// Visitor is called once per node of a depth-first walk. value's
// concrete type depends on kind: *Uxf for UxfBegin/UxfEnd, *List for
// ListBegin/ListEnd, *Map for MapBegin/MapEnd, *Table for
// TableBegin/TableEnd, *Record for RecordBegin/RecordEnd, and a scalar
// Value (or FieldlessValue) for Value_.
type Visitor func(kind VisitKind, value any)

// Visit walks u's value tree depth-first, calling visit once per node
// (spec.md §4.6). It never mutates u and is safe to call concurrently
// from multiple goroutines against the same Uxf as long as nothing
// else is mutating it.
func (u *Uxf) Visit(visit Visitor) {
	visit(UxfBegin, u)
	visitValue(u.Value, visit)
	visit(UxfEnd, u)
}

func visitValue(v Value, visit Visitor) {
	switch val := v.(type) {
	case *List:
		visit(ListBegin, val)
		for _, item := range val.Items {
			visitValue(item, visit)
		}
		visit(ListEnd, val)
	case *Map:
		visit(MapBegin, val)
		val.Entries(func(k, mv Value) bool {
			visit(Value_, k)
			visitValue(mv, visit)
			return true
		})
		visit(MapEnd, val)
	case *Table:
		visit(TableBegin, val)
		for i := range val.Records {
			rec := &val.Records[i]
			visit(RecordBegin, rec)
			for _, fv := range rec.Values {
				visitValue(fv, visit)
			}
			visit(RecordEnd, rec)
		}
		visit(TableEnd, val)
	default:
		visit(Value_, v)
	}
}
