package uxf

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/msummerfield/uxf/errcode"
	"github.com/msummerfield/uxf/lexer"
	"github.com/msummerfield/uxf/util"
)

// parser drives the lexer through the HEADER -> COMMENT? -> IMPORTS? ->
// TCLASSES? -> VALUE -> EOF state machine of spec.md §4.3, building a
// Uxf as it goes. It is a direct generalisation of the teacher's
// recursive-descent parser idiom (parser/parser.go): one struct
// holding the lexer and a single token of lookahead, one method per
// grammar production.
//
// The value-parsing methods (parseTopLevelValue, parseValue, parseList,
// parseMap, parseTableOrFieldless) follow the same convention: on entry
// p.cur is the first token of the construct they parse; on a successful
// return p.cur has already been advanced past the construct's last
// token, so the caller never needs a separate "consume" step.
// parseImport and parseTTypeDef leave p.cur on their directive's token,
// and parseDocument advances past it.
type parser struct {
	lex      *lexer.Lexer
	filename string
	opts     Options
	handler  EventHandler
	res      *resolver
	shared   *resolver

	cur lexer.Token
	doc *Uxf
}

func newParser(text, filename string, opts Options) *parser {
	return &parser{
		lex:      lexer.New(text),
		filename: filename,
		opts:     opts,
		handler:  opts.handler(),
		res:      newResolver(opts),
	}
}

func (p *parser) resolverFor() *resolver {
	if p.shared != nil {
		return p.shared
	}
	return p.res
}

// selfSource returns this document's own normalised identity, for
// comparison against a resolved import's normalised identity (code
// 176 self-import). p.filename is already a path/URL/system name in
// the same form resolve() produces for an import, NOT a raw import
// source relative to BaseDir, so it must not be re-joined against
// BaseDir the way resolve() joins a fresh "!source" directive.
func (p *parser) selfSource() string {
	if p.filename == "" {
		return ""
	}
	kind, source := classify(p.filename)
	if kind != kindFile {
		return source
	}
	return filepath.Clean(p.filename)
}

func (p *parser) advance() error {
	tok, err := p.lex.Scan()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Filename: p.filename, Line: p.cur.Line, Msg: fmt.Sprintf(format, args...)}
}

// fatal normalises any error (a *lexer.Error, a *Error, or a plain
// error) into a *Error, dispatches it to the event handler as FATAL,
// and returns it for the caller to propagate.
func (p *parser) fatal(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	switch v := err.(type) {
	case *Error:
		e = v
	case *lexer.Error:
		e = &Error{Code: v.Code, Filename: p.filename, Line: v.Line, Msg: v.Msg}
	default:
		e = &Error{Code: errcode.BadImportOrTType, Filename: p.filename, Msg: err.Error()}
	}
	p.handler.Handle(Event{Severity: Fatal, Code: e.Code, Filename: e.Filename, Line: e.Line, Message: e.Msg})
	return e
}

// parseDocument parses a whole UXF document: header, optional file
// comment, optional imports, optional ttype definitions, the single
// top-level value, and nothing else (spec.md §4.3).
func (p *parser) parseDocument() (*Uxf, error) {
	if _, err := p.lex.Header(); err != nil {
		return nil, p.fatal(err)
	}
	p.doc = &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{},
	}
	if err := p.advance(); err != nil {
		return nil, p.fatal(err)
	}

	if p.cur.Kind == lexer.COMMENT {
		p.doc.Comment = p.cur.Text
		if err := p.advance(); err != nil {
			return nil, p.fatal(err)
		}
	}

	for p.cur.Kind == lexer.IMPORT {
		if err := p.parseImport(p.cur.Text, p.cur.Line); err != nil {
			return nil, p.fatal(err)
		}
		if err := p.advance(); err != nil {
			return nil, p.fatal(err)
		}
	}

	for p.cur.Kind == lexer.COMMENT || p.cur.Kind == lexer.TTYPE_DEF_BEGIN {
		comment := ""
		if p.cur.Kind == lexer.COMMENT {
			comment = p.cur.Text
			if err := p.advance(); err != nil {
				return nil, p.fatal(err)
			}
			if p.cur.Kind != lexer.TTYPE_DEF_BEGIN {
				return nil, p.fatal(p.errf(errcode.BadFileComment,
					"a comment here must precede a ttype definition"))
			}
		}
		if err := p.parseTTypeDef(comment); err != nil {
			return nil, p.fatal(err)
		}
		if err := p.advance(); err != nil {
			return nil, p.fatal(err)
		}
	}

	value, err := p.parseTopLevelValue()
	if err != nil {
		return nil, p.fatal(err)
	}
	p.doc.Value = value

	if p.cur.Kind != lexer.EOF {
		return nil, p.fatal(p.errf(errcode.ExpectedValue, "unexpected content after the top-level value"))
	}

	p.checkUnusedImports()
	return p.doc, nil
}

func (p *parser) parseImport(source string, line int) error {
	tclasses, err := p.resolverFor().resolve(source, p.selfSource())
	if err != nil {
		return err
	}
	for name, tc := range tclasses {
		if existing, ok := p.doc.TClasses[name]; ok {
			if !existing.SameShape(tc) {
				return &Error{Code: errcode.ConflictingImport, Filename: p.filename, Line: line,
					Msg: fmt.Sprintf("import %q conflicts with already-registered ttype %q", source, name)}
			}
			continue
		}
		p.doc.TClasses[name] = tc
		p.doc.Imports[name] = source
	}
	return nil
}

func (p *parser) parseTTypeDef(comment string) error {
	line := p.cur.Line
	ttype, fieldToks, err := p.lex.ScanTTypeDefLine()
	if err != nil {
		return err
	}
	if !ValidIdentifier(ttype) {
		return &Error{Code: errcode.BadImportOrTType, Filename: p.filename, Line: line,
			Msg: fmt.Sprintf("invalid ttype name %q", ttype)}
	}
	fields := make([]Field, 0, len(fieldToks))
	seen := map[string]bool{}
	for _, ft := range fieldToks {
		if !ValidIdentifier(ft.Name) {
			return &Error{Code: errcode.BadImportOrTType, Filename: p.filename, Line: line,
				Msg: fmt.Sprintf("invalid field name %q", ft.Name)}
		}
		if seen[ft.Name] {
			return &Error{Code: errcode.BadImportOrTType, Filename: p.filename, Line: line,
				Msg: fmt.Sprintf("duplicate field name %q in ttype %q", ft.Name, ttype)}
		}
		seen[ft.Name] = true
		fields = append(fields, Field{Name: ft.Name, VType: TypeName(ft.VType)})
	}
	tclass := &TClass{TType: ttype, Comment: comment, Fields: fields}
	if existing, ok := p.doc.TClasses[ttype]; ok {
		if !existing.SameShape(tclass) {
			existingNames := util.TransformSlice(existing.Fields, func(f Field) string { return f.Name })
			return &Error{Code: errcode.DuplicateTType, Filename: p.filename, Line: line,
				Msg: fmt.Sprintf("ttype %q redefined with a different shape (existing fields: %s)",
					ttype, strings.Join(existingNames, ", "))}
		}
		return nil
	}
	p.doc.TClasses[ttype] = tclass
	return nil
}

// parseTopLevelValue parses the document's single top-level value. An
// empty document (header only, immediate EOF) is treated as an empty
// untyped list, the same default New() gives an in-memory Uxf (spec.md
// §3 Lifecycle, "empty top-level").
func (p *parser) parseTopLevelValue() (Value, error) {
	switch p.cur.Kind {
	case lexer.LIST_BEGIN:
		l, err := p.parseList()
		if err != nil {
			return nil, err
		}
		return l, nil
	case lexer.MAP_BEGIN:
		m, err := p.parseMap()
		if err != nil {
			return nil, err
		}
		return m, nil
	case lexer.TABLE_BEGIN:
		return p.parseTableOrFieldless()
	case lexer.EOF:
		return NewList(""), nil
	default:
		return nil, p.errf(errcode.ScalarOutsideTable, "top-level value must be a list, map, or table")
	}
}

// parseValue parses one value wherever a value is legal: inside a
// list, as a map key or value, or as a table field.
func (p *parser) parseValue() (Value, error) {
	tok := p.cur
	switch tok.Kind {
	case lexer.NULL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Null{}, nil
	case lexer.BOOL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Bool(tok.Bool), nil
	case lexer.INT:
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errf(errcode.BadNumber, "malformed integer %q", tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Int(n), nil
	case lexer.REAL:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errf(errcode.BadNumber, "malformed real %q", tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Real(f), nil
	case lexer.STR:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Str(tok.Text), nil
	case lexer.BYTES:
		b, err := hex.DecodeString(tok.Text)
		if err != nil {
			return nil, p.errf(errcode.BadBytesHex, "malformed bytes literal %q", tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Bytes(b), nil
	case lexer.DATE:
		t, err := parseDateOrDateTime(tok.Text)
		if err != nil {
			return nil, p.errf(errcode.BadDateOrDateTime, "%v", err)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Date{Time: t}, nil
	case lexer.DATETIME:
		t, err := parseDateOrDateTime(tok.Text)
		if err != nil {
			return nil, p.errf(errcode.BadDateOrDateTime, "%v", err)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return DateTime{Time: t}, nil
	case lexer.LIST_BEGIN:
		return p.parseList()
	case lexer.MAP_BEGIN:
		return p.parseMap()
	case lexer.TABLE_BEGIN:
		return p.parseTableOrFieldless()
	default:
		return nil, p.errf(errcode.ExpectedValue, "expected a value, got %s", tok.Kind)
	}
}

func (p *parser) parseList() (*List, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	list := NewList("")
	if p.cur.Kind == lexer.COMMENT {
		list.Comment = p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind == lexer.IDENTIFIER {
		vtype := TypeName(p.cur.Text)
		if !KnownType(vtype, p.doc.TClasses) {
			return nil, p.errf(errcode.UnknownVType, "unknown list vtype %q", vtype)
		}
		list.VType = vtype
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	for p.cur.Kind != lexer.LIST_END {
		if p.cur.Kind == lexer.EOF {
			return nil, p.errf(errcode.CloserMissing, "unterminated list opened on line %d", line)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if list.VType != "" && !Conforms(v, list.VType, p.doc.TClasses) {
			return nil, p.errf(errcode.MutationTypeMismatch, "list item does not conform to declared vtype %q", list.VType)
		}
		if err := list.Push(v); err != nil {
			return nil, err
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *parser) parseMap() (*Map, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	m := NewMap("", "")
	if p.cur.Kind == lexer.COMMENT {
		m.Comment = p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind == lexer.IDENTIFIER {
		ktype := TypeName(p.cur.Text)
		if !IsValidKeyType(ktype) {
			if IsBuiltinContainer(ktype) {
				return nil, p.errf(errcode.MapKeyBadType, "invalid map ktype %q", ktype)
			}
			return nil, p.errf(errcode.MutationUnknownType, "ktype %q cannot be used as a map key type", ktype)
		}
		m.KType = ktype
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == lexer.IDENTIFIER {
			vtype := TypeName(p.cur.Text)
			if !KnownType(vtype, p.doc.TClasses) {
				return nil, p.errf(errcode.UnknownVType, "unknown map vtype %q", vtype)
			}
			m.VType = vtype
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	for p.cur.Kind != lexer.MAP_END {
		if p.cur.Kind == lexer.EOF {
			return nil, p.errf(errcode.CloserMissing, "unterminated map opened on line %d", line)
		}
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if !isValidKeyValue(key) {
			return nil, p.errf(errcode.MapKeyBadType, "map key has a type that cannot be a key")
		}
		if m.KType != "" && !Conforms(key, m.KType, p.doc.TClasses) {
			return nil, p.errf(errcode.MapKeyWrongVType, "map key does not conform to declared ktype %q", m.KType)
		}
		if p.cur.Kind == lexer.MAP_END || p.cur.Kind == lexer.EOF {
			return nil, p.errf(errcode.ExpectedValue, "map key has no matching value")
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if m.VType != "" && !Conforms(val, m.VType, p.doc.TClasses) {
			return nil, p.errf(errcode.MutationTypeMismatch, "map value does not conform to declared vtype %q", m.VType)
		}
		if err := m.Put(key, val); err != nil {
			return nil, p.errf(errcode.MapKeyBadType, "%v", err)
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return m, nil
}

func isValidKeyValue(v Value) bool {
	switch v.(type) {
	case Int, Str, Bytes, Date, DateTime:
		return true
	default:
		return false
	}
}

// parseTableOrFieldless parses "(" comment? ttype value* ")". A
// fieldless ttype yields a single FieldlessValue and must have no
// further values before the closer (spec.md §4.1, error 334). A
// ttype with fields packs the flat value sequence into fixed-arity
// records (spec.md §4.3 "record packing", error 486 on a remainder).
func (p *parser) parseTableOrFieldless() (Value, error) {
	line := p.cur.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	comment := ""
	if p.cur.Kind == lexer.COMMENT {
		comment = p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind != lexer.IDENTIFIER {
		return nil, p.errf(errcode.BadContainerOpener, "expected a ttype name after '('")
	}
	ttype := p.cur.Text
	tclass, ok := p.doc.TClasses[ttype]
	if !ok {
		return nil, p.errf(errcode.UnknownTType, "unknown ttype %q", ttype)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if tclass.Fieldless() {
		if p.cur.Kind != lexer.TABLE_END {
			return nil, p.errf(errcode.FieldlessWithRecord, "fieldless ttype %q may not have record values", ttype)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return FieldlessValue{TClass: tclass}, nil
	}

	var flat []Value
	for p.cur.Kind != lexer.TABLE_END {
		if p.cur.Kind == lexer.EOF {
			return nil, p.errf(errcode.CloserMissing, "unterminated table opened on line %d", line)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		flat = append(flat, v)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	arity := tclass.Arity()
	if arity == 0 || len(flat)%arity != 0 {
		return nil, p.errf(errcode.IncompleteRecord,
			"table %q has %d values, not a multiple of its arity %d", ttype, len(flat), arity)
	}

	table := NewTable(tclass)
	table.Comment = comment
	for i := 0; i < len(flat); i += arity {
		rec := flat[i : i+arity]
		for j, v := range rec {
			field := tclass.Fields[j]
			if field.VType == "" {
				continue
			}
			if widens(v, field.VType) {
				rec[j] = Real(float64(v.(Int)))
				p.handler.Handle(Event{
					Severity: Warn, Code: errcode.IntToRealOK, Filename: p.filename, Line: p.cur.Line,
					Message: fmt.Sprintf("field %q of ttype %q widened from int to real", field.Name, ttype),
				})
				continue
			}
			if narrows(v, field.VType) {
				return nil, p.errf(errcode.RealToIntBad,
					"field %q of ttype %q expects int, got real", field.Name, ttype)
			}
			if !Conforms(v, field.VType, p.doc.TClasses) {
				return nil, p.errf(errcode.MutationTypeMismatch,
					"field %q of ttype %q does not conform to declared vtype %q", field.Name, ttype, field.VType)
			}
		}
		if err := table.Append(rec...); err != nil {
			return nil, p.errf(errcode.IncompleteRecord, "%v", err)
		}
	}
	return table, nil
}

// checkUnusedImports raises a WARN (code 422) for any imported ttype
// that no table in the parsed value tree ends up referencing.
func (p *parser) checkUnusedImports() {
	if len(p.doc.Imports) == 0 {
		return
	}
	used := map[string]bool{}
	markUsedTTypes(p.doc.Value, used)
	for name, source := range util.CanonicalMapIter(p.doc.Imports) {
		if !used[name] {
			p.handler.Handle(Event{
				Severity: Warn, Code: errcode.UnusedImport, Filename: p.filename,
				Message: fmt.Sprintf("imported ttype %q from %q is never used", name, source),
			})
		}
	}
}

func markUsedTTypes(v Value, used map[string]bool) {
	switch val := v.(type) {
	case *List:
		for _, item := range val.Items {
			markUsedTTypes(item, used)
		}
	case *Map:
		val.Entries(func(k, mv Value) bool {
			markUsedTTypes(k, used)
			markUsedTTypes(mv, used)
			return true
		})
	case *Table:
		used[val.TType()] = true
		for i := range val.Records {
			for _, fv := range val.Records[i].Values {
				markUsedTTypes(fv, used)
			}
		}
	case FieldlessValue:
		used[val.TClass.TType] = true
	}
}

var dateRE = regexp.MustCompile(`^([+-]?\d{4})-(\d{2})-(\d{2})(?:T(\d{2}):?(\d{2}):?(\d{2})([+-]\d{2}(?::?\d{2})?)?)?$`)

// checkCalendarDate rejects a day/month combination that time.Date
// would otherwise silently normalise (e.g. 2020-02-30 rolling forward
// to 2020-03-01), by round-tripping through time.Date and comparing
// the reconstructed fields against the parsed ones (spec.md §8
// boundary test "Date 2020-02-30 -> fatal 231").
func checkCalendarDate(year, month, day int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range", month)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return fmt.Errorf("day %d is out of range for %04d-%02d", day, year, month)
	}
	return nil
}

// parseDateOrDateTime parses the text a DATE or DATETIME token carries.
// It is written against the regex rather than time.Parse with a fixed
// layout because the lexer accepts the colon-optional compact time
// form alongside the colon-separated one (spec.md §3, date/datetime
// literal grammar).
func parseDateOrDateTime(text string) (time.Time, error) {
	m := dateRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, fmt.Errorf("malformed date/datetime %q", text)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if err := checkCalendarDate(year, month, day); err != nil {
		return time.Time{}, err
	}
	if m[4] == "" {
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
	}
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("time component out of range in %q", text)
	}
	loc := time.UTC
	if m[7] != "" {
		sign := 1
		offset := m[7]
		if offset[0] == '-' {
			sign = -1
		}
		digits := offset[1:]
		var offH, offM int
		switch {
		case len(digits) >= 5:
			offH, _ = strconv.Atoi(digits[0:2])
			offM, _ = strconv.Atoi(digits[3:5])
		case len(digits) == 4:
			offH, _ = strconv.Atoi(digits[0:2])
			offM, _ = strconv.Atoi(digits[2:4])
		default:
			offH, _ = strconv.Atoi(digits[0:2])
		}
		secs := sign * (offH*3600 + offM*60)
		loc = time.FixedZone(offset, secs)
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}
