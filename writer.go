package uxf

import (
	"encoding/hex"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/msummerfield/uxf/util"
)

const (
	defaultWrapWidth = 96
	defaultIndent    = "   "
)

// writer renders a Uxf back to text with a two-pass layout algorithm:
// measure computes each container's flattened width bottom-up and
// memoises it by pointer identity; render then walks the tree
// top-down, and at every container decides whether its flattened form
// still fits in the remaining line width or whether it must break one
// item per line. This mirrors the measure-then-decide shape of the
// Oppen pretty-printing algorithm (see oppen.py in the reference
// implementation, whose token-producing first pass was never finished
// with a matching second pass) without needing a separate token
// stream: here the group structure the algorithm breaks on already
// IS the container structure, so the two passes can work directly
// against the Value tree.
type writer struct {
	opts      Options
	wrapWidth int
	indent    string
	used      map[string]bool
	flat      map[Value]int
	sb        strings.Builder
}

func writeUxf(u *Uxf, opts Options) (string, error) {
	w := &writer{
		opts:      opts,
		wrapWidth: defaultWrapWidth,
		indent:    defaultIndent,
		flat:      map[Value]int{},
	}
	if opts.WrapWidth >= 40 && opts.WrapWidth <= 999 {
		w.wrapWidth = opts.WrapWidth
	}
	if opts.Indent != "" {
		w.indent = opts.Indent
	}

	w.used = map[string]bool{}
	markUsedTTypes(u.Value, w.used)

	header := "uxf 1"
	if u.Custom != "" {
		header += " " + u.Custom
	}
	w.sb.WriteString(header)
	w.sb.WriteByte('\n')
	if u.Comment != "" {
		w.writeLine(w.renderStringLiteral(u.Comment, "#"))
	}

	w.writeImports(u, opts)
	w.writeTTypeDefs(u, opts)

	w.measure(u.Value)
	w.render(u.Value, 0, 0)
	w.sb.WriteByte('\n')
	return w.sb.String(), nil
}

func (w *writer) writeLine(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

// writeImports emits one "!source" line per distinct import source
// (with DropUnused, only sources that introduced a used ttype), or
// none at all if ReplaceImports folds every imported
// ttype into a local definition instead (spec.md §9 Design Notes:
// DropUnused is applied before ReplaceImports).
func (w *writer) writeImports(u *Uxf, opts Options) {
	if opts.ReplaceImports {
		return
	}
	seen := map[string]bool{}
	var ordered []string
	for name, source := range u.Imports {
		if opts.DropUnused && !w.used[name] {
			continue
		}
		if !seen[source] {
			seen[source] = true
			ordered = append(ordered, source)
		}
	}
	sort.Strings(ordered)
	for _, source := range ordered {
		w.writeLine("!" + source)
	}
}

// writeTTypeDefs walks u.TClasses sorted case-insensitively by ttype
// name (spec.md §4.7) so output is deterministic despite Go's
// randomised map iteration.
func (w *writer) writeTTypeDefs(u *Uxf, opts Options) {
	for name, tc := range util.CanonicalMapIterFold(u.TClasses) {
		if _, imported := u.Imports[name]; imported && !opts.ReplaceImports {
			continue
		}
		if opts.DropUnused && !w.used[name] {
			continue
		}
		w.writeTTypeDef(tc)
	}
}

func (w *writer) writeTTypeDef(tc *TClass) {
	if tc.Comment != "" {
		w.writeLine(w.renderStringLiteral(tc.Comment, "#"))
	}
	var sb strings.Builder
	sb.WriteByte('=')
	sb.WriteString(tc.TType)
	for _, f := range tc.Fields {
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
		if f.VType != "" {
			sb.WriteByte(':')
			sb.WriteString(string(f.VType))
		}
	}
	w.writeLine(sb.String())
}

// measure computes the width of v rendered flat (no internal breaks),
// memoising containers by pointer identity so a value shared across
// the tree (a TClass, not a Value, so unreachable here in practice)
// is never re-walked.
func (w *writer) measure(v Value) int {
	switch val := v.(type) {
	case *List:
		if n, ok := w.flat[val]; ok {
			return n
		}
		n := 2 // '[' ']'
		if val.Comment != "" {
			n += len(w.renderStringLiteral(val.Comment, "#")) + 1
		}
		if val.VType != "" {
			n += len(val.VType) + 1
		}
		for i, item := range val.Items {
			if i > 0 {
				n++
			}
			n += w.measure(item)
		}
		w.flat[val] = n
		return n
	case *Map:
		if n, ok := w.flat[val]; ok {
			return n
		}
		n := 2
		if val.Comment != "" {
			n += len(w.renderStringLiteral(val.Comment, "#")) + 1
		}
		if val.KType != "" {
			n += len(val.KType) + 1
			if val.VType != "" {
				n += len(val.VType) + 1
			}
		}
		first := true
		val.Entries(func(k, mv Value) bool {
			if !first {
				n++
			}
			first = false
			n += w.measure(k) + 1 + w.measure(mv)
			return true
		})
		w.flat[val] = n
		return n
	case *Table:
		if n, ok := w.flat[val]; ok {
			return n
		}
		n := 2 + len(val.TClass.TType)
		if val.Comment != "" {
			n += len(w.renderStringLiteral(val.Comment, "#")) + 1
		}
		for ri := range val.Records {
			n++
			for vi, fv := range val.Records[ri].Values {
				if vi > 0 {
					n++
				}
				n += w.measure(fv)
			}
		}
		w.flat[val] = n
		return n
	case FieldlessValue:
		return len(val.TClass.TType) + 2
	default:
		return len(w.scalarText(val))
	}
}

// render writes v starting at output column col (0-based, within the
// current line) at nesting depth depth, and returns the column after
// the last character written.
func (w *writer) render(v Value, col, depth int) int {
	switch val := v.(type) {
	case *List:
		return w.renderList(val, col, depth)
	case *Map:
		return w.renderMap(val, col, depth)
	case *Table:
		return w.renderTable(val, col, depth)
	case FieldlessValue:
		s := "(" + val.TClass.TType + ")"
		w.sb.WriteString(s)
		return col + len(s)
	default:
		s := w.scalarText(val)
		w.sb.WriteString(s)
		return col + len(s)
	}
}

func (w *writer) renderList(l *List, col, depth int) int {
	if col+w.measure(l) <= w.wrapWidth || len(l.Items) == 0 {
		return w.renderListFlat(l, col)
	}
	return w.renderListBroken(l, depth)
}

func (w *writer) renderListFlat(l *List, col int) int {
	w.sb.WriteByte('[')
	col++
	if l.Comment != "" {
		s := w.renderStringLiteral(l.Comment, "#")
		w.sb.WriteString(s)
		col += len(s)
		if l.VType != "" || len(l.Items) > 0 {
			w.sb.WriteByte(' ')
			col++
		}
	}
	if l.VType != "" {
		w.sb.WriteString(string(l.VType))
		col += len(l.VType)
		if len(l.Items) > 0 {
			w.sb.WriteByte(' ')
			col++
		}
	}
	for i, item := range l.Items {
		if i > 0 {
			w.sb.WriteByte(' ')
			col++
		}
		col = w.render(item, col, 0)
	}
	w.sb.WriteByte(']')
	return col + 1
}

func (w *writer) renderListBroken(l *List, depth int) int {
	w.sb.WriteByte('[')
	if l.Comment != "" {
		w.sb.WriteString(w.renderStringLiteral(l.Comment, "#"))
		if l.VType != "" {
			w.sb.WriteByte(' ')
		}
	}
	if l.VType != "" {
		w.sb.WriteString(string(l.VType))
	}
	inner := depth + 1
	indentStr := strings.Repeat(w.indent, inner)
	for _, item := range l.Items {
		w.sb.WriteByte('\n')
		w.sb.WriteString(indentStr)
		w.render(item, len(indentStr), inner)
	}
	w.sb.WriteByte('\n')
	w.sb.WriteString(strings.Repeat(w.indent, depth))
	w.sb.WriteByte(']')
	return depth*len(w.indent) + 1
}

func (w *writer) renderMap(m *Map, col, depth int) int {
	if col+w.measure(m) <= w.wrapWidth || m.Len() == 0 {
		return w.renderMapFlat(m, col)
	}
	return w.renderMapBroken(m, depth)
}

func (w *writer) renderMapFlat(m *Map, col int) int {
	w.sb.WriteByte('{')
	col++
	if m.Comment != "" {
		s := w.renderStringLiteral(m.Comment, "#")
		w.sb.WriteString(s)
		col += len(s)
		if m.KType != "" || m.Len() > 0 {
			w.sb.WriteByte(' ')
			col++
		}
	}
	if m.KType != "" {
		w.sb.WriteString(string(m.KType))
		col += len(m.KType)
		if m.VType != "" {
			w.sb.WriteByte(' ')
			col++
			w.sb.WriteString(string(m.VType))
			col += len(m.VType)
		}
		if m.Len() > 0 {
			w.sb.WriteByte(' ')
			col++
		}
	}
	first := true
	m.Entries(func(k, v Value) bool {
		if !first {
			w.sb.WriteByte(' ')
			col++
		}
		first = false
		col = w.render(k, col, 0)
		w.sb.WriteByte(' ')
		col++
		col = w.render(v, col, 0)
		return true
	})
	w.sb.WriteByte('}')
	return col + 1
}

func (w *writer) renderMapBroken(m *Map, depth int) int {
	w.sb.WriteByte('{')
	if m.Comment != "" {
		w.sb.WriteString(w.renderStringLiteral(m.Comment, "#"))
		if m.KType != "" {
			w.sb.WriteByte(' ')
		}
	}
	if m.KType != "" {
		w.sb.WriteString(string(m.KType))
		if m.VType != "" {
			w.sb.WriteByte(' ')
			w.sb.WriteString(string(m.VType))
		}
	}
	inner := depth + 1
	indentStr := strings.Repeat(w.indent, inner)
	m.Entries(func(k, v Value) bool {
		w.sb.WriteByte('\n')
		w.sb.WriteString(indentStr)
		c := w.render(k, len(indentStr), inner)
		w.sb.WriteByte(' ')
		w.render(v, c+1, inner)
		return true
	})
	w.sb.WriteByte('\n')
	w.sb.WriteString(strings.Repeat(w.indent, depth))
	w.sb.WriteByte('}')
	return depth*len(w.indent) + 1
}

func (w *writer) renderTable(t *Table, col, depth int) int {
	if len(t.Records) > 1 {
		return w.renderTableBroken(t, depth)
	}
	if col+w.measure(t) <= w.wrapWidth || len(t.Records) == 0 {
		return w.renderTableFlat(t, col)
	}
	return w.renderTableBroken(t, depth)
}

func (w *writer) renderTableFlat(t *Table, col int) int {
	w.sb.WriteByte('(')
	col++
	if t.Comment != "" {
		s := w.renderStringLiteral(t.Comment, "#")
		w.sb.WriteString(s)
		col += len(s)
		w.sb.WriteByte(' ')
		col++
	}
	w.sb.WriteString(t.TClass.TType)
	col += len(t.TClass.TType)
	if len(t.Records) > 0 {
		w.sb.WriteByte(' ')
		col++
	}
	for ri := range t.Records {
		if ri > 0 {
			w.sb.WriteByte(' ')
			col++
		}
		for vi, v := range t.Records[ri].Values {
			if vi > 0 {
				w.sb.WriteByte(' ')
				col++
			}
			col = w.render(v, col, 0)
		}
	}
	w.sb.WriteByte(')')
	return col + 1
}

func (w *writer) renderTableBroken(t *Table, depth int) int {
	w.sb.WriteByte('(')
	if t.Comment != "" {
		w.sb.WriteString(w.renderStringLiteral(t.Comment, "#"))
		w.sb.WriteByte(' ')
	}
	w.sb.WriteString(t.TClass.TType)
	inner := depth + 1
	indentStr := strings.Repeat(w.indent, inner)
	for ri := range t.Records {
		w.sb.WriteByte('\n')
		w.sb.WriteString(indentStr)
		c := len(indentStr)
		for vi, v := range t.Records[ri].Values {
			if vi > 0 {
				w.sb.WriteByte(' ')
				c++
			}
			c = w.render(v, c, inner)
		}
	}
	w.sb.WriteByte('\n')
	w.sb.WriteString(strings.Repeat(w.indent, depth))
	w.sb.WriteByte(')')
	return depth*len(w.indent) + 1
}

// scalarText renders a scalar without any wrap-splitting, for
// measurement and for the common case where it ends up fitting.
func (w *writer) scalarText(v Value) string {
	switch val := v.(type) {
	case Null:
		return "?"
	case Bool:
		if bool(val) {
			return "yes"
		}
		return "no"
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Real:
		return w.formatReal(float64(val))
	case Str:
		return w.renderStringLiteral(string(val), "")
	case Bytes:
		return w.renderBytesLiteral([]byte(val))
	case Date:
		return val.Format("2006-01-02")
	case DateTime:
		return w.renderDateTime(val.Time)
	default:
		return ""
	}
}

func (w *writer) formatReal(f float64) string {
	if w.opts.RealDP != nil {
		mul := math.Pow(10, float64(*w.opts.RealDP))
		f = math.Round(f*mul) / mul
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (w *writer) renderDateTime(t time.Time) string {
	if t.Location() == time.UTC {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05Z07:00")
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// renderStringLiteral renders s as one or more "<...>" chunks joined
// by " & " once it is too long for the configured wrap width, the
// way the reference implementation's str_ helper does (grounded on
// oppen.py): split on the last whitespace before the wrap span when
// possible, falling back to a hard split.
func (w *writer) renderStringLiteral(s, prefix string) string {
	text := escapeXML(s)
	if w.wrapWidth == 0 || len(text)+2 < w.wrapWidth {
		return prefix + "<" + text + ">"
	}
	span := w.wrapWidth - 2
	var parts []string
	for len(text) > span {
		cut := strings.LastIndex(text[:span], " ")
		if cut == -1 {
			cut = strings.LastIndex(text[:span], "\n")
		}
		if cut == -1 {
			break
		}
		cut++
		parts = append(parts, prefix+"<"+text[:cut]+">")
		text = text[cut:]
		prefix = ""
	}
	for len(text) > 0 {
		end := span
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, prefix+"<"+text[:end]+">")
		text = text[end:]
		prefix = ""
	}
	if len(parts) == 0 {
		return prefix + "<" + text + ">"
	}
	return strings.Join(parts, " & ")
}

func (w *writer) renderBytesLiteral(b []byte) string {
	text := strings.ToUpper(hex.EncodeToString(b))
	if len(text)+4 < w.wrapWidth {
		return "(:" + text + ":)"
	}
	span := w.wrapWidth - 2
	var sb strings.Builder
	sb.WriteString("(:")
	for i := 0; i < len(text); i += span {
		end := i + span
		if end > len(text) {
			end = len(text)
		}
		sb.WriteString(text[i:end])
	}
	sb.WriteString(":)")
	return sb.String()
}
