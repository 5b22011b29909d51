package uxf

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/msummerfield/uxf/util"
)

// Uxf is the root of a parsed document: optional custom header text and
// file comment, the resolved import table, the ttype registry, and the
// single top-level value (a List, Map, or Table).
//
// Once handed to a caller it is immutable in shape (no new top-level
// value, no swapping tclasses wholesale) but mutable in contents
// through the List/Map/Table API (spec.md §3 Lifecycle). TClasses are
// shared by reference among tables but owned by exactly the Uxf they
// were registered on.
type Uxf struct {
	Custom  string
	Comment string

	// Imports maps a registered ttype name to the import source text
	// (path, URL, or system name) that introduced it.
	Imports map[string]string

	// TClasses maps every registered ttype name (imported or locally
	// defined) to its definition.
	TClasses map[string]*TClass

	// Value is the single top-level List, Map, or Table.
	Value Value
}

// New constructs an empty Uxf, the way the parser's header step does
// before populating imports, tclasses, and the value tree (spec.md §3
// Lifecycle).
func New(data string) *Uxf {
	return &Uxf{
		Imports:  map[string]string{},
		TClasses: map[string]*TClass{},
		Value:    NewList(""),
	}
}

// Options configures Load/Loads/Dump/Dumps. The zero Options is usable:
// it wraps the NullHandler, keeps unused ttypes, keeps imports
// unexpanded, and uses the writer's built-in defaults for wrap width,
// indent, and real-number formatting.
type Options struct {
	// OnEvent receives every WARN/ERROR/FATAL raised while processing
	// the document. Defaults to NullHandler if nil.
	OnEvent EventHandler

	// DropUnused, when dumping, omits ttypes that no table in the
	// value tree actually references.
	DropUnused bool

	// ReplaceImports, when dumping, inlines every imported ttype
	// definition instead of emitting an "!source" import line.
	//
	// Per spec.md §9 Design Notes, when both DropUnused and
	// ReplaceImports are set, unused ttypes are dropped FIRST and the
	// remainder are then inlined — not the other way around.
	ReplaceImports bool

	// WrapWidth bounds output line length, in [40,999]. Zero means the
	// writer's default of 96.
	WrapWidth int

	// Indent is the per-level indent string when a container wraps.
	// Empty means the writer's default of three spaces.
	Indent string

	// RealDP, if non-nil, rounds real numbers to this many decimal
	// places on output (0..15).
	RealDP *int

	// HTTPTimeout bounds an import resolver's GET request. Zero means
	// the resolver's default of 10 seconds.
	HTTPTimeout time.Duration

	// BaseDir is the directory imports with relative paths are
	// resolved against. When empty, Load uses the directory of the
	// loaded file and Loads resolves against the current working
	// directory.
	BaseDir string

	// Logger receives debug-level tracing of import resolution (cache
	// hits and fetches). Defaults to a logger discarding
	// everything below warning, so callers pay nothing unless they ask.
	Logger *slog.Logger
}

func (o Options) handler() EventHandler {
	if o.OnEvent == nil {
		return NullHandler{}
	}
	return o.OnEvent
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return util.NewSlogger(io.Discard, slog.LevelWarn)
}

// Load reads and parses the UXF document at path. It transparently
// decompresses the input if the first two bytes are the gzip magic
// number (0x1F 0x8B), the way the external CLI/converter layer (out of
// scope for this library) would hand it a reader.
func Load(path string, opts Options) (*Uxf, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: fileErrCode(err), Msg: err.Error()}
	}
	text, err := maybeGunzip(raw)
	if err != nil {
		return nil, &Error{Code: 102, Filename: path, Msg: err.Error()}
	}
	base := opts.BaseDir
	if base == "" {
		base = dirOf(path)
	}
	o2 := opts
	o2.BaseDir = base
	return loads(text, path, o2)
}

// Loads parses a UXF document from an in-memory string.
func Loads(text string, opts Options) (*Uxf, error) {
	return loads(text, "", opts)
}

func loads(text, filename string, opts Options) (*Uxf, error) {
	p := newParser(text, filename, opts)
	u, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	return u, nil
}

func fileErrCode(err error) int {
	if os.IsNotExist(err) {
		return 102
	}
	return 100
}

func dirOf(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return "."
	}
	return path[:i]
}

func maybeGunzip(raw []byte) (string, error) {
	if len(raw) >= 2 && raw[0] == 0x1F && raw[1] == 0x8B {
		return gunzip(raw)
	}
	return string(raw), nil
}

// Dump writes u to w as formatted UXF text.
func Dump(w io.Writer, u *Uxf, opts Options) error {
	text, err := Dumps(u, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// Dumps renders u as formatted UXF text (spec.md §4.7). Before writing
// a single byte it reruns the full conformance check of spec.md §4.5
// ("on Uxf.dump a full pass rechecks") over the whole value tree, so a
// document mutated in ways that bypass the per-operation checks on
// List/Map/Table (e.g. direct field assignment) is still caught.
func Dumps(u *Uxf, opts Options) (string, error) {
	if err := checkConformance(u.Value, u.TClasses); err != nil {
		if e, ok := err.(*Error); ok {
			opts.handler().Handle(Event{Severity: Fatal, Code: e.Code, Message: e.Msg})
		}
		return "", err
	}
	return writeUxf(u, opts)
}
