package uxf

import (
	"fmt"
	"io"
	"os"

	"github.com/msummerfield/uxf/errcode"
)

// Severity is re-exported from errcode so callers never need to import
// the lower-level package themselves.
type Severity = errcode.Severity

// Severities.
const (
	Warn     = errcode.Warn
	ErrorSev = errcode.ErrorSev
	Fatal    = errcode.Fatal
)

// Event is one warning/error/fatal raised while loading or dumping a
// document. A FATAL event aborts the current Load/Dump call; WARN and
// ERROR events accumulate via the EventHandler and loading continues
// when forward progress is still possible (spec.md §4.9, §7).
type Event struct {
	Severity Severity
	Code     int
	Filename string
	Line     int
	Message  string
}

func (e Event) String() string {
	where := ""
	if e.Filename != "" {
		where = e.Filename + ":"
	}
	if e.Line > 0 {
		where = fmt.Sprintf("%s%d:", where, e.Line)
	}
	return fmt.Sprintf("%s%s #%d: %s", where, e.Severity, e.Code, e.Message)
}

// Err turns this Event into an *Error, the shape FATAL events are
// surfaced to callers of Load/Loads/Dump/Dumps in.
func (e Event) Err() *Error {
	return &Error{Code: e.Code, Filename: e.Filename, Line: e.Line, Msg: e.Message}
}

// Error is the error type returned by Load/Loads/Dump/Dumps on a FATAL
// event. It carries the stable numeric code plus source position so
// callers can programmatically distinguish failure classes instead of
// string-matching messages, the same way the teacher's driver layer
// distinguishes connection errors from generator errors by type rather
// than by message text.
type Error struct {
	Code     int
	Filename string
	Line     int
	Msg      string
}

func (e *Error) Error() string {
	where := ""
	if e.Filename != "" {
		where = e.Filename + ":"
	}
	if e.Line > 0 {
		where = fmt.Sprintf("%s%d:", where, e.Line)
	}
	return fmt.Sprintf("%s error #%d: %s", where, e.Code, e.Msg)
}

// Is lets errors.Is(err, ErrIO) (etc.) classify an *Error by family
// without string matching.
func (e *Error) Is(target error) bool {
	family, ok := target.(*familyError)
	if !ok {
		return false
	}
	return family.contains(e.Code)
}

type familyError struct {
	name string
	lo   int
	hi   int
}

func (f *familyError) Error() string          { return f.name }
func (f *familyError) contains(code int) bool { return code >= f.lo && code <= f.hi }

// Sentinel family errors usable with errors.Is(err, uxf.ErrLexical), etc.
var (
	ErrIO         = &familyError{"uxf: i/o or header error", 100, 176}
	ErrLexical    = &familyError{"uxf: lexical error", 180, 231}
	ErrValue      = &familyError{"uxf: value construction error", 270, 340}
	ErrStructural = &familyError{"uxf: structural error", 400, 512}
	ErrImport     = &familyError{"uxf: import error", 528, 586}
	ErrTType      = &familyError{"uxf: ttype registration error", 690, 694}
)

// EventHandler receives every Event raised while processing a
// document. It is modelled as a value passed through Options rather
// than as process-wide state (spec.md §9 Design Notes), the way the
// teacher threads a Logger value through its Database constructor
// instead of relying on a package-level logger.
type EventHandler interface {
	Handle(Event)
}

// EventHandlerFunc adapts a plain function to an EventHandler.
type EventHandlerFunc func(Event)

// Handle implements EventHandler.
func (f EventHandlerFunc) Handle(e Event) { f(e) }

// StderrHandler formats every event to an io.Writer (os.Stderr by
// default), the verbose diagnostic path described in spec.md §4.9. It
// mirrors the teacher's StdoutLogger: a zero-value-friendly struct
// wrapping a single sink.
type StderrHandler struct {
	W io.Writer
}

// NewStderrHandler returns a handler writing to os.Stderr.
func NewStderrHandler() *StderrHandler { return &StderrHandler{W: os.Stderr} }

// Handle implements EventHandler.
func (h *StderrHandler) Handle(e Event) {
	w := h.W
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintln(w, e.String())
}

// NullHandler discards every event; it is the direct analogue of the
// teacher's NullLogger, used by tests that want to intercept errors via
// the returned error instead of via side-channel output.
type NullHandler struct{}

// Handle implements EventHandler.
func (NullHandler) Handle(Event) {}
