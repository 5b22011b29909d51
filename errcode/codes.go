// Package errcode holds the stable numeric error-code taxonomy shared by
// the lexer, parser, import resolver, and the root uxf package. Splitting
// the codes out avoids an import cycle: the low-level lexer package needs
// to raise the same codes the high-level uxf package documents and tests
// against.
package errcode

// Severity classifies how a Code should be handled by the event dispatcher.
type Severity int

const (
	Warn Severity = iota
	ErrorSev
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warning"
	case ErrorSev:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// I/O and header, 100-176.
const (
	BadArgument       = 100
	FileNotFound      = 102
	NoHeader          = 110
	HeaderTruncated   = 120
	BadHeaderCase     = 130
	BadVersion        = 141
	BadHeaderSuffix   = 151
	BadFileComment    = 160
	BadImportOrTType  = 170
	SelfImport        = 176
)

// Lexer, 180-231.
const (
	BadCommentContent  = 180
	UnterminatedString = 190
	BadStringEscape    = 200
	BadNumber          = 210
	UnterminatedBytes  = 220
	BadBytesHex        = 225
	BadDateOrDateTime  = 231
)

// Value-model construction, 270-340.
const (
	MapKeyBadType        = 270
	MapKeyWrongVType     = 280
	MutationTypeMismatch = 290
	MutationUnknownType  = 294
	FieldlessWithRecord  = 334
	UnexpectedValueType  = 340
)

// Parser mismatches, 400-460.
const (
	ScalarOutsideTable = 402
	UnknownTType       = 420
	UnusedImport       = 422 // warning, not fatal
	BadContainerOpener = 440
	ExpectedValue      = 460
)

// Record/closure, 486-510.
const (
	IncompleteRecord = 486
	IntToRealOK      = 496 // widening allowed; informational
	RealToIntBad     = 498
	UnknownVType     = 500 // declared vtype/ktype is neither built-in nor registered
	CloserMismatch   = 510
	CloserMissing    = 512
)

// Imports, 528-586.
const (
	ConflictingImport = 544
	UnreachableImport = 550
	CircularImport    = 580
	InvalidImport     = 586
)

// ttype registration, 690-694.
const (
	DuplicateTType = 690
)
