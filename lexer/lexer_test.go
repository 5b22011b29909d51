package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderOK(t *testing.T) {
	l := New("uxf 1\n[]\n")
	tok, err := l.Header()
	require.NoError(t, err)
	assert.Equal(t, HEADER, tok.Kind)
}

func TestHeaderMissing(t *testing.T) {
	l := New("[]\n")
	_, err := l.Header()
	require.Error(t, err)
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 110, lerr.Code)
}

func TestHeaderUppercaseRejected(t *testing.T) {
	l := New("UXF 1\n[]\n")
	_, err := l.Header()
	require.Error(t, err)
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 130, lerr.Code)
}

func TestHeaderBadVersion(t *testing.T) {
	l := New("uxf 2\n[]\n")
	_, err := l.Header()
	require.Error(t, err)
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 141, lerr.Code)
}

func scanAll(t *testing.T, text string) []Token {
	t.Helper()
	l := New(text)
	_, err := l.Header()
	require.NoError(t, err)
	var toks []Token
	for {
		tok, err := l.Scan()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func TestScanBracketsAndScalars(t *testing.T) {
	toks := scanAll(t, "uxf 1\n[1 2.5 <hi> yes no null]\n")
	kinds := make([]Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []Kind{
		LIST_BEGIN, INT, REAL, STR, BOOL, BOOL, NULL, LIST_END, EOF,
	}, kinds)
}

func TestScanBytesLiteral(t *testing.T) {
	toks := scanAll(t, "uxf 1\n[(:deadbeef:)]\n")
	require.Len(t, toks, 4)
	assert.Equal(t, BYTES, toks[1].Kind)
	assert.Equal(t, "DEADBEEF", toks[1].Text)
}

func TestScanDateAndDateTime(t *testing.T) {
	toks := scanAll(t, "uxf 1\n[2024-06-01 2024-06-01T12:30:00]\n")
	require.Len(t, toks, 5)
	assert.Equal(t, DATE, toks[1].Kind)
	assert.Equal(t, DATETIME, toks[2].Kind)
}

func TestScanMalformedNumber(t *testing.T) {
	l := New("uxf 1\n[1.2.3]\n")
	_, err := l.Header()
	require.NoError(t, err)
	_, err = l.Scan() // '['
	require.NoError(t, err)
	_, err = l.Scan() // malformed "1.2.3"
	require.Error(t, err)
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 210, lerr.Code)
}

func TestScanComment(t *testing.T) {
	toks := scanAll(t, "uxf 1\n#<a file comment>\n[]\n")
	require.Len(t, toks, 4)
	assert.Equal(t, COMMENT, toks[0].Kind)
	assert.Equal(t, "a file comment", toks[0].Text)
}
