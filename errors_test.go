package uxf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsFamily(t *testing.T) {
	err := &Error{Code: 210, Msg: "malformed real"}
	assert.True(t, errors.Is(err, ErrLexical))
	assert.False(t, errors.Is(err, ErrImport))
}

func TestErrorFamilyBoundaries(t *testing.T) {
	assert.True(t, errors.Is(&Error{Code: 176}, ErrIO))
	assert.True(t, errors.Is(&Error{Code: 580}, ErrImport))
	assert.True(t, errors.Is(&Error{Code: 690}, ErrTType))
	assert.False(t, errors.Is(&Error{Code: 177}, ErrIO))
}

func TestEventHandlerFunc(t *testing.T) {
	var got Event
	h := EventHandlerFunc(func(e Event) { got = e })
	h.Handle(Event{Severity: Warn, Code: 422, Message: "unused"})
	assert.Equal(t, 422, got.Code)
}

func TestNullHandlerDiscards(t *testing.T) {
	var h NullHandler
	h.Handle(Event{Severity: Fatal, Code: 100})
}
