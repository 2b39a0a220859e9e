package domain

import (
	"fmt"
	"strings"
)

// ErrorCode classifies a rule violation for clients and tests.
type ErrorCode string

const (
	CodeMissingField    ErrorCode = "missing_field"
	CodeInvalidRequest  ErrorCode = "invalid_request"
	CodeNotFound        ErrorCode = "not_found"
	CodeAmbiguousCode   ErrorCode = "ambiguous_code"
	CodeWrongState      ErrorCode = "wrong_state"
	CodeNotYourTurn     ErrorCode = "not_your_turn"
	CodeUnknownPlayer   ErrorCode = "unknown_player"
	CodeDuplicatePlayer ErrorCode = "duplicate_player"
	CodeCardNotInHand   ErrorCode = "card_not_in_hand"
	CodeIllegalCard     ErrorCode = "illegal_card"
	CodeDeckCapability  ErrorCode = "deck_capability"
	CodeEmptyDeck       ErrorCode = "empty_deck"
	CodeNothingToUndo   ErrorCode = "nothing_to_undo"
	CodeUndoMismatch    ErrorCode = "undo_mismatch"
	CodeCardyUnchanged  ErrorCode = "cardy_unchanged"
	CodeInvalidReorder  ErrorCode = "invalid_reorder"
	CodeConfiguration   ErrorCode = "configuration"
)

// Error is a user-facing validation failure. Message is shown to the acting player verbatim.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// Is matches any *Error carrying the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrMissingField    = &Error{Code: CodeMissingField}
	ErrInvalidRequest  = &Error{Code: CodeInvalidRequest}
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrAmbiguousCode   = &Error{Code: CodeAmbiguousCode}
	ErrWrongState      = &Error{Code: CodeWrongState}
	ErrNotYourTurn     = &Error{Code: CodeNotYourTurn}
	ErrUnknownPlayer   = &Error{Code: CodeUnknownPlayer}
	ErrDuplicatePlayer = &Error{Code: CodeDuplicatePlayer}
	ErrCardNotInHand   = &Error{Code: CodeCardNotInHand}
	ErrIllegalCard     = &Error{Code: CodeIllegalCard}
	ErrDeckCapability  = &Error{Code: CodeDeckCapability}
	ErrEmptyDeck       = &Error{Code: CodeEmptyDeck}
	ErrNothingToUndo   = &Error{Code: CodeNothingToUndo}
	ErrUndoMismatch    = &Error{Code: CodeUndoMismatch}
	ErrCardyUnchanged  = &Error{Code: CodeCardyUnchanged}
	ErrInvalidReorder  = &Error{Code: CodeInvalidReorder}
	ErrConfiguration   = &Error{Code: CodeConfiguration}
)

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewError builds a validation failure for callers outside the package.
func NewError(code ErrorCode, format string, args ...any) error {
	return newError(code, format, args...)
}

// Required fails with a missing_field error when value is blank.
func Required(request, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return newError(CodeMissingField, "%s.%s must be supplied", request, field)
	}
	return nil
}
