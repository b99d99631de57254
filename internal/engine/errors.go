package engine

import (
	"errors"
	"fmt"
	"time"
)

// RejectError represents a scan the engine refused without touching the
// store.
//
// Rejections are advisory, not faults: the caller reports them to the
// operator and keeps scanning.
type RejectError struct {
	// Code identifies the rejection category.
	Code RejectCode

	// Card is the offending credential (empty for CodeEmptyInput).
	Card string

	// Remaining is how long until the card may scan again.
	// Only set for CodeTooSoon.
	Remaining time.Duration
}

// RejectCode categorizes scan rejections.
type RejectCode string

const (
	// CodeEmptyInput indicates a blank credential. Silently ignorable.
	CodeEmptyInput RejectCode = "EMPTY_INPUT"

	// CodeTooSoon indicates the card scanned again inside the debounce
	// window of its last accepted scan.
	CodeTooSoon RejectCode = "TOO_SOON"
)

// Error implements the error interface.
func (e *RejectError) Error() string {
	switch e.Code {
	case CodeTooSoon:
		return fmt.Sprintf("%s: card scanned recently, wait %s", e.Code, e.Remaining.Round(time.Second))
	default:
		return fmt.Sprintf("%s: scan rejected", e.Code)
	}
}

// IsEmptyInput returns true if the error is an empty-credential rejection.
// Uses errors.As to handle wrapped errors.
func IsEmptyInput(err error) bool {
	var re *RejectError
	if errors.As(err, &re) {
		return re.Code == CodeEmptyInput
	}
	return false
}

// IsTooSoon returns the remaining wait and true if the error is a debounce
// rejection. Uses errors.As to handle wrapped errors.
func IsTooSoon(err error) (time.Duration, bool) {
	var re *RejectError
	if errors.As(err, &re) && re.Code == CodeTooSoon {
		return re.Remaining, true
	}
	return 0, false
}

// newEmptyInputError creates a RejectError for a blank credential.
func newEmptyInputError() *RejectError {
	return &RejectError{Code: CodeEmptyInput}
}

// newTooSoonError creates a RejectError for a debounced scan.
func newTooSoonError(card string, remaining time.Duration) *RejectError {
	return &RejectError{Code: CodeTooSoon, Card: card, Remaining: remaining}
}
