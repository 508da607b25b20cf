package domain

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Transport layers map these with errors.Is; anything else is an
// internal failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrListingNotFound    = kind("listing not found", ErrNotFound)
	ErrBookingNotFound    = kind("booking not found", ErrNotFound)
	ErrUserNotFound       = kind("user not found", ErrNotFound)
	ErrEmailTaken         = kind("an account with this email already exists", ErrConflict)
	ErrBookingOverlap     = kind("listing already booked for these dates", ErrConflict)
	ErrInvalidTransition  = kind("invalid status transition", ErrInvalidInput)
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type kindError struct {
	msg    string
	parent error
}

func kind(msg string, parent error) error { return &kindError{msg: msg, parent: parent} }

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.parent }

// ValidationError carries per-field messages. It matches ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records msg for field, keeping the first message per field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// OrNil returns v when it holds errors and nil otherwise.
func (v *ValidationError) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

func (v *ValidationError) Error() string {
	if !v.HasErrors() {
		return ErrInvalidInput.Error()
	}
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, v.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationError) Unwrap() error { return ErrInvalidInput }
