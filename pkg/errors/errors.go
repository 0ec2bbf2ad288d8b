// Package errors defines the error kinds surfaced by netlist resolution.
//
// Each kind is a sentinel error. Failures are reported as *Error values that
// carry the kind together with the offending identifier (a library id, a
// reference designator or a model name), so callers can both branch on the
// kind and tell the user what was missing:
//
//	_, err := netlist.New(sch)
//	if errors.Is(err, errors.ErrLibraryNotFound) {
//	    fmt.Println("missing symbol:", errors.Subject(err))
//	}
package errors

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrLibraryNotFound: a symbol references a library definition that is
	// not embedded in the schematic.
	ErrLibraryNotFound = errors.New("library not found")
	// ErrPropertyNotFound: a symbol lacks a required property.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrSpiceModelNotFound: no library file declares the requested
	// subcircuit or model.
	ErrSpiceModelNotFound = errors.New("spice model not found")
	// ErrUnknownCircuitElement: a value mutation names no component of the
	// circuit.
	ErrUnknownCircuitElement = errors.New("unknown circuit element")
)

// Error is a failure of one kind about one subject.
type Error struct {
	Kind    error  // One of the Err* kinds
	Subject string // Offending identifier
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Subject, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Subject)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// New creates an Error of the given kind.
func New(kind error, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// Wrap creates an Error of the given kind wrapping cause.
func Wrap(kind error, subject string, cause error) *Error {
	return &Error{Kind: kind, Subject: subject, Cause: cause}
}

// Is is errors.Is, re-exported so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Subject extracts the offending identifier from err.
// Returns empty string if err carries no *Error.
func Subject(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Subject
	}
	return ""
}
