// Package ruleerr implements the closed error-kind table of spec §7 as a
// typed error, mirroring DnD-Game's pkg/errors AppError pattern (a Kind
// enum plus a message plus an optional wrapped cause) narrowed to this
// engine's seven recoverable-or-fatal kinds instead of an HTTP error
// catalog.
package ruleerr

import "fmt"

// Kind is one of the closed set of error kinds named in spec §7.
type Kind string

const (
	SpecLoadError        Kind = "SpecLoadError"
	InvalidPositionFormat Kind = "InvalidPositionFormat"
	NoPieceAtOrigin      Kind = "NoPieceAtOrigin"
	NoMatchingAction     Kind = "NoMatchingAction"
	NonChainableInChain  Kind = "NonChainableInChain"
	InvalidCardIndex     Kind = "InvalidCardIndex"
	ScriptedMoveFailed   Kind = "ScriptedMoveFailed"
)

// Error is the engine's typed error, carrying its Kind for
// errors.Is/errors.As dispatch at the call site per table §7's handling
// column (fatal-abort, report-and-reprompt, report-and-discard-snapshot).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is(err, ruleerr.New(SomeKind, "")) by Kind alone,
// ignoring Message/Cause — callers typically compare against a sentinel
// built with just the kind they care about.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Fatal reports whether this kind aborts the process rather than being
// recoverable in the interactive loop (table §7: only SpecLoadError is
// fatal).
func (e *Error) Fatal() bool {
	return e.Kind == SpecLoadError
}
