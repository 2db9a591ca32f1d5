package conversion

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindDecode: checksum mismatch or invalid alphabet in a CB58 identifier.
	KindDecode Kind = "Decode"
	// KindFormat: malformed hex, or a decoded value of the wrong fixed width.
	KindFormat Kind = "Format"
	// KindParse: a node record does not have the expected structure.
	KindParse Kind = "Parse"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. CONV-DEC-001, CONV-FMT-004, CONV-PARSE-002)
// naming the violated rule. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// within prefixes the message of a structured error with the location of the
// failing field, keeping Kind and RuleID.
func within(err error, where string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	return &Error{Kind: e.Kind, RuleID: e.RuleID, Message: where + ": " + e.Message, Cause: e.Cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
