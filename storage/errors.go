package storage

import "errors"

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrInvalidCID    = errors.New("storage: invalid cid")
	ErrCIDMismatch   = errors.New("storage: cid mismatch")
	ErrImmutable     = errors.New("storage: immutable object mismatch")
	ErrNotConversion = errors.New("storage: not a conversion message")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// NotConversionError reports bytes refused by Check. It matches ErrNotConversion.
type NotConversionError struct {
	Cause error
}

func (e *NotConversionError) Error() string {
	if e.Cause == nil {
		return ErrNotConversion.Error()
	}
	return ErrNotConversion.Error() + ": " + e.Cause.Error()
}

func (e *NotConversionError) Is(target error) bool { return target == ErrNotConversion }

func (e *NotConversionError) Unwrap() error { return e.Cause }
