package core

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Failure kinds. Every error leaving the renderer carries exactly one of these.
// Both the standard library errors.Is and cockroachdb errors.Is find them.
var (
	ErrResourceCreation       = errors.New("resource creation failure")
	ErrContractViolation      = errors.New("contract violation")
	ErrSynchronizationTimeout = errors.New("synchronization timeout")
	ErrPresentation           = errors.New("presentation failure")
)

// ResourceCreationFailure wraps cause when an API object, memory block or
// descriptor set could not be obtained.
func ResourceCreationFailure(cause error, format string, args ...interface{}) error {
	return mark(cause, ErrResourceCreation, format, args...)
}

// ContractViolation reports caller misuse. It never has an underlying cause.
func ContractViolation(format string, args ...interface{}) error {
	err := withKind(errors.Newf(format, args...), ErrContractViolation)
	LogError("%s", err)
	return err
}

func SynchronizationTimeout(cause error, format string, args ...interface{}) error {
	return mark(cause, ErrSynchronizationTimeout, format, args...)
}

func PresentationFailure(cause error, format string, args ...interface{}) error {
	return mark(cause, ErrPresentation, format, args...)
}

func mark(cause error, kind error, format string, args ...interface{}) error {
	var err error
	if cause == nil {
		err = errors.Newf(format, args...)
	} else {
		err = errors.Wrapf(cause, format, args...)
	}
	err = withKind(err, kind)
	LogError("%s", err)
	return err
}

// kindError carries a failure kind both as a cockroachdb mark, which survives
// encoding, and through Is, which the standard library errors.Is consults.
type kindError struct {
	cause error
	kind  error
}

func withKind(err, kind error) error {
	return &kindError{cause: errors.Mark(err, kind), kind: kind}
}

func (e *kindError) Error() string { return e.cause.Error() }
func (e *kindError) Unwrap() error { return e.cause }
func (e *kindError) Is(target error) bool {
	return target == e.kind
}

// Format keeps %+v printing the stack recorded with the cause.
func (e *kindError) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

// FormatError implements errors.Formatter by deferring entirely to the cause.
func (e *kindError) FormatError(p errors.Printer) error { return e.cause }

// Kind returns the failure kind err was marked with, or nil.
func Kind(err error) error {
	for _, k := range []error{ErrResourceCreation, ErrContractViolation, ErrSynchronizationTimeout, ErrPresentation} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
