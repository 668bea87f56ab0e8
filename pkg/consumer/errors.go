package consumer

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMissingEngine   = errors.New("engine is required")
	ErrMissingConfig   = errors.New("configuration is required")
	ErrInvalidArgument = errors.New("invalid argument")
)

type failureReason int

const (
	reasonReify failureReason = iota
	reasonDecode
	reasonHandler
)

func (r failureReason) String() string {
	switch r {
	case reasonReify:
		return "unable to reify message"
	case reasonDecode:
		return "unable to deserialize message content"
	}
	return "message handler failed"
}

// VerificationError is returned when a message cannot be verified against the consumer:
// the engine could not reify it, the content does not bind to the consumer's type, or the
// handler failed.
// The underlying error is available through errors.Unwrap and errors.Cause.
type VerificationError struct {
	Description string
	reason      failureReason
	cause       error
}

func newVerificationError(description string, reason failureReason, cause error) *VerificationError {
	return &VerificationError{
		Description: description,
		reason:      reason,
		cause:       cause,
	}
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("consumer verification failed for message '%s': %s: %v", e.Description, e.reason, e.cause)
}

func (e *VerificationError) Unwrap() error {
	return e.cause
}

func (e *VerificationError) Cause() error {
	return e.cause
}
