// Package stacks builds, signs, and submits record transactions to the
// ledger node and performs read-only verification queries against it.
package stacks

import (
	"errors"
	"fmt"
)

// Validation sentinels, matched with errors.Is through ValidationError.
var (
	// ErrEmptyField is returned when a required field is empty.
	ErrEmptyField = errors.New("required field is empty")
	// ErrFieldTooLong is returned when a field exceeds the ledger's
	// fixed-width string limit.
	ErrFieldTooLong = errors.New("field exceeds ledger byte limit")
	// ErrYearOutOfRange is returned when the year falls outside
	// [1900, current year + 1].
	ErrYearOutOfRange = errors.New("year out of range")
	// ErrBadSubject is returned when the subject is not a well-formed
	// principal address.
	ErrBadSubject = errors.New("subject is not a valid principal")
)

// ErrTransactionConsumed is returned when a transaction is submitted a
// second time. Payloads are consumed exactly once; resubmission is the
// caller's deliberate decision and requires rebuilding.
var ErrTransactionConsumed = errors.New("stacks: transaction already submitted")

// ValidationError reports which add-record field failed validation.
// Validation always happens before any network call.
type ValidationError struct {
	// Field is the name of the offending input.
	Field string
	// Err is the validation sentinel.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("stacks: field %q: %v", e.Field, e.Err)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ValidationError) Unwrap() error { return e.Err }

// BroadcastErrorKind classifies a failed transaction submission.
type BroadcastErrorKind int

const (
	// BroadcastNotAuthenticated means no signed-in session was available.
	// No network call was made.
	BroadcastNotAuthenticated BroadcastErrorKind = iota
	// BroadcastRejected means the node or network refused the
	// transaction. Not safe to retry blindly.
	BroadcastRejected
	// BroadcastTimeout means the submission was cancelled or timed out.
	BroadcastTimeout
)

// String names the kind for logs.
func (k BroadcastErrorKind) String() string {
	switch k {
	case BroadcastNotAuthenticated:
		return "not_authenticated"
	case BroadcastRejected:
		return "rejected"
	case BroadcastTimeout:
		return "timeout"
	}
	return "unknown"
}

// BroadcastError reports a failed submission with the node's message
// carried verbatim.
type BroadcastError struct {
	Kind    BroadcastErrorKind
	Message string
}

// Error implements the error interface.
func (e *BroadcastError) Error() string {
	return fmt.Sprintf("stacks: broadcast %s: %s", e.Kind, e.Message)
}

// QueryErrorKind classifies a failed read-only call.
type QueryErrorKind int

const (
	// QueryTransportFailure covers connection errors, timeouts, and
	// non-2xx responses. Usually retryable.
	QueryTransportFailure QueryErrorKind = iota
	// QueryDecodeFailure covers malformed response bodies and ledger
	// values. Not retryable.
	QueryDecodeFailure
)

// String names the kind for logs.
func (k QueryErrorKind) String() string {
	if k == QueryTransportFailure {
		return "transport_failure"
	}
	return "decode_failure"
}

// QueryError reports a failed read-only call.
type QueryError struct {
	Kind    QueryErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stacks: query %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("stacks: query %s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *QueryError) Unwrap() error { return e.Err }
