package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// RecordNotFound indicates an operation referenced a record id that
	// no longer exists in the store
	RecordNotFound ErrorCode = "RECORD_NOT_FOUND"
	// SnapshotCorrupt indicates the durable snapshot failed to parse as
	// a record array; the store has been reset to empty
	SnapshotCorrupt ErrorCode = "SNAPSHOT_CORRUPT"
	// PersistenceFailed indicates a durable read/write failed; in-memory
	// state remains authoritative
	PersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	// ValidationFailed indicates a malformed input row or field
	ValidationFailed ErrorCode = "VALIDATION_FAILED"
	// BatchUnparseable indicates one import batch could not be parsed;
	// other batches are unaffected
	BatchUnparseable ErrorCode = "BATCH_UNPARSEABLE"
	// CompareInvalid indicates a comparison request did not resolve to
	// exactly two stored records
	CompareInvalid ErrorCode = "COMPARE_INVALID"
	// ModelUnknown indicates a dryer model outside the supported set
	ModelUnknown ErrorCode = "MODEL_UNKNOWN"
	// SchemaInvalid indicates a model schema declaration failed to load
	// or validate
	SchemaInvalid ErrorCode = "SCHEMA_INVALID"
	// RawDataMissing indicates a record carries no embedded raw chart data
	RawDataMissing ErrorCode = "RAW_DATA_MISSING"
	// EmptyResult indicates an operation produced nothing to act on
	// (reported as a no-op, not a failure)
	EmptyResult ErrorCode = "EMPTY_RESULT"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// DrylogError represents a drylog error with a stable code and message
type DrylogError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new DrylogError
func New(code ErrorCode, message string) *DrylogError {
	return &DrylogError{Code: code, Message: message}
}

// Wrap creates a new DrylogError wrapping an underlying cause
func Wrap(code ErrorCode, message string, cause error) *DrylogError {
	return &DrylogError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *DrylogError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DrylogError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *DrylogError) WithDetails(details interface{}) *DrylogError {
	e.Details = details
	return e
}

// CodeOf returns the error code carried by err, or InternalError when
// err is some other error type. A nil err has no code and returns "".
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var de *DrylogError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
