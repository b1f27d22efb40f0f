// Package core provides the collaboration intelligence engine and its public
// API surface.
package core

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidActivity indicates that an activity record failed validation.
	ErrInvalidActivity = errors.New("invalid activity record")

	// ErrInvalidConflict indicates that a conflict record failed validation.
	ErrInvalidConflict = errors.New("invalid conflict record")

	// ErrInvalidSync indicates that a sync record failed validation.
	ErrInvalidSync = errors.New("invalid sync record")
)

// EngineError wraps errors with operation context.
//
// It provides additional context about which operation failed, making error
// messages more informative for debugging.
//
// Example:
//
//	err := &EngineError{
//	    Op:  "RecordActivity",
//	    Err: ErrInvalidActivity,
//	}
//	// Error() returns: "collabintel: RecordActivity: invalid activity record"
type EngineError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "collabintel: <Op>: <Err>"
func (e *EngineError) Error() string {
	return fmt.Sprintf("collabintel: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
//
// This allows using errors.Is() and errors.As() with EngineError.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new EngineError wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewEngineError("RecordActivity", err)
//	}
//
// Parameters:
//   - op: Name of the operation (e.g., "RecordActivity", "PredictConflicts")
//   - err: The underlying error to wrap
//
// Returns an EngineError, or nil if err is nil.
func NewEngineError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{
		Op:  op,
		Err: err,
	}
}
