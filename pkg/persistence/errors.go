// Package persistence provides standardized error types for storage
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard not-found errors every implementation should use.
var (
	ErrWorkflowNotFound    = errors.New("workflow not found")
	ErrStageNotFound       = errors.New("workflow stage not found")
	ErrRuleNotFound        = errors.New("validation rule not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrPositionNotFound    = errors.New("job position not found")
	ErrFieldNotFound       = errors.New("custom field not found")
)

// StorageError wraps low-level storage failures with operation context.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a storage error with operation context.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

func IsStageNotFound(err error) bool {
	return errors.Is(err, ErrStageNotFound)
}

func IsRuleNotFound(err error) bool {
	return errors.Is(err, ErrRuleNotFound)
}

func IsApplicationNotFound(err error) bool {
	return errors.Is(err, ErrApplicationNotFound)
}

func IsPositionNotFound(err error) bool {
	return errors.Is(err, ErrPositionNotFound)
}

func IsFieldNotFound(err error) bool {
	return errors.Is(err, ErrFieldNotFound)
}

// IsNotFound reports whether err is any of the entity not-found errors.
func IsNotFound(err error) bool {
	return IsWorkflowNotFound(err) ||
		IsStageNotFound(err) ||
		IsRuleNotFound(err) ||
		IsApplicationNotFound(err) ||
		IsPositionNotFound(err) ||
		IsFieldNotFound(err)
}
