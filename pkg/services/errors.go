// Package services implements the workflow, stage, rule and screening
// operations on top of the persistence contracts, plus the error
// taxonomy the HTTP layer maps onto status codes.
package services

import (
	"errors"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// Business logic errors - these indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest    = errors.New("invalid request")
	ErrDuplicateOrder    = errors.New("duplicate stage order")
	ErrUnknownStage      = errors.New("stage does not belong to workflow")
	ErrIncompleteReorder = errors.New("reorder must cover every stage of the workflow")

	// Business logic conflicts (409 Conflict).
	ErrWorkflowHasApplications = errors.New("workflow still has applications in flight")
)

// IsValidationError checks if an error should map to HTTP 400.
// Lifecycle guards classify as conflicts, not validation failures.
func IsValidationError(err error) bool {
	if IsConflictError(err) {
		return false
	}

	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrDuplicateOrder) ||
		errors.Is(err, ErrUnknownStage) ||
		errors.Is(err, ErrIncompleteReorder) ||
		models.IsInvariantViolation(err)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, models.ErrDefaultWorkflowLocked) ||
		errors.Is(err, models.ErrWorkflowNotActive) ||
		errors.Is(err, models.ErrWorkflowArchived) ||
		errors.Is(err, models.ErrApplicationFinalized) ||
		errors.Is(err, ErrWorkflowHasApplications)
}

// IsNotFoundError checks if an error should map to HTTP 404.
func IsNotFoundError(err error) bool {
	return persistence.IsNotFound(err)
}
