package models

import "errors"

// Entity invariant violations. All are raised at construction or update
// time, before any state mutation, so partial updates are never
// observable.
var (
	ErrInvalidSeverity           = errors.New("invalid validation severity")
	ErrInvalidComparisonOperator = errors.New("invalid comparison operator")
	ErrInvalidRuleType           = errors.New("invalid rule type")
	ErrInvalidStageType          = errors.New("invalid stage type")
	ErrInvalidWorkflowType       = errors.New("invalid workflow type")
	ErrInvalidWorkflowStatus     = errors.New("invalid workflow status")
	ErrInvalidDisplayMode        = errors.New("invalid display mode")
	ErrInvalidRuleDocument       = errors.New("invalid rule document")

	ErrNegativeOrder      = errors.New("stage order must be zero or positive")
	ErrInvalidDuration    = errors.New("interview duration must be zero or positive")
	ErrInvalidDeadline    = errors.New("stage deadline must be at least one day")
	ErrInvalidCost        = errors.New("stage cost estimate must be zero or positive")
	ErrNextPhaseForbidden = errors.New("next phase can only be set on success or fail stages")

	ErrDefaultWorkflowLocked = errors.New("default workflow cannot be deactivated or archived")
	ErrWorkflowNotActive     = errors.New("only an active workflow can be set as default")
	ErrWorkflowArchived      = errors.New("archived workflows are immutable")
	ErrApplicationFinalized  = errors.New("application is already in a terminal status")
)

// IsInvariantViolation reports whether err is one of the entity
// invariant errors above (as opposed to an infrastructure failure).
func IsInvariantViolation(err error) bool {
	for _, target := range []error{
		ErrInvalidSeverity,
		ErrInvalidComparisonOperator,
		ErrInvalidRuleType,
		ErrInvalidStageType,
		ErrInvalidWorkflowType,
		ErrInvalidWorkflowStatus,
		ErrInvalidDisplayMode,
		ErrInvalidRuleDocument,
		ErrNegativeOrder,
		ErrInvalidDuration,
		ErrInvalidDeadline,
		ErrInvalidCost,
		ErrNextPhaseForbidden,
		ErrDefaultWorkflowLocked,
		ErrWorkflowNotActive,
		ErrWorkflowArchived,
		ErrApplicationFinalized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
