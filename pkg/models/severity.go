// Package models defines the core domain models for applicant screening:
// validation rules, rule documents, evaluation results and the
// workflow/stage state machine.
package models

import "fmt"

// ValidationSeverity controls whether a failing rule blocks a stage
// transition. Errors block, warnings do not.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ParseValidationSeverity validates a raw severity value.
func ParseValidationSeverity(raw string) (ValidationSeverity, error) {
	switch ValidationSeverity(raw) {
	case SeverityError, SeverityWarning:
		return ValidationSeverity(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, raw)
	}
}

func (s ValidationSeverity) IsValid() bool {
	return s == SeverityError || s == SeverityWarning
}
