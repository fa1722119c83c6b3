package models

// ValidationResult is the outcome of evaluating a single rule against a
// candidate value. Results are produced fresh per evaluation and never
// mutated afterwards.
type ValidationResult struct {
	IsValid          bool               `json:"is_valid"`
	Severity         ValidationSeverity `json:"severity"`
	Message          string             `json:"message,omitempty"`
	FieldKey         string             `json:"field_key,omitempty"`
	RuleID           string             `json:"rule_id,omitempty"`
	ShouldAutoReject bool               `json:"should_auto_reject"`
	RejectionReason  string             `json:"rejection_reason,omitempty"`
}

// StageValidationResult aggregates every rule outcome for one stage
// transition attempt. Errors and warnings keep rule-evaluation order.
type StageValidationResult struct {
	IsValid          bool               `json:"is_valid"`
	HasErrors        bool               `json:"has_errors"`
	HasWarnings      bool               `json:"has_warnings"`
	Errors           []ValidationResult `json:"errors"`
	Warnings         []ValidationResult `json:"warnings"`
	ShouldAutoReject bool               `json:"should_auto_reject"`
	AutoRejectReason string             `json:"auto_reject_reason,omitempty"`
}

// StageValidationSuccess is the canonical result for a stage with no
// applicable rules or no failures.
func StageValidationSuccess() StageValidationResult {
	return StageValidationResult{
		IsValid:  true,
		Errors:   []ValidationResult{},
		Warnings: []ValidationResult{},
	}
}

// NewStageValidationResult partitions rule results by severity and
// derives the aggregate flags. The auto-reject reason is taken from the
// first error-severity result that carries one, in evaluation order.
func NewStageValidationResult(results []ValidationResult) StageValidationResult {
	aggregate := StageValidationSuccess()

	for _, result := range results {
		if result.IsValid {
			continue
		}

		switch result.Severity {
		case SeverityWarning:
			aggregate.Warnings = append(aggregate.Warnings, result)
			aggregate.HasWarnings = true
		default:
			aggregate.Errors = append(aggregate.Errors, result)
			aggregate.HasErrors = true
			aggregate.IsValid = false

			if result.ShouldAutoReject && !aggregate.ShouldAutoReject {
				aggregate.ShouldAutoReject = true
				aggregate.AutoRejectReason = result.RejectionReason
			}
		}
	}

	return aggregate
}
