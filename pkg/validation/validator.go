// Package validation implements the two evaluation surfaces of the
// screening engine: stage-transition validation over structured rules
// and answer evaluation over screening-rule documents. Both evaluate
// every rule in order and never let one malformed rule abort the batch.
package validation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// StageValidator aggregates the active validation rules of a stage
// against a candidate's field values.
type StageValidator struct {
	rules  persistence.ValidationRuleRepository
	fields persistence.CustomFieldRepository
	logger *slog.Logger
}

// NewStageValidator creates a stage validator backed by the given
// repositories.
func NewStageValidator(
	rules persistence.ValidationRuleRepository,
	fields persistence.CustomFieldRepository,
	logger *slog.Logger,
) *StageValidator {
	return &StageValidator{
		rules:  rules,
		fields: fields,
		logger: logger.With("module", "stage_validator"),
	}
}

// ValidateStageTransition evaluates every active rule of the stage.
// Rules are evaluated in repository order with no cross-rule
// short-circuit, so one pass surfaces every issue. A rule whose
// expression is malformed becomes an error-severity result carrying the
// evaluation error text; it never aborts the other rules.
func (v *StageValidator) ValidateStageTransition(
	ctx context.Context,
	stageID string,
	candidateValues map[string]any,
	positionData map[string]any,
) (models.StageValidationResult, error) {
	rules, err := v.rules.ListByStage(ctx, stageID, true)
	if err != nil {
		return models.StageValidationResult{}, fmt.Errorf("failed to load rules for stage %s: %w", stageID, err)
	}

	if len(rules) == 0 {
		return models.StageValidationSuccess(), nil
	}

	results := make([]models.ValidationResult, 0, len(rules))

	for _, rule := range rules {
		fieldName := v.resolveFieldName(ctx, rule.FieldID)
		candidateValue := candidateValues[rule.FieldID]

		result, err := rule.Evaluate(fieldName, candidateValue, positionData)
		if err != nil {
			v.logger.WarnContext(ctx, "rule evaluation failed",
				"rule_id", rule.ID, "field", fieldName, "error", err)

			result = models.ValidationResult{
				IsValid:  false,
				Severity: models.SeverityError,
				Message:  err.Error(),
				FieldKey: fieldName,
				RuleID:   rule.ID,
			}
		}

		results = append(results, result)
	}

	return models.NewStageValidationResult(results), nil
}

// resolveFieldName maps a custom field id to its display name, falling
// back to the raw id when the field is unknown.
func (v *StageValidator) resolveFieldName(ctx context.Context, fieldID string) string {
	field, err := v.fields.GetByID(ctx, fieldID)
	if err != nil {
		if !persistence.IsFieldNotFound(err) {
			v.logger.WarnContext(ctx, "custom field lookup failed", "field_id", fieldID, "error", err)
		}

		return fieldID
	}

	return field.Name
}
