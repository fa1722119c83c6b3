package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hireground/talentgate/pkg/jsonlogic"
)

// RuleType distinguishes structured comparison rules from free-form
// expression rules.
type RuleType string

const (
	RuleTypeComparison RuleType = "comparison"
	RuleTypeExpression RuleType = "expression"
)

func ParseRuleType(raw string) (RuleType, error) {
	switch RuleType(raw) {
	case RuleTypeComparison, RuleTypeExpression:
		return RuleType(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRuleType, raw)
	}
}

// ValidationRule binds a candidate field to a comparison or expression,
// a severity and optional auto-reject behaviour. A rule is owned by one
// stage; deleting the stage cascades to its rules, never the reverse.
type ValidationRule struct {
	ID       string   `json:"id"         validate:"required"`
	FieldID  string   `json:"field_id"   validate:"required"`
	StageID  string   `json:"stage_id"   validate:"required"`
	RuleType RuleType `json:"rule_type"  validate:"required"`

	// Comparison rules: operator plus either a static value or a dotted
	// path into the job position data.
	Operator          ComparisonOperator `json:"operator,omitempty"`
	ComparisonValue   any                `json:"comparison_value,omitempty"`
	PositionFieldPath string             `json:"position_field_path,omitempty"`

	// Expression rules: a free-form tree for the jsonlogic evaluator.
	Expression any `json:"expression,omitempty"`

	Severity        ValidationSeverity `json:"severity"   validate:"required"`
	MessageTemplate string             `json:"message_template"`
	AutoReject      bool               `json:"auto_reject"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	IsActive        bool               `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidationRuleParams carries the caller-supplied fields for the
// factory. Enum fields arrive raw and are validated before anything is
// built.
type ValidationRuleParams struct {
	FieldID           string
	StageID           string
	RuleType          string
	Operator          string
	ComparisonValue   any
	PositionFieldPath string
	Expression        any
	Severity          string
	MessageTemplate   string
	AutoReject        bool
	RejectionReason   string
}

// NewValidationRule validates every enum value and builds an active
// rule. Nothing is constructed when any input is malformed.
func NewValidationRule(params ValidationRuleParams) (*ValidationRule, error) {
	ruleType, err := ParseRuleType(params.RuleType)
	if err != nil {
		return nil, err
	}

	severity, err := ParseValidationSeverity(params.Severity)
	if err != nil {
		return nil, err
	}

	rule := &ValidationRule{
		ID:                uuid.New().String(),
		FieldID:           params.FieldID,
		StageID:           params.StageID,
		RuleType:          ruleType,
		ComparisonValue:   params.ComparisonValue,
		PositionFieldPath: params.PositionFieldPath,
		Expression:        params.Expression,
		Severity:          severity,
		MessageTemplate:   params.MessageTemplate,
		AutoReject:        params.AutoReject,
		RejectionReason:   params.RejectionReason,
		IsActive:          true,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}

	if ruleType == RuleTypeComparison {
		operator, err := ParseComparisonOperator(params.Operator)
		if err != nil {
			return nil, err
		}

		rule.Operator = operator
	}

	return rule, nil
}

// ValidationRuleUpdate is the remediable subset of rule fields.
type ValidationRuleUpdate struct {
	Operator          *string
	ComparisonValue   any
	PositionFieldPath *string
	Expression        any
	Severity          *string
	MessageTemplate   *string
	AutoReject        *bool
	RejectionReason   *string
}

// Update re-validates the changed enum fields before mutating anything.
func (r *ValidationRule) Update(update ValidationRuleUpdate) error {
	operator := r.Operator
	severity := r.Severity

	if update.Operator != nil {
		parsed, err := ParseComparisonOperator(*update.Operator)
		if err != nil {
			return err
		}

		operator = parsed
	}

	if update.Severity != nil {
		parsed, err := ParseValidationSeverity(*update.Severity)
		if err != nil {
			return err
		}

		severity = parsed
	}

	r.Operator = operator
	r.Severity = severity

	if update.ComparisonValue != nil {
		r.ComparisonValue = update.ComparisonValue
	}

	if update.PositionFieldPath != nil {
		r.PositionFieldPath = *update.PositionFieldPath
	}

	if update.Expression != nil {
		r.Expression = update.Expression
	}

	if update.MessageTemplate != nil {
		r.MessageTemplate = *update.MessageTemplate
	}

	if update.AutoReject != nil {
		r.AutoReject = *update.AutoReject
	}

	if update.RejectionReason != nil {
		r.RejectionReason = *update.RejectionReason
	}

	r.UpdatedAt = time.Now().UTC()

	return nil
}

func (r *ValidationRule) Activate() {
	r.IsActive = true
	r.UpdatedAt = time.Now().UTC()
}

func (r *ValidationRule) Deactivate() {
	r.IsActive = false
	r.UpdatedAt = time.Now().UTC()
}

// Evaluate decides pass/fail for a candidate value. Expression rules
// delegate to the jsonlogic evaluator; the returned error is an
// EvaluationError from a malformed tree and is the caller's to handle.
func (r *ValidationRule) Evaluate(fieldName string, candidateValue any, position map[string]any) (ValidationResult, error) {
	var (
		passed        bool
		positionValue any
	)

	switch r.RuleType {
	case RuleTypeExpression:
		context := map[string]any{
			fieldName:  candidateValue,
			"position": position,
		}

		value, err := jsonlogic.Apply(r.Expression, context)
		if err != nil {
			return ValidationResult{}, err
		}

		passed = jsonlogic.Truthy(value)
	default:
		target := r.ComparisonValue
		if r.PositionFieldPath != "" {
			target, _ = jsonlogic.Lookup(position, r.PositionFieldPath)
		}

		positionValue = target
		passed = r.Operator.Apply(candidateValue, target)
	}

	if passed {
		return ValidationResult{
			IsValid:  true,
			Severity: r.Severity,
			FieldKey: fieldName,
			RuleID:   r.ID,
		}, nil
	}

	message := r.formatMessage(fieldName, candidateValue, positionValue)

	reason := r.RejectionReason
	if reason == "" {
		reason = message
	}

	return ValidationResult{
		IsValid:          false,
		Severity:         r.Severity,
		Message:          message,
		FieldKey:         fieldName,
		RuleID:           r.ID,
		ShouldAutoReject: r.AutoReject,
		RejectionReason:  reason,
	}, nil
}

// formatMessage substitutes the template placeholders, rendering nil
// values as "N/A".
func (r *ValidationRule) formatMessage(fieldName string, candidateValue, positionValue any) string {
	message := r.MessageTemplate
	if message == "" {
		message = fmt.Sprintf("validation failed for field %s", fieldName)
	}

	replacer := strings.NewReplacer(
		"{field_name}", fieldName,
		"{candidate_value}", Stringify(candidateValue),
		"{position_value}", Stringify(positionValue),
	)

	return replacer.Replace(message)
}

// Stringify renders a value for user-facing messages. Nil becomes "N/A"
// and floats drop a redundant decimal part.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return "N/A"
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}

		return fmt.Sprintf("%v", s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
