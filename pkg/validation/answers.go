package validation

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/hireground/talentgate/pkg/jsonlogic"
	"github.com/hireground/talentgate/pkg/models"
)

// AnswerEvaluationResult is the outcome of running a rule document
// against a candidate's screening answers.
type AnswerEvaluationResult struct {
	IsValid           bool                      `json:"is_valid"`
	HasErrors         bool                      `json:"has_errors"`
	HasWarnings       bool                      `json:"has_warnings"`
	Errors            []models.ValidationResult `json:"errors"`
	Warnings          []models.ValidationResult `json:"warnings"`
	ShouldAutoReject  bool                      `json:"should_auto_reject"`
	RejectReason      string                    `json:"reject_reason,omitempty"`
	ShouldAutoApprove bool                      `json:"should_auto_approve"`
}

// AnswerEvaluationSuccess is the canonical all-clear result.
func AnswerEvaluationSuccess() AnswerEvaluationResult {
	return AnswerEvaluationResult{
		IsValid:  true,
		Errors:   []models.ValidationResult{},
		Warnings: []models.ValidationResult{},
	}
}

// AnswerEvaluator runs screening-rule documents over question answers.
// A structured rule fires when its expression is truthy: a firing rule
// flagged auto_approve contributes an approve signal, any other firing
// rule contributes an issue. A bare document is the legacy single-rule
// form and must evaluate truthy for the answers to pass.
type AnswerEvaluator struct {
	logger *slog.Logger
}

// NewAnswerEvaluator creates an answer evaluator.
func NewAnswerEvaluator(logger *slog.Logger) *AnswerEvaluator {
	return &AnswerEvaluator{logger: logger.With("module", "answer_evaluator")}
}

// EvaluateRaw parses a raw rule document blob and evaluates it.
func (e *AnswerEvaluator) EvaluateRaw(
	ctx context.Context,
	rawDocument any,
	answers map[string]any,
	position map[string]any,
	questions []models.Question,
) (AnswerEvaluationResult, error) {
	document, err := models.ParseRuleDocument(rawDocument)
	if err != nil {
		return AnswerEvaluationResult{}, err
	}

	return e.Evaluate(ctx, document, answers, position, questions), nil
}

// Evaluate runs a parsed rule document. Answers are coerced per
// question metadata first; the evaluation context is the coerced
// answers plus the position data under the "position" key.
func (e *AnswerEvaluator) Evaluate(
	ctx context.Context,
	document *models.RuleDocument,
	answers map[string]any,
	position map[string]any,
	questions []models.Question,
) AnswerEvaluationResult {
	coerced := CoerceAnswers(answers, questions)

	evalContext := make(map[string]any, len(coerced)+1)
	for key, value := range coerced {
		evalContext[key] = value
	}

	evalContext["position"] = position

	if document.Kind == models.RuleDocumentBare {
		return e.evaluateBare(ctx, document.Bare, evalContext)
	}

	return e.evaluateStructured(ctx, document.Rules, evalContext)
}

func (e *AnswerEvaluator) evaluateBare(ctx context.Context, expression any, evalContext map[string]any) AnswerEvaluationResult {
	result := AnswerEvaluationSuccess()

	value, err := jsonlogic.Apply(expression, evalContext)
	if err != nil {
		e.logger.WarnContext(ctx, "bare rule evaluation failed", "error", err)

		result.IsValid = false
		result.HasErrors = true
		result.Errors = append(result.Errors, models.ValidationResult{
			IsValid:  false,
			Severity: models.SeverityError,
			Message:  err.Error(),
		})

		return result
	}

	if !jsonlogic.Truthy(value) {
		result.IsValid = false
		result.HasErrors = true
		result.Errors = append(result.Errors, models.ValidationResult{
			IsValid:  false,
			Severity: models.SeverityError,
			Message:  "screening rule not satisfied",
		})
	}

	return result
}

func (e *AnswerEvaluator) evaluateStructured(ctx context.Context, rules []models.RuleDef, evalContext map[string]any) AnswerEvaluationResult {
	result := AnswerEvaluationSuccess()

	for _, rule := range rules {
		value, err := jsonlogic.Apply(rule.Rule, evalContext)
		if err != nil {
			e.logger.WarnContext(ctx, "rule evaluation failed",
				"rule_id", rule.ID, "field", rule.Field, "error", err)

			e.addIssue(&result, models.ValidationResult{
				IsValid:  false,
				Severity: models.SeverityError,
				Message:  err.Error(),
				FieldKey: rule.Field,
				RuleID:   rule.ID,
			})

			continue
		}

		if !jsonlogic.Truthy(value) {
			continue
		}

		if rule.AutoApprove {
			result.ShouldAutoApprove = true

			continue
		}

		message := formatAnswerMessage(rule.Message, rule.Field, evalContext)

		e.addIssue(&result, models.ValidationResult{
			IsValid:          false,
			Severity:         rule.Severity,
			Message:          message,
			FieldKey:         rule.Field,
			RuleID:           rule.ID,
			ShouldAutoReject: rule.AutoReject,
			RejectionReason:  message,
		})
	}

	return result
}

// addIssue appends one failing result, keeping the aggregate flags and
// the first-reject-wins reason in rule order.
func (e *AnswerEvaluator) addIssue(result *AnswerEvaluationResult, issue models.ValidationResult) {
	if issue.Severity == models.SeverityWarning {
		result.Warnings = append(result.Warnings, issue)
		result.HasWarnings = true

		return
	}

	result.Errors = append(result.Errors, issue)
	result.HasErrors = true
	result.IsValid = false

	if issue.ShouldAutoReject && !result.ShouldAutoReject {
		result.ShouldAutoReject = true
		result.RejectReason = issue.RejectionReason
	}
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// formatAnswerMessage substitutes {path} placeholders with stringified
// lookups into the evaluation context. Unresolved paths render as
// "N/A".
func formatAnswerMessage(template, field string, evalContext map[string]any) string {
	if template == "" {
		if field != "" {
			return "screening rule failed for " + field
		}

		return "screening rule failed"
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := strings.Trim(match, "{}")

		value, found := jsonlogic.Lookup(evalContext, path)
		if !found {
			return models.Stringify(nil)
		}

		return models.Stringify(value)
	})
}
