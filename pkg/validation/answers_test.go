package validation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/validation"
)

func TestAnswerEvaluator_SalaryAutoReject(t *testing.T) {
	evaluator := validation.NewAnswerEvaluator(testLogger())

	document := map[string]any{
		"rules": []any{
			map[string]any{
				"rule": map[string]any{
					">=": []any{
						map[string]any{"var": "expected_salary"},
						map[string]any{"var": "position.max_salary"},
					},
				},
				"field":       "expected_salary",
				"auto_reject": true,
				"message":     "Salary {expected_salary} exceeds {position.max_salary}",
			},
		},
	}

	result, err := evaluator.EvaluateRaw(context.Background(), document,
		map[string]any{"expected_salary": float64(90000)},
		map[string]any{"max_salary": float64(80000)},
		nil)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.True(t, result.ShouldAutoReject)
	assert.Equal(t, "Salary 90000 exceeds 80000", result.RejectReason)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Salary 90000 exceeds 80000", result.Errors[0].Message)
	assert.Equal(t, "expected_salary", result.Errors[0].FieldKey)
}

func TestAnswerEvaluator_RuleNotFiringContributesNothing(t *testing.T) {
	evaluator := validation.NewAnswerEvaluator(testLogger())

	document := &models.RuleDocument{
		Kind: models.RuleDocumentStructured,
		Rules: []models.RuleDef{
			{
				Rule: map[string]any{
					">=": []any{
						map[string]any{"var": "expected_salary"},
						map[string]any{"var": "position.max_salary"},
					},
				},
				Field:      "expected_salary",
				Severity:   models.SeverityError,
				AutoReject: true,
			},
		},
	}

	result := evaluator.Evaluate(context.Background(), document,
		map[string]any{"expected_salary": float64(70000)},
		map[string]any{"max_salary": float64(80000)},
		nil)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.False(t, result.ShouldAutoReject)
}

func TestAnswerEvaluator_AutoApprove(t *testing.T) {
	evaluator := validation.NewAnswerEvaluator(testLogger())

	document := &models.RuleDocument{
		Kind: models.RuleDocumentStructured,
		Rules: []models.RuleDef{
			{
				ID:          "approve-senior",
				Rule:        map[string]any{">=": []any{map[string]any{"var": "years_experience"}, 8}},
				Severity:    models.SeverityError,
				AutoApprove: true,
			},
		},
	}

	result := evaluator.Evaluate(context.Background(), document,
		map[string]any{"years_experience": float64(10)}, nil, nil)

	// An approving rule firing contributes a signal, never an issue.
	assert.True(t, result.IsValid)
	assert.True(t, result.ShouldAutoApprove)
	assert.Empty(t, result.Errors)
}

func TestAnswerEvaluator_WarningsDoNotInvalidate(t *testing.T) {
	evaluator := validation.NewAnswerEvaluator(testLogger())

	document := &models.RuleDocument{
		Kind: models.RuleDocumentStructured,
		Rules: []models.RuleDef{
			{
				Rule:     map[string]any{"<": []any{map[string]any{"var": "years_experience"}, 5}},
				Field:    "years_experience",
				Severity: models.SeverityWarning,
				Message:  "only {years_experience} years of experience",
			},
		},
	}

	result := evaluator.Evaluate(context.Background(), document,
		map[string]any{"years_experience": float64(3)}, nil, nil)

	assert.True(t, result.IsValid)
	assert.True(t, result.HasWarnings)
	assert.False(t, result.HasErrors)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "only 3 years of experience", result.Warnings[0].Message)
}

func TestAnswerEvaluator_FirstRejectReasonWins(t *testing.T) {
	evaluator := validation.NewAnswerEvaluator(testLogger())

	document := &models.RuleDocument{
		Kind: models.RuleDocumentStructured,
		Rules: []models.RuleDef{
			{
				Rule:       map[string]any{"==": []any{map[string]any{"var": "remote"}, false}},
				Severity:   models.SeverityError,
				AutoReject: true,
				Message:    "onsite only",
			},
			{
				Rule:       map[string]any{"<": []any{map[string]any{"var": "years_experience"}, 2}},
				Severity:   models.SeverityError,
				AutoReject: true,
				Message:    "not enough experience",
			},
		},
	}

	result := evaluator.Evaluate(context.Background(), document,
		map[string]any{"remote": false, "years_experience": float64(1)}, nil, nil)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	assert.True(t, result.ShouldAutoReject)
	assert.Equal(t, "onsite only", result.RejectReason)
}

func TestAnswerEvaluator_MalformedRuleDoesNotAbortBatch(t *testing.T) {
	evaluator := validation.NewAnswerEvaluator(testLogger())

	document := &models.RuleDocument{
		Kind: models.RuleDocumentStructured,
		Rules: []models.RuleDef{
			{
				ID:       "bad",
				Rule:     map[string]any{"explode": []any{1}},
				Severity: models.SeverityWarning,
			},
			{
				ID:         "good",
				Rule:       map[string]any{">": []any{map[string]any{"var": "expected_salary"}, 100000}},
				Severity:   models.SeverityError,
				AutoReject: true,
				Message:    "too expensive",
			},
		},
	}

	result := evaluator.Evaluate(context.Background(), document,
		map[string]any{"expected_salary": float64(150000)}, nil, nil)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "bad", result.Errors[0].RuleID)
	assert.Contains(t, result.Errors[0].Message, "explode")
	assert.Equal(t, "good", result.Errors[1].RuleID)
	assert.True(t, result.ShouldAutoReject)
	assert.Equal(t, "too expensive", result.RejectReason)
}

func TestAnswerEvaluator_BareDocument(t *testing.T) {
	evaluator := validation.NewAnswerEvaluator(testLogger())

	bare := map[string]any{">=": []any{map[string]any{"var": "years_experience"}, 3}}

	passing, err := evaluator.EvaluateRaw(context.Background(), bare,
		map[string]any{"years_experience": float64(4)}, nil, nil)
	require.NoError(t, err)
	assert.True(t, passing.IsValid)
	assert.Empty(t, passing.Errors)

	failing, err := evaluator.EvaluateRaw(context.Background(), bare,
		map[string]any{"years_experience": float64(2)}, nil, nil)
	require.NoError(t, err)
	assert.False(t, failing.IsValid)
	require.Len(t, failing.Errors, 1)
}

func TestAnswerEvaluator_CoercesAnswersBeforeEvaluation(t *testing.T) {
	evaluator := validation.NewAnswerEvaluator(testLogger())

	questions := []models.Question{
		{Key: "expected_salary", Type: models.QuestionTypeNumber},
		{Key: "relocate", Type: models.QuestionTypeBoolean},
	}

	document := &models.RuleDocument{
		Kind: models.RuleDocumentStructured,
		Rules: []models.RuleDef{
			{
				Rule: map[string]any{
					"and": []any{
						map[string]any{">": []any{map[string]any{"var": "expected_salary"}, 80000}},
						map[string]any{"var": "relocate"},
					},
				},
				Severity: models.SeverityError,
				Message:  "relocating candidate over budget: {expected_salary}",
			},
		},
	}

	result := evaluator.Evaluate(context.Background(), document,
		map[string]any{"expected_salary": "90000", "relocate": "sí"},
		nil, questions)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "relocating candidate over budget: 90000", result.Errors[0].Message)
}

func TestCoerceAnswers(t *testing.T) {
	questions := []models.Question{
		{Key: "salary", Type: models.QuestionTypeNumber},
		{Key: "score", Type: models.QuestionTypeNumber},
		{Key: "garbage", Type: models.QuestionTypeNumber},
		{Key: "remote", Type: models.QuestionTypeBoolean},
		{Key: "onsite", Type: models.QuestionTypeBoolean},
		{Key: "notes", Type: models.QuestionTypeText},
	}

	coerced := validation.CoerceAnswers(map[string]any{
		"salary":  "90000",
		"score":   "4.5",
		"garbage": "not-a-number",
		"remote":  "YES",
		"onsite":  "nope",
		"notes":   "hello",
		"extra":   "untouched",
	}, questions)

	assert.Equal(t, 90000, coerced["salary"])
	assert.Equal(t, 4.5, coerced["score"])
	assert.Equal(t, "not-a-number", coerced["garbage"])
	assert.Equal(t, true, coerced["remote"])
	assert.Equal(t, false, coerced["onsite"])
	assert.Equal(t, "hello", coerced["notes"])
	assert.Equal(t, "untouched", coerced["extra"])
}

func TestCoerceAnswers_BooleanSpellings(t *testing.T) {
	questions := []models.Question{{Key: "answer", Type: models.QuestionTypeBoolean}}

	for _, spelling := range []string{"true", "TRUE", "yes", "1", "si", "sí", "Sí"} {
		coerced := validation.CoerceAnswers(map[string]any{"answer": spelling}, questions)
		assert.Equal(t, true, coerced["answer"], "spelling %q", spelling)
	}

	for _, spelling := range []string{"false", "no", "0", ""} {
		coerced := validation.CoerceAnswers(map[string]any{"answer": spelling}, questions)
		assert.Equal(t, false, coerced["answer"], "spelling %q", spelling)
	}
}
