package validation

import (
	"strconv"
	"strings"

	"github.com/hireground/talentgate/pkg/models"
)

// boolAnswers are the raw answer spellings accepted as true for boolean
// questions, compared case-insensitively.
var boolAnswers = map[string]bool{
	"true": true,
	"yes":  true,
	"1":    true,
	"si":   true,
	"sí":   true,
}

// CoerceAnswers normalizes raw screening answers per question metadata
// before rule evaluation. Number questions parse numeric strings (an
// integer when there is no decimal point), boolean questions map the
// accepted true spellings. Unparseable values pass through unchanged.
func CoerceAnswers(answers map[string]any, questions []models.Question) map[string]any {
	types := make(map[string]models.QuestionType, len(questions))
	for _, question := range questions {
		types[question.Key] = question.Type
	}

	coerced := make(map[string]any, len(answers))

	for key, value := range answers {
		switch types[key] {
		case models.QuestionTypeNumber:
			coerced[key] = coerceNumber(value)
		case models.QuestionTypeBoolean:
			coerced[key] = coerceBool(value)
		default:
			coerced[key] = value
		}
	}

	return coerced
}

func coerceNumber(value any) any {
	raw, isString := value.(string)
	if !isString {
		return value
	}

	trimmed := strings.TrimSpace(raw)

	if !strings.Contains(trimmed, ".") {
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return int(n)
		}

		return value
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}

	return value
}

func coerceBool(value any) any {
	switch b := value.(type) {
	case bool:
		return b
	case string:
		return boolAnswers[strings.ToLower(strings.TrimSpace(b))]
	default:
		return value
	}
}
