package models

import (
	"fmt"
	"strings"

	"github.com/hireground/talentgate/pkg/jsonlogic"
)

// ComparisonOperator is the closed operator set for structured rules.
// Unlike free-form expressions it is not extensible by end users.
type ComparisonOperator string

const (
	OperatorGreaterThan        ComparisonOperator = "gt"
	OperatorGreaterThanOrEqual ComparisonOperator = "gte"
	OperatorLessThan           ComparisonOperator = "lt"
	OperatorLessThanOrEqual    ComparisonOperator = "lte"
	OperatorEqual              ComparisonOperator = "eq"
	OperatorNotEqual           ComparisonOperator = "neq"
	OperatorInRange            ComparisonOperator = "in_range"
	OperatorOutOfRange         ComparisonOperator = "out_range"
	OperatorContains           ComparisonOperator = "contains"
	OperatorNotContains        ComparisonOperator = "not_contains"
)

// ParseComparisonOperator validates a raw operator value.
func ParseComparisonOperator(raw string) (ComparisonOperator, error) {
	switch ComparisonOperator(raw) {
	case OperatorGreaterThan, OperatorGreaterThanOrEqual,
		OperatorLessThan, OperatorLessThanOrEqual,
		OperatorEqual, OperatorNotEqual,
		OperatorInRange, OperatorOutOfRange,
		OperatorContains, OperatorNotContains:
		return ComparisonOperator(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidComparisonOperator, raw)
	}
}

func (op ComparisonOperator) IsValid() bool {
	_, err := ParseComparisonOperator(string(op))

	return err == nil
}

// Apply evaluates candidate against target. Type mismatches degrade to
// false so a misauthored rule reports a failure instead of crashing.
func (op ComparisonOperator) Apply(candidate, target any) bool {
	switch op {
	case OperatorGreaterThan:
		return compareNumeric(candidate, target, func(a, b float64) bool { return a > b })
	case OperatorGreaterThanOrEqual:
		return compareNumeric(candidate, target, func(a, b float64) bool { return a >= b })
	case OperatorLessThan:
		return compareNumeric(candidate, target, func(a, b float64) bool { return a < b })
	case OperatorLessThanOrEqual:
		return compareNumeric(candidate, target, func(a, b float64) bool { return a <= b })
	case OperatorEqual:
		return jsonlogic.LooseEquals(candidate, target)
	case OperatorNotEqual:
		return !jsonlogic.LooseEquals(candidate, target)
	case OperatorInRange:
		return inRange(candidate, target)
	case OperatorOutOfRange:
		min, max, value, ok := rangeBounds(candidate, target)

		return ok && (value < min || value > max)
	case OperatorContains:
		return contains(candidate, target)
	case OperatorNotContains:
		return !contains(candidate, target)
	default:
		return false
	}
}

func compareNumeric(candidate, target any, cmp func(a, b float64) bool) bool {
	a, aok := jsonlogic.ToNumber(candidate)
	b, bok := jsonlogic.ToNumber(target)

	return aok && bok && cmp(a, b)
}

// inRange expects target to be a two-element [min, max] list. Bounds are
// inclusive on both ends.
func inRange(candidate, target any) bool {
	min, max, value, ok := rangeBounds(candidate, target)

	return ok && value >= min && value <= max
}

func rangeBounds(candidate, target any) (min, max, value float64, ok bool) {
	bounds, isList := target.([]any)
	if !isList || len(bounds) != 2 {
		return 0, 0, 0, false
	}

	min, minOK := jsonlogic.ToNumber(bounds[0])
	max, maxOK := jsonlogic.ToNumber(bounds[1])
	value, valOK := jsonlogic.ToNumber(candidate)

	return min, max, value, minOK && maxOK && valOK
}

// contains works over strings (substring) and lists (membership).
func contains(candidate, target any) bool {
	switch c := candidate.(type) {
	case string:
		t, ok := target.(string)

		return ok && strings.Contains(c, t)
	case []any:
		for _, item := range c {
			if jsonlogic.LooseEquals(item, target) {
				return true
			}
		}

		return false
	default:
		return false
	}
}
