package jsonlogic

import (
	"reflect"
	"strconv"
)

// toFloat attempts numeric coercion. Booleans count as 0/1 and numeric
// strings are parsed; anything else reports false.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}

		return 0, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// toString renders a value the way JsonLogic's "cat" does: numbers
// without a trailing ".0", nil as the empty string.
func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}

		return reflect.ValueOf(v).String()
	}
}

// ToNumber exposes the evaluator's numeric coercion for callers that
// apply comparison operators outside expression trees.
func ToNumber(v any) (float64, bool) {
	return toFloat(v)
}

// LooseEquals exposes coercing equality, so 1 == "1".
func LooseEquals(a, b any) bool {
	return looseEquals(a, b)
}

// Truthy implements JsonLogic truthiness: nil, false, zero, the empty
// string and empty collections are falsy, everything else is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}

		return true
	}
}

// looseEquals compares after numeric coercion, so 1 == "1".
func looseEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)

	if aok && bok {
		return af == bf
	}

	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)

	if aIsStr && bIsStr {
		return as == bs
	}

	return reflect.DeepEqual(a, b)
}

// strictEquals requires the dynamic types to match as well.
func strictEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	return reflect.DeepEqual(a, b)
}
