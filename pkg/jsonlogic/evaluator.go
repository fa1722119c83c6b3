// Package jsonlogic implements a JsonLogic-style expression interpreter.
//
// Expressions are plain JSON-like trees: literals, variable references
// ({"var": "a.b"}) and operator nodes ({"and": [...]}). Operators receive
// their arguments unevaluated, which lets "and"/"or"/"if" short-circuit.
// Rule authors cannot crash the evaluator: type mismatches and missing
// variables degrade to false/zero/default. Only an unknown operator name
// and division or modulo by zero return an EvaluationError.
package jsonlogic

import (
	"strconv"
	"strings"
)

// Apply evaluates an expression tree against a data context. The context
// is read-only during evaluation; identical (expr, data) pairs always
// produce identical results.
func Apply(expr any, data map[string]any) (any, error) {
	return eval(expr, data)
}

// eval is the recursive core. The non-operator base case must come
// first: any value that is not a single-key map is returned verbatim,
// so literal maps keep their meaning.
func eval(expr, data any) (any, error) {
	node, ok := expr.(map[string]any)
	if !ok || len(node) != 1 {
		return expr, nil
	}

	var (
		name string
		raw  any
	)

	for k, v := range node {
		name, raw = k, v
	}

	op, known := opByName[name]
	if !known {
		return nil, newUnknownOperatorError(name)
	}

	args, ok := raw.([]any)
	if !ok {
		args = []any{raw}
	}

	return apply(op, name, args, data)
}

// apply dispatches on the closed operator set. Arguments arrive
// unevaluated; each branch resolves only what it needs.
func apply(op Op, name string, args []any, data any) (any, error) {
	switch op {
	case OpEqual:
		return evalComparison(args, data, func(a, b any) bool { return looseEquals(a, b) })
	case OpNotEqual:
		return evalComparison(args, data, func(a, b any) bool { return !looseEquals(a, b) })
	case OpStrictEqual:
		return evalComparison(args, data, func(a, b any) bool { return strictEquals(a, b) })
	case OpStrictNotEqual:
		return evalComparison(args, data, func(a, b any) bool { return !strictEquals(a, b) })
	case OpGreater:
		return evalNumericComparison(args, data, func(a, b float64) bool { return a > b })
	case OpGreaterEqual:
		return evalNumericComparison(args, data, func(a, b float64) bool { return a >= b })
	case OpLess:
		return evalNumericComparison(args, data, func(a, b float64) bool { return a < b })
	case OpLessEqual:
		return evalNumericComparison(args, data, func(a, b float64) bool { return a <= b })
	case OpAnd:
		return evalAnd(args, data)
	case OpOr:
		return evalOr(args, data)
	case OpNot:
		if len(args) < 1 {
			return false, nil
		}

		v, err := eval(args[0], data)
		if err != nil {
			return nil, err
		}

		return !Truthy(v), nil
	case OpBool:
		if len(args) < 1 {
			return false, nil
		}

		v, err := eval(args[0], data)
		if err != nil {
			return nil, err
		}

		return Truthy(v), nil
	case OpIf:
		return evalIf(args, data)
	case OpVar:
		return evalVar(args, data)
	case OpIn:
		return evalIn(args, data)
	case OpAll, OpSome, OpNone:
		return evalQuantifier(op, args, data)
	case OpMerge:
		return evalMerge(args, data)
	case OpCat:
		return evalCat(args, data)
	case OpSubstr:
		return evalSubstr(args, data)
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo:
		return evalArithmetic(op, name, args, data)
	case OpMin, OpMax:
		return evalMinMax(op, args, data)
	case OpMissing:
		return evalMissing(args, data)
	case OpMissingSome:
		return evalMissingSome(args, data)
	default:
		return nil, newUnknownOperatorError(name)
	}
}

func evalComparison(args []any, data any, cmp func(a, b any) bool) (any, error) {
	if len(args) < 2 {
		return false, nil
	}

	a, err := eval(args[0], data)
	if err != nil {
		return nil, err
	}

	b, err := eval(args[1], data)
	if err != nil {
		return nil, err
	}

	return cmp(a, b), nil
}

// evalNumericComparison coerces both sides to float64. Non-numeric
// operands yield false rather than an error.
func evalNumericComparison(args []any, data any, cmp func(a, b float64) bool) (any, error) {
	if len(args) < 2 {
		return false, nil
	}

	a, err := eval(args[0], data)
	if err != nil {
		return nil, err
	}

	b, err := eval(args[1], data)
	if err != nil {
		return nil, err
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)

	if !aok || !bok {
		return false, nil
	}

	return cmp(af, bf), nil
}

// evalAnd returns the first falsy argument, or the last one. Later
// arguments are never evaluated once the result is determined.
func evalAnd(args []any, data any) (any, error) {
	var last any = true

	for _, arg := range args {
		v, err := eval(arg, data)
		if err != nil {
			return nil, err
		}

		if !Truthy(v) {
			return v, nil
		}

		last = v
	}

	return last, nil
}

// evalOr returns the first truthy argument, or the last one.
func evalOr(args []any, data any) (any, error) {
	var last any = false

	for _, arg := range args {
		v, err := eval(arg, data)
		if err != nil {
			return nil, err
		}

		if Truthy(v) {
			return v, nil
		}

		last = v
	}

	return last, nil
}

// evalIf walks (condition, value) pairs with an optional trailing else.
// The untaken branches are never evaluated.
func evalIf(args []any, data any) (any, error) {
	i := 0
	for ; i+1 < len(args); i += 2 {
		cond, err := eval(args[i], data)
		if err != nil {
			return nil, err
		}

		if Truthy(cond) {
			return eval(args[i+1], data)
		}
	}

	if i < len(args) {
		return eval(args[i], data)
	}

	return nil, nil
}

// evalVar resolves a dot-separated path into the data context. An empty
// path returns the whole context; an unresolved path returns the second
// argument (default) or nil.
func evalVar(args []any, data any) (any, error) {
	if len(args) == 0 {
		return data, nil
	}

	pathArg, err := eval(args[0], data)
	if err != nil {
		return nil, err
	}

	path := toString(pathArg)
	if path == "" {
		return data, nil
	}

	if v, ok := lookupPath(data, path); ok {
		return v, nil
	}

	if len(args) > 1 {
		return eval(args[1], data)
	}

	return nil, nil
}

// Lookup resolves a dot-separated path against a context the same way
// the "var" operator does. The second return reports whether the whole
// path resolved.
func Lookup(data any, path string) (any, bool) {
	if path == "" {
		return data, true
	}

	return lookupPath(data, path)
}

// lookupPath walks maps by key and lists by integer index.
func lookupPath(data any, path string) (any, bool) {
	current := data

	for _, segment := range strings.Split(path, ".") {
		switch c := current.(type) {
		case map[string]any:
			v, ok := c[segment]
			if !ok {
				return nil, false
			}

			current = v
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}

			current = c[idx]
		default:
			return nil, false
		}
	}

	return current, true
}

// evalIn checks membership in a list, or substring containment when the
// haystack is a string.
func evalIn(args []any, data any) (any, error) {
	if len(args) < 2 {
		return false, nil
	}

	needle, err := eval(args[0], data)
	if err != nil {
		return nil, err
	}

	haystack, err := eval(args[1], data)
	if err != nil {
		return nil, err
	}

	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, toString(needle)), nil
	case []any:
		for _, item := range h {
			if looseEquals(item, needle) {
				return true, nil
			}
		}

		return false, nil
	default:
		return false, nil
	}
}

// evalQuantifier applies a sub-expression to each element of a resolved
// list. A non-map element is wrapped as {"": element} so bare-value
// rules can reference it via {"var": ""}.
func evalQuantifier(op Op, args []any, data any) (any, error) {
	if len(args) < 2 {
		return false, nil
	}

	source, err := eval(args[0], data)
	if err != nil {
		return nil, err
	}

	items, ok := source.([]any)
	if !ok {
		return false, nil
	}

	if len(items) == 0 {
		// "none" over nothing holds vacuously; "all"/"some" do not.
		return op == OpNone, nil
	}

	matches := 0

	for _, item := range items {
		scope, isMap := item.(map[string]any)
		if !isMap {
			scope = map[string]any{"": item}
		}

		v, err := eval(args[1], scope)
		if err != nil {
			return nil, err
		}

		if Truthy(v) {
			matches++
		} else if op == OpAll {
			return false, nil
		}
	}

	switch op {
	case OpAll:
		return true, nil
	case OpSome:
		return matches > 0, nil
	default:
		return matches == 0, nil
	}
}

// evalMerge flattens resolved arguments, splicing lists one level deep.
func evalMerge(args []any, data any) (any, error) {
	merged := make([]any, 0, len(args))

	for _, arg := range args {
		v, err := eval(arg, data)
		if err != nil {
			return nil, err
		}

		if list, ok := v.([]any); ok {
			merged = append(merged, list...)
		} else {
			merged = append(merged, v)
		}
	}

	return merged, nil
}

func evalCat(args []any, data any) (any, error) {
	var sb strings.Builder

	for _, arg := range args {
		v, err := eval(arg, data)
		if err != nil {
			return nil, err
		}

		sb.WriteString(toString(v))
	}

	return sb.String(), nil
}

// evalSubstr follows slice conventions: negative start counts from the
// end, negative lengths are unsupported and yield the empty string.
func evalSubstr(args []any, data any) (any, error) {
	if len(args) < 2 {
		return "", nil
	}

	raw, err := eval(args[0], data)
	if err != nil {
		return nil, err
	}

	s := []rune(toString(raw))

	startRaw, err := eval(args[1], data)
	if err != nil {
		return nil, err
	}

	startF, ok := toFloat(startRaw)
	if !ok {
		return "", nil
	}

	start := int(startF)
	if start < 0 {
		start += len(s)
	}

	if start < 0 {
		start = 0
	}

	if start >= len(s) {
		return "", nil
	}

	end := len(s)

	if len(args) > 2 {
		lengthRaw, err := eval(args[2], data)
		if err != nil {
			return nil, err
		}

		lengthF, ok := toFloat(lengthRaw)
		if !ok {
			return "", nil
		}

		length := int(lengthF)
		if length < 0 {
			return "", nil
		}

		if start+length < end {
			end = start + length
		}
	}

	return string(s[start:end]), nil
}

// evalArithmetic covers + - * / %. Coercion failures count as zero so a
// malformed rule cannot crash the batch; only a zero divisor errors.
func evalArithmetic(op Op, name string, args []any, data any) (any, error) {
	operands := make([]float64, 0, len(args))

	for _, arg := range args {
		v, err := eval(arg, data)
		if err != nil {
			return nil, err
		}

		f, _ := toFloat(v)
		operands = append(operands, f)
	}

	if len(operands) == 0 {
		return float64(0), nil
	}

	switch op {
	case OpAdd:
		sum := float64(0)
		for _, f := range operands {
			sum += f
		}

		return sum, nil
	case OpSubtract:
		if len(operands) == 1 {
			return -operands[0], nil
		}

		return operands[0] - operands[1], nil
	case OpMultiply:
		product := float64(1)
		for _, f := range operands {
			product *= f
		}

		return product, nil
	case OpDivide:
		if len(operands) < 2 {
			return float64(0), nil
		}

		if operands[1] == 0 {
			return nil, newDivisionByZeroError(name)
		}

		return operands[0] / operands[1], nil
	default: // OpModulo
		if len(operands) < 2 {
			return float64(0), nil
		}

		if operands[1] == 0 {
			return nil, newDivisionByZeroError(name)
		}

		return float64(int64(operands[0]) % int64(operands[1])), nil
	}
}

func evalMinMax(op Op, args []any, data any) (any, error) {
	var (
		result float64
		found  bool
	)

	for _, arg := range args {
		v, err := eval(arg, data)
		if err != nil {
			return nil, err
		}

		f, ok := toFloat(v)
		if !ok {
			continue
		}

		if !found {
			result, found = f, true

			continue
		}

		if (op == OpMin && f < result) || (op == OpMax && f > result) {
			result = f
		}
	}

	if !found {
		return float64(0), nil
	}

	return result, nil
}

// evalMissing returns the variable names from the arguments that do not
// resolve in the context. A resolved list argument is expanded so
// {"missing": {"merge": [...]}} composes.
func evalMissing(args []any, data any) (any, error) {
	names := make([]string, 0, len(args))

	for _, arg := range args {
		v, err := eval(arg, data)
		if err != nil {
			return nil, err
		}

		if list, ok := v.([]any); ok {
			for _, item := range list {
				names = append(names, toString(item))
			}
		} else {
			names = append(names, toString(v))
		}
	}

	missing := make([]any, 0)

	for _, name := range names {
		if _, ok := lookupPath(data, name); !ok {
			missing = append(missing, name)
		}
	}

	return missing, nil
}

// evalMissingSome returns an empty list when at least N of the named
// variables are present, otherwise the missing subset.
func evalMissingSome(args []any, data any) (any, error) {
	if len(args) < 2 {
		return []any{}, nil
	}

	minRaw, err := eval(args[0], data)
	if err != nil {
		return nil, err
	}

	minF, _ := toFloat(minRaw)
	need := int(minF)

	missingRaw, err := evalMissing(args[1:], data)
	if err != nil {
		return nil, err
	}

	missing, _ := missingRaw.([]any)

	names, err := eval(args[1], data)
	if err != nil {
		return nil, err
	}

	total := 1
	if list, ok := names.([]any); ok {
		total = len(list)
	}

	if total-len(missing) >= need {
		return []any{}, nil
	}

	return missing, nil
}
