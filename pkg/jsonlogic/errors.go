package jsonlogic

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the fatal evaluation failures. Everything else
// (type mismatches, missing variables, bad indices) degrades to a
// conservative value instead of erroring.
type ErrorKind int

const (
	ErrorKindUnknownOperator ErrorKind = iota
	ErrorKindDivisionByZero
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnknownOperator:
		return "unknown operator"
	case ErrorKindDivisionByZero:
		return "division by zero"
	default:
		return "unknown error"
	}
}

// EvaluationError reports a structurally invalid expression tree or a
// zero divisor. It is the only error type Apply returns.
type EvaluationError struct {
	Kind     ErrorKind
	Operator string
}

func (e *EvaluationError) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("jsonlogic: %s: %q", e.Kind, e.Operator)
	}

	return "jsonlogic: " + e.Kind.String()
}

// IsEvaluationError reports whether err is (or wraps) an EvaluationError.
func IsEvaluationError(err error) bool {
	var target *EvaluationError

	return errors.As(err, &target)
}

func newUnknownOperatorError(name string) error {
	return &EvaluationError{Kind: ErrorKindUnknownOperator, Operator: name}
}

func newDivisionByZeroError(op string) error {
	return &EvaluationError{Kind: ErrorKindDivisionByZero, Operator: op}
}
