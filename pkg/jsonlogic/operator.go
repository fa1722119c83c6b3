package jsonlogic

// Op enumerates every operator the evaluator understands. The set is
// closed: an operator node whose key is not listed here fails with
// ErrorKindUnknownOperator at evaluation time.
type Op int

const (
	OpEqual Op = iota
	OpStrictEqual
	OpNotEqual
	OpStrictNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
	OpAnd
	OpOr
	OpNot
	OpBool
	OpIf
	OpVar
	OpIn
	OpAll
	OpSome
	OpNone
	OpMerge
	OpCat
	OpSubstr
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpMin
	OpMax
	OpMissing
	OpMissingSome
)

var opByName = map[string]Op{
	"==":           OpEqual,
	"===":          OpStrictEqual,
	"!=":           OpNotEqual,
	"!==":          OpStrictNotEqual,
	">":            OpGreater,
	">=":           OpGreaterEqual,
	"<":            OpLess,
	"<=":           OpLessEqual,
	"and":          OpAnd,
	"or":           OpOr,
	"!":            OpNot,
	"!!":           OpBool,
	"if":           OpIf,
	"var":          OpVar,
	"in":           OpIn,
	"all":          OpAll,
	"some":         OpSome,
	"none":         OpNone,
	"merge":        OpMerge,
	"cat":          OpCat,
	"substr":       OpSubstr,
	"+":            OpAdd,
	"-":            OpSubtract,
	"*":            OpMultiply,
	"/":            OpDivide,
	"%":            OpModulo,
	"min":          OpMin,
	"max":          OpMax,
	"missing":      OpMissing,
	"missing_some": OpMissingSome,
}
