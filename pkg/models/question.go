package models

// QuestionType drives coercion of raw screening answers before rule
// evaluation.
type QuestionType string

const (
	QuestionTypeText    QuestionType = "text"
	QuestionTypeNumber  QuestionType = "number"
	QuestionTypeBoolean QuestionType = "boolean"
	QuestionTypeSelect  QuestionType = "select"
)

// Question is one screening question of a job position. Answers are
// keyed by the question key in the answers map a rule document runs
// against.
type Question struct {
	Key      string       `json:"key"  validate:"required"`
	Label    string       `json:"label"`
	Type     QuestionType `json:"type" validate:"required"`
	Required bool         `json:"required"`
}

// CustomField describes a candidate custom field referenced by a
// structured ValidationRule. The engine only needs the name and type;
// field management lives elsewhere.
type CustomField struct {
	ID    string       `json:"id"   validate:"required"`
	Name  string       `json:"name" validate:"required"`
	Type  QuestionType `json:"type"`
}
