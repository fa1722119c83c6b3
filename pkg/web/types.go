// Package web provides HTTP request and response types for the
// screening API.
package web

// CreateWorkflowRequest is the body for creating a workflow.
type CreateWorkflowRequest struct {
	CompanyID   string  `json:"company_id"   validate:"required"`
	Type        string  `json:"type"         validate:"required"`
	DisplayMode string  `json:"display_mode"`
	PhaseID     *string `json:"phase_id,omitempty"`
	Name        string  `json:"name"         validate:"required,min=3"`
	Description string  `json:"description"`
}

// StageRequest is the body for creating or updating a workflow stage.
type StageRequest struct {
	Name              string   `json:"name"       validate:"required"`
	Description       string   `json:"description"`
	StageType         string   `json:"stage_type" validate:"required"`
	Order             int      `json:"order"      validate:"min=0"`
	AllowSkip         bool     `json:"allow_skip"`
	DefaultAssigneeID *string  `json:"default_assignee_id,omitempty"`
	EmailTemplateID   *string  `json:"email_template_id,omitempty"`
	DurationMinutes   *int     `json:"duration_minutes,omitempty"`
	DeadlineDays      *int     `json:"deadline_days,omitempty"`
	CostEstimate      *float64 `json:"cost_estimate,omitempty"`
	NextPhaseID       *string  `json:"next_phase_id,omitempty"`
	KanbanDisplay     string   `json:"kanban_display"`
	ValidationRules   any      `json:"validation_rules,omitempty"`
	RecommendedRules  any      `json:"recommended_rules,omitempty"`
}

// ReorderStagesRequest maps stage ids to their new positions. It must
// cover every stage of the workflow exactly once.
type ReorderStagesRequest struct {
	Order map[string]int `json:"order" validate:"required,min=1"`
}

// CreateRuleRequest is the body for creating a validation rule.
type CreateRuleRequest struct {
	FieldID           string `json:"field_id"  validate:"required"`
	RuleType          string `json:"rule_type" validate:"required"`
	Operator          string `json:"operator"`
	ComparisonValue   any    `json:"comparison_value,omitempty"`
	PositionFieldPath string `json:"position_field_path,omitempty"`
	Expression        any    `json:"expression,omitempty"`
	Severity          string `json:"severity"  validate:"required"`
	MessageTemplate   string `json:"message_template"`
	AutoReject        bool   `json:"auto_reject"`
	RejectionReason   string `json:"rejection_reason,omitempty"`
}

// UpdateRuleRequest is the body for a partial rule update. Nil fields
// are left untouched.
type UpdateRuleRequest struct {
	Operator          *string `json:"operator,omitempty"`
	ComparisonValue   any     `json:"comparison_value,omitempty"`
	PositionFieldPath *string `json:"position_field_path,omitempty"`
	Expression        any     `json:"expression,omitempty"`
	Severity          *string `json:"severity,omitempty"`
	MessageTemplate   *string `json:"message_template,omitempty"`
	AutoReject        *bool   `json:"auto_reject,omitempty"`
	RejectionReason   *string `json:"rejection_reason,omitempty"`
}

// ValidateTransitionRequest carries candidate field values and position
// data for a stage-transition dry run.
type ValidateTransitionRequest struct {
	CandidateValues map[string]any `json:"candidate_values" validate:"required"`
	PositionData    map[string]any `json:"position_data"`
}

// EvaluateAnswersRequest previews a rule document against explicit
// answers, without touching any application.
type EvaluateAnswersRequest struct {
	Document     any            `json:"document" validate:"required"`
	Answers      map[string]any `json:"answers"  validate:"required"`
	PositionData map[string]any `json:"position_data"`
}
