package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StageType classifies a stage. SUCCESS and FAIL are terminal: only
// terminal stages may point at a next phase.
type StageType string

const (
	StageTypeInitial  StageType = "initial"
	StageTypeProgress StageType = "progress"
	StageTypeSuccess  StageType = "success"
	StageTypeFail     StageType = "fail"
	StageTypeHold     StageType = "hold"
)

func ParseStageType(raw string) (StageType, error) {
	switch StageType(raw) {
	case StageTypeInitial, StageTypeProgress, StageTypeSuccess, StageTypeFail, StageTypeHold:
		return StageType(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStageType, raw)
	}
}

// IsTerminal reports whether a candidate leaving this stage exits the
// current phase.
func (t StageType) IsTerminal() bool {
	return t == StageTypeSuccess || t == StageTypeFail
}

// StageStyle is the visual treatment of a stage on the board.
type StageStyle struct {
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// WorkflowStage is one ordered step of a workflow. Order uniqueness
// within a workflow is the reordering service's responsibility, not
// enforced here.
type WorkflowStage struct {
	ID          string    `json:"id"          validate:"required"`
	WorkflowID  string    `json:"workflow_id" validate:"required"`
	Name        string    `json:"name"        validate:"required"`
	Description string    `json:"description"`
	StageType   StageType `json:"stage_type"  validate:"required"`
	Order       int       `json:"order"       validate:"min=0"`
	AllowSkip   bool      `json:"allow_skip"`
	IsActive    bool      `json:"is_active"`

	DefaultAssigneeID *string `json:"default_assignee_id,omitempty"`
	EmailTemplateID   *string `json:"email_template_id,omitempty"`

	DurationMinutes *int        `json:"duration_minutes,omitempty"`
	DeadlineDays    *int        `json:"deadline_days,omitempty"`
	CostEstimate    *float64    `json:"cost_estimate,omitempty"`
	NextPhaseID     *string     `json:"next_phase_id,omitempty"`
	KanbanDisplay   DisplayMode `json:"kanban_display"`
	Style           StageStyle  `json:"style"`

	// Free-form expression blobs evaluated by the jsonlogic engine,
	// distinct from the structured ValidationRule entities.
	ValidationRules  any `json:"validation_rules,omitempty"`
	RecommendedRules any `json:"recommended_rules,omitempty"`

	Interviews []InterviewConfiguration `json:"interviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkflowStageParams carries caller input for the stage factory.
type WorkflowStageParams struct {
	WorkflowID        string
	Name              string
	Description       string
	StageType         string
	Order             int
	AllowSkip         bool
	DefaultAssigneeID *string
	EmailTemplateID   *string
	DurationMinutes   *int
	DeadlineDays      *int
	CostEstimate      *float64
	NextPhaseID       *string
	KanbanDisplay     string
	Style             StageStyle
	ValidationRules   any
	RecommendedRules  any
	Interviews        []InterviewConfiguration
}

// NewWorkflowStage validates ranges and the next-phase invariant before
// building anything.
func NewWorkflowStage(params WorkflowStageParams) (*WorkflowStage, error) {
	stageType, err := ParseStageType(params.StageType)
	if err != nil {
		return nil, err
	}

	if err := validateStageFields(stageType, params.Order, params.DurationMinutes,
		params.DeadlineDays, params.CostEstimate, params.NextPhaseID); err != nil {
		return nil, err
	}

	display := DisplayModeKanban

	if params.KanbanDisplay != "" {
		display, err = ParseDisplayMode(params.KanbanDisplay)
		if err != nil {
			return nil, err
		}
	}

	interviews := params.Interviews
	if interviews == nil {
		interviews = []InterviewConfiguration{}
	}

	now := time.Now().UTC()

	return &WorkflowStage{
		ID:                uuid.New().String(),
		WorkflowID:        params.WorkflowID,
		Name:              params.Name,
		Description:       params.Description,
		StageType:         stageType,
		Order:             params.Order,
		AllowSkip:         params.AllowSkip,
		IsActive:          true,
		DefaultAssigneeID: params.DefaultAssigneeID,
		EmailTemplateID:   params.EmailTemplateID,
		DurationMinutes:   params.DurationMinutes,
		DeadlineDays:      params.DeadlineDays,
		CostEstimate:      params.CostEstimate,
		NextPhaseID:       params.NextPhaseID,
		KanbanDisplay:     display,
		Style:             params.Style,
		ValidationRules:   params.ValidationRules,
		RecommendedRules:  params.RecommendedRules,
		Interviews:        interviews,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Update re-validates and overwrites the mutable fields. Validation
// happens before any field is written.
func (s *WorkflowStage) Update(params WorkflowStageParams) error {
	stageType, err := ParseStageType(params.StageType)
	if err != nil {
		return err
	}

	if err := validateStageFields(stageType, params.Order, params.DurationMinutes,
		params.DeadlineDays, params.CostEstimate, params.NextPhaseID); err != nil {
		return err
	}

	display := s.KanbanDisplay

	if params.KanbanDisplay != "" {
		display, err = ParseDisplayMode(params.KanbanDisplay)
		if err != nil {
			return err
		}
	}

	s.Name = params.Name
	s.Description = params.Description
	s.StageType = stageType
	s.Order = params.Order
	s.AllowSkip = params.AllowSkip
	s.DefaultAssigneeID = params.DefaultAssigneeID
	s.EmailTemplateID = params.EmailTemplateID
	s.DurationMinutes = params.DurationMinutes
	s.DeadlineDays = params.DeadlineDays
	s.CostEstimate = params.CostEstimate
	s.NextPhaseID = params.NextPhaseID
	s.KanbanDisplay = display
	s.Style = params.Style
	s.ValidationRules = params.ValidationRules
	s.RecommendedRules = params.RecommendedRules

	if params.Interviews != nil {
		s.Interviews = params.Interviews
	}

	s.UpdatedAt = time.Now().UTC()

	return nil
}

// Reorder changes only the order field.
func (s *WorkflowStage) Reorder(order int) error {
	if order < 0 {
		return ErrNegativeOrder
	}

	s.Order = order
	s.UpdatedAt = time.Now().UTC()

	return nil
}

func (s *WorkflowStage) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now().UTC()
}

func (s *WorkflowStage) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now().UTC()
}

func validateStageFields(stageType StageType, order int, duration, deadline *int,
	cost *float64, nextPhaseID *string) error {
	if order < 0 {
		return ErrNegativeOrder
	}

	if duration != nil && *duration < 0 {
		return ErrInvalidDuration
	}

	if deadline != nil && *deadline < 1 {
		return ErrInvalidDeadline
	}

	if cost != nil && *cost < 0 {
		return ErrInvalidCost
	}

	if nextPhaseID != nil && !stageType.IsTerminal() {
		return ErrNextPhaseForbidden
	}

	return nil
}
