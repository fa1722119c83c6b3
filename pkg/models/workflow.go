package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkflowStatus is the lifecycle state of a workflow.
// DRAFT <-> ACTIVE -> ARCHIVED; archiving is one-way.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"
	WorkflowStatusActive   WorkflowStatus = "active"
	WorkflowStatusArchived WorkflowStatus = "archived"
)

// WorkflowType scopes a workflow to the process it drives.
type WorkflowType string

const (
	WorkflowTypeJobPositionOpening   WorkflowType = "job_position_opening"
	WorkflowTypeCandidateApplication WorkflowType = "candidate_application"
	WorkflowTypeCompanyOnboarding    WorkflowType = "company_onboarding"
)

// DisplayMode controls how a workflow's board renders.
type DisplayMode string

const (
	DisplayModeKanban DisplayMode = "kanban"
	DisplayModeList   DisplayMode = "list"
)

func ParseWorkflowType(raw string) (WorkflowType, error) {
	switch WorkflowType(raw) {
	case WorkflowTypeJobPositionOpening, WorkflowTypeCandidateApplication, WorkflowTypeCompanyOnboarding:
		return WorkflowType(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWorkflowType, raw)
	}
}

func ParseDisplayMode(raw string) (DisplayMode, error) {
	switch DisplayMode(raw) {
	case DisplayModeKanban, DisplayModeList:
		return DisplayMode(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDisplayMode, raw)
	}
}

// Workflow is an ordered pipeline of stages owned by a company. The
// default workflow for a company+type pair cannot leave ACTIVE while it
// is still the default.
type Workflow struct {
	ID          string         `json:"id"           validate:"required"`
	CompanyID   string         `json:"company_id"   validate:"required"`
	Type        WorkflowType   `json:"type"         validate:"required"`
	DisplayMode DisplayMode    `json:"display_mode" validate:"required"`
	PhaseID     *string        `json:"phase_id,omitempty"`
	Name        string         `json:"name"         validate:"required,min=3"`
	Description string         `json:"description"`
	Status      WorkflowStatus `json:"status"       validate:"required"`
	IsDefault   bool           `json:"is_default"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// WorkflowParams carries caller input for the workflow factory.
type WorkflowParams struct {
	CompanyID   string
	Type        string
	DisplayMode string
	PhaseID     *string
	Name        string
	Description string
}

// NewWorkflow builds a DRAFT workflow after validating enum inputs.
func NewWorkflow(params WorkflowParams) (*Workflow, error) {
	workflowType, err := ParseWorkflowType(params.Type)
	if err != nil {
		return nil, err
	}

	displayMode := DisplayModeKanban

	if params.DisplayMode != "" {
		displayMode, err = ParseDisplayMode(params.DisplayMode)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	return &Workflow{
		ID:          uuid.New().String(),
		CompanyID:   params.CompanyID,
		Type:        workflowType,
		DisplayMode: displayMode,
		PhaseID:     params.PhaseID,
		Name:        params.Name,
		Description: params.Description,
		Status:      WorkflowStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Activate moves DRAFT -> ACTIVE. Archived workflows stay archived.
func (w *Workflow) Activate() error {
	if w.Status == WorkflowStatusArchived {
		return ErrWorkflowArchived
	}

	w.Status = WorkflowStatusActive
	w.UpdatedAt = time.Now().UTC()

	return nil
}

// Deactivate moves ACTIVE -> DRAFT. The company default cannot be
// deactivated while it is still the default.
func (w *Workflow) Deactivate() error {
	if w.IsDefault {
		return ErrDefaultWorkflowLocked
	}

	if w.Status == WorkflowStatusArchived {
		return ErrWorkflowArchived
	}

	w.Status = WorkflowStatusDraft
	w.UpdatedAt = time.Now().UTC()

	return nil
}

// Archive moves ACTIVE -> ARCHIVED, terminal and one-way. The company
// default must be replaced before it can be archived.
func (w *Workflow) Archive() error {
	if w.IsDefault {
		return ErrDefaultWorkflowLocked
	}

	if w.Status != WorkflowStatusActive {
		return ErrWorkflowNotActive
	}

	w.Status = WorkflowStatusArchived
	w.UpdatedAt = time.Now().UTC()

	return nil
}

// SetAsDefault requires an ACTIVE workflow.
func (w *Workflow) SetAsDefault() error {
	if w.Status != WorkflowStatusActive {
		return ErrWorkflowNotActive
	}

	w.IsDefault = true
	w.UpdatedAt = time.Now().UTC()

	return nil
}

// ClearDefault removes default status, allowing later deactivation.
func (w *Workflow) ClearDefault() {
	w.IsDefault = false
	w.UpdatedAt = time.Now().UTC()
}
