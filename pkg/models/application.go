package models

import (
	"time"
)

// ApplicationStatus is the lifecycle state of a candidate application.
type ApplicationStatus string

const (
	ApplicationStatusApplied   ApplicationStatus = "applied"
	ApplicationStatusScreening ApplicationStatus = "screening"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusHired     ApplicationStatus = "hired"
)

// Application is a candidate's application to a job position. Only the
// pieces the screening engine touches are modeled here: the current
// stage, the answers and the reject/approve transitions.
type Application struct {
	ID          string            `json:"id"          validate:"required"`
	CandidateID string            `json:"candidate_id"`
	PositionID  string            `json:"position_id" validate:"required"`
	StageID     string            `json:"stage_id,omitempty"`
	Status      ApplicationStatus `json:"status"`
	Answers     map[string]any    `json:"answers,omitempty"`
	Note        string            `json:"note,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IsTerminal reports whether the application reached a final status.
func (a *Application) IsTerminal() bool {
	return a.Status == ApplicationStatusRejected || a.Status == ApplicationStatusHired
}

// Reject transitions the application to REJECTED, recording the reason
// as its note. Rejecting a finalized application is an error.
func (a *Application) Reject(reason string) error {
	if a.IsTerminal() {
		return ErrApplicationFinalized
	}

	a.Status = ApplicationStatusRejected
	a.Note = reason
	a.UpdatedAt = time.Now().UTC()

	return nil
}

// Approve marks the application approved, e.g. from an auto-approve
// rule outcome.
func (a *Application) Approve(note string) error {
	if a.IsTerminal() {
		return ErrApplicationFinalized
	}

	a.Status = ApplicationStatusApproved

	if note != "" {
		a.Note = note
	}

	a.UpdatedAt = time.Now().UTC()

	return nil
}

// JobPosition carries the position data rules may compare against via
// dotted paths (e.g. "max_salary"). Data is treated read-only during
// evaluation.
type JobPosition struct {
	ID        string         `json:"id"    validate:"required"`
	CompanyID string         `json:"company_id"`
	Title     string         `json:"title" validate:"required"`
	Data      map[string]any `json:"data"`
	Questions []Question     `json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
