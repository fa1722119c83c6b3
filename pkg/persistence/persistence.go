// Package persistence defines the storage contracts the screening
// engine consumes. The engine never owns persistence: repositories hand
// it plain records and receive plain records back.
package persistence

import (
	"context"

	"github.com/hireground/talentgate/pkg/models"
)

// Persistence bundles the repositories behind one connection lifecycle.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	StageRepository() StageRepository
	ValidationRuleRepository() ValidationRuleRepository
	ApplicationRepository() ApplicationRepository
	JobPositionRepository() JobPositionRepository
	CustomFieldRepository() CustomFieldRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow entities.
type WorkflowRepository interface {
	GetAll(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	GetDefault(ctx context.Context, companyID string, workflowType models.WorkflowType) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// StageRepository stores workflow stages. ListByWorkflow returns stages
// sorted by their order field.
type StageRepository interface {
	GetByID(ctx context.Context, id string) (*models.WorkflowStage, error)
	ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowStage, error)
	Save(ctx context.Context, stage *models.WorkflowStage) error
	Delete(ctx context.Context, id string) error
}

// ValidationRuleRepository stores stage-scoped validation rules.
// ListByStage must return a stable order: by creation time, ties broken
// by ID, so rule evaluation order is deterministic.
type ValidationRuleRepository interface {
	GetByID(ctx context.Context, id string) (*models.ValidationRule, error)
	ListByStage(ctx context.Context, stageID string, activeOnly bool) ([]*models.ValidationRule, error)
	Save(ctx context.Context, rule *models.ValidationRule) error
	Delete(ctx context.Context, id string) error
	// DeleteByStage cascades when a stage is removed. A rule's lifetime
	// is bound to its stage, never the reverse.
	DeleteByStage(ctx context.Context, stageID string) error
}

// ApplicationRepository stores candidate applications; the engine only
// loads and saves them around the auto-reject side effect.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Save(ctx context.Context, application *models.Application) error
	// CountInFlight returns how many non-terminal applications sit in
	// any of the given stages.
	CountInFlight(ctx context.Context, stageIDs []string) (int, error)
}

// JobPositionRepository provides the position data rules compare
// against.
type JobPositionRepository interface {
	GetByID(ctx context.Context, id string) (*models.JobPosition, error)
	Save(ctx context.Context, position *models.JobPosition) error
}

// CustomFieldRepository resolves field ids to names and types for
// message formatting and evaluation context keys.
type CustomFieldRepository interface {
	GetByID(ctx context.Context, id string) (*models.CustomField, error)
	Save(ctx context.Context, field *models.CustomField) error
}
