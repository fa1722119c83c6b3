package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/hireground/talentgate/pkg/eventbus"
	"github.com/hireground/talentgate/pkg/events"
	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// WorkflowService owns the workflow lifecycle: creation, the
// DRAFT/ACTIVE/ARCHIVED transitions and the company-default swap.
type WorkflowService struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventPublisher
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewWorkflowService creates a new workflow service.
func NewWorkflowService(p persistence.Persistence, eb eventbus.EventPublisher, logger *slog.Logger) *WorkflowService {
	return &WorkflowService{
		persistence: p,
		eventBus:    eb,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger.With("module", "workflow_service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *WorkflowService) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateWorkflowRequest carries caller input for workflow creation.
type CreateWorkflowRequest struct {
	CompanyID   string `validate:"required"`
	Type        string `validate:"required"`
	DisplayMode string
	PhaseID     *string
	Name        string `validate:"required,min=3"`
	Description string
}

// CreateWorkflow builds and persists a DRAFT workflow.
func (s *WorkflowService) CreateWorkflow(ctx context.Context, req CreateWorkflowRequest) (*models.Workflow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	workflow, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID:   req.CompanyID,
		Type:        req.Type,
		DisplayMode: req.DisplayMode,
		PhaseID:     req.PhaseID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	if err := s.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.publish(ctx, workflow.ID, events.WorkflowCreated{
		BaseEvent:    events.NewBaseEvent(events.WorkflowCreatedEvent),
		WorkflowID:   workflow.ID,
		CompanyID:    workflow.CompanyID,
		WorkflowType: workflow.Type,
	})

	return workflow, nil
}

// GetWorkflow returns one workflow by id.
func (s *WorkflowService) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	return s.persistence.WorkflowRepository().GetByID(ctx, id)
}

// ListWorkflows returns every workflow ordered by creation time.
func (s *WorkflowService) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	return s.persistence.WorkflowRepository().GetAll(ctx)
}

// ActivateWorkflow moves a workflow to ACTIVE.
func (s *WorkflowService) ActivateWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := workflow.Activate(); err != nil {
		return nil, err
	}

	if err := s.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.publish(ctx, workflow.ID, events.WorkflowActivated{
		BaseEvent:  events.NewBaseEvent(events.WorkflowActivatedEvent),
		WorkflowID: workflow.ID,
	})

	return workflow, nil
}

// DeactivateWorkflow moves a workflow back to DRAFT. The company
// default must be replaced first.
func (s *WorkflowService) DeactivateWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := workflow.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.publish(ctx, workflow.ID, events.WorkflowDeactivated{
		BaseEvent:  events.NewBaseEvent(events.WorkflowDeactivatedEvent),
		WorkflowID: workflow.ID,
	})

	return workflow, nil
}

// ArchiveWorkflow archives a workflow. Archiving is one-way.
func (s *WorkflowService) ArchiveWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := workflow.Archive(); err != nil {
		return nil, err
	}

	if err := s.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.publish(ctx, workflow.ID, events.WorkflowArchived{
		BaseEvent:  events.NewBaseEvent(events.WorkflowArchivedEvent),
		WorkflowID: workflow.ID,
	})

	return workflow, nil
}

// SetDefaultWorkflow makes a workflow the company default for its type.
// The previous default is cleared in the same operation so a
// company+type pair never ends up with two defaults.
func (s *WorkflowService) SetDefaultWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	repo := s.persistence.WorkflowRepository()

	workflow, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Validate the target before touching the previous default, so a
	// rejected swap leaves the current default intact.
	if err := workflow.SetAsDefault(); err != nil {
		return nil, err
	}

	previousID := ""

	previous, err := repo.GetDefault(ctx, workflow.CompanyID, workflow.Type)
	if err != nil && !persistence.IsWorkflowNotFound(err) {
		return nil, err
	}

	if previous != nil && previous.ID != workflow.ID {
		previous.ClearDefault()

		if err := repo.Save(ctx, previous); err != nil {
			return nil, fmt.Errorf("failed to clear previous default: %w", err)
		}

		previousID = previous.ID
	}

	if err := repo.Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.publish(ctx, workflow.ID, events.WorkflowSetAsDefault{
		BaseEvent:         events.NewBaseEvent(events.WorkflowSetAsDefaultEvent),
		WorkflowID:        workflow.ID,
		CompanyID:         workflow.CompanyID,
		PreviousDefaultID: previousID,
	})

	return workflow, nil
}

// DeleteWorkflow removes a workflow. The company default is locked
// against deletion until another workflow replaces it, and a workflow
// whose stages still hold non-terminal applications cannot go away
// underneath them.
func (s *WorkflowService) DeleteWorkflow(ctx context.Context, id string) error {
	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if workflow.IsDefault {
		return models.ErrDefaultWorkflowLocked
	}

	stages, err := s.persistence.StageRepository().ListByWorkflow(ctx, id)
	if err != nil {
		return err
	}

	if len(stages) > 0 {
		stageIDs := make([]string, 0, len(stages))
		for _, stage := range stages {
			stageIDs = append(stageIDs, stage.ID)
		}

		count, err := s.persistence.ApplicationRepository().CountInFlight(ctx, stageIDs)
		if err != nil {
			return err
		}

		if count > 0 {
			return fmt.Errorf("%w: %d open", ErrWorkflowHasApplications, count)
		}
	}

	return s.persistence.WorkflowRepository().Delete(ctx, id)
}

func (s *WorkflowService) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
