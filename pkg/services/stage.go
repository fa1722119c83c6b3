package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hireground/talentgate/pkg/eventbus"
	"github.com/hireground/talentgate/pkg/events"
	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// StageService owns workflow stages and the rule cascade that goes with
// them: deleting a stage deletes its validation rules.
type StageService struct {
	persistence persistence.Persistence
	rules       persistence.ValidationRuleRepository
	eventBus    eventbus.EventPublisher
	logger      *slog.Logger
}

// NewStageService creates a new stage service. The rule repository is
// passed separately so callers can hand in the cached decorator.
func NewStageService(p persistence.Persistence, rules persistence.ValidationRuleRepository, eb eventbus.EventPublisher, logger *slog.Logger) *StageService {
	return &StageService{
		persistence: p,
		rules:       rules,
		eventBus:    eb,
		logger:      logger.With("module", "stage_service"),
	}
}

// CreateStage builds and persists a stage after checking the workflow
// exists.
func (s *StageService) CreateStage(ctx context.Context, params models.WorkflowStageParams) (*models.WorkflowStage, error) {
	if _, err := s.persistence.WorkflowRepository().GetByID(ctx, params.WorkflowID); err != nil {
		return nil, err
	}

	stage, err := models.NewWorkflowStage(params)
	if err != nil {
		return nil, err
	}

	if err := s.persistence.StageRepository().Save(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to save stage: %w", err)
	}

	s.publish(ctx, stage.WorkflowID, events.StageCreated{
		BaseEvent:  events.NewBaseEvent(events.StageCreatedEvent),
		WorkflowID: stage.WorkflowID,
		StageID:    stage.ID,
	})

	return stage, nil
}

// GetStage returns one stage by id.
func (s *StageService) GetStage(ctx context.Context, id string) (*models.WorkflowStage, error) {
	return s.persistence.StageRepository().GetByID(ctx, id)
}

// ListStages returns the workflow's stages sorted by order.
func (s *StageService) ListStages(ctx context.Context, workflowID string) ([]*models.WorkflowStage, error) {
	if _, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID); err != nil {
		return nil, err
	}

	return s.persistence.StageRepository().ListByWorkflow(ctx, workflowID)
}

// UpdateStage overwrites the mutable stage fields.
func (s *StageService) UpdateStage(ctx context.Context, id string, params models.WorkflowStageParams) (*models.WorkflowStage, error) {
	stage, err := s.persistence.StageRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	params.WorkflowID = stage.WorkflowID

	if err := stage.Update(params); err != nil {
		return nil, err
	}

	if err := s.persistence.StageRepository().Save(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to save stage: %w", err)
	}

	s.publish(ctx, stage.WorkflowID, events.StageUpdated{
		BaseEvent:  events.NewBaseEvent(events.StageUpdatedEvent),
		WorkflowID: stage.WorkflowID,
		StageID:    stage.ID,
	})

	return stage, nil
}

// DeleteStage removes a stage and cascades its validation rules. Rules
// never outlive their stage.
func (s *StageService) DeleteStage(ctx context.Context, id string) error {
	stage, err := s.persistence.StageRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}

	rules, err := s.rules.ListByStage(ctx, id, false)
	if err != nil {
		return fmt.Errorf("failed to list stage rules: %w", err)
	}

	if err := s.rules.DeleteByStage(ctx, id); err != nil {
		return fmt.Errorf("failed to delete stage rules: %w", err)
	}

	if err := s.persistence.StageRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "stage deleted",
		"stage_id", id, "deleted_rules", len(rules))

	s.publish(ctx, stage.WorkflowID, events.StageDeleted{
		BaseEvent:    events.NewBaseEvent(events.StageDeletedEvent),
		WorkflowID:   stage.WorkflowID,
		StageID:      stage.ID,
		DeletedRules: len(rules),
	})

	return nil
}

// ReorderStages applies a new order to every stage of a workflow. The
// order map must cover each stage exactly once with unique positions;
// nothing is written until the whole map validates.
func (s *StageService) ReorderStages(ctx context.Context, workflowID string, order map[string]int) ([]*models.WorkflowStage, error) {
	if _, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID); err != nil {
		return nil, err
	}

	stages, err := s.persistence.StageRepository().ListByWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if len(order) != len(stages) {
		return nil, fmt.Errorf("%w: got %d entries for %d stages",
			ErrIncompleteReorder, len(order), len(stages))
	}

	byID := make(map[string]*models.WorkflowStage, len(stages))
	for _, stage := range stages {
		byID[stage.ID] = stage
	}

	seen := make(map[int]string, len(order))

	for stageID, position := range order {
		if position < 0 {
			return nil, models.ErrNegativeOrder
		}

		if _, ok := byID[stageID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, stageID)
		}

		if other, ok := seen[position]; ok {
			return nil, fmt.Errorf("%w: %d used by %s and %s",
				ErrDuplicateOrder, position, other, stageID)
		}

		seen[position] = stageID
	}

	for stageID, position := range order {
		stage := byID[stageID]

		if err := stage.Reorder(position); err != nil {
			return nil, err
		}

		if err := s.persistence.StageRepository().Save(ctx, stage); err != nil {
			return nil, fmt.Errorf("failed to save stage %s: %w", stageID, err)
		}
	}

	s.publish(ctx, workflowID, events.StagesReordered{
		BaseEvent:  events.NewBaseEvent(events.StagesReorderedEvent),
		WorkflowID: workflowID,
		Order:      order,
	})

	return s.persistence.StageRepository().ListByWorkflow(ctx, workflowID)
}

func (s *StageService) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
