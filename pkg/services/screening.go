package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hireground/talentgate/pkg/eventbus"
	"github.com/hireground/talentgate/pkg/events"
	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/otelhelper"
	"github.com/hireground/talentgate/pkg/persistence"
	"github.com/hireground/talentgate/pkg/validation"
)

// ScreeningService runs stage-transition validation and answer
// evaluation, and applies the auto-reject/auto-approve side effects the
// pure evaluators only signal.
type ScreeningService struct {
	persistence persistence.Persistence
	validator   *validation.StageValidator
	evaluator   *validation.AnswerEvaluator
	eventBus    eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewScreeningService creates a screening service. The rule repository
// is passed separately so callers can hand in the cached decorator.
func NewScreeningService(p persistence.Persistence, rules persistence.ValidationRuleRepository, eb eventbus.EventPublisher, logger *slog.Logger) *ScreeningService {
	return &ScreeningService{
		persistence: p,
		validator:   validation.NewStageValidator(rules, p.CustomFieldRepository(), logger),
		evaluator:   validation.NewAnswerEvaluator(logger),
		eventBus:    eb,
		tracer:      otel.Tracer("talentgate.screening"),
		logger:      logger.With("module", "screening_service"),
	}
}

// ValidateStageTransition runs the stage's active rules over candidate
// field values. The caller decides what to do with a failing aggregate;
// this never mutates the application.
func (s *ScreeningService) ValidateStageTransition(ctx context.Context, stageID string, candidateValues, positionData map[string]any) (models.StageValidationResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "screening.validate_stage_transition",
		attribute.String(otelhelper.StageIDKey, stageID))
	defer span.End()

	result, err := s.validator.ValidateStageTransition(ctx, stageID, candidateValues, positionData)
	if err != nil {
		otelhelper.SetError(span, err)

		return models.StageValidationResult{}, err
	}

	s.publish(ctx, stageID, events.StageValidationCompleted{
		BaseEvent: events.NewBaseEvent(events.StageValidationCompletedEvent),
		StageID:   stageID,
		Result:    result,
	})

	return result, nil
}

// EvaluateApplication loads the application, its stage and its
// position, runs the stage's rule document over the answers and applies
// the outcome: auto-reject transitions the application to REJECTED with
// the computed reason as its note, auto-approve approves it.
func (s *ScreeningService) EvaluateApplication(ctx context.Context, applicationID string) (validation.AnswerEvaluationResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "screening.evaluate_application",
		attribute.String(otelhelper.ApplicationIDKey, applicationID))
	defer span.End()

	application, err := s.persistence.ApplicationRepository().GetByID(ctx, applicationID)
	if err != nil {
		otelhelper.SetError(span, err)

		return validation.AnswerEvaluationResult{}, err
	}

	position, err := s.persistence.JobPositionRepository().GetByID(ctx, application.PositionID)
	if err != nil {
		otelhelper.SetError(span, err)

		return validation.AnswerEvaluationResult{}, err
	}

	span.SetAttributes(attribute.String(otelhelper.PositionIDKey, position.ID))

	document := s.stageRuleDocument(ctx, application.StageID)
	if document == nil {
		return validation.AnswerEvaluationSuccess(), nil
	}

	result, err := s.evaluator.EvaluateRaw(ctx, document, application.Answers, position.Data, position.Questions)
	if err != nil {
		otelhelper.SetError(span, err)

		return validation.AnswerEvaluationResult{}, fmt.Errorf("failed to evaluate rule document: %w", err)
	}

	s.publish(ctx, application.ID, events.AnswersEvaluated{
		BaseEvent:     events.NewBaseEvent(events.AnswersEvaluatedEvent),
		ApplicationID: application.ID,
		PositionID:    position.ID,
		IsValid:       result.IsValid,
		ErrorCount:    len(result.Errors),
		WarningCount:  len(result.Warnings),
	})

	if err := s.applyOutcome(ctx, application, result); err != nil {
		otelhelper.SetError(span, err)

		return result, err
	}

	return result, nil
}

// EvaluateAnswers runs a rule document over explicit answers, with no
// application side effects. Used for previewing rule documents.
func (s *ScreeningService) EvaluateAnswers(ctx context.Context, rawDocument any, answers, positionData map[string]any, questions []models.Question) (validation.AnswerEvaluationResult, error) {
	result, err := s.evaluator.EvaluateRaw(ctx, rawDocument, answers, positionData, questions)
	if err != nil {
		return validation.AnswerEvaluationResult{}, fmt.Errorf("failed to evaluate rule document: %w", err)
	}

	return result, nil
}

// stageRuleDocument fetches the stage's free-form rule document. A
// missing stage or empty document means there is nothing to evaluate.
func (s *ScreeningService) stageRuleDocument(ctx context.Context, stageID string) any {
	if stageID == "" {
		return nil
	}

	stage, err := s.persistence.StageRepository().GetByID(ctx, stageID)
	if err != nil {
		if !persistence.IsNotFound(err) {
			s.logger.WarnContext(ctx, "failed to load stage for evaluation",
				"stage_id", stageID, "error", err)
		}

		return nil
	}

	return stage.ValidationRules
}

// applyOutcome performs the reject/approve side effect. Reject wins
// over approve when a document signals both.
func (s *ScreeningService) applyOutcome(ctx context.Context, application *models.Application, result validation.AnswerEvaluationResult) error {
	switch {
	case result.ShouldAutoReject:
		if err := application.Reject(result.RejectReason); err != nil {
			return err
		}

		if err := s.persistence.ApplicationRepository().Save(ctx, application); err != nil {
			return fmt.Errorf("failed to save application: %w", err)
		}

		s.logger.InfoContext(ctx, "application auto-rejected",
			"application_id", application.ID, "reason", result.RejectReason)

		s.publish(ctx, application.ID, events.ApplicationAutoRejected{
			BaseEvent:     events.NewBaseEvent(events.ApplicationAutoRejectedEvent),
			ApplicationID: application.ID,
			Reason:        result.RejectReason,
		})
	case result.ShouldAutoApprove:
		if err := application.Approve(""); err != nil {
			return err
		}

		if err := s.persistence.ApplicationRepository().Save(ctx, application); err != nil {
			return fmt.Errorf("failed to save application: %w", err)
		}

		s.logger.InfoContext(ctx, "application auto-approved",
			"application_id", application.ID)

		s.publish(ctx, application.ID, events.ApplicationAutoApproved{
			BaseEvent:     events.NewBaseEvent(events.ApplicationAutoApprovedEvent),
			ApplicationID: application.ID,
		})
	}

	return nil
}

func (s *ScreeningService) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
