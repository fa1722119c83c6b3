package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hireground/talentgate/pkg/eventbus"
	"github.com/hireground/talentgate/pkg/events"
	"github.com/hireground/talentgate/pkg/mocks"
	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/services"
)

func newScreeningService(t *testing.T) (*services.ScreeningService, *mocks.MockPersistence, *mocks.MockEventBus) {
	t.Helper()

	p := &mocks.MockPersistence{}
	eb := &mocks.MockEventBus{}

	return services.NewScreeningService(p, &p.Rules, eb, testLogger()), p, eb
}

func screeningStage(t *testing.T, rules any) *models.WorkflowStage {
	t.Helper()

	stage, err := models.NewWorkflowStage(models.WorkflowStageParams{
		WorkflowID:      "workflow-1",
		Name:            "Screening",
		StageType:       string(models.StageTypeInitial),
		ValidationRules: rules,
	})
	require.NoError(t, err)

	return stage
}

func salaryRejectDocument() map[string]any {
	return map[string]any{
		"rules": []any{
			map[string]any{
				"field": "expected_salary",
				"rule": map[string]any{
					">": []any{map[string]any{"var": "expected_salary"}, float64(80000)},
				},
				"severity":    "error",
				"message":     "Salary {expected_salary} exceeds 80000",
				"auto_reject": true,
			},
		},
	}
}

func TestScreeningService_ValidateStageTransition(t *testing.T) {
	svc, p, eb := newScreeningService(t)

	rule := mustRule(t, "stage-1")
	rule.AutoReject = true

	p.Rules.On("ListByStage", mock.Anything, "stage-1", true).
		Return([]*models.ValidationRule{rule}, nil)
	p.Fields.On("GetByID", mock.Anything, "field-salary").
		Return(&models.CustomField{ID: "field-salary", Name: "expected_salary"}, nil)

	var published events.StageValidationCompleted

	eb.On("Publish", mock.Anything, "stage-1", mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(2).(events.StageValidationCompleted)
		}).
		Return(nil)

	result, err := svc.ValidateStageTransition(context.Background(), "stage-1",
		map[string]any{"field-salary": float64(90000)},
		map[string]any{})
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.True(t, result.ShouldAutoReject)
	assert.Equal(t, "stage-1", published.StageID)
	assert.False(t, published.Result.IsValid)
}

func TestScreeningService_ValidateStageTransition_NoRules(t *testing.T) {
	svc, p, eb := newScreeningService(t)

	p.Rules.On("ListByStage", mock.Anything, "stage-1", true).
		Return([]*models.ValidationRule{}, nil)
	eb.On("Publish", mock.Anything, "stage-1", mock.Anything).Return(nil)

	result, err := svc.ValidateStageTransition(context.Background(), "stage-1", nil, nil)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestScreeningService_EvaluateApplication_AutoReject(t *testing.T) {
	svc, p, eb := newScreeningService(t)

	stage := screeningStage(t, salaryRejectDocument())

	application := &models.Application{
		ID:         "app-1",
		PositionID: "pos-1",
		StageID:    stage.ID,
		Status:     models.ApplicationStatusScreening,
		Answers:    map[string]any{"expected_salary": "90000"},
	}

	position := &models.JobPosition{
		ID:    "pos-1",
		Title: "Backend Engineer",
		Data:  map[string]any{"max_salary": float64(80000)},
		Questions: []models.Question{
			{Key: "expected_salary", Type: models.QuestionTypeNumber},
		},
	}

	p.Applications.On("GetByID", mock.Anything, "app-1").Return(application, nil)
	p.Positions.On("GetByID", mock.Anything, "pos-1").Return(position, nil)
	p.Stages.On("GetByID", mock.Anything, stage.ID).Return(stage, nil)
	p.Applications.On("Save", mock.Anything, application).Return(nil)
	eb.On("Publish", mock.Anything, "app-1", mock.Anything).Return(nil)

	result, err := svc.EvaluateApplication(context.Background(), "app-1")
	require.NoError(t, err)

	assert.True(t, result.ShouldAutoReject)
	assert.Equal(t, "Salary 90000 exceeds 80000", result.RejectReason)

	assert.Equal(t, models.ApplicationStatusRejected, application.Status)
	assert.Equal(t, "Salary 90000 exceeds 80000", application.Note)

	eb.AssertCalled(t, "Publish", mock.Anything, "app-1",
		mock.MatchedBy(func(event eventbus.Event) bool {
			return event.GetType() == events.ApplicationAutoRejectedEvent
		}))
}

func TestScreeningService_EvaluateApplication_AutoApprove(t *testing.T) {
	svc, p, eb := newScreeningService(t)

	document := map[string]any{
		"rules": []any{
			map[string]any{
				"field": "years_experience",
				"rule": map[string]any{
					">=": []any{map[string]any{"var": "years_experience"}, float64(5)},
				},
				"auto_approve": true,
			},
		},
	}

	stage := screeningStage(t, document)

	application := &models.Application{
		ID:         "app-1",
		PositionID: "pos-1",
		StageID:    stage.ID,
		Status:     models.ApplicationStatusScreening,
		Answers:    map[string]any{"years_experience": float64(7)},
	}

	position := &models.JobPosition{ID: "pos-1", Title: "Backend Engineer"}

	p.Applications.On("GetByID", mock.Anything, "app-1").Return(application, nil)
	p.Positions.On("GetByID", mock.Anything, "pos-1").Return(position, nil)
	p.Stages.On("GetByID", mock.Anything, stage.ID).Return(stage, nil)
	p.Applications.On("Save", mock.Anything, application).Return(nil)
	eb.On("Publish", mock.Anything, "app-1", mock.Anything).Return(nil)

	result, err := svc.EvaluateApplication(context.Background(), "app-1")
	require.NoError(t, err)

	assert.True(t, result.ShouldAutoApprove)
	assert.Equal(t, models.ApplicationStatusApproved, application.Status)
}

func TestScreeningService_EvaluateApplication_NoDocument(t *testing.T) {
	svc, p, _ := newScreeningService(t)

	stage := screeningStage(t, nil)

	application := &models.Application{
		ID:         "app-1",
		PositionID: "pos-1",
		StageID:    stage.ID,
		Status:     models.ApplicationStatusScreening,
	}

	p.Applications.On("GetByID", mock.Anything, "app-1").Return(application, nil)
	p.Positions.On("GetByID", mock.Anything, "pos-1").
		Return(&models.JobPosition{ID: "pos-1", Title: "Backend Engineer"}, nil)
	p.Stages.On("GetByID", mock.Anything, stage.ID).Return(stage, nil)

	result, err := svc.EvaluateApplication(context.Background(), "app-1")
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.Equal(t, models.ApplicationStatusScreening, application.Status)
	p.Applications.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestScreeningService_EvaluateApplication_RejectedApplicationIsFinal(t *testing.T) {
	svc, p, eb := newScreeningService(t)

	stage := screeningStage(t, salaryRejectDocument())

	application := &models.Application{
		ID:         "app-1",
		PositionID: "pos-1",
		StageID:    stage.ID,
		Status:     models.ApplicationStatusRejected,
		Answers:    map[string]any{"expected_salary": float64(90000)},
	}

	p.Applications.On("GetByID", mock.Anything, "app-1").Return(application, nil)
	p.Positions.On("GetByID", mock.Anything, "pos-1").
		Return(&models.JobPosition{ID: "pos-1", Title: "Backend Engineer"}, nil)
	p.Stages.On("GetByID", mock.Anything, stage.ID).Return(stage, nil)
	eb.On("Publish", mock.Anything, "app-1", mock.Anything).Return(nil)

	_, err := svc.EvaluateApplication(context.Background(), "app-1")
	require.ErrorIs(t, err, models.ErrApplicationFinalized)
	p.Applications.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestScreeningService_EvaluateAnswers_Preview(t *testing.T) {
	svc, _, _ := newScreeningService(t)

	result, err := svc.EvaluateAnswers(context.Background(), salaryRejectDocument(),
		map[string]any{"expected_salary": float64(70000)},
		map[string]any{}, nil)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.False(t, result.ShouldAutoReject)
}
