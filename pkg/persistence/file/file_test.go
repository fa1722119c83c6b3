package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

func newTestPersistence(t *testing.T) *Persistence {
	t.Helper()

	return NewPersistence(t.TempDir())
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	workflow, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID: "company-1",
		Type:      "candidate_application",
		Name:      "Hiring pipeline",
	})
	require.NoError(t, err)

	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))

	loaded, err := p.WorkflowRepository().GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.ID, loaded.ID)
	assert.Equal(t, workflow.Name, loaded.Name)
	assert.Equal(t, models.WorkflowStatusDraft, loaded.Status)
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	p := newTestPersistence(t)

	_, err := p.WorkflowRepository().GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_GetDefault(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	first, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID: "company-1", Type: "candidate_application", Name: "Pipeline A",
	})
	require.NoError(t, err)
	require.NoError(t, first.Activate())
	require.NoError(t, first.SetAsDefault())
	require.NoError(t, p.WorkflowRepository().Save(ctx, first))

	second, err := models.NewWorkflow(models.WorkflowParams{
		CompanyID: "company-1", Type: "candidate_application", Name: "Pipeline B",
	})
	require.NoError(t, err)
	require.NoError(t, p.WorkflowRepository().Save(ctx, second))

	found, err := p.WorkflowRepository().GetDefault(ctx, "company-1", models.WorkflowTypeCandidateApplication)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = p.WorkflowRepository().GetDefault(ctx, "company-2", models.WorkflowTypeCandidateApplication)
	require.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
}

func TestStageRepository_ListByWorkflowOrdered(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	for _, order := range []int{2, 0, 1} {
		stage, err := models.NewWorkflowStage(models.WorkflowStageParams{
			WorkflowID: "wf-1",
			Name:       "Stage",
			StageType:  "progress",
			Order:      order,
		})
		require.NoError(t, err)
		require.NoError(t, p.StageRepository().Save(ctx, stage))
	}

	other, err := models.NewWorkflowStage(models.WorkflowStageParams{
		WorkflowID: "wf-2", Name: "Other", StageType: "initial",
	})
	require.NoError(t, err)
	require.NoError(t, p.StageRepository().Save(ctx, other))

	stages, err := p.StageRepository().ListByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, stages, 3)

	for i, stage := range stages {
		assert.Equal(t, i, stage.Order)
	}
}

func TestValidationRuleRepository_ListByStage(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()
	repo := p.ValidationRuleRepository()

	var ruleIDs []string

	for i := range 3 {
		rule, err := models.NewValidationRule(models.ValidationRuleParams{
			FieldID:  "field-1",
			StageID:  "stage-1",
			RuleType: "comparison",
			Operator: "gt",
			Severity: "error",
		})
		require.NoError(t, err)

		// spread creation times so the order assertion is meaningful
		rule.CreatedAt = time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC)

		if i == 2 {
			rule.Deactivate()
		}

		require.NoError(t, repo.Save(ctx, rule))
		ruleIDs = append(ruleIDs, rule.ID)
	}

	all, err := repo.ListByStage(ctx, "stage-1", false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	for i, rule := range all {
		assert.Equal(t, ruleIDs[i], rule.ID)
	}

	active, err := repo.ListByStage(ctx, "stage-1", true)
	require.NoError(t, err)
	require.Len(t, active, 2)

	none, err := repo.ListByStage(ctx, "stage-other", false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestValidationRuleRepository_DeleteByStageCascade(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()
	repo := p.ValidationRuleRepository()

	rule, err := models.NewValidationRule(models.ValidationRuleParams{
		FieldID:  "field-1",
		StageID:  "stage-1",
		RuleType: "comparison",
		Operator: "gt",
		Severity: "error",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rule))

	require.NoError(t, repo.DeleteByStage(ctx, "stage-1"))

	_, err = repo.GetByID(ctx, rule.ID)
	require.ErrorIs(t, err, persistence.ErrRuleNotFound)

	// cascade is idempotent
	require.NoError(t, repo.DeleteByStage(ctx, "stage-1"))
}

func TestApplicationRepository_RoundTrip(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	app := &models.Application{
		ID:         "app-1",
		PositionID: "pos-1",
		Status:     models.ApplicationStatusScreening,
		Answers:    map[string]any{"expected_salary": float64(90000)},
	}
	require.NoError(t, p.ApplicationRepository().Save(ctx, app))

	loaded, err := p.ApplicationRepository().GetByID(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusScreening, loaded.Status)
	assert.Equal(t, float64(90000), loaded.Answers["expected_salary"])

	_, err = p.ApplicationRepository().GetByID(ctx, "missing")
	require.ErrorIs(t, err, persistence.ErrApplicationNotFound)
}

func TestApplicationRepository_CountInFlight(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	save := func(id, stageID string, status models.ApplicationStatus) {
		t.Helper()
		require.NoError(t, p.ApplicationRepository().Save(ctx, &models.Application{
			ID:         id,
			PositionID: "pos-1",
			StageID:    stageID,
			Status:     status,
		}))
	}

	save("app-1", "stage-1", models.ApplicationStatusScreening)
	save("app-2", "stage-1", models.ApplicationStatusRejected)
	save("app-3", "stage-2", models.ApplicationStatusApplied)
	save("app-4", "stage-3", models.ApplicationStatusApplied)

	count, err := p.ApplicationRepository().CountInFlight(ctx, []string{"stage-1", "stage-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = p.ApplicationRepository().CountInFlight(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHealthCheck(t *testing.T) {
	p := newTestPersistence(t)
	require.NoError(t, p.HealthCheck(context.Background()))

	missing := NewPersistence("/definitely/not/here")
	require.Error(t, missing.HealthCheck(context.Background()))
}
