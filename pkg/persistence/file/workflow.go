package file

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

const (
	kindWorkflows = "workflows"
	kindStages    = "stages"
)

// WorkflowRepository stores workflows as JSON files.
type WorkflowRepository struct {
	store *store
}

func (r *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	workflows := make([]*models.Workflow, 0)

	err := r.store.list(kindWorkflows, func(data []byte) error {
		workflow := &models.Workflow{}
		if err := json.Unmarshal(data, workflow); err != nil {
			return err
		}

		workflows = append(workflows, workflow)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.Before(workflows[j].CreatedAt)
	})

	return workflows, nil
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow := &models.Workflow{}

	found, err := r.store.read(kindWorkflows, id, workflow)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, persistence.ErrWorkflowNotFound
	}

	return workflow, nil
}

func (r *WorkflowRepository) GetDefault(ctx context.Context, companyID string, workflowType models.WorkflowType) (*models.Workflow, error) {
	workflows, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, workflow := range workflows {
		if workflow.CompanyID == companyID && workflow.Type == workflowType && workflow.IsDefault {
			return workflow, nil
		}
	}

	return nil, persistence.ErrWorkflowNotFound
}

func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	return r.store.write(kindWorkflows, workflow.ID, workflow)
}

func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	found, err := r.store.remove(kindWorkflows, id)
	if err != nil {
		return err
	}

	if !found {
		return persistence.ErrWorkflowNotFound
	}

	return nil
}

// StageRepository stores workflow stages as JSON files.
type StageRepository struct {
	store *store
}

func (r *StageRepository) GetByID(ctx context.Context, id string) (*models.WorkflowStage, error) {
	stage := &models.WorkflowStage{}

	found, err := r.store.read(kindStages, id, stage)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, persistence.ErrStageNotFound
	}

	return stage, nil
}

func (r *StageRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowStage, error) {
	stages := make([]*models.WorkflowStage, 0)

	err := r.store.list(kindStages, func(data []byte) error {
		stage := &models.WorkflowStage{}
		if err := json.Unmarshal(data, stage); err != nil {
			return err
		}

		if stage.WorkflowID == workflowID {
			stages = append(stages, stage)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(stages, func(i, j int) bool {
		return stages[i].Order < stages[j].Order
	})

	return stages, nil
}

func (r *StageRepository) Save(ctx context.Context, stage *models.WorkflowStage) error {
	return r.store.write(kindStages, stage.ID, stage)
}

func (r *StageRepository) Delete(ctx context.Context, id string) error {
	found, err := r.store.remove(kindStages, id)
	if err != nil {
		return err
	}

	if !found {
		return persistence.ErrStageNotFound
	}

	return nil
}
