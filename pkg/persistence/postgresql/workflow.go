package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , company_id
  , type
  , display_mode
  , phase_id
  , name
  , description
  , status
  , is_default
  , created_at
  , updated_at
`

// GetAll returns all workflows ordered by creation time.
func (r *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	return workflow, nil
}

func (r *WorkflowRepository) GetDefault(ctx context.Context, companyID string, workflowType models.WorkflowType) (*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE company_id = $1 AND type = $2 AND is_default`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, companyID, workflowType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to scan default workflow: %w", err)
	}

	return workflow, nil
}

// Save upserts a workflow.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	query := `
		INSERT INTO workflows (` + workflowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			company_id = EXCLUDED.company_id,
			type = EXCLUDED.type,
			display_mode = EXCLUDED.display_mode,
			phase_id = EXCLUDED.phase_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			is_default = EXCLUDED.is_default,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.CompanyID,
		workflow.Type,
		workflow.DisplayMode,
		workflow.PhaseID,
		workflow.Name,
		workflow.Description,
		workflow.Status,
		workflow.IsDefault,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}

	return nil
}

func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrWorkflowNotFound
	}

	return nil
}

func scanWorkflow(scanner interface {
	Scan(dest ...any) error
}) (*models.Workflow, error) {
	var workflow models.Workflow

	err := scanner.Scan(
		&workflow.ID,
		&workflow.CompanyID,
		&workflow.Type,
		&workflow.DisplayMode,
		&workflow.PhaseID,
		&workflow.Name,
		&workflow.Description,
		&workflow.Status,
		&workflow.IsDefault,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &workflow, nil
}

// StageRepository handles workflow stage database operations.
type StageRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStageRepository creates a new stage repository.
func NewStageRepository(db *sql.DB, logger *slog.Logger) *StageRepository {
	return &StageRepository{db: db, logger: logger}
}

const stageColumns = `
	id
  , workflow_id
  , name
  , description
  , stage_type
  , stage_order
  , allow_skip
  , is_active
  , default_assignee_id
  , email_template_id
  , duration_minutes
  , deadline_days
  , cost_estimate
  , next_phase_id
  , kanban_display
  , style
  , validation_rules
  , recommended_rules
  , interviews
  , created_at
  , updated_at
`

func (r *StageRepository) GetByID(ctx context.Context, id string) (*models.WorkflowStage, error) {
	query := `SELECT ` + stageColumns + ` FROM workflow_stages WHERE id = $1`

	stage, err := scanStage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrStageNotFound
		}

		return nil, fmt.Errorf("failed to scan stage: %w", err)
	}

	return stage, nil
}

// ListByWorkflow returns a workflow's stages sorted by their order
// field.
func (r *StageRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowStage, error) {
	query := `SELECT ` + stageColumns + ` FROM workflow_stages WHERE workflow_id = $1 ORDER BY stage_order`

	rows, err := r.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	stages := make([]*models.WorkflowStage, 0)

	for rows.Next() {
		stage, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}

		stages = append(stages, stage)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stages: %w", err)
	}

	return stages, nil
}

// Save upserts a stage.
func (r *StageRepository) Save(ctx context.Context, stage *models.WorkflowStage) error {
	styleJSON, err := json.Marshal(stage.Style)
	if err != nil {
		return fmt.Errorf("failed to marshal style: %w", err)
	}

	validationRulesJSON, err := json.Marshal(stage.ValidationRules)
	if err != nil {
		return fmt.Errorf("failed to marshal validation rules: %w", err)
	}

	recommendedRulesJSON, err := json.Marshal(stage.RecommendedRules)
	if err != nil {
		return fmt.Errorf("failed to marshal recommended rules: %w", err)
	}

	interviewsJSON, err := json.Marshal(stage.Interviews)
	if err != nil {
		return fmt.Errorf("failed to marshal interviews: %w", err)
	}

	query := `
		INSERT INTO workflow_stages (` + stageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			stage_type = EXCLUDED.stage_type,
			stage_order = EXCLUDED.stage_order,
			allow_skip = EXCLUDED.allow_skip,
			is_active = EXCLUDED.is_active,
			default_assignee_id = EXCLUDED.default_assignee_id,
			email_template_id = EXCLUDED.email_template_id,
			duration_minutes = EXCLUDED.duration_minutes,
			deadline_days = EXCLUDED.deadline_days,
			cost_estimate = EXCLUDED.cost_estimate,
			next_phase_id = EXCLUDED.next_phase_id,
			kanban_display = EXCLUDED.kanban_display,
			style = EXCLUDED.style,
			validation_rules = EXCLUDED.validation_rules,
			recommended_rules = EXCLUDED.recommended_rules,
			interviews = EXCLUDED.interviews,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		stage.ID,
		stage.WorkflowID,
		stage.Name,
		stage.Description,
		stage.StageType,
		stage.Order,
		stage.AllowSkip,
		stage.IsActive,
		stage.DefaultAssigneeID,
		stage.EmailTemplateID,
		stage.DurationMinutes,
		stage.DeadlineDays,
		stage.CostEstimate,
		stage.NextPhaseID,
		stage.KanbanDisplay,
		styleJSON,
		validationRulesJSON,
		recommendedRulesJSON,
		interviewsJSON,
		stage.CreatedAt,
		stage.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save stage: %w", err)
	}

	return nil
}

func (r *StageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM workflow_stages WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrStageNotFound
	}

	return nil
}

func scanStage(scanner interface {
	Scan(dest ...any) error
}) (*models.WorkflowStage, error) {
	var (
		stage                models.WorkflowStage
		styleJSON            []byte
		validationRulesJSON  []byte
		recommendedRulesJSON []byte
		interviewsJSON       []byte
	)

	err := scanner.Scan(
		&stage.ID,
		&stage.WorkflowID,
		&stage.Name,
		&stage.Description,
		&stage.StageType,
		&stage.Order,
		&stage.AllowSkip,
		&stage.IsActive,
		&stage.DefaultAssigneeID,
		&stage.EmailTemplateID,
		&stage.DurationMinutes,
		&stage.DeadlineDays,
		&stage.CostEstimate,
		&stage.NextPhaseID,
		&stage.KanbanDisplay,
		&styleJSON,
		&validationRulesJSON,
		&recommendedRulesJSON,
		&interviewsJSON,
		&stage.CreatedAt,
		&stage.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if styleJSON != nil {
		if err := json.Unmarshal(styleJSON, &stage.Style); err != nil {
			return nil, fmt.Errorf("failed to unmarshal style: %w", err)
		}
	}

	if validationRulesJSON != nil {
		if err := json.Unmarshal(validationRulesJSON, &stage.ValidationRules); err != nil {
			return nil, fmt.Errorf("failed to unmarshal validation rules: %w", err)
		}
	}

	if recommendedRulesJSON != nil {
		if err := json.Unmarshal(recommendedRulesJSON, &stage.RecommendedRules); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommended rules: %w", err)
		}
	}

	if interviewsJSON != nil {
		if err := json.Unmarshal(interviewsJSON, &stage.Interviews); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interviews: %w", err)
		}
	}

	return &stage, nil
}
