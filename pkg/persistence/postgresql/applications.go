package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/hireground/talentgate/pkg/models"
	"github.com/hireground/talentgate/pkg/persistence"
)

// ApplicationRepository handles application database operations.
type ApplicationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *sql.DB, logger *slog.Logger) *ApplicationRepository {
	return &ApplicationRepository{db: db, logger: logger}
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := `
		SELECT id, candidate_id, position_id, stage_id, status, answers, note, created_at, updated_at
		FROM applications
		WHERE id = $1
	`

	var (
		application models.Application
		answersJSON []byte
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&application.ID,
		&application.CandidateID,
		&application.PositionID,
		&application.StageID,
		&application.Status,
		&answersJSON,
		&application.Note,
		&application.CreatedAt,
		&application.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrApplicationNotFound
		}

		return nil, fmt.Errorf("failed to scan application: %w", err)
	}

	if answersJSON != nil {
		if err := json.Unmarshal(answersJSON, &application.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
	}

	return &application, nil
}

// Save upserts an application.
func (r *ApplicationRepository) Save(ctx context.Context, application *models.Application) error {
	answersJSON, err := json.Marshal(application.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO applications (id, candidate_id, position_id, stage_id, status, answers, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			candidate_id = EXCLUDED.candidate_id,
			position_id = EXCLUDED.position_id,
			stage_id = EXCLUDED.stage_id,
			status = EXCLUDED.status,
			answers = EXCLUDED.answers,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		application.ID,
		application.CandidateID,
		application.PositionID,
		application.StageID,
		application.Status,
		answersJSON,
		application.Note,
		application.CreatedAt,
		application.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}

	return nil
}

// CountInFlight counts non-terminal applications in any of the given
// stages.
func (r *ApplicationRepository) CountInFlight(ctx context.Context, stageIDs []string) (int, error) {
	if len(stageIDs) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM applications
		WHERE stage_id = ANY($1) AND status NOT IN ($2, $3)
	`

	var count int

	err := r.db.QueryRowContext(ctx, query,
		pq.Array(stageIDs),
		models.ApplicationStatusRejected,
		models.ApplicationStatusHired,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}

	return count, nil
}

// JobPositionRepository handles job position database operations.
type JobPositionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewJobPositionRepository creates a new job position repository.
func NewJobPositionRepository(db *sql.DB, logger *slog.Logger) *JobPositionRepository {
	return &JobPositionRepository{db: db, logger: logger}
}

func (r *JobPositionRepository) GetByID(ctx context.Context, id string) (*models.JobPosition, error) {
	query := `
		SELECT id, company_id, title, data, questions, created_at, updated_at
		FROM job_positions
		WHERE id = $1
	`

	var (
		position      models.JobPosition
		dataJSON      []byte
		questionsJSON []byte
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&position.ID,
		&position.CompanyID,
		&position.Title,
		&dataJSON,
		&questionsJSON,
		&position.CreatedAt,
		&position.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrPositionNotFound
		}

		return nil, fmt.Errorf("failed to scan job position: %w", err)
	}

	if dataJSON != nil {
		if err := json.Unmarshal(dataJSON, &position.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal position data: %w", err)
		}
	}

	if questionsJSON != nil {
		if err := json.Unmarshal(questionsJSON, &position.Questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
		}
	}

	return &position, nil
}

// Save upserts a job position.
func (r *JobPositionRepository) Save(ctx context.Context, position *models.JobPosition) error {
	dataJSON, err := json.Marshal(position.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal position data: %w", err)
	}

	questionsJSON, err := json.Marshal(position.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		INSERT INTO job_positions (id, company_id, title, data, questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			company_id = EXCLUDED.company_id,
			title = EXCLUDED.title,
			data = EXCLUDED.data,
			questions = EXCLUDED.questions,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		position.ID,
		position.CompanyID,
		position.Title,
		dataJSON,
		questionsJSON,
		position.CreatedAt,
		position.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save job position: %w", err)
	}

	return nil
}
