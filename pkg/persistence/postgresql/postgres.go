// Package postgresql provides PostgreSQL persistence for workflows,
// stages, validation rules and screening records.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hireground/talentgate/pkg/persistence"
	"github.com/hireground/talentgate/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db              *sql.DB
	logger          *slog.Logger
	workflowRepo    *WorkflowRepository
	stageRepo       *StageRepository
	ruleRepo        *ValidationRuleRepository
	applicationRepo *ApplicationRepository
	positionRepo    *JobPositionRepository
	fieldRepo       *CustomFieldRepository
}

// NewPersistence connects, runs migrations and builds the repositories.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	postgres := &Persistence{
		db:              database,
		logger:          logger,
		workflowRepo:    NewWorkflowRepository(database, logger),
		stageRepo:       NewStageRepository(database, logger),
		ruleRepo:        NewValidationRuleRepository(database, logger),
		applicationRepo: NewApplicationRepository(database, logger),
		positionRepo:    NewJobPositionRepository(database, logger),
		fieldRepo:       NewCustomFieldRepository(database, logger),
	}

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

// Close closes the database connection.
func (p *Persistence) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

func (p *Persistence) StageRepository() persistence.StageRepository {
	return p.stageRepo
}

func (p *Persistence) ValidationRuleRepository() persistence.ValidationRuleRepository {
	return p.ruleRepo
}

func (p *Persistence) ApplicationRepository() persistence.ApplicationRepository {
	return p.applicationRepo
}

func (p *Persistence) JobPositionRepository() persistence.JobPositionRepository {
	return p.positionRepo
}

func (p *Persistence) CustomFieldRepository() persistence.CustomFieldRepository {
	return p.fieldRepo
}
