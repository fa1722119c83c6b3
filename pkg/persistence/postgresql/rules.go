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

// ValidationRuleRepository handles validation rule database operations.
type ValidationRuleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewValidationRuleRepository creates a new validation rule repository.
func NewValidationRuleRepository(db *sql.DB, logger *slog.Logger) *ValidationRuleRepository {
	return &ValidationRuleRepository{db: db, logger: logger}
}

const ruleColumns = `
	id
  , field_id
  , stage_id
  , rule_type
  , operator
  , comparison_value
  , position_field_path
  , expression
  , severity
  , message_template
  , auto_reject
  , rejection_reason
  , is_active
  , created_at
  , updated_at
`

func (r *ValidationRuleRepository) GetByID(ctx context.Context, id string) (*models.ValidationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM validation_rules WHERE id = $1`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrRuleNotFound
		}

		return nil, fmt.Errorf("failed to scan validation rule: %w", err)
	}

	return rule, nil
}

// ListByStage returns a stage's rules in evaluation order: creation
// time first, id as tiebreaker.
func (r *ValidationRuleRepository) ListByStage(ctx context.Context, stageID string, activeOnly bool) ([]*models.ValidationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM validation_rules WHERE stage_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}

	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query validation rules: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	rules := make([]*models.ValidationRule, 0)

	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan validation rule: %w", err)
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating validation rules: %w", err)
	}

	return rules, nil
}

// Save upserts a validation rule.
func (r *ValidationRuleRepository) Save(ctx context.Context, rule *models.ValidationRule) error {
	comparisonValueJSON, err := json.Marshal(rule.ComparisonValue)
	if err != nil {
		return fmt.Errorf("failed to marshal comparison value: %w", err)
	}

	expressionJSON, err := json.Marshal(rule.Expression)
	if err != nil {
		return fmt.Errorf("failed to marshal expression: %w", err)
	}

	query := `
		INSERT INTO validation_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			field_id = EXCLUDED.field_id,
			rule_type = EXCLUDED.rule_type,
			operator = EXCLUDED.operator,
			comparison_value = EXCLUDED.comparison_value,
			position_field_path = EXCLUDED.position_field_path,
			expression = EXCLUDED.expression,
			severity = EXCLUDED.severity,
			message_template = EXCLUDED.message_template,
			auto_reject = EXCLUDED.auto_reject,
			rejection_reason = EXCLUDED.rejection_reason,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID,
		rule.FieldID,
		rule.StageID,
		rule.RuleType,
		rule.Operator,
		comparisonValueJSON,
		rule.PositionFieldPath,
		expressionJSON,
		rule.Severity,
		rule.MessageTemplate,
		rule.AutoReject,
		rule.RejectionReason,
		rule.IsActive,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save validation rule: %w", err)
	}

	return nil
}

func (r *ValidationRuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM validation_rules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete validation rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrRuleNotFound
	}

	return nil
}

// DeleteByStage cascades a stage deletion to its rules. Deleting for a
// stage with no rules is not an error.
func (r *ValidationRuleRepository) DeleteByStage(ctx context.Context, stageID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM validation_rules WHERE stage_id = $1", stageID)
	if err != nil {
		return fmt.Errorf("failed to delete validation rules for stage: %w", err)
	}

	return nil
}

func scanRule(scanner interface {
	Scan(dest ...any) error
}) (*models.ValidationRule, error) {
	var (
		rule                models.ValidationRule
		comparisonValueJSON []byte
		expressionJSON      []byte
	)

	err := scanner.Scan(
		&rule.ID,
		&rule.FieldID,
		&rule.StageID,
		&rule.RuleType,
		&rule.Operator,
		&comparisonValueJSON,
		&rule.PositionFieldPath,
		&expressionJSON,
		&rule.Severity,
		&rule.MessageTemplate,
		&rule.AutoReject,
		&rule.RejectionReason,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if comparisonValueJSON != nil {
		if err := json.Unmarshal(comparisonValueJSON, &rule.ComparisonValue); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comparison value: %w", err)
		}
	}

	if expressionJSON != nil {
		if err := json.Unmarshal(expressionJSON, &rule.Expression); err != nil {
			return nil, fmt.Errorf("failed to unmarshal expression: %w", err)
		}
	}

	return &rule, nil
}

// CustomFieldRepository handles custom field database operations.
type CustomFieldRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCustomFieldRepository creates a new custom field repository.
func NewCustomFieldRepository(db *sql.DB, logger *slog.Logger) *CustomFieldRepository {
	return &CustomFieldRepository{db: db, logger: logger}
}

func (r *CustomFieldRepository) GetByID(ctx context.Context, id string) (*models.CustomField, error) {
	query := `SELECT id, name, field_type FROM custom_fields WHERE id = $1`

	var field models.CustomField

	err := r.db.QueryRowContext(ctx, query, id).Scan(&field.ID, &field.Name, &field.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrFieldNotFound
		}

		return nil, fmt.Errorf("failed to scan custom field: %w", err)
	}

	return &field, nil
}

func (r *CustomFieldRepository) Save(ctx context.Context, field *models.CustomField) error {
	query := `
		INSERT INTO custom_fields (id, name, field_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			field_type = EXCLUDED.field_type
	`

	_, err := r.db.ExecContext(ctx, query, field.ID, field.Name, field.Type)
	if err != nil {
		return fmt.Errorf("failed to save custom field: %w", err)
	}

	return nil
}
