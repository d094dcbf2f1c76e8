package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/models"
)

const modelColumns = `id, name, version, model_type, path, metrics, hyperparameters,
	       trained_at, active, created_at, updated_at`

func scanModel(row pgx.Row) (*models.Model, error) {
	model := &models.Model{}
	err := row.Scan(
		&model.ID, &model.Name, &model.Version, &model.ModelType, &model.Path,
		&model.Metrics, &model.Hyperparameters, &model.TrainedAt, &model.Active,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model registry repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Create inserts a new model registry row
func (m *PostgresModelRepository) Create(ctx context.Context, model *models.Model) error {
	query := `
		INSERT INTO model_registry (id, name, version, model_type, path, metrics, hyperparameters, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := m.db.GetPool().Exec(ctx, query,
		model.ID, model.Name, model.Version, model.ModelType, model.Path,
		model.Metrics, model.Hyperparameters, model.TrainedAt, model.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create model record: %w", err)
	}

	return nil
}

// GetByID retrieves a model record by ID
func (m *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM model_registry WHERE id = $1`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model record: %w", err)
	}

	return model, nil
}

// GetLatest retrieves the most recently trained version of a model
func (m *PostgresModelRepository) GetLatest(ctx context.Context, name string) (*models.Model, error) {
	query := `SELECT ` + modelColumns + `
		FROM model_registry
		WHERE name = $1
		ORDER BY trained_at DESC
		LIMIT 1`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest model record: %w", err)
	}

	return model, nil
}

// GetActive retrieves the active version of a model. At most one version
// per name is active; SetActive maintains that invariant.
func (m *PostgresModelRepository) GetActive(ctx context.Context, name string) (*models.Model, error) {
	query := `SELECT ` + modelColumns + `
		FROM model_registry
		WHERE name = $1 AND active
		LIMIT 1`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active model record: %w", err)
	}

	return model, nil
}

// ListByName retrieves all versions of a model, newest first
func (m *PostgresModelRepository) ListByName(ctx context.Context, name string) ([]*models.Model, error) {
	query := `SELECT ` + modelColumns + `
		FROM model_registry
		WHERE name = $1
		ORDER BY trained_at DESC`

	rows, err := m.db.GetPool().Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query model records: %w", err)
	}
	defer rows.Close()

	var records []*models.Model
	for rows.Next() {
		model, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model record: %w", err)
		}
		records = append(records, model)
	}

	return records, rows.Err()
}

// SetActive activates a model version and deactivates every other version
// of the same name, in one transaction.
func (m *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	model, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return m.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE model_registry SET active = false, updated_at = NOW() WHERE name = $1 AND id != $2 AND active`,
			model.Name, id)
		if err != nil {
			return fmt.Errorf("failed to deactivate other versions: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE model_registry SET active = true, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}

		return nil
	})
}
