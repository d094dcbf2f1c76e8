package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/models"
)

// PostgresCustomerRepository implements CustomerRepository for PostgreSQL
type PostgresCustomerRepository struct {
	db *database.DB
}

// NewPostgresCustomerRepository creates a new customer repository
func NewPostgresCustomerRepository(db *database.DB) CustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

// Create inserts a new customer
func (c *PostgresCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, code, customer_type, industry, annual_revenue,
		                       relationship_score, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := c.db.GetPool().Exec(ctx, query,
		customer.ID, customer.Name, customer.Code, customer.CustomerType, customer.Industry,
		customer.AnnualRevenue, customer.RelationshipScore, customer.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID
func (c *PostgresCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `
		SELECT id, name, code, customer_type, industry, annual_revenue,
		       relationship_score, is_active, created_at, updated_at
		FROM customers WHERE id = $1
	`

	customer := &models.Customer{}
	err := c.db.GetPool().QueryRow(ctx, query, id).Scan(
		&customer.ID, &customer.Name, &customer.Code, &customer.CustomerType, &customer.Industry,
		&customer.AnnualRevenue, &customer.RelationshipScore, &customer.IsActive,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// List retrieves all customers ordered by name
func (c *PostgresCustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	query := `
		SELECT id, name, code, customer_type, industry, annual_revenue,
		       relationship_score, is_active, created_at, updated_at
		FROM customers
		ORDER BY name ASC
	`

	rows, err := c.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(
			&customer.ID, &customer.Name, &customer.Code, &customer.CustomerType, &customer.Industry,
			&customer.AnnualRevenue, &customer.RelationshipScore, &customer.IsActive,
			&customer.CreatedAt, &customer.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

// UpdateRelationshipScore sets a customer's relationship score
func (c *PostgresCustomerRepository) UpdateRelationshipScore(ctx context.Context, id uuid.UUID, score int) error {
	query := `UPDATE customers SET relationship_score = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := c.db.GetPool().Exec(ctx, query, id, score)
	if err != nil {
		return fmt.Errorf("failed to update relationship score: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
