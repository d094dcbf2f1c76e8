package database

import (
	"context"
	"fmt"

	"github.com/yourusername/bidsight/internal/config"
)

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// schemaStatements is executed in order by InitSchema. Every statement is
// idempotent so startup can run it unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		customer_type TEXT NOT NULL DEFAULT 'corporate',
		industry TEXT NOT NULL DEFAULT '',
		annual_revenue NUMERIC(18,2) NOT NULL DEFAULT 0,
		relationship_score INTEGER NOT NULL DEFAULT 50,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS bids (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		code TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		priority TEXT NOT NULL DEFAULT 'medium',
		complexity TEXT NOT NULL DEFAULT 'moderate',
		business_unit TEXT NOT NULL DEFAULT 'JIS',
		bid_level TEXT NOT NULL DEFAULT 'C',
		region TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		bid_value NUMERIC(18,2) NOT NULL DEFAULT 0,
		estimated_cost NUMERIC(18,2) NOT NULL DEFAULT 0,
		profit_margin DOUBLE PRECISION,
		currency TEXT NOT NULL DEFAULT 'USD',
		customer_id UUID NOT NULL REFERENCES customers(id),
		due_date TIMESTAMPTZ NOT NULL,
		submission_date TIMESTAMPTZ,
		decision_date TIMESTAMPTZ,
		is_urgent BOOLEAN NOT NULL DEFAULT FALSE,
		complexity_score DOUBLE PRECISION,
		team_member_count INTEGER NOT NULL DEFAULT 0,
		review_cycle INTEGER NOT NULL DEFAULT 1,
		requirements JSONB NOT NULL DEFAULT '[]',
		win_probability DOUBLE PRECISION,
		risk_score DOUBLE PRECISION,
		recommendations JSONB NOT NULL DEFAULT '[]',
		ml_features JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		closed_at TIMESTAMPTZ
	)`,

	`CREATE INDEX IF NOT EXISTS idx_bids_status ON bids (status)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_customer_id ON bids (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_due_date ON bids (due_date)`,

	`CREATE TABLE IF NOT EXISTS model_registry (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		model_type TEXT NOT NULL,
		path TEXT NOT NULL,
		metrics JSONB,
		hyperparameters JSONB,
		trained_at TIMESTAMPTZ NOT NULL,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (name, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_model_registry_name_active ON model_registry (name) WHERE active`,
}

// InitSchema creates the tables and indexes if they do not already exist
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
