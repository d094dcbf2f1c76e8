package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/bidsight/internal/models"
)

// BidRepository defines the interface for bid data access
type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	ListDecided(ctx context.Context) ([]*models.Bid, error)
	ListOpen(ctx context.Context) ([]*models.Bid, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Bid, error)
	CustomerStats(ctx context.Context, customerID uuid.UUID) (models.BidStats, error)
	UpdatePrediction(ctx context.Context, id uuid.UUID, winProbability, riskScore float64, recommendations []string, mlFeatures json.RawMessage) error
	Overview(ctx context.Context) (*models.DashboardOverview, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountByPriority(ctx context.Context) (map[string]int, error)
	TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error)
	UpcomingDeadlines(ctx context.Context, until time.Time, limit int) ([]models.UpcomingDeadline, error)
}

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	UpdateRelationshipScore(ctx context.Context, id uuid.UUID, score int) error
}

// ModelRepository defines the interface for model registry data access
type ModelRepository interface {
	Create(ctx context.Context, model *models.Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error)
	GetLatest(ctx context.Context, name string) (*models.Model, error)
	GetActive(ctx context.Context, name string) (*models.Model, error)
	ListByName(ctx context.Context, name string) ([]*models.Model, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}
