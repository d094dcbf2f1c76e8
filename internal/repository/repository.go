package repository

import (
	"fmt"

	"github.com/yourusername/bidsight/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Bid      BidRepository
	Customer CustomerRepository
	Model    ModelRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Bid:      NewPostgresBidRepository(db),
		Customer: NewPostgresCustomerRepository(db),
		Model:    NewPostgresModelRepository(db),
	}, nil
}
