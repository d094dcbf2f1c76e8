package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/models"
)

// bidColumns is the full column list scanned by scanBid. Order matters.
const bidColumns = `id, code, title, description, status, priority, complexity, business_unit,
	       bid_level, region, country, bid_value, estimated_cost, profit_margin, currency,
	       customer_id, due_date, submission_date, decision_date, is_urgent, complexity_score,
	       team_member_count, review_cycle, requirements, win_probability, risk_score,
	       recommendations, ml_features, created_at, updated_at, closed_at`

func scanBid(row pgx.Row) (*models.Bid, error) {
	bid := &models.Bid{}
	err := row.Scan(
		&bid.ID, &bid.Code, &bid.Title, &bid.Description, &bid.Status, &bid.Priority,
		&bid.Complexity, &bid.BusinessUnit, &bid.BidLevel, &bid.Region, &bid.Country,
		&bid.BidValue, &bid.EstimatedCost, &bid.ProfitMargin, &bid.Currency,
		&bid.CustomerID, &bid.DueDate, &bid.SubmissionDate, &bid.DecisionDate,
		&bid.IsUrgent, &bid.ComplexityScore, &bid.TeamMemberCount, &bid.ReviewCycle,
		&bid.Requirements, &bid.WinProbability, &bid.RiskScore, &bid.Recommendations,
		&bid.MLFeatures, &bid.CreatedAt, &bid.UpdatedAt, &bid.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return bid, nil
}

func scanBids(rows pgx.Rows) ([]*models.Bid, error) {
	defer rows.Close()

	var bids []*models.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, bid)
	}

	return bids, rows.Err()
}

// PostgresBidRepository implements BidRepository for PostgreSQL
type PostgresBidRepository struct {
	db *database.DB
}

// NewPostgresBidRepository creates a new bid repository
func NewPostgresBidRepository(db *database.DB) BidRepository {
	return &PostgresBidRepository{db: db}
}

// Create inserts a new bid
func (b *PostgresBidRepository) Create(ctx context.Context, bid *models.Bid) error {
	query := `
		INSERT INTO bids (id, code, title, description, status, priority, complexity, business_unit,
		                  bid_level, region, country, bid_value, estimated_cost, profit_margin, currency,
		                  customer_id, due_date, submission_date, decision_date, is_urgent, complexity_score,
		                  team_member_count, review_cycle, requirements, win_probability, risk_score,
		                  recommendations, ml_features, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		        $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)
	`

	_, err := b.db.GetPool().Exec(ctx, query,
		bid.ID, bid.Code, bid.Title, bid.Description, bid.Status, bid.Priority, bid.Complexity,
		bid.BusinessUnit, bid.BidLevel, bid.Region, bid.Country, bid.BidValue, bid.EstimatedCost,
		bid.ProfitMargin, bid.Currency, bid.CustomerID, bid.DueDate, bid.SubmissionDate,
		bid.DecisionDate, bid.IsUrgent, bid.ComplexityScore, bid.TeamMemberCount, bid.ReviewCycle,
		bid.Requirements, bid.WinProbability, bid.RiskScore, bid.Recommendations, bid.MLFeatures,
		bid.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}

	return nil
}

// GetByID retrieves a bid by ID
func (b *PostgresBidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1`

	bid, err := scanBid(b.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}

	return bid, nil
}

// ListDecided retrieves all bids with a terminal review outcome, the rows
// model training is built from. Ordered by creation time so training set
// assembly is deterministic.
func (b *PostgresBidRepository) ListDecided(ctx context.Context) ([]*models.Bid, error) {
	query := `SELECT ` + bidColumns + `
		FROM bids
		WHERE status IN ('won', 'lost', 'approved', 'rejected')
		ORDER BY created_at ASC`

	rows, err := b.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query decided bids: %w", err)
	}

	return scanBids(rows)
}

// ListOpen retrieves all bids still in play, the rows the background
// prediction refresh walks.
func (b *PostgresBidRepository) ListOpen(ctx context.Context) ([]*models.Bid, error) {
	query := `SELECT ` + bidColumns + `
		FROM bids
		WHERE status NOT IN ('won', 'lost', 'cancelled')
		ORDER BY due_date ASC`

	rows, err := b.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open bids: %w", err)
	}

	return scanBids(rows)
}

// ListByCustomer retrieves all bids submitted to a specific customer
func (b *PostgresBidRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Bid, error) {
	query := `SELECT ` + bidColumns + `
		FROM bids
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	rows, err := b.db.GetPool().Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids by customer: %w", err)
	}

	return scanBids(rows)
}

// CustomerStats aggregates a customer's bid history in SQL. Customers with
// no bids get zero counts, which BidStats maps to the neutral win rate.
func (b *PostgresBidRepository) CustomerStats(ctx context.Context, customerID uuid.UUID) (models.BidStats, error) {
	query := `
		SELECT COUNT(*) AS total_bids,
		       COUNT(*) FILTER (WHERE status IN ('won', 'approved')) AS won_bids,
		       COALESCE(AVG(bid_value), 0) AS avg_bid_value
		FROM bids
		WHERE customer_id = $1
	`

	var stats models.BidStats
	err := b.db.GetPool().QueryRow(ctx, query, customerID).Scan(
		&stats.TotalBids, &stats.WonBids, &stats.AvgBidValue,
	)
	if err != nil {
		return models.BidStats{}, fmt.Errorf("failed to aggregate customer stats: %w", err)
	}

	return stats, nil
}

// UpdatePrediction stores a scoring result on the bid. Probabilities are
// expected as 0-100 percentages, matching how the bid record presents them.
func (b *PostgresBidRepository) UpdatePrediction(ctx context.Context, id uuid.UUID, winProbability, riskScore float64, recommendations []string, mlFeatures json.RawMessage) error {
	query := `
		UPDATE bids SET
			win_probability = $2, risk_score = $3, recommendations = $4,
			ml_features = $5, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := b.db.GetPool().Exec(ctx, query, id, winProbability, riskScore, recommendations, mlFeatures)
	if err != nil {
		return fmt.Errorf("failed to update bid prediction: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Overview computes the headline dashboard numbers in one pass
func (b *PostgresBidRepository) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	query := `
		SELECT COUNT(*) AS total_bids,
		       COUNT(*) FILTER (WHERE status NOT IN ('won', 'lost', 'cancelled')) AS active_bids,
		       COUNT(*) FILTER (WHERE is_urgent AND status NOT IN ('won', 'lost', 'cancelled')) AS urgent_bids,
		       COUNT(*) FILTER (WHERE due_date < NOW() AND status NOT IN ('won', 'lost', 'cancelled')) AS overdue_bids,
		       COALESCE(SUM(bid_value), 0) AS total_value,
		       COALESCE(AVG(win_probability), 0) AS avg_win_probability
		FROM bids
	`

	overview := &models.DashboardOverview{}
	err := b.db.GetPool().QueryRow(ctx, query).Scan(
		&overview.TotalBids, &overview.ActiveBids, &overview.UrgentBids,
		&overview.OverdueBids, &overview.TotalValue, &overview.AvgWinProbability,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute bid overview: %w", err)
	}

	return overview, nil
}

// CountByStatus returns the bid count per status
func (b *PostgresBidRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return b.countBy(ctx, "status")
}

// CountByPriority returns the bid count per priority
func (b *PostgresBidRepository) CountByPriority(ctx context.Context) (map[string]int, error) {
	return b.countBy(ctx, "priority")
}

func (b *PostgresBidRepository) countBy(ctx context.Context, column string) (map[string]int, error) {
	// column is one of two fixed identifiers, never user input
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM bids GROUP BY %s`, column, column)

	rows, err := b.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count bids by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan bid count: %w", err)
		}
		counts[key] = count
	}

	return counts, rows.Err()
}

// TopCustomers ranks customers by the total value of their bids
func (b *PostgresBidRepository) TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	query := `
		SELECT c.name, COALESCE(SUM(b.bid_value), 0) AS total_value, COUNT(b.id) AS bid_count
		FROM customers c
		JOIN bids b ON b.customer_id = c.id
		GROUP BY c.id, c.name
		ORDER BY total_value DESC
		LIMIT $1
	`

	rows, err := b.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	var customers []models.TopCustomer
	for rows.Next() {
		var tc models.TopCustomer
		if err := rows.Scan(&tc.Name, &tc.TotalValue, &tc.BidCount); err != nil {
			return nil, fmt.Errorf("failed to scan top customer: %w", err)
		}
		customers = append(customers, tc)
	}

	return customers, rows.Err()
}

// UpcomingDeadlines lists open bids due between now and the given cutoff
func (b *PostgresBidRepository) UpcomingDeadlines(ctx context.Context, until time.Time, limit int) ([]models.UpcomingDeadline, error) {
	query := `
		SELECT code, title, due_date, priority
		FROM bids
		WHERE status NOT IN ('won', 'lost', 'cancelled')
		  AND due_date >= NOW() AND due_date <= $1
		ORDER BY due_date ASC
		LIMIT $2
	`

	rows, err := b.db.GetPool().Query(ctx, query, until, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming deadlines: %w", err)
	}
	defer rows.Close()

	var deadlines []models.UpcomingDeadline
	for rows.Next() {
		var d models.UpcomingDeadline
		if err := rows.Scan(&d.Code, &d.Title, &d.DueDate, &d.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan upcoming deadline: %w", err)
		}
		deadlines = append(deadlines, d)
	}

	return deadlines, rows.Err()
}
