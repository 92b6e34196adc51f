package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/finsight/internal/platform/finance"
)

// InvestmentRepository reads owner holdings
type InvestmentRepository struct {
	pool *pgxpool.Pool
}

// NewInvestmentRepository creates a new PostgreSQL investment repository
func NewInvestmentRepository(pool *pgxpool.Pool) *InvestmentRepository {
	return &InvestmentRepository{pool: pool}
}

// ListByOwner returns the owner's holdings, largest position first
func (r *InvestmentRepository) ListByOwner(ctx context.Context, ownerKey string) ([]finance.Investment, error) {
	query := `
		SELECT id::text, symbol, name, shares, current_price, total_value,
		       day_change, day_change_percent, sector, rating, user_name
		FROM investments
		WHERE user_name = $1
		ORDER BY total_value DESC, symbol ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	investments := make([]finance.Investment, 0)
	for rows.Next() {
		var inv finance.Investment
		err := rows.Scan(
			&inv.ID,
			&inv.Symbol,
			&inv.Name,
			&inv.Shares,
			&inv.CurrentPrice,
			&inv.TotalValue,
			&inv.DayChange,
			&inv.DayChangePercent,
			&inv.Sector,
			&inv.Rating,
			&inv.OwnerKey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}

	return investments, nil
}
