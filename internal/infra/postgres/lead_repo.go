package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/finsight/internal/platform/lead"
)

// LeadRepository stores marketing leads
type LeadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository creates a new PostgreSQL lead repository
func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// Create inserts a lead
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, company, message, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		l.ID,
		l.Name,
		l.Email,
		l.Company,
		l.Message,
		l.Source,
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}
