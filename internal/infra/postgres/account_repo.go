package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/platform/rawdata"
)

// AccountRepository reads owner accounts
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// ListByOwner returns the owner's accounts as raw rows, oldest first
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerKey string) ([]rawdata.RawAccount, error) {
	query := `
		SELECT id::text, account_name, account_type, balance
		FROM accounts
		WHERE user_name = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]rawdata.RawAccount, 0)
	for rows.Next() {
		var (
			a       rawdata.RawAccount
			balance decimal.NullDecimal
		)
		if err := rows.Scan(&a.ID, &a.AccountName, &a.AccountType, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if balance.Valid {
			a.Balance = &balance.Decimal
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
