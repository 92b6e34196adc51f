package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finsight/internal/platform/rawdata"
)

// TransactionRepository reads owner transactions
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// ListByOwner returns the owner's transactions newest first. Rows whose
// category or account foreign key resolves to one of the owner's own rows come
// back linked; legacy rows with only inline text columns come back flat, as do
// rows whose keys point at another owner's category or account.
func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerKey string) ([]rawdata.RawTransaction, error) {
	query := `
		SELECT
			t.id::text, t.account_ref, t.account_name, t.category, t.description,
			t.amount, t.type, t.transaction_date,
			c.id::text, c.name,
			a.id::text, a.account_name
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id AND c.user_name = t.user_name
		LEFT JOIN accounts a ON a.id = t.account_id AND a.user_name = t.user_name
		WHERE t.user_name = $1
		ORDER BY t.transaction_date DESC, t.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]rawdata.RawTransaction, 0)
	for rows.Next() {
		var (
			id, accountRef, accountName, category, description string
			kind, date                                         string
			amount                                             decimal.NullDecimal
			categoryID, categoryName                           *string
			accountID, linkedAccountName                       *string
		)
		err := rows.Scan(
			&id, &accountRef, &accountName, &category, &description,
			&amount, &kind, &date,
			&categoryID, &categoryName,
			&accountID, &linkedAccountName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		var amt *decimal.Decimal
		if amount.Valid {
			amt = &amount.Decimal
		}

		if categoryID == nil && accountID == nil {
			txns = append(txns, rawdata.FlatRawTransaction{
				ID:              id,
				AccountRef:      accountRef,
				Description:     description,
				Amount:          amt,
				Type:            kind,
				TransactionDate: date,
				Category:        category,
				AccountName:     accountName,
			})
			continue
		}

		linked := rawdata.LinkedRawTransaction{
			ID:                id,
			AccountRef:        accountRef,
			Description:       description,
			Amount:            amt,
			Type:              kind,
			TransactionDate:   date,
			InlineCategory:    category,
			InlineAccountName: accountName,
		}
		if categoryID != nil {
			linked.Category = &rawdata.CategoryRef{ID: *categoryID, Name: deref(categoryName)}
		}
		if accountID != nil {
			linked.Account = &rawdata.AccountRef{ID: *accountID, AccountName: deref(linkedAccountName)}
		}
		txns = append(txns, linked)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
