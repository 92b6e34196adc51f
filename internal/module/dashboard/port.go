package dashboard

import (
	"context"

	"github.com/kislikjeka/finsight/internal/platform/finance"
	"github.com/kislikjeka/finsight/internal/platform/profile"
	"github.com/kislikjeka/finsight/internal/platform/rawdata"
)

// AccountRepository reads raw account rows for an owner
type AccountRepository interface {
	ListByOwner(ctx context.Context, ownerKey string) ([]rawdata.RawAccount, error)
}

// TransactionRepository reads raw transaction rows for an owner
type TransactionRepository interface {
	ListByOwner(ctx context.Context, ownerKey string) ([]rawdata.RawTransaction, error)
}

// InvestmentRepository reads holdings for an owner
type InvestmentRepository interface {
	ListByOwner(ctx context.Context, ownerKey string) ([]finance.Investment, error)
}

// ProfileRepository reads the owner's profile, whose locale labels the series
type ProfileRepository interface {
	Get(ctx context.Context, ownerKey string) (*profile.Profile, error)
}
