package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kislikjeka/finsight/internal/analytics"
	"github.com/kislikjeka/finsight/internal/platform/finance"
	"github.com/kislikjeka/finsight/internal/platform/profile"
	"github.com/kislikjeka/finsight/internal/platform/rawdata"
	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// Config holds the dashboard defaults. Locale labels months for owners whose
// profile has none or cannot be read.
type Config struct {
	Locale        string
	Months        int
	TopCategories int
	TopSectors    int
}

// Summary is the dashboard snapshot plus the collections that could not be
// read. A resource listed in Unavailable contributed an empty list, so its
// zeros mean "unknown" rather than "none".
type Summary struct {
	analytics.Snapshot
	Unavailable []Resource
	GeneratedAt time.Time
}

// IsPartial reports whether any input was unavailable
func (s *Summary) IsPartial() bool {
	return len(s.Unavailable) > 0
}

// Service loads an owner's records, normalizes them and runs the aggregation engine
type Service struct {
	accounts     AccountRepository
	transactions TransactionRepository
	investments  InvestmentRepository
	profiles     ProfileRepository
	cfg          Config
	logger       *logger.Logger
}

// NewService creates a new dashboard service
func NewService(
	accounts AccountRepository,
	transactions TransactionRepository,
	investments InvestmentRepository,
	profiles ProfileRepository,
	cfg Config,
	log *logger.Logger,
) *Service {
	if cfg.Locale == "" {
		cfg.Locale = analytics.DefaultLocale
	}
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		investments:  investments,
		profiles:     profiles,
		cfg:          cfg,
		logger:       log.WithComponent("dashboard"),
	}
}

// GetSummary builds the full dashboard. The three collections are fetched
// concurrently; a failed fetch is recorded in Summary.Unavailable and that
// input is treated as empty. GetSummary itself only fails if ctx is done.
func (s *Service) GetSummary(ctx context.Context, sess session.Session, now time.Time) (*Summary, error) {
	var (
		wg           sync.WaitGroup
		accounts     []finance.Account
		transactions []finance.Transaction
		investments  []finance.Investment
		locale       string
		accErr       error
		txnErr       error
		invErr       error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		accounts, accErr = s.ListAccounts(ctx, sess)
	}()
	go func() {
		defer wg.Done()
		transactions, txnErr = s.ListTransactions(ctx, sess)
	}()
	go func() {
		defer wg.Done()
		investments, invErr = s.ListInvestments(ctx, sess)
	}()
	go func() {
		defer wg.Done()
		locale = s.locale(ctx, sess)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{GeneratedAt: now}
	for _, err := range []error{accErr, txnErr, invErr} {
		if err == nil {
			continue
		}
		var fe *FetchError
		if errors.As(err, &fe) {
			summary.Unavailable = append(summary.Unavailable, fe.Resource)
		}
		s.logger.WithContext(ctx).Warn("dashboard input unavailable", "owner_key", sess.OwnerKey, "error", err)
	}
	if accErr != nil {
		accounts = nil
	}
	if txnErr != nil {
		transactions = nil
	}
	if invErr != nil {
		investments = nil
	}

	summary.Snapshot = analytics.BuildSnapshot(analytics.SnapshotInput{
		Accounts:      accounts,
		Transactions:  transactions,
		Investments:   investments,
		Now:           now,
		Locale:        locale,
		Months:        s.cfg.Months,
		TopCategories: s.cfg.TopCategories,
		TopSectors:    s.cfg.TopSectors,
	})

	return summary, nil
}

// Snapshot returns the complete dashboard snapshot, or an error when any input
// was unavailable, for callers that must not treat unknown figures as zero
func (s *Service) Snapshot(ctx context.Context, sess session.Session, now time.Time) (analytics.Snapshot, error) {
	summary, err := s.GetSummary(ctx, sess, now)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	if summary.IsPartial() {
		return analytics.Snapshot{}, fmt.Errorf("%w: %v", ErrIncompleteSnapshot, summary.Unavailable)
	}
	return summary.Snapshot, nil
}

// GetCashFlow returns monthly income and expenses for the trailing months
func (s *Service) GetCashFlow(ctx context.Context, sess session.Session, now time.Time, months int) ([]finance.MonthBucket, error) {
	txns, err := s.ListTransactions(ctx, sess)
	if err != nil {
		return nil, err
	}
	return analytics.CashFlowSeries(txns, now, s.months(months), analytics.WithLocale(s.locale(ctx, sess))), nil
}

// GetTrends returns monthly net and savings rate for the trailing months
func (s *Service) GetTrends(ctx context.Context, sess session.Session, now time.Time, months int) ([]finance.MonthBucket, error) {
	txns, err := s.ListTransactions(ctx, sess)
	if err != nil {
		return nil, err
	}
	return analytics.TrendSeries(txns, now, s.months(months), analytics.WithLocale(s.locale(ctx, sess))), nil
}

// GetCategoryBreakdown returns the largest expense categories
func (s *Service) GetCategoryBreakdown(ctx context.Context, sess session.Session, topK int) ([]finance.CategoryTotal, error) {
	txns, err := s.ListTransactions(ctx, sess)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = s.cfg.TopCategories
	}
	return analytics.CategoryBreakdown(txns, topK), nil
}

// GetSectorBreakdown returns holdings grouped by sector, with investment
// accounts folded in
func (s *Service) GetSectorBreakdown(ctx context.Context, sess session.Session, topK int) ([]finance.SectorTotal, error) {
	investments, err := s.ListInvestments(ctx, sess)
	if err != nil {
		return nil, err
	}
	accounts, err := s.ListAccounts(ctx, sess)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = s.cfg.TopSectors
	}
	return analytics.SectorBreakdown(investments, finance.FilterAccounts(accounts, finance.Account.IsInvestment), topK), nil
}

// ListAccounts returns the owner's normalized accounts
func (s *Service) ListAccounts(ctx context.Context, sess session.Session) ([]finance.Account, error) {
	rows, err := s.accounts.ListByOwner(ctx, sess.OwnerKey)
	if err != nil {
		return nil, &FetchError{Resource: ResourceAccounts, Err: err}
	}
	result := rawdata.NormalizeAccounts(rows, sess.OwnerKey)
	s.logDropped(ctx, ResourceAccounts, result.Dropped, len(rows))
	return result.Items, nil
}

// ListTransactions returns the owner's normalized transactions, newest first
func (s *Service) ListTransactions(ctx context.Context, sess session.Session) ([]finance.Transaction, error) {
	rows, err := s.transactions.ListByOwner(ctx, sess.OwnerKey)
	if err != nil {
		return nil, &FetchError{Resource: ResourceTransactions, Err: err}
	}
	result := rawdata.NormalizeTransactions(rows, sess.OwnerKey)
	s.logDropped(ctx, ResourceTransactions, result.Dropped, len(rows))
	return result.Items, nil
}

// ListInvestments returns the owner's holdings
func (s *Service) ListInvestments(ctx context.Context, sess session.Session) ([]finance.Investment, error) {
	investments, err := s.investments.ListByOwner(ctx, sess.OwnerKey)
	if err != nil {
		return nil, &FetchError{Resource: ResourceInvestments, Err: err}
	}
	if investments == nil {
		investments = []finance.Investment{}
	}
	return investments, nil
}

// locale returns the owner's profile locale, or the configured one when the
// profile is missing, has no locale or cannot be read
func (s *Service) locale(ctx context.Context, sess session.Session) string {
	if s.profiles == nil {
		return s.cfg.Locale
	}
	p, err := s.profiles.Get(ctx, sess.OwnerKey)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) {
			s.logger.WithContext(ctx).Warn("profile locale unavailable", "owner_key", sess.OwnerKey, "error", err)
		}
		return s.cfg.Locale
	}
	if p.Locale == "" {
		return s.cfg.Locale
	}
	return p.Locale
}

func (s *Service) months(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.cfg.Months
}

func (s *Service) logDropped(ctx context.Context, resource Resource, dropped, total int) {
	if dropped == 0 {
		return
	}
	s.logger.WithContext(ctx).Debug("dropped malformed rows",
		"resource", string(resource),
		"dropped", dropped,
		"total", total,
	)
}
