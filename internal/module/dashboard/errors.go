package dashboard

import (
	"errors"
	"fmt"
)

// ErrIncompleteSnapshot is returned by Snapshot when some input could not be read
var ErrIncompleteSnapshot = errors.New("dashboard snapshot is incomplete")

// Resource names one of the record collections a dashboard is built from
type Resource string

const (
	ResourceAccounts     Resource = "accounts"
	ResourceTransactions Resource = "transactions"
	ResourceInvestments  Resource = "investments"
)

// FetchError reports that a record collection could not be read
type FetchError struct {
	Resource Resource
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
