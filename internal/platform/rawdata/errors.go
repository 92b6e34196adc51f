package rawdata

import "errors"

// Reasons a raw row is excluded from a batch. They never escape the batch
// functions; they only feed the dropped-row count.
var (
	ErrMissingAmountAndKind = errors.New("row has neither amount nor kind")
	ErrMissingAmount        = errors.New("row has no amount")
	ErrUnknownKind          = errors.New("row has an unknown kind")
	ErrInvalidDate          = errors.New("row has no parseable date")
	ErrMissingBalance       = errors.New("account row has no balance")
	ErrUnknownShape         = errors.New("unknown raw transaction shape")
)
