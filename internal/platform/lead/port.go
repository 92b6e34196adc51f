package lead

import "context"

// Repository stores submitted leads
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
}
