package catalog

import "context"

// PriceTypeRepository defines the persistence contract for price types.
// Price types are never deleted by sync.
type PriceTypeRepository interface {
	// FindByID finds a price type by its ERP-assigned ID
	FindByID(ctx context.Context, id int64) (*PriceType, error)

	// FindAll returns all price types
	FindAll(ctx context.Context) ([]PriceType, error)

	// SaveBatch creates or updates price types in a single batched write
	SaveBatch(ctx context.Context, priceTypes []*PriceType) error
}
