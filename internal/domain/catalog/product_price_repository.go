package catalog

import "context"

// ProductPriceRepository defines the persistence contract for prices
type ProductPriceRepository interface {
	// FindByKeys returns the price rows matching the given natural keys
	FindByKeys(ctx context.Context, keys []PriceKey) ([]ProductPrice, error)

	// FindByProductIDs returns all price rows for the given products
	FindByProductIDs(ctx context.Context, productIDs []int64) ([]ProductPrice, error)

	// DeleteByPartitionExcept deletes every price row belonging to a product
	// of the partition whose key is not in keep and returns the deleted count
	DeleteByPartitionExcept(ctx context.Context, partition string, keep []PriceKey) (int64, error)

	// SaveBatch creates or updates price rows in a single batched write
	SaveBatch(ctx context.Context, prices []*ProductPrice) error

	// Transaction runs fn against a repository bound to one database
	// transaction; fn returning an error rolls back every write it made
	Transaction(ctx context.Context, fn func(ProductPriceRepository) error) error
}
