package catalog

import "context"

// ProductRepository defines the persistence contract for products.
// Soft-deleted products are filtered from every read except the
// explicitly unscoped lookups used by the sync path.
type ProductRepository interface {
	// FindByID finds a live product by its ERP-assigned ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDIncludingDeleted finds a product even if soft-deleted,
	// so a reappearing product can be restored instead of recreated
	FindByIDIncludingDeleted(ctx context.Context, id int64) (*Product, error)

	// FindByPartition returns all live products in a partition
	FindByPartition(ctx context.Context, partition string) ([]Product, error)

	// FindByIDs returns the live products matching the given IDs
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)

	// SoftDeleteByPartitionExcept soft-deletes every live product in the
	// partition whose ID is not in keepIDs and returns the affected count
	SoftDeleteByPartitionExcept(ctx context.Context, partition string, keepIDs []int64) (int64, error)

	// SaveBatch creates or updates products in a single batched write
	SaveBatch(ctx context.Context, products []*Product) error

	// Transaction runs fn against a repository bound to one database
	// transaction; fn returning an error rolls back every write it made
	Transaction(ctx context.Context, fn func(ProductRepository) error) error
}
