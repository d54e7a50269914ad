package catalog

import "context"

// CategoryRepository defines the persistence contract for categories
type CategoryRepository interface {
	// FindByID finds a category by its ERP-assigned ID
	FindByID(ctx context.Context, id int64) (*Category, error)

	// FindByPartition returns all categories in a partition
	FindByPartition(ctx context.Context, partition string) ([]Category, error)

	// DeleteByPartitionExcept deletes every category in the partition whose
	// ID is not in keepIDs and returns the number of deleted rows
	DeleteByPartitionExcept(ctx context.Context, partition string, keepIDs []int64) (int64, error)

	// SaveBatch creates or updates categories in a single batched write
	SaveBatch(ctx context.Context, categories []*Category) error

	// Transaction runs fn against a repository bound to one database
	// transaction; fn returning an error rolls back every write it made
	Transaction(ctx context.Context, fn func(CategoryRepository) error) error
}
