package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
)

// saveBatchSize bounds the row count of a single generated INSERT
const saveBatchSize = 200

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a live product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDIncludingDeleted finds a product by ID, soft-deleted rows included.
// Sync runs need it to restore a product instead of recreating it.
func (r *GormProductRepository) FindByIDIncludingDeleted(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).Unscoped().First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByPartition finds all live products of one partition
func (r *GormProductRepository) FindByPartition(ctx context.Context, partition string) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("partition = ?", partition).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDs finds the live products matching the given ids; missing and
// soft-deleted ids are simply absent from the result
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SoftDeleteByPartitionExcept soft-deletes every live product of the
// partition whose id is not in keepIDs and returns the affected row count
func (r *GormProductRepository) SoftDeleteByPartitionExcept(ctx context.Context, partition string, keepIDs []int64) (int64, error) {
	query := r.db.WithContext(ctx).Where("partition = ?", partition)
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	result := query.Delete(&catalog.Product{})
	return result.RowsAffected, result.Error
}

// SaveBatch upserts products by primary key. The upsert also writes
// deleted_at, so restored products come back in the same statement.
func (r *GormProductRepository) SaveBatch(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Unscoped().
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(products, saveBatchSize).Error
}

// Transaction runs fn against a repository bound to one database
// transaction. The sync jobs use it to make the delete and save phases
// of a run atomic.
func (r *GormProductRepository) Transaction(ctx context.Context, fn func(catalog.ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormProductRepository(tx))
	})
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
