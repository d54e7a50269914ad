package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByPartition finds all categories of one partition, roots first
func (r *GormCategoryRepository) FindByPartition(ctx context.Context, partition string) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("partition = ?", partition).
		Order("path ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteByPartitionExcept deletes every category of the partition whose id
// is not in keepIDs and returns the number of deleted rows. Other
// partitions are never touched.
func (r *GormCategoryRepository) DeleteByPartitionExcept(ctx context.Context, partition string, keepIDs []int64) (int64, error) {
	query := r.db.WithContext(ctx).Where("partition = ?", partition)
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	result := query.Delete(&catalog.Category{})
	return result.RowsAffected, result.Error
}

// SaveBatch upserts categories by primary key in a single statement batch
func (r *GormCategoryRepository) SaveBatch(ctx context.Context, categories []*catalog.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(categories, saveBatchSize).Error
}

// Transaction runs fn against a repository bound to one database
// transaction. The sync jobs use it to make the delete and save phases
// of a run atomic.
func (r *GormCategoryRepository) Transaction(ctx context.Context, fn func(catalog.CategoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormCategoryRepository(tx))
	})
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
