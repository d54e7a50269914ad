package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/catalog/backend/internal/domain/catalog"
)

// GormProductPriceRepository implements ProductPriceRepository using GORM
type GormProductPriceRepository struct {
	db *gorm.DB
}

// NewGormProductPriceRepository creates a new GormProductPriceRepository
func NewGormProductPriceRepository(db *gorm.DB) *GormProductPriceRepository {
	return &GormProductPriceRepository{db: db}
}

// FindByKeys finds the price rows matching the given (product, price type) pairs
func (r *GormProductPriceRepository) FindByKeys(ctx context.Context, keys []catalog.PriceKey) ([]catalog.ProductPrice, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var prices []catalog.ProductPrice
	if err := r.db.WithContext(ctx).
		Where("(product_id, price_type_id) IN ?", priceKeyPairs(keys)).
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// FindByProductIDs finds all price rows of the given products
func (r *GormProductPriceRepository) FindByProductIDs(ctx context.Context, productIDs []int64) ([]catalog.ProductPrice, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var prices []catalog.ProductPrice
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("product_id ASC, price_type_id ASC").
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// DeleteByPartitionExcept deletes every price row belonging to the
// partition's products whose (product, price type) pair is not in keep.
// Price rows have no partition column of their own, so the scope comes
// from a subquery over products, soft-deleted ones included.
func (r *GormProductPriceRepository) DeleteByPartitionExcept(ctx context.Context, partition string, keep []catalog.PriceKey) (int64, error) {
	subquery := r.db.Model(&catalog.Product{}).Unscoped().
		Select("id").
		Where("partition = ?", partition)

	query := r.db.WithContext(ctx).Where("product_id IN (?)", subquery)
	if len(keep) > 0 {
		query = query.Where("(product_id, price_type_id) NOT IN ?", priceKeyPairs(keep))
	}
	result := query.Delete(&catalog.ProductPrice{})
	return result.RowsAffected, result.Error
}

// SaveBatch upserts price rows by their composite primary key, so a
// changed amount overwrites the existing row instead of duplicating it
func (r *GormProductPriceRepository) SaveBatch(ctx context.Context, prices []*catalog.ProductPrice) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(prices, saveBatchSize).Error
}

func priceKeyPairs(keys []catalog.PriceKey) [][]interface{} {
	pairs := make([][]interface{}, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, []interface{}{key.ProductID, key.PriceTypeID})
	}
	return pairs
}

// Transaction runs fn against a repository bound to one database
// transaction. The sync jobs use it to make the delete and save phases
// of a run atomic.
func (r *GormProductPriceRepository) Transaction(ctx context.Context, fn func(catalog.ProductPriceRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormProductPriceRepository(tx))
	})
}

// Ensure GormProductPriceRepository implements ProductPriceRepository
var _ catalog.ProductPriceRepository = (*GormProductPriceRepository)(nil)
