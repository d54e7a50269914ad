package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
)

// GormPriceTypeRepository implements PriceTypeRepository using GORM
type GormPriceTypeRepository struct {
	db *gorm.DB
}

// NewGormPriceTypeRepository creates a new GormPriceTypeRepository
func NewGormPriceTypeRepository(db *gorm.DB) *GormPriceTypeRepository {
	return &GormPriceTypeRepository{db: db}
}

// FindByID finds a price type by its ID
func (r *GormPriceTypeRepository) FindByID(ctx context.Context, id int64) (*catalog.PriceType, error) {
	var priceType catalog.PriceType
	if err := r.db.WithContext(ctx).First(&priceType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &priceType, nil
}

// FindAll returns every price type
func (r *GormPriceTypeRepository) FindAll(ctx context.Context) ([]catalog.PriceType, error) {
	var priceTypes []catalog.PriceType
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&priceTypes).Error; err != nil {
		return nil, err
	}
	return priceTypes, nil
}

// SaveBatch upserts price types by primary key
func (r *GormPriceTypeRepository) SaveBatch(ctx context.Context, priceTypes []*catalog.PriceType) error {
	if len(priceTypes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(priceTypes, saveBatchSize).Error
}

// Ensure GormPriceTypeRepository implements PriceTypeRepository
var _ catalog.PriceTypeRepository = (*GormPriceTypeRepository)(nil)
