package catalog

import (
	"time"

	"github.com/catalog/backend/internal/domain/shared"
	"github.com/catalog/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PriceKey is the natural key of a product price
type PriceKey struct {
	ProductID   int64
	PriceTypeID int64
}

// ProductPrice holds one price per (product, price type) pair. The pair
// forms the composite primary key, so a duplicate row is impossible at
// the storage level as well as in the domain.
type ProductPrice struct {
	ProductID   int64           `gorm:"primaryKey;autoIncrement:false"`
	PriceTypeID int64           `gorm:"primaryKey;autoIncrement:false"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (ProductPrice) TableName() string {
	return "product_prices"
}

// NewProductPrice creates a price row after validating invariants
func NewProductPrice(productID, priceTypeID int64, price valueobject.Money) (*ProductPrice, error) {
	pid, err := shared.NewExternalID(productID)
	if err != nil {
		return nil, err
	}
	ptid, err := shared.NewExternalID(priceTypeID)
	if err != nil {
		return nil, err
	}
	return &ProductPrice{
		ProductID:   pid.Int64(),
		PriceTypeID: ptid.Int64(),
		Amount:      price.Amount(),
		Currency:    string(price.Currency()),
	}, nil
}

// Key returns the natural key of the price row
func (pp *ProductPrice) Key() PriceKey {
	return PriceKey{ProductID: pp.ProductID, PriceTypeID: pp.PriceTypeID}
}

// Money returns the stored amount and currency as a value object
func (pp *ProductPrice) Money() (valueobject.Money, error) {
	return valueobject.NewMoney(pp.Amount, valueobject.Currency(pp.Currency))
}

// Reprice overwrites the amount and currency from the latest import
func (pp *ProductPrice) Reprice(price valueobject.Money) {
	pp.Amount = price.Amount()
	pp.Currency = string(price.Currency())
	pp.UpdatedAt = time.Now()
}
