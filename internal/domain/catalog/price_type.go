package catalog

import (
	"time"

	"github.com/catalog/backend/internal/domain/shared"
)

// PriceType is a named pricing tier (retail, wholesale, ...) under which
// a product may carry a distinct price. Price types are append-only
// reference data: sync creates and renames them but never deletes.
type PriceType struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (PriceType) TableName() string {
	return "price_types"
}

// NewPriceType creates a price type after validating invariants
func NewPriceType(id int64, name string) (*PriceType, error) {
	externalID, err := shared.NewExternalID(id)
	if err != nil {
		return nil, err
	}
	if err := validatePriceTypeName(name); err != nil {
		return nil, err
	}
	return &PriceType{ID: externalID.Int64(), Name: name}, nil
}

// Rename updates the price type name, re-running validation
func (pt *PriceType) Rename(name string) error {
	if err := validatePriceTypeName(name); err != nil {
		return err
	}
	pt.Name = name
	pt.UpdatedAt = time.Now()
	return nil
}

func validatePriceTypeName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Price type name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Price type name cannot exceed 100 characters")
	}
	return nil
}
