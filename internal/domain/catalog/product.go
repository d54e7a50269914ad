package catalog

import (
	"time"

	"github.com/catalog/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// MaxProductStock bounds the stock quantity reported by the ERP
const MaxProductStock = 10000

// Product represents a catalog product mirrored from the external ERP.
// Products absent from the latest import are soft-deleted, not removed;
// the gorm.DeletedAt field makes every standard read path filter them.
type Product struct {
	ID              int64  `gorm:"primaryKey;autoIncrement:false"`
	Partition       string `gorm:"type:varchar(50);not null;index"`
	Name            string `gorm:"type:varchar(300);not null"`
	Slug            string `gorm:"type:varchar(350);not null;uniqueIndex"`
	CategoryID      int64  `gorm:"not null;index"`
	PhotoURL        string `gorm:"type:varchar(500)"`
	SchemeURL       *string
	Stock           int `gorm:"not null;default:0"`
	QuantityPerPack int `gorm:"not null;default:0"`
	IsNew           bool
	IsSale          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDetails carries the ERP-sourced fields of a product.
// It is the input to both construction and full-detail updates.
type ProductDetails struct {
	Name            string
	Slug            string
	CategoryID      int64
	PhotoURL        string
	SchemeURL       *string
	QuantityPerPack int
	IsNew           bool
	IsSale          bool
}

// NewProduct creates a product after validating all invariants
func NewProduct(id int64, partition string, details ProductDetails) (*Product, error) {
	externalID, err := shared.NewExternalID(id)
	if err != nil {
		return nil, err
	}
	if err := validatePartition(partition); err != nil {
		return nil, err
	}
	if err := validateProductDetails(details); err != nil {
		return nil, err
	}

	return &Product{
		ID:              externalID.Int64(),
		Partition:       partition,
		Name:            details.Name,
		Slug:            details.Slug,
		CategoryID:      details.CategoryID,
		PhotoURL:        details.PhotoURL,
		SchemeURL:       details.SchemeURL,
		QuantityPerPack: details.QuantityPerPack,
		IsNew:           details.IsNew,
		IsSale:          details.IsSale,
	}, nil
}

// Update overwrites the ERP-sourced detail fields, re-running validation.
// Stock is deliberately untouched; it has its own narrower sync.
func (p *Product) Update(details ProductDetails) error {
	if err := validateProductDetails(details); err != nil {
		return err
	}
	p.Name = details.Name
	p.Slug = details.Slug
	p.CategoryID = details.CategoryID
	p.PhotoURL = details.PhotoURL
	p.SchemeURL = details.SchemeURL
	p.QuantityPerPack = details.QuantityPerPack
	p.IsNew = details.IsNew
	p.IsSale = details.IsSale
	p.UpdatedAt = time.Now()
	return nil
}

// SetStock updates the stock quantity within the allowed range
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 || quantity > MaxProductStock {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity must be between 0 and 10000")
	}
	p.Stock = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// IsDeleted returns true if the product is soft-deleted
func (p *Product) IsDeleted() bool {
	return p.DeletedAt.Valid
}

// Restore clears the soft-delete flag when the product reappears in an import
func (p *Product) Restore() {
	p.DeletedAt = gorm.DeletedAt{}
	p.UpdatedAt = time.Now()
}

func validateProductDetails(details ProductDetails) error {
	if details.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(details.Name) > 300 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 300 characters")
	}
	if details.CategoryID <= 0 {
		return shared.NewDomainError("INVALID_CATEGORY", "Product must reference an existing category")
	}
	if details.QuantityPerPack < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity per pack cannot be negative")
	}
	return nil
}
