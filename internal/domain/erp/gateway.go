// Package erp defines the contract for the external ERP the catalog is
// mirrored from. The concrete SOAP transport lives in
// infrastructure/onec; this package only knows the normalized datasets.
package erp

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Gateway errors
var (
	// ErrUnavailable indicates the ERP endpoint could not be reached
	ErrUnavailable = errors.New("erp: service unavailable")
	// ErrUnauthorized indicates the configured credentials were rejected
	ErrUnauthorized = errors.New("erp: authentication failed")
)

// PriceTypeRow is a price type as reported by the ERP
type PriceTypeRow struct {
	ID   int64
	Name string
}

// CategoryRow is a category as reported by the ERP for one root subtree
type CategoryRow struct {
	ID   int64
	Name string
	Path string
}

// ProductRow is a product detail record as reported by the ERP
type ProductRow struct {
	ID              int64
	Name            string
	CategoryPath    string
	PhotoURL        string
	SchemeURL       string
	Stock           int
	QuantityPerPack int
	IsNew           bool
	IsSale          bool
}

// StockRow is a stock quantity record as reported by the ERP
type StockRow struct {
	ProductID int64
	Quantity  int
}

// PriceRow is a price record as reported by the ERP
type PriceRow struct {
	ProductID   int64
	PriceTypeID int64
	Amount      decimal.Decimal
	Currency    string
}

// Gateway is the read-only typed client over the ERP service.
// Every dataset is fetched complete per root category; an empty result
// is a valid outcome, not an error. Transport and auth failures
// propagate to the caller.
type Gateway interface {
	// GetPriceTypes returns all price types known to the ERP
	GetPriceTypes(ctx context.Context) ([]PriceTypeRow, error)

	// GetCategories returns all categories under the given root
	GetCategories(ctx context.Context, rootID string) ([]CategoryRow, error)

	// GetProductDetails returns all product details under the given root
	GetProductDetails(ctx context.Context, rootID string) ([]ProductRow, error)

	// GetProductStocks returns stock quantities under the given root
	GetProductStocks(ctx context.Context, rootID string) ([]StockRow, error)

	// GetProductPrices returns prices under the given root
	GetProductPrices(ctx context.Context, rootID string) ([]PriceRow, error)
}
