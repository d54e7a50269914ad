package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared/valueobject"
)

// setupCatalogTestDB creates an in-memory SQLite database with the catalog tables
func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&catalog.PriceType{},
		&catalog.ProductPrice{},
	)
	require.NoError(t, err)

	return db
}

func mustCategory(t *testing.T, id int64, partition, name, slug string, parentID *int64, path string) *catalog.Category {
	t.Helper()
	treePath, err := catalog.ParseTreePath(path)
	require.NoError(t, err)
	category, err := catalog.NewCategory(id, partition, name, slug, parentID, treePath)
	require.NoError(t, err)
	return category
}

func mustProduct(t *testing.T, id int64, partition, name, slug string, categoryID int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(id, partition, catalog.ProductDetails{
		Name:       name,
		Slug:       slug,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return product
}

func mustPrice(t *testing.T, productID, priceTypeID int64, amount int64) *catalog.ProductPrice {
	t.Helper()
	money, err := valueobject.NewMoney(decimal.NewFromInt(amount), valueobject.RUB)
	require.NoError(t, err)
	price, err := catalog.NewProductPrice(productID, priceTypeID, money)
	require.NoError(t, err)
	return price
}
