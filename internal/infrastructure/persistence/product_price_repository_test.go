package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
	"github.com/catalog/backend/internal/domain/shared/valueobject"
)

func TestGormPriceTypeRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormPriceTypeRepository(db)
	ctx := context.Background()

	retail, err := catalog.NewPriceType(1, "Retail")
	require.NoError(t, err)
	wholesale, err := catalog.NewPriceType(2, "Wholesale")
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(ctx, []*catalog.PriceType{wholesale, retail}))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Retail", found.Name)
	})

	t.Run("returns ErrNotFound for missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists all ordered by id", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, int64(1), all[0].ID)
		assert.Equal(t, int64(2), all[1].ID)
	})

	t.Run("upsert renames in place", func(t *testing.T) {
		require.NoError(t, retail.Rename("Retail RU"))
		require.NoError(t, repo.SaveBatch(ctx, []*catalog.PriceType{retail}))

		found, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Retail RU", found.Name)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestGormProductPriceRepository_SaveBatch(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductPriceRepository(db)
	ctx := context.Background()

	price := mustPrice(t, 100, 1, 100)
	require.NoError(t, repo.SaveBatch(ctx, []*catalog.ProductPrice{price}))

	t.Run("repricing overwrites the row instead of duplicating it", func(t *testing.T) {
		money, err := valueobject.NewMoney(decimal.NewFromInt(120), valueobject.RUB)
		require.NoError(t, err)
		price.Reprice(money)
		require.NoError(t, repo.SaveBatch(ctx, []*catalog.ProductPrice{price}))

		rows, err := repo.FindByProductIDs(ctx, []int64{100})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(120)))
	})

	t.Run("different price types for one product coexist", func(t *testing.T) {
		require.NoError(t, repo.SaveBatch(ctx, []*catalog.ProductPrice{mustPrice(t, 100, 2, 90)}))

		rows, err := repo.FindByProductIDs(ctx, []int64{100})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestGormProductPriceRepository_FindByKeys(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductPriceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, []*catalog.ProductPrice{
		mustPrice(t, 100, 1, 100),
		mustPrice(t, 100, 2, 90),
		mustPrice(t, 101, 1, 50),
	}))

	rows, err := repo.FindByKeys(ctx, []catalog.PriceKey{
		{ProductID: 100, PriceTypeID: 1},
		{ProductID: 101, PriceTypeID: 1},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	empty, err := repo.FindByKeys(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormProductPriceRepository_DeleteByPartitionExcept(t *testing.T) {
	db := setupCatalogTestDB(t)
	products := NewGormProductRepository(db)
	repo := NewGormProductPriceRepository(db)
	ctx := context.Background()

	require.NoError(t, products.SaveBatch(ctx, []*catalog.Product{
		mustProduct(t, 100, "hardware", "Mortise Lock", "mortise-lock-100", 10),
		mustProduct(t, 101, "hardware", "Handle", "handle-101", 10),
		mustProduct(t, 200, "doors", "Oak Door", "oak-door-200", 20),
	}))
	require.NoError(t, repo.SaveBatch(ctx, []*catalog.ProductPrice{
		mustPrice(t, 100, 1, 100),
		mustPrice(t, 101, 1, 50),
		mustPrice(t, 200, 1, 700),
	}))

	deleted, err := repo.DeleteByPartitionExcept(ctx, "hardware", []catalog.PriceKey{
		{ProductID: 100, PriceTypeID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.FindByProductIDs(ctx, []int64{100, 101, 200})
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, int64(100), remaining[0].ProductID)
	assert.Equal(t, int64(200), remaining[1].ProductID)
}
