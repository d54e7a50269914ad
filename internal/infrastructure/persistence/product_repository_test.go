package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
)

func TestGormProductRepository_FindByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	lock := mustProduct(t, 100, "hardware", "Mortise Lock", "mortise-lock-100", 10)
	require.NoError(t, repo.SaveBatch(ctx, []*catalog.Product{lock}))

	t.Run("finds existing product", func(t *testing.T) {
		found, err := repo.FindByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "Mortise Lock", found.Name)
	})

	t.Run("returns ErrNotFound for missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_SoftDelete(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, []*catalog.Product{
		mustProduct(t, 100, "hardware", "Mortise Lock", "mortise-lock-100", 10),
		mustProduct(t, 101, "hardware", "Handle", "handle-101", 10),
		mustProduct(t, 200, "doors", "Oak Door", "oak-door-200", 20),
	}))

	deleted, err := repo.SoftDeleteByPartitionExcept(ctx, "hardware", []int64{100})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	t.Run("soft-deleted product disappears from standard reads", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 101)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByIDs(ctx, []int64{100, 101})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, int64(100), found[0].ID)
	})

	t.Run("unscoped read still sees the row", func(t *testing.T) {
		found, err := repo.FindByIDIncludingDeleted(ctx, 101)
		require.NoError(t, err)
		assert.True(t, found.IsDeleted())
	})

	t.Run("other partitions are untouched", func(t *testing.T) {
		found, err := repo.FindByID(ctx, 200)
		require.NoError(t, err)
		assert.False(t, found.IsDeleted())
	})

	t.Run("saving a restored product brings it back", func(t *testing.T) {
		product, err := repo.FindByIDIncludingDeleted(ctx, 101)
		require.NoError(t, err)

		product.Restore()
		require.NoError(t, repo.SaveBatch(ctx, []*catalog.Product{product}))

		found, err := repo.FindByID(ctx, 101)
		require.NoError(t, err)
		assert.False(t, found.IsDeleted())
	})
}

func TestGormProductRepository_SaveBatch(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	lock := mustProduct(t, 100, "hardware", "Mortise Lock", "mortise-lock-100", 10)
	require.NoError(t, lock.SetStock(5))
	require.NoError(t, repo.SaveBatch(ctx, []*catalog.Product{lock}))

	t.Run("upsert overwrites detail fields and stock", func(t *testing.T) {
		require.NoError(t, lock.SetStock(0))
		require.NoError(t, repo.SaveBatch(ctx, []*catalog.Product{lock}))

		found, err := repo.FindByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, 0, found.Stock)

		all, err := repo.FindByPartition(ctx, "hardware")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestGormProductRepository_Transaction(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, []*catalog.Product{
		mustProduct(t, 100, "hardware", "Mortise Lock", "mortise-lock-100", 10),
	}))

	unitErr := errors.New("unit failed")
	err := repo.Transaction(ctx, func(r catalog.ProductRepository) error {
		deleted, err := r.SoftDeleteByPartitionExcept(ctx, "hardware", []int64{999})
		require.NoError(t, err)
		require.Equal(t, int64(1), deleted)
		return unitErr
	})
	require.ErrorIs(t, err, unitErr)

	// The rolled-back soft delete leaves the product visible
	found, err := repo.FindByID(ctx, 100)
	require.NoError(t, err)
	assert.False(t, found.IsDeleted())
}
