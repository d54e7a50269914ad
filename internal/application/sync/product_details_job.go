package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/erp"
	"github.com/catalog/backend/internal/domain/shared"
)

// ProductDetailsJob mirrors one partition's full product detail set.
// Category references are resolved against the categories of the same
// sync run, so this job depends on the categories job having already
// persisted that partition's categories. A full sync hands the category
// index over directly; a standalone run rebuilds it from the feed.
type ProductDetailsJob struct {
	gateway erp.Gateway
	mapper  *Mapper
	repo    catalog.ProductRepository
	logger  *zap.Logger
}

// NewProductDetailsJob creates a new product details reconciliation job
func NewProductDetailsJob(gateway erp.Gateway, mapper *Mapper, repo catalog.ProductRepository, logger *zap.Logger) *ProductDetailsJob {
	return &ProductDetailsJob{gateway: gateway, mapper: mapper, repo: repo, logger: logger}
}

// Run reconciles the products of one partition, rebuilding the category
// index from the partition's category feed
func (j *ProductDetailsJob) Run(ctx context.Context, partition Partition) (*RunReport, error) {
	return j.run(ctx, partition, nil)
}

// RunWithIndex reconciles the products of one partition against a
// category index carried over from the categories job of the same run.
// Reusing the index pins both jobs to one category feed, so a remote
// change between the two phases cannot resolve a product onto a
// category the categories job just removed.
func (j *ProductDetailsJob) RunWithIndex(ctx context.Context, partition Partition, index *CategoryIndex) (*RunReport, error) {
	return j.run(ctx, partition, index)
}

func (j *ProductDetailsJob) run(ctx context.Context, partition Partition, index *CategoryIndex) (*RunReport, error) {
	started := time.Now()
	report := &RunReport{Job: JobProductDetails, Partition: partition.Code}

	rows, err := j.gateway.GetProductDetails(ctx, partition.RootID)
	if err != nil {
		return nil, fmt.Errorf("products %s: fetch: %w", partition.Code, err)
	}
	report.Fetched = len(rows)

	if len(rows) == 0 {
		j.logger.Info("Product details feed is empty, leaving local data untouched",
			zap.String("partition", partition.Code))
		report.Duration = time.Since(started)
		return report, nil
	}

	// The name->id table comes from the category feed of the same run.
	// A product referencing a path missing from it aborts the run; a
	// silently dropped product would be misclassified as deleted next time.
	if index == nil {
		categoryRows, err := j.gateway.GetCategories(ctx, partition.RootID)
		if err != nil {
			return nil, fmt.Errorf("products %s: fetch categories: %w", partition.Code, err)
		}
		_, index, err = j.mapper.MapCategories(partition, categoryRows)
		if err != nil {
			return nil, err
		}
	}

	mapped, err := j.mapper.MapProducts(partition, rows, index)
	if err != nil {
		return nil, err
	}

	// The batch is fully built and validated before anything is written:
	// a run that cannot complete must leave local rows exactly as found.
	batch := make([]*catalog.Product, 0, len(mapped))
	for _, mp := range mapped {
		existing, err := j.repo.FindByIDIncludingDeleted(ctx, mp.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			product, err := catalog.NewProduct(mp.ID, partition.Code, mp.Details)
			if err != nil {
				return nil, fmt.Errorf("products %s: create %d: %w", partition.Code, mp.ID, err)
			}
			if err := product.SetStock(mp.Stock); err != nil {
				return nil, fmt.Errorf("products %s: create %d: %w", partition.Code, mp.ID, err)
			}
			batch = append(batch, product)
			report.Created++
		case err != nil:
			return nil, fmt.Errorf("products %s: load %d: %w", partition.Code, mp.ID, err)
		default:
			changed, err := applyProductUpdate(existing, mp)
			if err != nil {
				return nil, fmt.Errorf("products %s: update %d: %w", partition.Code, mp.ID, err)
			}
			if changed {
				batch = append(batch, existing)
				report.Updated++
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keepIDs := make([]int64, 0, len(mapped))
	for _, mp := range mapped {
		keepIDs = append(keepIDs, mp.ID)
	}
	err = j.repo.Transaction(ctx, func(r catalog.ProductRepository) error {
		deleted, err := r.SoftDeleteByPartitionExcept(ctx, partition.Code, keepIDs)
		if err != nil {
			return fmt.Errorf("delete missing: %w", err)
		}
		report.Deleted = int(deleted)
		return r.SaveBatch(ctx, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("products %s: %w", partition.Code, err)
	}

	report.Duration = time.Since(started)
	j.logger.Info("Product details sync finished", zap.String("report", report.String()))
	return report, nil
}

// applyProductUpdate brings an existing product in line with the mapped
// one. A soft-deleted product reappearing in the feed is restored.
func applyProductUpdate(existing *catalog.Product, mp MappedProduct) (bool, error) {
	changed := false

	if existing.IsDeleted() {
		existing.Restore()
		changed = true
	}

	current := catalog.ProductDetails{
		Name:            existing.Name,
		Slug:            existing.Slug,
		CategoryID:      existing.CategoryID,
		PhotoURL:        existing.PhotoURL,
		SchemeURL:       existing.SchemeURL,
		QuantityPerPack: existing.QuantityPerPack,
		IsNew:           existing.IsNew,
		IsSale:          existing.IsSale,
	}
	if !detailsEqual(current, mp.Details) {
		if err := existing.Update(mp.Details); err != nil {
			return false, err
		}
		changed = true
	}

	if existing.Stock != mp.Stock {
		if err := existing.SetStock(mp.Stock); err != nil {
			return false, err
		}
		changed = true
	}

	return changed, nil
}
