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

// CategoriesJob mirrors one partition's category subtree: the full remote
// set is fetched, locally missing ids are deleted, and the rest is
// created or updated through the entity factories.
type CategoriesJob struct {
	gateway erp.Gateway
	mapper  *Mapper
	repo    catalog.CategoryRepository
	logger  *zap.Logger
}

// NewCategoriesJob creates a new categories reconciliation job
func NewCategoriesJob(gateway erp.Gateway, mapper *Mapper, repo catalog.CategoryRepository, logger *zap.Logger) *CategoriesJob {
	return &CategoriesJob{gateway: gateway, mapper: mapper, repo: repo, logger: logger}
}

// Run reconciles the categories of one partition
func (j *CategoriesJob) Run(ctx context.Context, partition Partition) (*RunReport, error) {
	report, _, err := j.RunAndIndex(ctx, partition)
	return report, err
}

// RunAndIndex reconciles the categories of one partition and returns the
// category index built from the run's feed. A full sync hands the index
// to the product details job so both phases resolve against the same
// categories, with no second fetch in between.
func (j *CategoriesJob) RunAndIndex(ctx context.Context, partition Partition) (*RunReport, *CategoryIndex, error) {
	started := time.Now()
	report := &RunReport{Job: JobCategories, Partition: partition.Code}

	rows, err := j.gateway.GetCategories(ctx, partition.RootID)
	if err != nil {
		return nil, nil, fmt.Errorf("categories %s: fetch: %w", partition.Code, err)
	}
	report.Fetched = len(rows)

	// An empty feed is treated conservatively: better a stale mirror
	// than wiping the partition because the ERP returned nothing. The
	// index still carries the synthetic root so a chained product run
	// fails loudly on anything deeper.
	if len(rows) == 0 {
		j.logger.Info("Categories feed is empty, leaving local data untouched",
			zap.String("partition", partition.Code))
		_, index, err := j.mapper.MapCategories(partition, nil)
		if err != nil {
			return nil, nil, err
		}
		report.Duration = time.Since(started)
		return report, index, nil
	}

	mapped, index, err := j.mapper.MapCategories(partition, rows)
	if err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// The batch is fully built and validated before anything is written:
	// a run that cannot complete must leave local rows exactly as found.
	batch := make([]*catalog.Category, 0, len(mapped))
	for _, mc := range mapped {
		existing, err := j.repo.FindByID(ctx, mc.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			category, err := catalog.NewCategory(mc.ID, partition.Code, mc.Name, mc.Slug, mc.ParentID, mc.Path)
			if err != nil {
				return nil, nil, fmt.Errorf("categories %s: create %d: %w", partition.Code, mc.ID, err)
			}
			batch = append(batch, category)
			report.Created++
		case err != nil:
			return nil, nil, fmt.Errorf("categories %s: load %d: %w", partition.Code, mc.ID, err)
		default:
			changed, err := applyCategoryUpdate(existing, mc)
			if err != nil {
				return nil, nil, fmt.Errorf("categories %s: update %d: %w", partition.Code, mc.ID, err)
			}
			if changed {
				batch = append(batch, existing)
				report.Updated++
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	keepIDs := make([]int64, 0, len(mapped))
	for _, mc := range mapped {
		keepIDs = append(keepIDs, mc.ID)
	}
	err = j.repo.Transaction(ctx, func(r catalog.CategoryRepository) error {
		deleted, err := r.DeleteByPartitionExcept(ctx, partition.Code, keepIDs)
		if err != nil {
			return fmt.Errorf("delete missing: %w", err)
		}
		report.Deleted = int(deleted)
		return r.SaveBatch(ctx, batch)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("categories %s: %w", partition.Code, err)
	}

	report.Duration = time.Since(started)
	j.logger.Info("Categories sync finished", zap.String("report", report.String()))
	return report, index, nil
}

// applyCategoryUpdate brings an existing category in line with the
// freshly mapped one, reporting whether anything actually changed
func applyCategoryUpdate(existing *catalog.Category, mc MappedCategory) (bool, error) {
	changed := false

	if existing.Name != mc.Name || existing.Slug != mc.Slug {
		if err := existing.Rename(mc.Name, mc.Slug); err != nil {
			return false, err
		}
		changed = true
	}

	if existing.Path != mc.Path.String() {
		// The synthetic root has no parent; a changed root segment is a
		// direct path rewrite, and the children follow through Reparent.
		if mc.ParentID == nil {
			if err := existing.RelocateRoot(mc.Path); err != nil {
				return false, err
			}
		} else {
			if err := existing.Reparent(*mc.ParentID, mc.Path.Parent()); err != nil {
				return false, err
			}
		}
		changed = true
	}

	return changed, nil
}
