package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/erp"
)

// PricesJob mirrors one partition's price set keyed by
// (product, price type). Pairs absent from the latest feed are deleted;
// existing pairs are repriced in place so no duplicates can appear.
type PricesJob struct {
	gateway erp.Gateway
	mapper  *Mapper
	repo    catalog.ProductPriceRepository
	logger  *zap.Logger
}

// NewPricesJob creates a new price reconciliation job
func NewPricesJob(gateway erp.Gateway, mapper *Mapper, repo catalog.ProductPriceRepository, logger *zap.Logger) *PricesJob {
	return &PricesJob{gateway: gateway, mapper: mapper, repo: repo, logger: logger}
}

// Run reconciles the prices of one partition
func (j *PricesJob) Run(ctx context.Context, partition Partition) (*RunReport, error) {
	started := time.Now()
	report := &RunReport{Job: JobPrices, Partition: partition.Code}

	rows, err := j.gateway.GetProductPrices(ctx, partition.RootID)
	if err != nil {
		return nil, fmt.Errorf("prices %s: fetch: %w", partition.Code, err)
	}
	report.Fetched = len(rows)

	if len(rows) == 0 {
		j.logger.Info("Prices feed is empty, leaving local data untouched",
			zap.String("partition", partition.Code))
		report.Duration = time.Since(started)
		return report, nil
	}

	mapped, err := j.mapper.MapPrices(rows)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keep := make([]catalog.PriceKey, 0, len(mapped))
	for _, mp := range mapped {
		keep = append(keep, mp.Key)
	}
	existingRows, err := j.repo.FindByKeys(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("prices %s: load existing: %w", partition.Code, err)
	}
	existing := make(map[catalog.PriceKey]*catalog.ProductPrice, len(existingRows))
	for i := range existingRows {
		existing[existingRows[i].Key()] = &existingRows[i]
	}

	batch := make([]*catalog.ProductPrice, 0, len(mapped))
	for _, mp := range mapped {
		row, ok := existing[mp.Key]
		if !ok {
			price, err := catalog.NewProductPrice(mp.Key.ProductID, mp.Key.PriceTypeID, mp.Price)
			if err != nil {
				return nil, fmt.Errorf("prices %s: create %d/%d: %w",
					partition.Code, mp.Key.ProductID, mp.Key.PriceTypeID, err)
			}
			batch = append(batch, price)
			report.Created++
			continue
		}

		current, err := row.Money()
		if err != nil || !current.Equals(mp.Price) {
			row.Reprice(mp.Price)
			batch = append(batch, row)
			report.Updated++
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = j.repo.Transaction(ctx, func(r catalog.ProductPriceRepository) error {
		deleted, err := r.DeleteByPartitionExcept(ctx, partition.Code, keep)
		if err != nil {
			return fmt.Errorf("delete missing: %w", err)
		}
		report.Deleted = int(deleted)
		return r.SaveBatch(ctx, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("prices %s: %w", partition.Code, err)
	}

	report.Duration = time.Since(started)
	j.logger.Info("Prices sync finished", zap.String("report", report.String()))
	return report, nil
}
