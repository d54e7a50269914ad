package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/erp"
)

// StocksJob is the narrow, higher-frequency stock sync: it loads only the
// matching local products and mutates the single stock field, leaving
// every other attribute to the full detail sync.
type StocksJob struct {
	gateway erp.Gateway
	mapper  *Mapper
	repo    catalog.ProductRepository
	logger  *zap.Logger
}

// NewStocksJob creates a new stock reconciliation job
func NewStocksJob(gateway erp.Gateway, mapper *Mapper, repo catalog.ProductRepository, logger *zap.Logger) *StocksJob {
	return &StocksJob{gateway: gateway, mapper: mapper, repo: repo, logger: logger}
}

// Run updates stock quantities for one partition
func (j *StocksJob) Run(ctx context.Context, partition Partition) (*RunReport, error) {
	started := time.Now()
	report := &RunReport{Job: JobStocks, Partition: partition.Code}

	rows, err := j.gateway.GetProductStocks(ctx, partition.RootID)
	if err != nil {
		return nil, fmt.Errorf("stocks %s: fetch: %w", partition.Code, err)
	}
	rows = j.mapper.MapStocks(rows)
	report.Fetched = len(rows)

	if len(rows) == 0 {
		j.logger.Info("Stocks feed is empty, leaving local data untouched",
			zap.String("partition", partition.Code))
		report.Duration = time.Since(started)
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quantities := make(map[int64]int, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		quantities[row.ProductID] = row.Quantity
		ids = append(ids, row.ProductID)
	}

	products, err := j.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("stocks %s: load products: %w", partition.Code, err)
	}
	if missing := len(ids) - len(products); missing > 0 {
		// Unknown products are created by the detail sync, not here
		j.logger.Debug("Stock rows without a matching local product",
			zap.String("partition", partition.Code),
			zap.Int("count", missing),
		)
	}

	batch := make([]*catalog.Product, 0, len(products))
	for i := range products {
		product := &products[i]
		quantity := quantities[product.ID]
		if product.Stock == quantity {
			continue
		}
		if err := product.SetStock(quantity); err != nil {
			return nil, fmt.Errorf("stocks %s: product %d: %w", partition.Code, product.ID, err)
		}
		batch = append(batch, product)
		report.Updated++
	}

	if err := j.repo.SaveBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("stocks %s: save: %w", partition.Code, err)
	}

	report.Duration = time.Since(started)
	j.logger.Info("Stocks sync finished", zap.String("report", report.String()))
	return report, nil
}
