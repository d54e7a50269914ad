package sync

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FullSync composes the entity jobs in a fixed, sequential order:
// price types first, then per phase across all partitions: categories,
// product details, stocks, prices. The ordering encodes two
// dependencies: price types must exist before price rows reference
// them, and a partition's categories must exist before its products
// can resolve their category id. The first error aborts the whole run.
type FullSync struct {
	priceTypes     *PriceTypesJob
	categories     *CategoriesJob
	productDetails *ProductDetailsJob
	stocks         *StocksJob
	prices         *PricesJob
	partitions     []Partition
	logger         *zap.Logger
}

// NewFullSync creates the full sync orchestrator over the configured partitions
func NewFullSync(
	priceTypes *PriceTypesJob,
	categories *CategoriesJob,
	productDetails *ProductDetailsJob,
	stocks *StocksJob,
	prices *PricesJob,
	partitions []Partition,
	logger *zap.Logger,
) *FullSync {
	return &FullSync{
		priceTypes:     priceTypes,
		categories:     categories,
		productDetails: productDetails,
		stocks:         stocks,
		prices:         prices,
		partitions:     partitions,
		logger:         logger,
	}
}

// Run executes all entity jobs in dependency order
func (f *FullSync) Run(ctx context.Context) ([]RunReport, error) {
	started := time.Now()
	reports := make([]RunReport, 0, 1+4*len(f.partitions))

	report, err := f.priceTypes.Run(ctx)
	if err != nil {
		return reports, err
	}
	reports = append(reports, *report)

	// The category index of each partition is carried into the product
	// details phase, pinning both phases to the same category feed.
	indexes := make(map[string]*CategoryIndex, len(f.partitions))
	for _, partition := range f.partitions {
		report, index, err := f.categories.RunAndIndex(ctx, partition)
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
		indexes[partition.Code] = index
	}

	for _, partition := range f.partitions {
		report, err := f.productDetails.RunWithIndex(ctx, partition, indexes[partition.Code])
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
	}

	phases := []func(context.Context, Partition) (*RunReport, error){
		f.stocks.Run,
		f.prices.Run,
	}
	for _, run := range phases {
		for _, partition := range f.partitions {
			report, err := run(ctx, partition)
			if err != nil {
				return reports, err
			}
			reports = append(reports, *report)
		}
	}

	f.logger.Info("Full sync finished",
		zap.Int("jobs", len(reports)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return reports, nil
}
