package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/catalog/backend/internal/application/sync"
	"github.com/catalog/backend/internal/infrastructure/config"
	"github.com/catalog/backend/internal/infrastructure/logger"
	"github.com/catalog/backend/internal/infrastructure/metrics"
	"github.com/catalog/backend/internal/infrastructure/onec"
	"github.com/catalog/backend/internal/infrastructure/persistence"
)

// Exit codes: 0 success, 1 job failure, 2 bad invocation
const (
	exitFailure  = 1
	exitBadInput = 2
)

func main() {
	jobName := flag.String("job", "", "job to run: full, pricetypes, category, productdetails, stocks, prices")
	rootID := flag.String("rootId", "", "partition code (required for category, productdetails, stocks, prices)")
	flag.Parse()

	// A bad invocation must fail with usage before any wiring happens,
	// independent of config or database availability.
	if err := validateInvocation(*jobName, *rootID); err != nil {
		usage(err.Error())
	}

	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitFailure)
	}

	log, err := logger.NewFromSettings(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(exitFailure)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(cfg, log, *jobName, *rootID); err != nil {
		log.Error("Job failed", zap.String("job", *jobName), zap.Error(err))
		os.Exit(exitFailure)
	}
}

func run(cfg *config.Config, log *zap.Logger, jobName, rootID string) error {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	gateway, err := onec.NewClient(onec.Config{
		Endpoint:       cfg.OneC.Endpoint,
		Username:       cfg.OneC.Username,
		Password:       cfg.OneC.Password,
		TimeoutSeconds: cfg.OneC.TimeoutSeconds,
	}, log)
	if err != nil {
		return err
	}

	mapper := sync.NewMapper(log)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	priceTypeRepo := persistence.NewGormPriceTypeRepository(db.DB)
	priceRepo := persistence.NewGormProductPriceRepository(db.DB)

	priceTypesJob := sync.NewPriceTypesJob(gateway, mapper, priceTypeRepo, log)
	categoriesJob := sync.NewCategoriesJob(gateway, mapper, categoryRepo, log)
	detailsJob := sync.NewProductDetailsJob(gateway, mapper, productRepo, log)
	stocksJob := sync.NewStocksJob(gateway, mapper, productRepo, log)
	pricesJob := sync.NewPricesJob(gateway, mapper, priceRepo, log)

	ctx, log := logger.WithRun(context.Background(), log, jobName)

	switch jobName {
	case sync.JobFull:
		full := sync.NewFullSync(priceTypesJob, categoriesJob, detailsJob, stocksJob, pricesJob,
			partitions(cfg.Sync.Partitions), log)
		reports, err := full.Run(ctx)
		record(reports)
		return err

	case sync.JobPriceTypes:
		report, err := priceTypesJob.Run(ctx)
		return recordOne(report, err)

	case sync.JobCategories:
		partition, err := partitionFor(cfg, rootID)
		if err != nil {
			return err
		}
		report, err := categoriesJob.Run(ctx, partition)
		return recordOne(report, err)

	case sync.JobProductDetails:
		partition, err := partitionFor(cfg, rootID)
		if err != nil {
			return err
		}
		report, err := detailsJob.Run(ctx, partition)
		return recordOne(report, err)

	case sync.JobStocks:
		partition, err := partitionFor(cfg, rootID)
		if err != nil {
			return err
		}
		report, err := stocksJob.Run(ctx, partition)
		return recordOne(report, err)

	case sync.JobPrices:
		partition, err := partitionFor(cfg, rootID)
		if err != nil {
			return err
		}
		report, err := pricesJob.Run(ctx, partition)
		return recordOne(report, err)

	default:
		return fmt.Errorf("unknown job %q", jobName)
	}
}

// validateInvocation checks the flag combination: the job name must be
// known and the partition-scoped jobs need a rootId
func validateInvocation(jobName, rootID string) error {
	switch jobName {
	case "":
		return errors.New("missing --job")
	case sync.JobFull, sync.JobPriceTypes:
		return nil
	case sync.JobCategories, sync.JobProductDetails, sync.JobStocks, sync.JobPrices:
		if rootID == "" {
			return errors.New("missing --rootId")
		}
		return nil
	default:
		return fmt.Errorf("unknown job %q", jobName)
	}
}

func partitionFor(cfg *config.Config, rootID string) (sync.Partition, error) {
	p, err := cfg.Sync.Partition(rootID)
	if err != nil {
		usage(err.Error())
	}
	return toPartition(p), nil
}

func partitions(configured []config.PartitionConfig) []sync.Partition {
	result := make([]sync.Partition, 0, len(configured))
	for _, p := range configured {
		result = append(result, toPartition(p))
	}
	return result
}

func toPartition(p config.PartitionConfig) sync.Partition {
	return sync.Partition{
		Code:           p.Code,
		RootID:         p.RootID,
		RootCategoryID: p.RootCategoryID,
		RootName:       p.RootName,
	}
}

func record(reports []sync.RunReport) {
	for _, r := range reports {
		metrics.RecordRows(r.Job, r.Partition, r.Created, r.Updated, r.Deleted)
		metrics.RecordRun(r.Job, r.Partition, "success", r.Duration)
	}
}

func recordOne(report *sync.RunReport, err error) error {
	if err != nil {
		return err
	}
	metrics.RecordRows(report.Job, report.Partition, report.Created, report.Updated, report.Deleted)
	metrics.RecordRun(report.Job, report.Partition, "success", report.Duration)
	return nil
}

func usage(reason string) {
	fmt.Fprintf(os.Stderr, "error: %s\n\n", reason)
	fmt.Fprintln(os.Stderr, "usage: jobs --job=<full|pricetypes|category|productdetails|stocks|prices> [--rootId=<partition code>]")
	fmt.Fprintln(os.Stderr, "  --rootId is required for all jobs except full and pricetypes")
	os.Exit(exitBadInput)
}
