package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/catalog/backend/internal/application/sync"
	"github.com/catalog/backend/internal/infrastructure/config"
	"github.com/catalog/backend/internal/infrastructure/logger"
	"github.com/catalog/backend/internal/infrastructure/metrics"
	"github.com/catalog/backend/internal/infrastructure/onec"
	"github.com/catalog/backend/internal/infrastructure/persistence"
	"github.com/catalog/backend/internal/infrastructure/scheduler"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewFromSettings(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting catalog sync daemon",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Int("partitions", len(cfg.Sync.Partitions)),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	gateway, err := onec.NewClient(onec.Config{
		Endpoint:       cfg.OneC.Endpoint,
		Username:       cfg.OneC.Username,
		Password:       cfg.OneC.Password,
		TimeoutSeconds: cfg.OneC.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("Failed to create ERP client", zap.Error(err))
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

	partitions := make([]sync.Partition, 0, len(cfg.Sync.Partitions))
	for _, p := range cfg.Sync.Partitions {
		partitions = append(partitions, sync.Partition{
			Code:           p.Code,
			RootID:         p.RootID,
			RootCategoryID: p.RootCategoryID,
			RootName:       p.RootName,
		})
	}
	fullSync := sync.NewFullSync(priceTypesJob, categoriesJob, detailsJob, stocksJob, pricesJob, partitions, log)

	runLock := newRunLock(cfg, log)
	sched := scheduler.New(runLock, log)

	if cfg.Scheduler.Enabled {
		// The heavyweight schedule refreshes everything; the two light
		// schedules only touch stocks and prices between full runs.
		mustRegister(log, sched, sync.JobFull, cfg.Scheduler.ProductDetailsCron, cfg.Scheduler.ProductDetailsTTL,
			func(ctx context.Context) error {
				reports, err := fullSync.Run(ctx)
				record(reports)
				return err
			})
		mustRegister(log, sched, sync.JobStocks, cfg.Scheduler.StocksCron, cfg.Scheduler.StocksTTL,
			perPartition(partitions, stocksJob.Run))
		mustRegister(log, sched, sync.JobPrices, cfg.Scheduler.PricesCron, cfg.Scheduler.PricesTTL,
			perPartition(partitions, pricesJob.Run))

		sched.Start()
	} else {
		log.Warn("Scheduler disabled, daemon only serves metrics")
	}

	metricsServer := &http.Server{
		Addr:         ":" + cfg.Metrics.Port,
		Handler:      newMux(db),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Metrics listening", zap.String("port", cfg.Metrics.Port))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown failed", zap.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler did not stop cleanly", zap.Error(err))
	}
	log.Info("Stopped")
}

// newRunLock prefers the distributed Redis lease and falls back to the
// in-process lock when Redis is unreachable
func newRunLock(cfg *config.Config, log *zap.Logger) scheduler.RunLock {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, falling back to in-process run lock. "+
			"Concurrent instances may run the same job twice.",
			zap.Error(err),
		)
		return scheduler.NewInMemoryRunLock()
	}

	log.Info("Using Redis run lock", zap.String("addr", cfg.Redis.Addr()))
	return scheduler.NewRedisRunLock(client)
}

func mustRegister(log *zap.Logger, sched *scheduler.Scheduler, name, spec string, ttl time.Duration, run scheduler.JobFunc) {
	if err := sched.Register(name, spec, ttl, run); err != nil {
		log.Fatal("Failed to register job", zap.String("job", name), zap.Error(err))
	}
}

// perPartition runs one partition-scoped job over every configured
// partition, stopping at the first failure
func perPartition(partitions []sync.Partition, run func(context.Context, sync.Partition) (*sync.RunReport, error)) scheduler.JobFunc {
	return func(ctx context.Context) error {
		for _, partition := range partitions {
			report, err := run(ctx, partition)
			if err != nil {
				return err
			}
			metrics.RecordRows(report.Job, report.Partition, report.Created, report.Updated, report.Deleted)
		}
		return nil
	}
}

func record(reports []sync.RunReport) {
	for _, r := range reports {
		metrics.RecordRows(r.Job, r.Partition, r.Created, r.Updated, r.Deleted)
	}
}

func newMux(db *persistence.Database) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
