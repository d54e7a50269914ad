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

// PriceTypesJob mirrors the ERP price type feed. Price types are
// append-only reference data: the job creates and renames but never
// deletes, so stored prices keep a valid reference.
type PriceTypesJob struct {
	gateway erp.Gateway
	mapper  *Mapper
	repo    catalog.PriceTypeRepository
	logger  *zap.Logger
}

// NewPriceTypesJob creates a new price types reconciliation job
func NewPriceTypesJob(gateway erp.Gateway, mapper *Mapper, repo catalog.PriceTypeRepository, logger *zap.Logger) *PriceTypesJob {
	return &PriceTypesJob{gateway: gateway, mapper: mapper, repo: repo, logger: logger}
}

// Run fetches the full price type set and reconciles the local mirror
func (j *PriceTypesJob) Run(ctx context.Context) (*RunReport, error) {
	started := time.Now()
	report := &RunReport{Job: JobPriceTypes}

	rows, err := j.gateway.GetPriceTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("price types: fetch: %w", err)
	}
	rows = j.mapper.MapPriceTypes(rows)
	report.Fetched = len(rows)

	if len(rows) == 0 {
		j.logger.Info("Price types feed is empty, leaving local data untouched")
		report.Duration = time.Since(started)
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := make([]*catalog.PriceType, 0, len(rows))
	for _, row := range rows {
		existing, err := j.repo.FindByID(ctx, row.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			priceType, err := catalog.NewPriceType(row.ID, row.Name)
			if err != nil {
				return nil, fmt.Errorf("price types: create %d: %w", row.ID, err)
			}
			batch = append(batch, priceType)
			report.Created++
		case err != nil:
			return nil, fmt.Errorf("price types: load %d: %w", row.ID, err)
		case existing.Name != row.Name:
			if err := existing.Rename(row.Name); err != nil {
				return nil, fmt.Errorf("price types: rename %d: %w", row.ID, err)
			}
			batch = append(batch, existing)
			report.Updated++
		}
	}

	if err := j.repo.SaveBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("price types: save: %w", err)
	}

	report.Duration = time.Since(started)
	j.logger.Info("Price types sync finished", zap.String("report", report.String()))
	return report, nil
}
