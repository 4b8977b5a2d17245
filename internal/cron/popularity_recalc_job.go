package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	product "github.com/angelmondragon/storefeed-backend/internal/products"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
	"github.com/angelmondragon/storefeed-backend/pkg/metrics"
)

const (
	PopularityRecalcJobName = "popularity-recalc"
	defaultPopularityBatch  = 1000
)

type popularityStore interface {
	FindDirtyForRecalc(ctx context.Context, now time.Time, limit int) ([]models.ProductMetric, error)
	ApplyRecalculation(ctx context.Context, metric models.ProductMetric) error
}

type PopularityRecalcJobParams struct {
	Logger     *logger.Logger
	Metrics    popularityStore
	JobMetrics *metrics.CronJobMetrics
	BatchSize  int
	Interval   time.Duration
	Now        func() time.Time
}

type popularityRecalcJob struct {
	logg       *logger.Logger
	metrics    popularityStore
	jobMetrics *metrics.CronJobMetrics
	batchSize  int
	interval   time.Duration
	now        func() time.Time
}

// NewPopularityRecalcJob builds the job that refreshes popularity scores of
// metric rows marked dirty by engagement events.
func NewPopularityRecalcJob(params PopularityRecalcJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Metrics == nil {
		return nil, fmt.Errorf("metric repository required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultPopularityBatch
	}
	interval := params.Interval
	if interval <= 0 {
		interval = product.DefaultRecalcInterval
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &popularityRecalcJob{
		logg:       params.Logger,
		metrics:    params.Metrics,
		jobMetrics: params.JobMetrics,
		batchSize:  batch,
		interval:   interval,
		now:        now,
	}, nil
}

func (j *popularityRecalcJob) Name() string { return PopularityRecalcJobName }

func (j *popularityRecalcJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	rows, err := j.metrics.FindDirtyForRecalc(ctx, now, j.batchSize)
	if err != nil {
		return fmt.Errorf("load dirty metrics: %w", err)
	}

	var errs error
	updated := 0
	for _, row := range rows {
		next := product.Recalculated(row, now, j.interval)
		if err := j.metrics.ApplyRecalculation(ctx, next); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %d: %w", row.ProductID, err))
			continue
		}
		updated++
	}

	j.jobMetrics.AddProcessed(PopularityRecalcJobName, updated)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates": len(rows),
		"updated":    updated,
	})
	j.logg.Info(logCtx, "popularity.recalculated")
	return errs
}
