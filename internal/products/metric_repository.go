package product

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefeed-backend/internal/repo"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
)

// MetricColumn names a counter column that can be incremented.
type MetricColumn string

const (
	MetricViews       MetricColumn = "views_count"
	MetricCartAdds    MetricColumn = "cart_adds_count"
	MetricReviews     MetricColumn = "reviews_count"
	MetricRatingSum   MetricColumn = "rating_sum"
	MetricRatingCount MetricColumn = "rating_count"
)

func (c MetricColumn) valid() bool {
	switch c {
	case MetricViews, MetricCartAdds, MetricReviews, MetricRatingSum, MetricRatingCount:
		return true
	}
	return false
}

// MetricRepository persists product engagement metrics.
type MetricRepository struct {
	repo.Base
}

func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{Base: repo.NewBase(db)}
}

func (r *MetricRepository) WithTx(tx *gorm.DB) *MetricRepository {
	return &MetricRepository{Base: repo.NewBase(tx)}
}

// FindByProducts loads metrics for the given product ids in one query.
// Products without a metric row are simply absent from the result.
func (r *MetricRepository) FindByProducts(ctx context.Context, productIDs []int64) ([]models.ProductMetric, error) {
	if len(productIDs) == 0 {
		return []models.ProductMetric{}, nil
	}
	var metrics []models.ProductMetric
	if err := r.DB(ctx).Where("product_id IN ?", productIDs).Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// FindDirtyForRecalc returns up to limit dirty metrics whose schedule allows a
// recalculation at now, oldest schedule first.
func (r *MetricRepository) FindDirtyForRecalc(ctx context.Context, now time.Time, limit int) ([]models.ProductMetric, error) {
	now = now.UTC()
	var metrics []models.ProductMetric
	query := r.DB(ctx).
		Where("popularity_dirty = ?", true).
		Where(
			"popularity_next_recalc_at IS NULL OR popularity_next_recalc_at < ? OR popularity_last_calculated_at IS NULL OR popularity_last_calculated_at < ?",
			now, now,
		).
		Order("popularity_next_recalc_at ASC").
		Order("product_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// Increment adds one to column, creating the metric row when missing, and
// marks the popularity score dirty.
func (r *MetricRepository) Increment(ctx context.Context, productID int64, column MetricColumn) error {
	if !column.valid() {
		return fmt.Errorf("metric column %q cannot be incremented", column)
	}
	row := models.ProductMetric{ProductID: productID, PopularityDirty: true}
	switch column {
	case MetricViews:
		row.ViewsCount = 1
	case MetricCartAdds:
		row.CartAddsCount = 1
	case MetricReviews:
		row.ReviewsCount = 1
	case MetricRatingSum:
		row.RatingSum = 1
	case MetricRatingCount:
		row.RatingCount = 1
	}
	col := string(column)
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			col:                gorm.Expr("product_metrics." + col + " + 1"),
			"popularity_dirty": true,
		}),
	}).Create(&row).Error
}

// ApplyRecalculation stores the score and schedule computed from metric. The
// counters are never written: the dirty flag is cleared only while the live
// counters still equal the ones metric was scored from, so increments that
// land during a recalculation keep the row dirty.
func (r *MetricRepository) ApplyRecalculation(ctx context.Context, metric models.ProductMetric) error {
	return r.DB(ctx).
		Model(&models.ProductMetric{}).
		Where("product_id = ?", metric.ProductID).
		Updates(map[string]any{
			"popularity_score":              metric.PopularityScore,
			"popularity_last_calculated_at": metric.PopularityLastCalculatedAt,
			"popularity_next_recalc_at":     metric.PopularityNextRecalcAt,
			"popularity_dirty": gorm.Expr(
				"CASE WHEN views_count = ? AND cart_adds_count = ? AND reviews_count = ? AND rating_sum = ? AND rating_count = ? THEN ? ELSE popularity_dirty END",
				metric.ViewsCount, metric.CartAddsCount, metric.ReviewsCount, metric.RatingSum, metric.RatingCount,
				metric.PopularityDirty,
			),
		}).Error
}
