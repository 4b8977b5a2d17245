package models

import "time"

// ProductMetric aggregates engagement counters and the cached popularity
// score for a single product.
type ProductMetric struct {
	ProductID                  int64      `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	ViewsCount                 int64      `gorm:"column:views_count;not null;default:0"`
	CartAddsCount              int64      `gorm:"column:cart_adds_count;not null;default:0"`
	ReviewsCount               int64      `gorm:"column:reviews_count;not null;default:0"`
	RatingSum                  int64      `gorm:"column:rating_sum;not null;default:0"`
	RatingCount                int64      `gorm:"column:rating_count;not null;default:0"`
	PopularityScore            float64    `gorm:"column:popularity_score;not null;default:0"`
	PopularityDirty            bool       `gorm:"column:popularity_dirty;not null;default:true"`
	PopularityLastCalculatedAt *time.Time `gorm:"column:popularity_last_calculated_at"`
	PopularityNextRecalcAt     *time.Time `gorm:"column:popularity_next_recalc_at"`
}

// AverageRating returns rating_sum / rating_count, or 0 without ratings.
func (m ProductMetric) AverageRating() float64 {
	if m.RatingCount == 0 {
		return 0
	}
	return float64(m.RatingSum) / float64(m.RatingCount)
}
