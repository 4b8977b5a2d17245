package product

import (
	"math"
	"time"

	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
)

// DefaultRecalcInterval is how long a freshly computed score stays current.
const DefaultRecalcInterval = 10 * time.Minute

// PopularityScore blends rating and engagement:
// 0.4*avgRating + 0.2*ln(reviews+1) + 0.2*ln(cartAdds+1) + 0.2*ln(views+1).
func PopularityScore(m models.ProductMetric) float64 {
	return 0.4*m.AverageRating() +
		0.2*math.Log(float64(m.ReviewsCount)+1) +
		0.2*math.Log(float64(m.CartAddsCount)+1) +
		0.2*math.Log(float64(m.ViewsCount)+1)
}

// Recalculated returns a copy of m with a fresh score, the dirty flag cleared
// and the schedule advanced from now.
func Recalculated(m models.ProductMetric, now time.Time, interval time.Duration) models.ProductMetric {
	if interval <= 0 {
		interval = DefaultRecalcInterval
	}
	last := now.UTC()
	next := last.Add(interval)
	m.PopularityScore = PopularityScore(m)
	m.PopularityDirty = false
	m.PopularityLastCalculatedAt = &last
	m.PopularityNextRecalcAt = &next
	return m
}
