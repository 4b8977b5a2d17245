package feed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
)

// MetricSnapshot is the subset of product metrics carried inside the cache.
type MetricSnapshot struct {
	PopularityScore float64 `json:"popularityScore"`
	ReviewsCount    int64   `json:"reviewsCount"`
	RatingSum       int64   `json:"ratingSum"`
	RatingCount     int64   `json:"ratingCount"`
}

func (m MetricSnapshot) AverageRating() float64 {
	if m.RatingCount == 0 {
		return 0
	}
	return float64(m.RatingSum) / float64(m.RatingCount)
}

// Candidate is a scored product snapshot. A cached list of candidates is the
// pagination state of a visitor's feed.
type Candidate struct {
	ID          int64           `json:"id"`
	SellerID    int64           `json:"sellerId"`
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
	Metric      *MetricSnapshot `json:"metric,omitempty"`
	Score       float64         `json:"score"`
}

// FeedItem is the public projection of a candidate.
type FeedItem struct {
	ID           int64           `json:"id"`
	SellerID     int64           `json:"sellerId"`
	CategoryID   int64           `json:"categoryId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	RatingAvg    *float64        `json:"ratingAvg"`
	ReviewsCount int64           `json:"reviewsCount"`
}

func newCandidate(p models.Product, m *models.ProductMetric) Candidate {
	c := Candidate{
		ID:          p.ID,
		SellerID:    p.SellerID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
	if m != nil {
		c.Metric = &MetricSnapshot{
			PopularityScore: m.PopularityScore,
			ReviewsCount:    m.ReviewsCount,
			RatingSum:       m.RatingSum,
			RatingCount:     m.RatingCount,
		}
	}
	return c
}

func (c Candidate) toFeedItem() FeedItem {
	item := FeedItem{
		ID:          c.ID,
		SellerID:    c.SellerID,
		CategoryID:  c.CategoryID,
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
	}
	if c.Metric != nil {
		avg := c.Metric.AverageRating()
		item.RatingAvg = &avg
		item.ReviewsCount = c.Metric.ReviewsCount
	}
	return item
}
