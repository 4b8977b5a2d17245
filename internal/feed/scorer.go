package feed

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
)

const (
	categoryWeight     = 0.5
	priceWeight        = 0.2
	personalizedWeight = 0.4
	freshnessDecayDays = 30.0
)

// Preferences is the scorer's view of a preference profile.
type Preferences struct {
	TopCategoryIDs        []int64
	PreferredAveragePrice float64
}

func preferencesFromProfile(p *models.PreferencesProfile) *Preferences {
	if p == nil {
		return nil
	}
	return &Preferences{
		TopCategoryIDs:        append([]int64(nil), p.TopCategoryIDs...),
		PreferredAveragePrice: p.PreferredAveragePrice.InexactFloat64(),
	}
}

// CategoryScore walks TopCategoryIDs from the end; the 1-based position of
// the first match in that reversed walk, times 0.5, is the score. Absent
// categories score 0.
func (p Preferences) CategoryScore(categoryID int64) float64 {
	for i := len(p.TopCategoryIDs) - 1; i >= 0; i-- {
		if p.TopCategoryIDs[i] == categoryID {
			return float64(len(p.TopCategoryIDs)-i) * 0.5
		}
	}
	return 0
}

// PriceScore is exp(-|price-preferred|/preferred), 1 at the preferred price.
// A zero preferred price carries no signal and scores 0.
func (p Preferences) PriceScore(price float64) float64 {
	if p.PreferredAveragePrice <= 0 {
		return 0
	}
	return math.Exp(-math.Abs(price-p.PreferredAveragePrice) / p.PreferredAveragePrice)
}

// Scorer ranks candidates. now is injectable for deterministic freshness.
type Scorer struct {
	now func() time.Time
}

func NewScorer(now func() time.Time) Scorer {
	if now == nil {
		now = time.Now
	}
	return Scorer{now: now}
}

// Freshness decays with whole days since creation: exp(-floor(days)/30).
func (s Scorer) Freshness(createdAt time.Time) float64 {
	days := math.Floor(s.now().Sub(createdAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return math.Exp(-days / freshnessDecayDays)
}

// Personalized blends category and price affinity; nil preferences score 0.
func (s Scorer) Personalized(c Candidate, prefs *Preferences) float64 {
	if prefs == nil {
		return 0
	}
	price := priceFloat(c.Price)
	return (prefs.CategoryScore(c.CategoryID)*categoryWeight + prefs.PriceScore(price)*priceWeight) * personalizedWeight
}

func (s Scorer) Score(c Candidate, prefs *Preferences) float64 {
	popularity := 0.0
	if c.Metric != nil {
		popularity = c.Metric.PopularityScore
	}
	return popularity + s.Personalized(c, prefs) + s.Freshness(c.CreatedAt)
}

// Rank scores every candidate and sorts by descending score. Ties keep their
// input order.
func (s Scorer) Rank(candidates []Candidate, prefs *Preferences) []Candidate {
	ranked := make([]Candidate, len(candidates))
	for i, c := range candidates {
		c.Score = s.Score(c, prefs)
		ranked[i] = c
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func priceFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
