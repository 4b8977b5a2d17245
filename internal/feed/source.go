package feed

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/storefeed-backend/internal/products"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
)

// ProductStore is the read side of the product catalog used to build pools.
type ProductStore interface {
	FindPopularProducts(ctx context.Context, q product.PopularQuery) ([]models.Product, error)
	FindPopularPriceMatchedProducts(ctx context.Context, q product.PopularQuery, priceBucket decimal.Decimal) ([]models.Product, error)
	FindPopularProductsByCategories(ctx context.Context, q product.PopularQuery, categoryIDs []int64) ([]models.Product, error)
}

// MetricStore loads metric rows for a set of products.
type MetricStore interface {
	FindByProducts(ctx context.Context, productIDs []int64) ([]models.ProductMetric, error)
}

// BatchSizes bounds each candidate pool.
type BatchSizes struct {
	Total    int
	Popular  int
	Price    int
	Category int
}

// DefaultBatchSizes matches the production pool mix.
var DefaultBatchSizes = BatchSizes{Total: 500, Popular: 100, Price: 150, Category: 250}

func (b BatchSizes) withDefaults() BatchSizes {
	if b.Total <= 0 {
		b.Total = DefaultBatchSizes.Total
	}
	if b.Popular <= 0 {
		b.Popular = DefaultBatchSizes.Popular
	}
	if b.Price <= 0 {
		b.Price = DefaultBatchSizes.Price
	}
	if b.Category <= 0 {
		b.Category = DefaultBatchSizes.Category
	}
	return b
}

type candidateSource struct {
	products ProductStore
	metrics  MetricStore
	batches  BatchSizes
}

// fetch builds the deduplicated candidate pool. Personalized pools are only
// queried for authenticated visitors with a profile; everyone else gets the
// global popular pool.
func (s candidateSource) fetch(ctx context.Context, v Visitor, profile *models.PreferencesProfile, now time.Time) ([]models.Product, error) {
	if profile == nil || !v.IsAuthenticated() {
		return s.products.FindPopularProducts(ctx, product.PopularQuery{Viewer: v.viewer(), Limit: s.batches.Total, Now: now})
	}

	var popular, priceMatched, byCategory []models.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		popular, err = s.products.FindPopularProducts(gctx, product.PopularQuery{Viewer: v.viewer(), Limit: s.batches.Popular, Now: now})
		return err
	})
	g.Go(func() error {
		var err error
		priceMatched, err = s.products.FindPopularPriceMatchedProducts(gctx, product.PopularQuery{Viewer: v.viewer(), Limit: s.batches.Price, Now: now}, profile.PreferredAveragePrice)
		return err
	})
	g.Go(func() error {
		var err error
		byCategory, err = s.products.FindPopularProductsByCategories(gctx, product.PopularQuery{Viewer: v.viewer(), Limit: s.batches.Category, Now: now}, profile.TopCategoryIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]models.Product, 0, len(popular)+len(priceMatched)+len(byCategory))
	merged = append(merged, popular...)
	merged = append(merged, priceMatched...)
	merged = append(merged, byCategory...)
	return dedupProducts(merged), nil
}

// withMetrics pairs every product with its metric row, if one exists.
func (s candidateSource) withMetrics(ctx context.Context, items []models.Product) ([]Candidate, error) {
	if len(items) == 0 {
		return []Candidate{}, nil
	}
	rows, err := s.metrics.FindByProducts(ctx, productIDs(items))
	if err != nil {
		return nil, err
	}
	byProduct := make(map[int64]*models.ProductMetric, len(rows))
	for i := range rows {
		byProduct[rows[i].ProductID] = &rows[i]
	}
	out := make([]Candidate, 0, len(items))
	for _, p := range items {
		out = append(out, newCandidate(p, byProduct[p.ID]))
	}
	return out, nil
}

// dedupProducts keeps the first occurrence of every id.
func dedupProducts(items []models.Product) []models.Product {
	seen := make(map[int64]struct{}, len(items))
	out := make([]models.Product, 0, len(items))
	for _, p := range items {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func productIDs(items []models.Product) []int64 {
	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}
