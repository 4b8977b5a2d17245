package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefeed-backend/internal/repo"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	"github.com/angelmondragon/storefeed-backend/pkg/enums"
	"github.com/angelmondragon/storefeed-backend/pkg/visibility"
)

// DefaultPriceBandRatio is the relative half-width of the price window used
// by FindPopularPriceMatchedProducts.
const DefaultPriceBandRatio = 0.25

const banInsertBatchSize = 500

// PopularQuery scopes a popularity-ordered candidate query to one viewer.
// Now is the reference time for ban expiry; zero means time.Now().
type PopularQuery struct {
	Viewer visibility.Viewer
	Limit  int
	Now    time.Time
}

// Repository reads product candidates and writes visitor bans.
type Repository struct {
	repo.Base
	priceBand float64
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db), priceBand: DefaultPriceBandRatio}
}

// WithPriceBand overrides the price window ratio.
func (r *Repository) WithPriceBand(ratio float64) *Repository {
	clone := *r
	clone.priceBand = ratio
	return &clone
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx), priceBand: r.priceBand}
}

// FindByID loads the product. A missing product yields (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	return repo.FirstOrNil[models.Product](r.DB(ctx), "id = ?", id)
}

// FindPopularProducts returns active, non-banned products by descending popularity.
func (r *Repository) FindPopularProducts(ctx context.Context, q PopularQuery) ([]models.Product, error) {
	var products []models.Product
	if err := r.popular(ctx, q).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindPopularPriceMatchedProducts restricts FindPopularProducts to prices
// within the configured band around priceBucket.
func (r *Repository) FindPopularPriceMatchedProducts(ctx context.Context, q PopularQuery, priceBucket decimal.Decimal) ([]models.Product, error) {
	band := priceBucket.Mul(decimal.NewFromFloat(r.priceBand))
	low := priceBucket.Sub(band)
	high := priceBucket.Add(band)

	var products []models.Product
	if err := r.popular(ctx, q).
		Where("products.price BETWEEN ? AND ?", low, high).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindPopularProductsByCategories restricts FindPopularProducts to the given
// categories. An empty category list returns no products.
func (r *Repository) FindPopularProductsByCategories(ctx context.Context, q PopularQuery, categoryIDs []int64) ([]models.Product, error) {
	if len(categoryIDs) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.popular(ctx, q).
		Where("products.category_id IN ?", categoryIDs).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// BanProductsForVisitor suppresses the request's products for the viewer.
// An empty id list is a no-op.
func (r *Repository) BanProductsForVisitor(ctx context.Context, req visibility.BanRequest) error {
	if len(req.ProductIDs) == 0 {
		return nil
	}
	if err := req.Validate(); err != nil {
		return err
	}
	rows := req.Rows()
	return r.DB(ctx).CreateInBatches(&rows, banInsertBatchSize).Error
}

func (r *Repository) popular(ctx context.Context, q PopularQuery) *gorm.DB {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	query := r.DB(ctx).
		Model(&models.Product{}).
		Select("products.*").
		Joins("LEFT JOIN product_metrics pm ON pm.product_id = products.id").
		Where("products.status = ?", enums.ProductStatusActive).
		Scopes(visibility.ExcludeBanned(q.Viewer, now, "products.id")).
		Order("COALESCE(pm.popularity_score, 0) DESC").
		Order("products.id ASC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}
