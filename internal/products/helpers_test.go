package product

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	"github.com/angelmondragon/storefeed-backend/pkg/enums"
)

var testModels = []any{
	&models.Product{},
	&models.ProductMetric{},
	&models.ProductVisitorBan{},
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.Migrator().DropTable(testModels...); err != nil {
		t.Fatalf("failed to reset sqlite: %v", err)
	}
	if err := conn.AutoMigrate(testModels...); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

type productSeed struct {
	categoryID int64
	price      string
	status     enums.ProductStatus
	popularity *float64
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, seed productSeed) *models.Product {
	t.Helper()
	status := seed.status
	if status == "" {
		status = enums.ProductStatusActive
	}
	price := seed.price
	if price == "" {
		price = "10.00"
	}
	product := &models.Product{
		SellerID:    1,
		CategoryID:  seed.categoryID,
		Name:        "Test Product",
		Description: "desc",
		Price:       decimal.RequireFromString(price),
		Slug:        fmt.Sprintf("test-product-%d", time.Now().UnixNano()),
		Status:      status,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if seed.popularity != nil {
		metric := &models.ProductMetric{
			ProductID:       product.ID,
			PopularityScore: *seed.popularity,
			PopularityDirty: true,
		}
		if err := tx.Create(metric).Error; err != nil {
			t.Fatalf("create metric: %v", err)
		}
	}
	return product
}

func floatPtr(v float64) *float64 {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func ids(products []models.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
