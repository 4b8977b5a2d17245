package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefeed-backend/pkg/enums"
)

// Product represents a seller listing. Only active products reach the feed.
type Product struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	SellerID    int64               `gorm:"column:seller_id;not null"`
	CategoryID  int64               `gorm:"column:category_id;not null;index"`
	Name        string              `gorm:"column:name;not null"`
	Description string              `gorm:"column:description;not null"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Slug        string              `gorm:"column:slug;not null"`
	Status      enums.ProductStatus `gorm:"column:status;not null;default:draft"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
