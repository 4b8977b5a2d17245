package models

import "time"

// ProductVisitorBan suppresses a product from a visitor's candidate pools
// until BanUntil. Rows are append-only.
type ProductVisitorBan struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    *int64    `gorm:"column:user_id;index"`
	VisitorID string    `gorm:"column:visitor_id;not null;index"`
	ProductID int64     `gorm:"column:product_id;not null;index"`
	BanUntil  time.Time `gorm:"column:ban_until;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
