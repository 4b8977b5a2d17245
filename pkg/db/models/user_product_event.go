package models

import (
	"time"

	"github.com/angelmondragon/storefeed-backend/pkg/enums"
)

type UserProductEvent struct {
	ID         int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     *int64                 `gorm:"column:user_id"`
	VisitorID  string                 `gorm:"column:visitor_id;not null"`
	ProductID  int64                  `gorm:"column:product_id;not null;index"`
	CategoryID int64                  `gorm:"column:category_id;not null"`
	EventType  enums.ProductEventType `gorm:"column:event_type;not null"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
