package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/angelmondragon/storefeed-backend/pkg/db/types"
)

// PreferencesProfile holds the learned taste of a user or an anonymous
// visitor. Exactly one of UserID and VisitorID is set.
type PreferencesProfile struct {
	ID                    int64              `gorm:"column:id;primaryKey;autoIncrement"`
	UserID                *int64             `gorm:"column:user_id;uniqueIndex"`
	VisitorID             *string            `gorm:"column:visitor_id;uniqueIndex"`
	TopCategoryIDs        dbtypes.Int64Array `gorm:"column:top_category_ids;not null"`
	PreferredAveragePrice decimal.Decimal    `gorm:"column:preferred_average_price;type:numeric(12,2);not null"`
	UpdatedAt             time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
