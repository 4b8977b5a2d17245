// Package visibility holds the suppression rules that keep recently served
// products out of a viewer's candidate pools.
package visibility

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
)

// Viewer identifies who a ban applies to. UserID is set only for
// authenticated requests.
type Viewer struct {
	VisitorID string
	UserID    *int64
}

// BanRequest suppresses ProductIDs for the viewer until BanUntil.
type BanRequest struct {
	Viewer
	ProductIDs []int64
	BanUntil   time.Time
}

// Validate requires a visitor id and, when set, a positive user id.
func (v Viewer) Validate() error {
	if strings.TrimSpace(v.VisitorID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	if v.UserID != nil && *v.UserID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	return nil
}

// Validate rejects requests that cannot produce a meaningful ban row.
func (r BanRequest) Validate() error {
	if err := r.Viewer.Validate(); err != nil {
		return err
	}
	if r.BanUntil.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "ban until is required")
	}
	return nil
}

// Rows expands the request into one ban row per distinct product id,
// preserving first-seen order.
func (r BanRequest) Rows() []models.ProductVisitorBan {
	seen := make(map[int64]struct{}, len(r.ProductIDs))
	rows := make([]models.ProductVisitorBan, 0, len(r.ProductIDs))
	for _, id := range r.ProductIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.ProductVisitorBan{
			UserID:    r.UserID,
			VisitorID: r.VisitorID,
			ProductID: id,
			BanUntil:  r.BanUntil.UTC(),
		})
	}
	return rows
}

// ExcludeBanned is a GORM scope dropping products with a live ban for the
// viewer. A ban matches on visitor id, or on user id when authenticated.
// productColumn is the qualified id column of the outer query.
func ExcludeBanned(v Viewer, now time.Time, productColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v.UserID != nil {
			return db.Where(
				"NOT EXISTS (SELECT 1 FROM product_visitor_bans b WHERE b.product_id = "+productColumn+
					" AND b.ban_until > ? AND (b.visitor_id = ? OR b.user_id = ?))",
				now.UTC(), v.VisitorID, *v.UserID,
			)
		}
		return db.Where(
			"NOT EXISTS (SELECT 1 FROM product_visitor_bans b WHERE b.product_id = "+productColumn+
				" AND b.ban_until > ? AND b.visitor_id = ?)",
			now.UTC(), v.VisitorID,
		)
	}
}
