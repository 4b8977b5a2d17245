package preferences

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefeed-backend/internal/repo"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
)

// Repository reads preference profiles. Profiles are written by the
// engagement pipeline; the feed only reads them.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByUserID returns the user's profile or (nil, nil).
func (r *Repository) FindByUserID(ctx context.Context, userID int64) (*models.PreferencesProfile, error) {
	return r.first(ctx, "user_id = ?", userID)
}

// FindByVisitorID returns the anonymous visitor's profile or (nil, nil).
func (r *Repository) FindByVisitorID(ctx context.Context, visitorID string) (*models.PreferencesProfile, error) {
	return r.first(ctx, "visitor_id = ?", visitorID)
}

func (r *Repository) first(ctx context.Context, where string, arg any) (*models.PreferencesProfile, error) {
	return repo.FirstOrNil[models.PreferencesProfile](r.DB(ctx).Where(where, arg))
}
