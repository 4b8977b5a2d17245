package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefeed-backend/internal/repo"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
)

// Repository exposes user lookups.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindByID retrieves the user with the given id, or (nil, nil) if none exists.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return repo.FirstOrNil[models.User](r.DB(ctx), "id = ?", id)
}
