package events

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefeed-backend/internal/repo"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
)

// Repository appends engagement events.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) Create(ctx context.Context, event *models.UserProductEvent) error {
	return r.DB(ctx).Create(event).Error
}
