package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Base carries the GORM handle shared by every domain repository. A Base
// built from a transaction handle scopes all of its queries to that
// transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx; a nil ctx returns it unbound.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// FirstOrNil runs First on query and maps gorm.ErrRecordNotFound to
// (nil, nil), the lookup contract of every repository here.
func FirstOrNil[T any](query *gorm.DB, conds ...any) (*T, error) {
	var row T
	if err := query.First(&row, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
