package preferences

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/storefeed-backend/pkg/db/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:preferences_repo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Migrator().DropTable(&models.PreferencesProfile{}))
	require.NoError(t, conn.AutoMigrate(&models.PreferencesProfile{}))
	return conn
}

func TestFindByUserAndVisitor(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := int64(5)
	visitorID := "4a1f6f40-5b5d-4f0c-9e4b-0d7d8d0b2a11"
	require.NoError(t, db.Create(&models.PreferencesProfile{
		UserID:                &userID,
		TopCategoryIDs:        dbtypes.Int64Array{3, 1, 2},
		PreferredAveragePrice: decimal.RequireFromString("19.99"),
	}).Error)
	require.NoError(t, db.Create(&models.PreferencesProfile{
		VisitorID:             &visitorID,
		TopCategoryIDs:        dbtypes.Int64Array{},
		PreferredAveragePrice: decimal.Zero,
	}).Error)

	byUser, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, byUser)
	require.Equal(t, []int64{3, 1, 2}, []int64(byUser.TopCategoryIDs))
	require.True(t, byUser.PreferredAveragePrice.Equal(decimal.RequireFromString("19.99")))

	byVisitor, err := repo.FindByVisitorID(ctx, visitorID)
	require.NoError(t, err)
	require.NotNil(t, byVisitor)
	require.Empty(t, byVisitor.TopCategoryIDs)

	none, err := repo.FindByUserID(ctx, 999)
	require.NoError(t, err)
	require.Nil(t, none)

	none, err = repo.FindByVisitorID(ctx, "unknown")
	require.NoError(t, err)
	require.Nil(t, none)
}
