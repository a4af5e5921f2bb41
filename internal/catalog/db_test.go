package catalog

import (
	"testing"

	"github.com/arto/mercator-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Map{}, &models.Chapter{}))
	return db
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupCatalogTestDB(t)))
	require.NoError(t, err)
	return svc
}
