package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/arto/mercator-backend/pkg/db/models"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProcessedCheckout{}))
	return db
}

func TestHasAndRecord(t *testing.T) {
	svc, err := NewService(setupLedgerTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	has, err := svc.Has(ctx, "cs_test_123")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, svc.Record(ctx, Entry{
		SessionID:       "cs_test_123",
		EventID:         "evt_1",
		PrintfulOrderID: "42",
	}))

	has, err = svc.Has(ctx, "cs_test_123")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRecordIsIdempotent(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	first := Entry{
		SessionID:       "cs_test_dup",
		EventID:         "evt_1",
		PrintfulOrderID: "42",
		ProcessedAt:     time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.Record(ctx, first))

	// A replayed commit keeps the original row intact.
	require.NoError(t, svc.Record(ctx, Entry{
		SessionID:       "cs_test_dup",
		EventID:         "evt_2",
		PrintfulOrderID: "99",
	}))

	var rows []models.ProcessedCheckout
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "evt_1", rows[0].EventID)
	assert.Equal(t, "42", rows[0].PrintfulOrderID)
}

func TestLedgerValidatesSessionID(t *testing.T) {
	svc, err := NewService(setupLedgerTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Has(ctx, "  ")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	err = svc.Record(ctx, Entry{})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
