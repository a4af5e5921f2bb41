package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arto/mercator-backend/pkg/db/models"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one committed checkout: the proof a fulfillment order was placed.
type Entry struct {
	SessionID       string
	EventID         string
	PrintfulOrderID string
	ProcessedAt     time.Time
}

// Service is the idempotency ledger consulted by the webhook pipeline.
// Record must be safe under at-least-once delivery of the commit itself.
type Service interface {
	Has(ctx context.Context, sessionID string) (bool, error)
	Record(ctx context.Context, entry Entry) error
}

type service struct {
	db *gorm.DB
}

// NewService constructs the ledger over the shared DB connection.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("ledger db required")
	}
	return &service{db: db}, nil
}

func (s *service) Has(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ProcessedCheckout{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check ledger")
	}
	return count > 0, nil
}

func (s *service) Record(ctx context.Context, entry Entry) error {
	sessionID := strings.TrimSpace(entry.SessionID)
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	processedAt := entry.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now().UTC()
	}

	row := &models.ProcessedCheckout{
		SessionID:       sessionID,
		EventID:         entry.EventID,
		PrintfulOrderID: entry.PrintfulOrderID,
		ProcessedAt:     processedAt,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoNothing: true,
		}).
		Create(row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record ledger entry")
	}
	return nil
}
