package models

import "time"

// ProcessedCheckout is the idempotency ledger row for one completed payment
// session. At most one row per session id, ever; its presence is the sole
// gate against submitting a second fulfillment order for the same purchase.
type ProcessedCheckout struct {
	SessionID       string    `gorm:"column:session_id;primaryKey" json:"sessionId"`
	EventID         string    `gorm:"column:event_id;not null" json:"eventId"`
	PrintfulOrderID string    `gorm:"column:printful_order_id" json:"printfulOrderId,omitempty"`
	ProcessedAt     time.Time `gorm:"column:processed_at;not null" json:"processedAt"`
}

func (ProcessedCheckout) TableName() string {
	return "processed_checkouts"
}
