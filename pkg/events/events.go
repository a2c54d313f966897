package events

import "time"

// Ledger event types.
const (
	TypeRedemption = "redemption"
	TypePurchase   = "purchase"
	TypeGrant      = "grant"
	TypeAdjust     = "adjust"
)

// LedgerEvent describes one committed balance-affecting operation. Events are
// published after the transaction commits; consumers must treat them as
// at-most-once notifications, the audit subcollections remain the source of
// truth.
type LedgerEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	Email      string    `json:"email,omitempty"`
	Amount     int64     `json:"amount"`
	Code       string    `json:"code,omitempty"`
	ProductID  string    `json:"productId,omitempty"`
	ReceiptID  string    `json:"receiptId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher defines the interface for publishing ledger events.
type Publisher interface {
	Publish(event LedgerEvent) error
	Close() error
}

// NopPublisher is a Publisher that discards every event. Used when no message
// queue is configured.
type NopPublisher struct{}

// NewNopPublisher creates a NopPublisher.
func NewNopPublisher() Publisher { return NopPublisher{} }

// Publish discards the event.
func (NopPublisher) Publish(LedgerEvent) error { return nil }

// Close is a no-op.
func (NopPublisher) Close() error { return nil }
