package services

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOrderSettled        EventType = "order_settled"
	EventDepositConfirmed    EventType = "deposit_confirmed"
	EventDepositCancelled    EventType = "deposit_cancelled"
	EventWithdrawalProcessed EventType = "withdrawal_processed"
)

// Event is a fire-and-forget notification about a completed ledger mutation,
// consumed by the admin activity feed.
type Event struct {
	Type      EventType `json:"type"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Amount    float64   `json:"amount"`
	Reference string    `json:"reference"`
	At        time.Time `json:"at"`
}
