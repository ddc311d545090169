package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event kinds published on the ledger exchange.
const (
	KindTransactionCreated = "transaction.created"
	KindTransactionUpdated = "transaction.updated"
	KindTransactionDeleted = "transaction.deleted"
	KindAccountCleared     = "account.cleared"
	KindAccountConverted   = "account.converted"
)

// LedgerEvent describes one committed ledger mutation for downstream
// consumers. It never carries amounts or descriptions, only identifiers.
type LedgerEvent struct {
	Kind          string    `json:"kind"`
	UserID        string    `json:"user_id"`
	Account       int       `json:"account,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewLedgerEvent builds an event stamped with the current time.
func NewLedgerEvent(kind, userID string, account int, transactionID string) LedgerEvent {
	return LedgerEvent{
		Kind:          kind,
		UserID:        userID,
		Account:       account,
		TransactionID: transactionID,
		OccurredAt:    time.Now().UTC(),
	}
}

// ToJSON serializes the event for publishing.
func (e LedgerEvent) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal ledger event: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a published event.
func FromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, fmt.Errorf("unmarshal ledger event: %w", err)
	}
	return e, nil
}
