// Package events publishes transaction lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"wallet/internal/models"
)

// Type is the routing key of an event.
type Type string

const (
	TransactionCreated Type = "transaction.created"
	TransactionUpdated Type = "transaction.updated"
	TransactionDeleted Type = "transaction.deleted"
)

// DefaultExchange is the exchange events go to when none is configured.
const DefaultExchange = "wallet.events"

// TransactionEvent is the JSON body of every message.
type TransactionEvent struct {
	Type          Type      `json:"type"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Entries       int       `json:"entries"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewTransactionEvent describes tx for an event of type t.
func NewTransactionEvent(t Type, tx *models.Transaction) TransactionEvent {
	return TransactionEvent{
		Type:          t,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Entries:       len(tx.Entries),
		OccurredAt:    time.Now().UTC(),
	}
}

// ToJSON encodes the event.
func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, TransactionEvent) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []TransactionEvent
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, event TransactionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Close implements Publisher.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []TransactionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TransactionEvent(nil), r.events...)
}
