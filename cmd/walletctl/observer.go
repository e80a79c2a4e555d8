package main

import (
	"go.uber.org/zap"

	"wallet/internal/ledger"
)

// logObserver reports optimistic deletes as they settle.
type logObserver struct {
	log *zap.SugaredLogger
}

var _ ledger.Observer = logObserver{}

func (o logObserver) Removed(transactionID string, entries int) {
	o.log.Debugw("Removed entries from view", "transaction_id", transactionID, "entries", entries)
}

func (o logObserver) Confirmed(transactionID string) {
	o.log.Infow("Delete confirmed", "transaction_id", transactionID)
}

func (o logObserver) RolledBack(transactionID string, restored int, err error) {
	o.log.Warnw("Delete failed, entries restored", "transaction_id", transactionID, "restored", restored, "error", err)
}
