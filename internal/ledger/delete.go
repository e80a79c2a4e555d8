package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound may be returned by a Deleter when the transaction is already gone.
var ErrNotFound = errors.New("ledger: transaction not found")

// Deleter removes a transaction on the server.
type Deleter func(ctx context.Context, transactionID string) error

// Observer is notified as optimistic deletes settle.
type Observer interface {
	Removed(transactionID string, entries int)
	Confirmed(transactionID string)
	RolledBack(transactionID string, restored int, err error)
}

// IsNotFound reports whether err means the transaction no longer exists. It
// matches ErrNotFound and any error exposing NotFound() bool.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}

// DeleteCoordinator removes a transaction's entries from the view before the
// server confirms and puts them back if the server refuses.
type DeleteCoordinator struct {
	agg      *Aggregator
	del      Deleter
	observer Observer
}

// NewDeleteCoordinator wires a coordinator to agg. observer may be nil.
func NewDeleteCoordinator(agg *Aggregator, del Deleter, observer Observer) *DeleteCoordinator {
	return &DeleteCoordinator{agg: agg, del: del, observer: observer}
}

// Pending is an optimistic delete awaiting the server's answer.
type Pending struct {
	c             *DeleteCoordinator
	transactionID string
	snapshot      Buckets
	version       uint64
	generation    uint64
	removed       int

	once sync.Once
	err  error
}

// Begin removes transactionID's entries from the view and captures the
// snapshot a failed delete rolls back to.
func (c *DeleteCoordinator) Begin(transactionID string) *Pending {
	a := c.agg
	a.mu.Lock()
	p := &Pending{
		c:             c,
		transactionID: transactionID,
		snapshot:      a.buckets.clone(),
		generation:    a.generation,
	}
	p.removed = a.removeTransactionLocked(transactionID)
	p.version = a.version
	a.hidden[transactionID]++
	a.mu.Unlock()

	if c.observer != nil {
		c.observer.Removed(transactionID, p.removed)
	}
	return p
}

// TransactionID returns the transaction being deleted.
func (p *Pending) TransactionID() string { return p.transactionID }

// Removed returns how many entries the optimistic mutation took out.
func (p *Pending) Removed() int { return p.removed }

// Resolve settles the delete with the server's result. A nil or not-found
// result keeps the mutation; anything else restores the entries and is
// returned wrapped. Later calls return the first outcome.
//
// A confirmed delete stays hidden from later merges and is counted toward
// the aggregator's Shift so a Feed can realign its page cursor.
func (p *Pending) Resolve(serverErr error) error {
	p.once.Do(func() {
		if serverErr == nil || IsNotFound(serverErr) {
			p.confirm()
			if p.c.observer != nil {
				p.c.observer.Confirmed(p.transactionID)
			}
			return
		}
		restored := p.rollback()
		if p.c.observer != nil {
			p.c.observer.RolledBack(p.transactionID, restored, serverErr)
		}
		p.err = fmt.Errorf("delete transaction %s: %w", p.transactionID, serverErr)
	})
	return p.err
}

func (p *Pending) confirm() {
	a := p.c.agg
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation == p.generation {
		a.shift += p.removed
	}
}

func (p *Pending) rollback() int {
	a := p.c.agg
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.generation != p.generation {
		// The view was reset to another period; nothing to put back.
		return 0
	}
	a.unhideLocked(p.transactionID)
	switch {
	case a.version == p.version:
		a.restoreLocked(p.snapshot)
		return p.removed
	default:
		return a.reinsertLocked(p.snapshot, p.transactionID)
	}
}

// Delete applies the optimistic removal, calls the server and settles.
func (c *DeleteCoordinator) Delete(ctx context.Context, transactionID string) error {
	p := c.Begin(transactionID)
	return p.Resolve(c.del(ctx, transactionID))
}
