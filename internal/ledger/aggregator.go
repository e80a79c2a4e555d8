package ledger

import (
	"sync"

	"wallet/internal/money"
)

// Bucket is the entries of one calendar day, in arrival order.
type Bucket struct {
	Date    string
	Entries []Entry
}

// Total sums the signed amounts of the bucket.
func (b Bucket) Total() money.Cents {
	var sum money.Cents
	for _, e := range b.Entries {
		sum += e.Amount
	}
	return sum
}

// Buckets is an ordered date -> entries mapping. Order follows first appearance.
type Buckets []Bucket

// Len returns the number of entries across every bucket.
func (bs Buckets) Len() int {
	n := 0
	for _, b := range bs {
		n += len(b.Entries)
	}
	return n
}

// Get returns the bucket for date.
func (bs Buckets) Get(date string) (Bucket, bool) {
	for _, b := range bs {
		if b.Date == date {
			return b, true
		}
	}
	return Bucket{}, false
}

func (bs Buckets) clone() Buckets {
	if bs == nil {
		return nil
	}
	out := make(Buckets, len(bs))
	for i, b := range bs {
		out[i] = Bucket{Date: b.Date, Entries: append([]Entry(nil), b.Entries...)}
	}
	return out
}

// Aggregate groups entries by day without reordering them.
func Aggregate(entries []Entry) Buckets {
	a := NewAggregator()
	a.Merge(entries)
	return a.Snapshot()
}

// Aggregator accumulates pages of entries into day buckets. Entries already
// present, by id, are skipped so re-merging a page is a no-op.
type Aggregator struct {
	mu      sync.Mutex
	buckets Buckets
	index   map[string]int
	seen    map[string]struct{}

	// order and dayOrder record arrival sequence; removals keep them so a
	// rollback can find an entry's original slot.
	order    map[string]uint64
	dayOrder map[string]uint64
	seq      uint64

	// version changes on every mutation; generation only on Reset.
	version    uint64
	generation uint64

	// hidden counts optimistic deletes per transaction that are pending or
	// confirmed; Merge skips their entries. shift is how many loaded entries
	// confirmed deletes removed, so the server's offsets moved back by that much.
	hidden map[string]int
	shift  int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		index:    make(map[string]int),
		seen:     make(map[string]struct{}),
		order:    make(map[string]uint64),
		dayOrder: make(map[string]uint64),
		hidden:   make(map[string]int),
	}
}

// Merge appends entries to their day buckets and returns how many were new.
func (a *Aggregator) Merge(entries []Entry) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	added := 0
	for _, e := range entries {
		if e.TransactionID != "" && a.hidden[e.TransactionID] > 0 {
			continue
		}
		if e.ID != "" {
			if _, dup := a.seen[e.ID]; dup {
				continue
			}
			a.seen[e.ID] = struct{}{}
		}
		a.seq++
		if e.ID != "" {
			a.order[e.ID] = a.seq
		}
		day := e.Day()
		if _, ok := a.dayOrder[day]; !ok {
			a.dayOrder[day] = a.seq
		}
		i, ok := a.index[day]
		if !ok {
			i = len(a.buckets)
			a.buckets = append(a.buckets, Bucket{Date: day})
			a.index[day] = i
		}
		a.buckets[i].Entries = append(a.buckets[i].Entries, e)
		added++
	}
	if added > 0 {
		a.version++
	}
	return added
}

// Snapshot returns a deep copy of the current buckets.
func (a *Aggregator) Snapshot() Buckets {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buckets.clone()
}

// Len returns the number of entries held.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buckets.Len()
}

// Reset drops every bucket.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buckets = nil
	a.index = make(map[string]int)
	a.seen = make(map[string]struct{})
	a.order = make(map[string]uint64)
	a.dayOrder = make(map[string]uint64)
	a.hidden = make(map[string]int)
	a.shift = 0
	a.version++
	a.generation++
}

// Shift returns how many loaded entries confirmed deletes have removed since
// the last ConsumeShift.
func (a *Aggregator) Shift() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shift
}

// ConsumeShift marks n removed entries as accounted for by a refetch.
func (a *Aggregator) ConsumeShift(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shift = max(a.shift-n, 0)
}

// removeTransactionLocked drops every entry of txID and any bucket left empty.
func (a *Aggregator) removeTransactionLocked(txID string) int {
	removed := 0
	kept := a.buckets[:0]
	for _, b := range a.buckets {
		entries := make([]Entry, 0, len(b.Entries))
		for _, e := range b.Entries {
			if e.TransactionID == txID {
				delete(a.seen, e.ID)
				removed++
				continue
			}
			entries = append(entries, e)
		}
		if len(entries) > 0 {
			kept = append(kept, Bucket{Date: b.Date, Entries: entries})
		}
	}
	a.buckets = kept
	a.reindexLocked()
	if removed > 0 {
		a.version++
	}
	return removed
}

func (a *Aggregator) unhideLocked(txID string) {
	a.hidden[txID]--
	if a.hidden[txID] <= 0 {
		delete(a.hidden, txID)
	}
}

// restoreLocked replaces the state with snapshot.
func (a *Aggregator) restoreLocked(snapshot Buckets) {
	a.buckets = snapshot.clone()
	a.reindexLocked()
	a.seen = make(map[string]struct{}, a.buckets.Len())
	for _, b := range a.buckets {
		for _, e := range b.Entries {
			if e.ID != "" {
				a.seen[e.ID] = struct{}{}
			}
		}
	}
	a.version++
}

// reinsertLocked puts txID's entries from snapshot back at their arrival
// positions among whatever entries survive in the current state.
func (a *Aggregator) reinsertLocked(snapshot Buckets, txID string) int {
	restored := 0
	for _, sb := range snapshot {
		for _, e := range sb.Entries {
			if e.TransactionID != txID {
				continue
			}
			if _, dup := a.seen[e.ID]; dup && e.ID != "" {
				continue
			}
			idx, ok := a.index[sb.Date]
			if !ok {
				idx = a.insertBucketLocked(sb.Date)
			}
			seq := a.order[e.ID]
			entries := a.buckets[idx].Entries
			pos := len(entries)
			for i, cur := range entries {
				if a.order[cur.ID] > seq {
					pos = i
					break
				}
			}
			entries = append(entries, Entry{})
			copy(entries[pos+1:], entries[pos:])
			entries[pos] = e
			a.buckets[idx].Entries = entries
			if e.ID != "" {
				a.seen[e.ID] = struct{}{}
			}
			restored++
		}
	}
	if restored > 0 {
		a.version++
	}
	return restored
}

// insertBucketLocked recreates the bucket for date at its first-seen position.
func (a *Aggregator) insertBucketLocked(date string) int {
	seq := a.dayOrder[date]
	pos := len(a.buckets)
	for i, b := range a.buckets {
		if a.dayOrder[b.Date] > seq {
			pos = i
			break
		}
	}
	a.buckets = append(a.buckets, Bucket{})
	copy(a.buckets[pos+1:], a.buckets[pos:])
	a.buckets[pos] = Bucket{Date: date}
	a.reindexLocked()
	return pos
}

func (a *Aggregator) reindexLocked() {
	a.index = make(map[string]int, len(a.buckets))
	for i, b := range a.buckets {
		a.index[b.Date] = i
	}
}
