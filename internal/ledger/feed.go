package ledger

import (
	"context"
	"fmt"
	"sync"

	"wallet/internal/period"
)

// Query defaults used by the entry list.
const (
	DefaultPerPage = 25
	DefaultOrderBy = "reference_date:desc,created_at:desc"
)

// PageFetcher loads one page of entries.
type PageFetcher func(ctx context.Context, req PageRequest) (Page, error)

// Feed pages through one period's entries into an Aggregator.
type Feed struct {
	fetch   PageFetcher
	agg     *Aggregator
	perPage int

	// fetchMu serializes FetchNext; mu guards the cursor.
	fetchMu    sync.Mutex
	mu         sync.Mutex
	period     period.Period
	next       int
	generation uint64
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithPerPage overrides the page size.
func WithPerPage(n int) FeedOption {
	return func(f *Feed) {
		if n > 0 {
			f.perPage = n
		}
	}
}

// NewFeed returns a feed positioned before the first page of p.
func NewFeed(fetch PageFetcher, p period.Period, opts ...FeedOption) *Feed {
	f := &Feed{
		fetch:   fetch,
		agg:     NewAggregator(),
		perPage: DefaultPerPage,
		period:  p,
		next:    1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Aggregator returns the aggregator the feed fills.
func (f *Feed) Aggregator() *Aggregator { return f.agg }

// Buckets returns a snapshot of the aggregated entries.
func (f *Feed) Buckets() Buckets { return f.agg.Snapshot() }

// Period returns the period being browsed.
func (f *Feed) Period() period.Period {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.period
}

// HasMore reports whether another page can be fetched.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next > 0
}

// FetchNext loads the next page and merges it. It returns the number of new
// entries; on an exhausted feed it does nothing. A failed fetch leaves the
// cursor in place so the call can be retried.
//
// Confirmed deletes move every later entry back on the server. When the
// aggregator reports such a shift, FetchNext rewinds to the page now holding
// the first unseen entry and relies on Merge to drop the overlap.
func (f *Feed) FetchNext(ctx context.Context) (int, error) {
	f.fetchMu.Lock()
	defer f.fetchMu.Unlock()

	f.mu.Lock()
	shift := 0
	if f.next > 1 {
		shift = f.agg.Shift()
	}
	req := PageRequest{
		Period:  f.period,
		Page:    rewind(f.next, f.perPage, shift),
		PerPage: f.perPage,
		OrderBy: DefaultOrderBy,
		Filter:  PeriodFilter(f.period),
	}
	gen := f.generation
	f.mu.Unlock()

	if req.Page == 0 {
		return 0, nil
	}

	page, err := f.fetch(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s page %d: %w", req.Period, req.Page, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		return 0, nil
	}
	added := f.agg.Merge(page.Entries)
	f.agg.ConsumeShift(shift)
	if page.NextPage {
		f.next = req.Page + 1
	} else {
		f.next = 0
	}
	return added, nil
}

// rewind returns the page holding the first entry not yet loaded once shift
// entries before it have been deleted.
func rewind(next, perPage, shift int) int {
	if next <= 1 || shift <= 0 {
		return next
	}
	offset := max((next-1)*perPage-shift, 0)
	return offset/perPage + 1
}

// Reset switches to p and clears the buckets. A fetch in flight for the old
// period is discarded when it returns.
func (f *Feed) Reset(p period.Period) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.period = p
	f.next = 1
	f.generation++
	f.agg.Reset()
}

// PeriodFilter is the filter expression selecting one period.
func PeriodFilter(p period.Period) string {
	return "period eq " + p.String()
}
