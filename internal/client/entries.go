package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"wallet/internal/ledger"
	"wallet/internal/money"
	"wallet/internal/pagination"
	"wallet/internal/period"
)

// EntriesOptions narrows an entries listing.
type EntriesOptions struct {
	Page    int
	PerPage int
	OrderBy string
	Filter  string
}

// EntriesPage is one page of GET /entries.
type EntriesPage struct {
	Entries []ledger.Entry
	Query   pagination.Query
}

// Entries lists one period's entries.
func (c *Client) Entries(ctx context.Context, p period.Period, opts EntriesOptions) (*EntriesPage, error) {
	q := url.Values{}
	q.Set("period", p.String())
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.OrderBy != "" {
		q.Set("order_by", opts.OrderBy)
	}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}

	var resp pagination.PageResponse[ledger.Entry]
	if err := c.do(ctx, http.MethodGet, "/entries", q, nil, &resp); err != nil {
		return nil, err
	}
	return &EntriesPage{Entries: resp.Items("entries"), Query: resp.Query}, nil
}

// Summary is the per-period total returned by GET /entries/summary.
type Summary struct {
	Period   string      `json:"period"`
	Income   money.Cents `json:"income"`
	Expenses money.Cents `json:"expenses"`
	Balance  money.Cents `json:"balance"`
	Count    int64       `json:"count"`
}

// Summary fetches one period's totals.
func (c *Client) Summary(ctx context.Context, p period.Period) (*Summary, error) {
	q := url.Values{}
	q.Set("period", p.String())
	var resp struct {
		Summary Summary `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/entries/summary", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}

// PageFetcher adapts Entries to a ledger feed.
func (c *Client) PageFetcher() ledger.PageFetcher {
	return func(ctx context.Context, req ledger.PageRequest) (ledger.Page, error) {
		page, err := c.Entries(ctx, req.Period, EntriesOptions{
			Page:    req.Page,
			PerPage: req.PerPage,
			OrderBy: req.OrderBy,
			Filter:  req.Filter,
		})
		if err != nil {
			return ledger.Page{}, err
		}
		return ledger.Page{
			Entries:    page.Entries,
			Page:       page.Query.Page,
			TotalPages: page.Query.TotalPages,
			TotalItems: page.Query.TotalItems,
			NextPage:   page.Query.NextPage,
		}, nil
	}
}
