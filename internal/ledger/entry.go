// Package ledger holds the client-side view of a user's entries: the
// date-bucketed aggregate, the paginated feed that fills it and the
// optimistic delete coordinator that mutates it.
package ledger

import (
	"time"

	"wallet/internal/money"
	"wallet/internal/period"
)

// Entry is one ledger line as returned by GET /entries. ReferenceDate keeps
// the server's ISO text; its first ten characters are the bucket key.
type Entry struct {
	ID                string      `json:"id"`
	TransactionID     string      `json:"transaction_id"`
	Type              string      `json:"type"`
	Name              string      `json:"name"`
	Description       string      `json:"description,omitempty"`
	Amount            money.Cents `json:"amount"`
	ReferenceDate     string      `json:"reference_date"`
	Period            string      `json:"period,omitempty"`
	Installment       int         `json:"installment"`
	TotalInstallments int         `json:"total_installments"`
	TotalAmount       money.Cents `json:"total_amount"`
	CategoryID        *string     `json:"category_id,omitempty"`
	CategoryName      string      `json:"category_name,omitempty"`
	CategoryColor     string      `json:"category_color,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

// Day returns the calendar-day key of the entry.
func (e Entry) Day() string {
	return DayKey(e.ReferenceDate)
}

// DayKey truncates an ISO date or date-time to YYYY-MM-DD.
func DayKey(ref string) string {
	if len(ref) > 10 {
		return ref[:10]
	}
	return ref
}

// Page is one page of entries plus the server's pagination metadata.
type Page struct {
	Entries    []Entry
	Page       int
	TotalPages int
	TotalItems int64
	NextPage   bool
}

// PageRequest names the page a feed wants.
type PageRequest struct {
	Period  period.Period
	Page    int
	PerPage int
	OrderBy string
	Filter  string
}
