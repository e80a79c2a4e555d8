package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "wallet/internal/errors"
	"wallet/internal/ledger"
	"wallet/internal/models"
	"wallet/internal/money"
	"wallet/internal/pagination"
	"wallet/internal/period"
	"wallet/internal/query"
)

var entryOrderFields = query.Fields{
	"reference_date": {Table: "entries", Name: "reference_date"},
	"created_at":     {Table: "entries", Name: "created_at"},
	"amount":         {Table: "entries", Name: "amount"},
	"name":           {Table: "entries", Name: "name"},
}

var entryFilterFields = query.Fields{
	"period":         {Table: "entries", Name: "period"},
	"type":           {Table: "entries", Name: "type"},
	"category_id":    {Table: "entries", Name: "category_id"},
	"transaction_id": {Table: "entries", Name: "transaction_id"},
}

// entryService reads ledger entries.
type entryService struct {
	db *gorm.DB
}

// NewEntryService creates a new EntryServicer.
func NewEntryService(db *gorm.DB) EntryServicer {
	return &entryService{db: db}
}

// ListEntries returns one page of the user's entries. Entries whose category
// has been deleted come back with empty category name and color.
func (s *entryService) ListEntries(userID string, q EntryQuery) (*pagination.PageResponse[models.Entry], error) {
	q.Page.Defaults()

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = ledger.DefaultOrderBy
	}
	orders, err := query.ParseOrderBy(orderBy, "asc", entryOrderFields)
	if err != nil {
		return nil, err
	}
	clauses, err := query.ParseFilter(q.Filter, entryFilterFields)
	if err != nil {
		return nil, err
	}
	if err := validateEntryClauses(clauses); err != nil {
		return nil, err
	}

	base := s.db.Model(&models.Entry{}).Where("entries.user_id = ?", userID)
	if q.Period != nil {
		base = base.Where("entries.period = ?", q.Period.String())
	}
	base = base.Scopes(query.FilterScope(clauses, entryFilterFields)).Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.Entry
	err = base.
		Select("entries.*, categories.name AS category_name, categories.color AS category_color").
		Joins("LEFT JOIN categories ON categories.id = entries.category_id AND categories.deleted_at IS NULL").
		Scopes(query.OrderScope(orders, entryOrderFields), pagination.Paginate(q.Page)).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "entries", Name: "id"}, Desc: true}).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse("entries", entries, q.Page.Page, q.Page.PerPage, totalItems)
	return &result, nil
}

func validateEntryClauses(clauses []query.Clause) error {
	for _, c := range clauses {
		switch c.Field {
		case "period":
			if _, err := period.Parse(c.Value); err != nil {
				return err
			}
		case "type":
			if !models.EntryType(c.Value).Valid() {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown entry type "+c.Value)
			}
		}
	}
	return nil
}

// Summarize totals the user's entries in p.
func (s *entryService) Summarize(userID string, p period.Period) (*EntrySummary, error) {
	var row struct {
		Income   int64
		Expenses int64
		Count    int64
	}
	err := s.db.Model(&models.Entry{}).
		Select(`COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) AS expenses,
			COUNT(*) AS count`).
		Where("user_id = ? AND period = ?", userID, p.String()).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &EntrySummary{
		Period:   p.String(),
		Income:   money.Cents(row.Income),
		Expenses: money.Cents(row.Expenses),
		Count:    row.Count,
	}
	summary.Balance = summary.Income - summary.Expenses
	return summary, nil
}
