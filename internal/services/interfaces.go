package services

import (
	"context"

	"wallet/internal/drafts"
	"wallet/internal/models"
	"wallet/internal/money"
	"wallet/internal/pagination"
	"wallet/internal/period"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, color string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest, orderBy string) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, name, color *string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// EntryQuery holds the list parameters of GET /entries.
type EntryQuery struct {
	Period  *period.Period
	OrderBy string
	Filter  string
	Page    pagination.PageRequest
}

// EntrySummary totals one period.
type EntrySummary struct {
	Period   string      `json:"period"`
	Income   money.Cents `json:"income"`
	Expenses money.Cents `json:"expenses"`
	Balance  money.Cents `json:"balance"`
	Count    int64       `json:"count"`
}

// EntryServicer defines the contract for reading ledger entries.
type EntryServicer interface {
	ListEntries(userID string, q EntryQuery) (*pagination.PageResponse[models.Entry], error)
	Summarize(userID string, p period.Period) (*EntrySummary, error)
}

// TransactionUpdate is a partial edit. Nil fields are left alone; an empty
// CategoryID clears the category. Entries, when set, replace every entry's
// amount and date in installment order.
type TransactionUpdate struct {
	Name       *string
	Note       *string
	CategoryID *string
	Entries    []drafts.Line
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	Save(ctx context.Context, userID string, draft drafts.TransactionDraft) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// AuditServicer records wallet writes in the audit trail.
type AuditServicer interface {
	Record(ev AuditEvent)
}
