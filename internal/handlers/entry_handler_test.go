package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "wallet/internal/errors"
	"wallet/internal/models"
	"wallet/internal/pagination"
	"wallet/internal/period"
	"wallet/internal/services"
)

// --- mock entry service ---

type mockEntryService struct {
	listEntriesFn func(userID string, q services.EntryQuery) (*pagination.PageResponse[models.Entry], error)
	summarizeFn   func(userID string, p period.Period) (*services.EntrySummary, error)
}

func (m *mockEntryService) ListEntries(userID string, q services.EntryQuery) (*pagination.PageResponse[models.Entry], error) {
	if m.listEntriesFn != nil {
		return m.listEntriesFn(userID, q)
	}
	resp := pagination.NewPageResponse[models.Entry]("entries", nil, 1, pagination.DefaultPerPage, 0)
	return &resp, nil
}

func (m *mockEntryService) Summarize(userID string, p period.Period) (*services.EntrySummary, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(userID, p)
	}
	return &services.EntrySummary{Period: p.String()}, nil
}

var _ services.EntryServicer = (*mockEntryService)(nil)

func setupEntryRouter(handler *EntryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/entries", handler.ListEntries)
	auth.GET("/entries/summary", handler.Summary)
	return r
}

func TestEntryHandler_ListEntries(t *testing.T) {
	t.Run("passes query parameters", func(t *testing.T) {
		var got services.EntryQuery
		svc := &mockEntryService{
			listEntriesFn: func(userID string, q services.EntryQuery) (*pagination.PageResponse[models.Entry], error) {
				if userID != testUserID {
					t.Errorf("expected user %s, got %s", testUserID, userID)
				}
				got = q
				entries := []models.Entry{{Name: "Coffee", Amount: -450}}
				resp := pagination.NewPageResponse("entries", entries, 2, 10, 11)
				return &resp, nil
			},
		}
		r := setupEntryRouter(NewEntryHandler(svc))

		rec := doRequest(r, "GET", "/entries?period=202403&page=2&per_page=10&order_by=amount:asc&filter=type+eq+installment", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Period == nil || got.Period.String() != "202403" {
			t.Errorf("expected period 202403, got %v", got.Period)
		}
		if got.Page.Page != 2 || got.Page.PerPage != 10 {
			t.Errorf("unexpected page %+v", got.Page)
		}
		if got.OrderBy != "amount:asc" || got.Filter != "type eq installment" {
			t.Errorf("unexpected clauses %q %q", got.OrderBy, got.Filter)
		}

		result := parseJSON(t, rec)
		entries := result["data"].(map[string]interface{})["entries"].([]interface{})
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		query := result["query"].(map[string]interface{})
		if query["total_pages"] != float64(2) || query["next_page"] != false {
			t.Errorf("unexpected query %v", query)
		}
	})

	t.Run("no period lists all", func(t *testing.T) {
		var got services.EntryQuery
		svc := &mockEntryService{
			listEntriesFn: func(_ string, q services.EntryQuery) (*pagination.PageResponse[models.Entry], error) {
				got = q
				resp := pagination.NewPageResponse[models.Entry]("entries", nil, 1, 25, 0)
				return &resp, nil
			},
		}
		r := setupEntryRouter(NewEntryHandler(svc))

		rec := doRequest(r, "GET", "/entries", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Period != nil {
			t.Error("expected no period")
		}
	})

	t.Run("returns 400 on invalid period", func(t *testing.T) {
		r := setupEntryRouter(NewEntryHandler(&mockEntryService{}))

		rec := doRequest(r, "GET", "/entries?period=2024-03", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when per_page exceeds 100", func(t *testing.T) {
		r := setupEntryRouter(NewEntryHandler(&mockEntryService{}))

		rec := doRequest(r, "GET", "/entries?per_page=101", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns service validation errors", func(t *testing.T) {
		svc := &mockEntryService{
			listEntriesFn: func(string, services.EntryQuery) (*pagination.PageResponse[models.Entry], error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, `cannot order by "user_id"`)
			},
		}
		r := setupEntryRouter(NewEntryHandler(svc))

		rec := doRequest(r, "GET", "/entries?order_by=user_id", "")

		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestEntryHandler_Summary(t *testing.T) {
	t.Run("returns summary for period", func(t *testing.T) {
		svc := &mockEntryService{
			summarizeFn: func(_ string, p period.Period) (*services.EntrySummary, error) {
				return &services.EntrySummary{Period: p.String(), Income: 100000, Expenses: 2550, Balance: 97450, Count: 3}, nil
			},
		}
		r := setupEntryRouter(NewEntryHandler(svc))

		rec := doRequest(r, "GET", "/entries/summary?period=202405", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		summary := parseJSON(t, rec)["summary"].(map[string]interface{})
		if summary["period"] != "202405" || summary["balance"] != 974.5 {
			t.Errorf("unexpected summary %v", summary)
		}
	})

	t.Run("defaults to current period", func(t *testing.T) {
		var got period.Period
		svc := &mockEntryService{
			summarizeFn: func(_ string, p period.Period) (*services.EntrySummary, error) {
				got = p
				return &services.EntrySummary{Period: p.String()}, nil
			},
		}
		r := setupEntryRouter(NewEntryHandler(svc))

		doRequest(r, "GET", "/entries/summary", "")

		if got != period.Current() {
			t.Errorf("expected current period, got %s", got)
		}
	})
}
