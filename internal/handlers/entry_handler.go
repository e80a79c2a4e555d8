package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet/internal/pagination"
	"wallet/internal/period"
	"wallet/internal/services"
)

// EntryHandler serves the ledger entry listing.
type EntryHandler struct {
	entryService services.EntryServicer
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService services.EntryServicer) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// ListEntriesRequest holds the GET /entries query string.
type ListEntriesRequest struct {
	pagination.PageRequest
	Period  string `form:"period" binding:"omitempty,period"`
	OrderBy string `form:"order_by" binding:"max=200"`
	Filter  string `form:"filter" binding:"max=500"`
}

// SummaryRequest holds the GET /entries/summary query string.
type SummaryRequest struct {
	Period string `form:"period" binding:"omitempty,period"`
}

// ListEntries returns one page of the user's entries
// @Summary     List entries
// @Description Paginated ledger entries, newest first by default
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       period   query string false "Period as YYYYMM"
// @Param       page     query int    false "Page number (default 1)"
// @Param       per_page query int    false "Items per page (default 25, max 100)"
// @Param       order_by query string false "e.g. reference_date:desc,created_at:desc"
// @Param       filter   query string false "e.g. type eq installment and category_id eq <id>"
// @Success     200 {object} pagination.PageResponse[models.Entry]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	q := services.EntryQuery{
		OrderBy: req.OrderBy,
		Filter:  req.Filter,
		Page:    req.PageRequest,
	}
	if req.Period != "" {
		p, err := period.Parse(req.Period)
		if err != nil {
			respondWithError(c, err)
			return
		}
		q.Period = &p
	}

	result, err := h.entryService.ListEntries(userID, q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Summary totals one period
// @Summary     Period summary
// @Description Income, expenses and balance of a period (default: current month)
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Period as YYYYMM"
// @Success     200 {object} services.EntrySummary
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /entries/summary [get]
func (h *EntryHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	p := period.Current()
	if req.Period != "" {
		if p, err = period.Parse(req.Period); err != nil {
			respondWithError(c, err)
			return
		}
	}

	summary, err := h.entryService.Summarize(userID, p)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
