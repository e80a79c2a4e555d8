package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wallet/internal/drafts"
	apperrors "wallet/internal/errors"
	"wallet/internal/models"
	"wallet/internal/money"
	"wallet/internal/period"
	"wallet/internal/services"
	"wallet/internal/uuid"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// EntryLineRequest is one signed installment line.
type EntryLineRequest struct {
	Amount        money.Cents `json:"amount" binding:"signed_money" swaggertype:"number"`
	ReferenceDate string      `json:"reference_date" binding:"required"`
}

// CreateTransactionRequest is the body of POST /transactions. Type selects
// the variant; installments and entries only apply to installment plans.
type CreateTransactionRequest struct {
	Type          models.EntryType   `json:"type" binding:"required,entry_type"`
	Name          string             `json:"name" binding:"required,max=100"`
	Note          string             `json:"note" binding:"max=400"`
	CategoryID    *string            `json:"category_id" binding:"omitempty,uuid"`
	Amount        money.Cents        `json:"amount" binding:"omitempty,money" swaggertype:"number"`
	ReferenceDate string             `json:"reference_date" binding:"required"`
	Installments  int                `json:"installments" binding:"omitempty,min=0"`
	Entries       []EntryLineRequest `json:"entries" binding:"omitempty,dive"`
}

// UpdateTransactionRequest is the body of PATCH /transactions/:id. An empty
// category_id clears the category.
type UpdateTransactionRequest struct {
	Name       *string            `json:"name" binding:"omitempty,max=100"`
	Note       *string            `json:"note" binding:"omitempty,max=400"`
	CategoryID *string            `json:"category_id"`
	Entries    []EntryLineRequest `json:"entries" binding:"omitempty,dive"`
}

func parseLines(in []EntryLineRequest) ([]drafts.Line, error) {
	if in == nil {
		return nil, nil
	}
	lines := make([]drafts.Line, len(in))
	for i, l := range in {
		date, err := parseDate(l.ReferenceDate)
		if err != nil {
			return nil, err
		}
		lines[i] = drafts.Line{Amount: l.Amount, ReferenceDate: date}
	}
	return lines, nil
}

// draft turns the request into the matching transaction variant.
func (r CreateTransactionRequest) draft() (drafts.TransactionDraft, error) {
	date, err := parseDate(r.ReferenceDate)
	if err != nil {
		return nil, err
	}
	header := drafts.Header{
		Name:       strings.TrimSpace(r.Name),
		Note:       r.Note,
		CategoryID: r.CategoryID,
	}

	switch r.Type {
	case models.EntryTypeSimpleExpense:
		return drafts.SimpleExpense{Header: header, Amount: r.Amount, Date: date}, nil
	case models.EntryTypeIncome:
		return drafts.Income{Header: header, Amount: r.Amount, Date: date}, nil
	case models.EntryTypeInstallment:
		overrides, err := parseLines(r.Entries)
		if err != nil {
			return nil, err
		}
		return drafts.Installment{
			Header:    header,
			Amount:    r.Amount,
			Count:     r.Installments,
			StartDate: date,
			Overrides: overrides,
		}, nil
	}
	return nil, apperrors.ErrInvalidTransactionType
}

// CreateTransaction saves a new transaction with its entries
// @Summary     Create a transaction
// @Description Save a simple expense, an income or an installment plan
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	draft, err := req.draft()
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.Save(c.Request.Context(), userID, draft)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:    userID,
		Action:    models.AuditCreateTransaction,
		Subject:   "transaction",
		SubjectID: tx.ID,
		Amount:    tx.TotalAmount,
		Period:    period.Of(tx.ReferenceDate).String(),
		ClientIP:  c.ClientIP(),
		Details:   map[string]any{"type": tx.Type, "entries": len(tx.Entries)},
	})

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetTransactionByID returns a transaction with its entries
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction edits a transaction and propagates the change to its entries
// @Summary     Update a transaction
// @Description Name, note and category apply to every entry; entries replaces amounts and dates in installment order
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	if req.CategoryID != nil && *req.CategoryID != "" && !uuid.IsValid(*req.CategoryID) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category_id"))
		return
	}
	lines, err := parseLines(req.Entries)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, id, services.TransactionUpdate{
		Name:       req.Name,
		Note:       req.Note,
		CategoryID: req.CategoryID,
		Entries:    lines,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	details := map[string]any{}
	if req.Name != nil {
		details["name"] = *req.Name
	}
	if req.CategoryID != nil {
		details["category_id"] = *req.CategoryID
	}
	if req.Entries != nil {
		details["entries"] = len(req.Entries)
	}
	h.auditService.Record(services.AuditEvent{
		UserID:    userID,
		Action:    models.AuditUpdateTransaction,
		Subject:   "transaction",
		SubjectID: tx.ID,
		Amount:    tx.TotalAmount,
		Period:    period.Of(tx.ReferenceDate).String(),
		ClientIP:  c.ClientIP(),
		Details:   details,
	})

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction removes a transaction and all of its entries
// @Summary     Delete a transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:    userID,
		Action:    models.AuditDeleteTransaction,
		Subject:   "transaction",
		SubjectID: id,
		ClientIP:  c.ClientIP(),
	})

	c.Status(http.StatusNoContent)
}
