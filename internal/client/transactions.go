package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"wallet/internal/ledger"
	"wallet/internal/money"
)

// Transaction is a saved transaction with its entries.
type Transaction struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Note          string         `json:"note"`
	CategoryID    *string        `json:"category_id"`
	TotalAmount   money.Cents    `json:"total_amount"`
	Installments  int            `json:"installments"`
	ReferenceDate time.Time      `json:"reference_date"`
	Entries       []ledger.Entry `json:"entries"`
	CreatedAt     time.Time      `json:"created_at"`
}

// EntryInput is one signed installment line.
type EntryInput struct {
	Amount        money.Cents `json:"amount"`
	ReferenceDate string      `json:"reference_date"`
}

// CreateTransactionRequest is the body of POST /transactions.
type CreateTransactionRequest struct {
	Type          string       `json:"type"`
	Name          string       `json:"name"`
	Note          string       `json:"note,omitempty"`
	CategoryID    *string      `json:"category_id,omitempty"`
	Amount        money.Cents  `json:"amount,omitempty"`
	ReferenceDate string       `json:"reference_date"`
	Installments  int          `json:"installments,omitempty"`
	Entries       []EntryInput `json:"entries,omitempty"`
}

// UpdateTransactionRequest is the body of PATCH /transactions/:id.
type UpdateTransactionRequest struct {
	Name       *string      `json:"name,omitempty"`
	Note       *string      `json:"note,omitempty"`
	CategoryID *string      `json:"category_id,omitempty"`
	Entries    []EntryInput `json:"entries,omitempty"`
}

type transactionEnvelope struct {
	Transaction Transaction `json:"transaction"`
}

// CreateTransaction saves a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	var resp transactionEnvelope
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

// GetTransaction fetches a transaction by id.
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var resp transactionEnvelope
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

// UpdateTransaction patches a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id string, req UpdateTransactionRequest) (*Transaction, error) {
	var resp transactionEnvelope
	if err := c.do(ctx, http.MethodPatch, "/transactions/"+url.PathEscape(id), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

// DeleteTransaction deletes a transaction and its entries.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil, nil)
}

// Deleter adapts DeleteTransaction to the ledger delete coordinator.
func (c *Client) Deleter() ledger.Deleter {
	return c.DeleteTransaction
}
