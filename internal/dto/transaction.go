package dto

import (
	"time"

	"koinsave/internal/models"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest covers both the send-money and add-transaction
// flows. Amount is a decimal string to avoid float coercion at the boundary.
// Recipient is optional; when empty it resolves to a type-dependent default.
type CreateTransactionRequest struct {
	Type        string `json:"type" validate:"required,transaction_type"`
	Amount      string `json:"amount" validate:"required,transaction_amount"`
	Description string `json:"description" validate:"required,min=3,max=100"`
	Recipient   string `json:"recipient" validate:"omitempty,min=2,max=255"`
	Category    string `json:"category" validate:"required,transaction_category"`
	OccurredAt  string `json:"occurred_at" validate:"omitempty"`
}

// ListTransactionsRequest carries the query parameters of a listing request
type ListTransactionsRequest struct {
	Type     string `query:"type"`
	Category string `query:"category"`
	From     string `query:"from"`
	To       string `query:"to"`
	Search   string `query:"search"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

// TransactionResponse is the wire form of a transaction; amounts are
// rendered with two fraction digits at this boundary only.
type TransactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Recipient   string    `json:"recipient"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTransactionResponse converts a transaction model to its wire form
func NewTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		Type:        t.Type,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Recipient:   t.Recipient,
		Category:    t.Category,
		Status:      t.Status,
		OccurredAt:  t.OccurredAt,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionListResponse is a paginated transaction listing
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

// BalanceResponse reports the balance after a recording
type BalanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}
