package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"koinsave/internal/dto"
	apierrors "koinsave/internal/errors"
	"koinsave/internal/services"

	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction recording, listing and export
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Create records a new transaction and returns it together with the
// resulting balance
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, user, err := h.transactionService.RecordTransaction(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return SendError(c, apierrors.UserNotFound)
		case errors.Is(err, services.ErrInsufficientBalance):
			return SendError(c, apierrors.TransactionInsufficientBalance)
		case errors.Is(err, services.ErrInvalidAmount):
			return SendError(c, apierrors.TransactionInvalidAmount)
		case errors.Is(err, services.ErrAmountTooLarge):
			return SendError(c, apierrors.TransactionInvalidAmount, apierrors.WithDetails("Amount exceeds the maximum allowed"))
		case errors.Is(err, services.ErrInvalidDateFormat):
			return SendError(c, apierrors.ValidationInvalidDate)
		default:
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data: map[string]interface{}{
			"transaction": dto.NewTransactionResponse(transaction),
			"balance": dto.BalanceResponse{
				Balance:  user.Balance,
				Currency: user.Currency,
			},
		},
		Message: "Transaction recorded successfully",
	})
}

// List returns a filtered, paginated listing of the user's transactions
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	var req dto.ListTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid query parameters"))
	}

	transactions, total, err := h.transactionService.ListTransactions(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateFormat) {
			return SendError(c, apierrors.ValidationInvalidDate, apierrors.WithDetails("Dates must be RFC3339 formatted"))
		}
		return SendSystemError(c, err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, dto.NewTransactionResponse(&transactions[i]))
	}

	return c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: responses,
		Total:        total,
		Page:         page,
		Limit:        limit,
	})
}

// Export streams the user's full transaction history as a CSV download
func (h *TransactionHandler) Export(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	data, err := h.transactionService.ExportCSV(userID)
	if err != nil {
		return SendError(c, apierrors.AnalyticsExportFailed)
	}

	filename := fmt.Sprintf("koinsave-transactions-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}
