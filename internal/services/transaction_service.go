package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"koinsave/internal/dto"
	"koinsave/internal/models"
	"koinsave/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
	ErrInsufficientBalance = errors.New("insufficient balance for this transaction")
	ErrInvalidDateFormat   = errors.New("invalid date format")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// transactionService implements TransactionServiceInterface
type transactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	metrics         MetricsRecorderInterface
	now             func() time.Time
}

// NewTransactionService creates a transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	metrics MetricsRecorderInterface,
) TransactionServiceInterface {
	return &transactionService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		metrics:         metrics,
		now:             time.Now,
	}
}

// RecordTransaction validates and persists a transaction, adjusting the
// user's balance atomically. Send, bills and savings decrease the balance;
// receive increases it. A decreasing transaction that the balance cannot
// cover is rejected without any write.
func (s *transactionService) RecordTransaction(userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, *models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, nil, ErrInvalidAmount
	}
	if !amount.GreaterThan(decimal.Zero) {
		return nil, nil, ErrInvalidAmount
	}
	if amount.GreaterThan(models.MaxTransactionAmount) {
		return nil, nil, ErrAmountTooLarge
	}

	occurredAt := s.now()
	if req.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			return nil, nil, ErrInvalidDateFormat
		}
		occurredAt = parsed
	}

	recipient := req.Recipient
	if recipient == "" {
		recipient = models.DefaultRecipient(req.Type)
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        req.Type,
		Amount:      amount,
		Description: req.Description,
		Recipient:   recipient,
		Category:    req.Category,
		Status:      models.TransactionStatusCompleted,
		OccurredAt:  occurredAt,
	}
	if err := transaction.Validate(); err != nil {
		return nil, nil, err
	}

	if transaction.DecreasesBalance() && !user.CanAfford(amount) {
		slog.Warn("transaction rejected, insufficient balance",
			"user_id", userID,
			"type", req.Type,
			"amount", amount.StringFixed(2))
		return nil, nil, ErrInsufficientBalance
	}

	newBalance := user.Balance.Add(transaction.BalanceDelta())
	if err := s.transactionRepo.CreateWithBalanceUpdate(transaction, newBalance); err != nil {
		return nil, nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	user.Balance = newBalance

	s.metrics.IncrementTransactionsRecorded(transaction.Type)
	slog.Info("transaction recorded",
		"transaction_id", transaction.ID,
		"user_id", userID,
		"type", transaction.Type,
		"category", transaction.Category,
		"amount", amount.StringFixed(2))

	return transaction, user, nil
}

// ListTransactions returns a filtered, paginated page of the user's
// transactions, newest first, plus the total match count.
func (s *transactionService) ListTransactions(userID uuid.UUID, req *dto.ListTransactionsRequest) ([]models.Transaction, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filters := models.TransactionFilters{
		UserID:   userID,
		Type:     req.Type,
		Category: req.Category,
		Search:   req.Search,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}

	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return nil, 0, ErrInvalidDateFormat
		}
		filters.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return nil, 0, ErrInvalidDateFormat
		}
		filters.To = &to
	}

	transactions, total, err := s.transactionRepo.GetWithFilters(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}

// ExportCSV renders the user's full transaction history as CSV,
// newest first, with amounts fixed to two fraction digits.
func (s *transactionService) ExportCSV(userID uuid.UUID) ([]byte, error) {
	transactions, err := s.transactionRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Date", "Type", "Category", "Description", "Recipient", "Amount", "Status"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range transactions {
		record := []string{
			t.OccurredAt.Format("2006-01-02"),
			t.Type,
			t.Category,
			t.Description,
			t.Recipient,
			t.Amount.StringFixed(2),
			t.Status,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	slog.Info("transaction export generated", "user_id", userID, "rows", len(transactions))
	return buf.Bytes(), nil
}
