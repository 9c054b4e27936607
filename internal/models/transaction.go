package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeSend    = "send"
	TransactionTypeReceive = "receive"
	TransactionTypeBills   = "bills"
	TransactionTypeSavings = "savings"

	// Every engine-visible transaction is completed; pending/failed
	// states are not modeled.
	TransactionStatusCompleted = "completed"
)

// MaxTransactionAmount caps a single transaction at one million currency units.
var MaxTransactionAmount = decimal.NewFromInt(1_000_000)

var (
	ErrInvalidRecord            = errors.New("invalid transaction record")
	ErrInvalidTransactionType   = fmt.Errorf("%w: invalid transaction type", ErrInvalidRecord)
	ErrInvalidCategory          = fmt.Errorf("%w: invalid category", ErrInvalidRecord)
	ErrNegativeAmount           = fmt.Errorf("%w: amount must not be negative", ErrInvalidRecord)
	ErrAmountTooLarge           = fmt.Errorf("%w: amount exceeds maximum", ErrInvalidRecord)
	ErrMissingOccurredAt        = fmt.Errorf("%w: transaction date is required", ErrInvalidRecord)
	ErrInvalidTransactionStatus = fmt.Errorf("%w: invalid status", ErrInvalidRecord)
)

// Transaction is a single money movement recorded by a user. The sign of the
// movement is derived from Type; Amount is always a non-negative magnitude.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string          `gorm:"type:varchar(20);not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Recipient   string          `gorm:"type:varchar(255);not null" json:"recipient"`
	Category    string          `gorm:"type:varchar(50);not null" json:"category"`
	Status      string          `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	OccurredAt  time.Time       `gorm:"not null;index" json:"occurred_at"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()

	if t.Status == "" {
		t.Status = TransactionStatusCompleted
	}
	if t.OccurredAt.IsZero() {
		t.OccurredAt = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// Validate checks the transaction fields and fails fast with an
// ErrInvalidRecord-wrapped error so malformed input never reaches the
// aggregation engine.
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return fmt.Errorf("%w: user ID is required", ErrInvalidRecord)
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if !IsValidCategory(t.Category) {
		return ErrInvalidCategory
	}

	if t.Status != TransactionStatusCompleted {
		return ErrInvalidTransactionStatus
	}

	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if t.Amount.GreaterThan(MaxTransactionAmount) {
		return ErrAmountTooLarge
	}

	if t.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidRecord)
	}

	if t.OccurredAt.IsZero() {
		return ErrMissingOccurredAt
	}

	return nil
}

// IsExpense reports whether the transaction counts toward expenses.
// Savings decrease the balance but are tracked separately from expenses.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeSend || t.Type == TransactionTypeBills
}

// DecreasesBalance reports whether recording the transaction lowers the
// user's balance.
func (t *Transaction) DecreasesBalance() bool {
	switch t.Type {
	case TransactionTypeSend, TransactionTypeBills, TransactionTypeSavings:
		return true
	default:
		return false
	}
}

// BalanceDelta returns the signed effect of the transaction on the balance.
func (t *Transaction) BalanceDelta() decimal.Decimal {
	if t.DecreasesBalance() {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t *Transaction) TableName() string {
	return "transactions"
}

func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeSend, TransactionTypeReceive, TransactionTypeBills, TransactionTypeSavings:
		return true
	default:
		return false
	}
}

// AllTransactionTypes returns the valid transaction types.
func AllTransactionTypes() []string {
	return []string{
		TransactionTypeSend,
		TransactionTypeReceive,
		TransactionTypeBills,
		TransactionTypeSavings,
	}
}

// DefaultRecipient resolves the counterparty label when none is supplied.
// Savings movements go to the user's own savings pot.
func DefaultRecipient(transactionType string) string {
	if transactionType == TransactionTypeSavings {
		return "Self"
	}
	return "Unknown"
}
