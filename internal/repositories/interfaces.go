package repositories

import (
	"time"

	"koinsave/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateBalance(userID uuid.UUID, newBalance decimal.Decimal) error
	Delete(userID uuid.UUID) error
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	// CreateWithBalanceUpdate records a transaction and applies its balance
	// delta to the owning user atomically.
	CreateWithBalanceUpdate(transaction *models.Transaction, newBalance decimal.Decimal) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	// GetByUserID returns the user's full transaction snapshot ordered by
	// occurrence date descending. The aggregation engine operates on this
	// snapshot; it never queries incrementally.
	GetByUserID(userID uuid.UUID) ([]models.Transaction, error)
	GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetByDateRange(userID uuid.UUID, startDate, endDate time.Time) ([]models.Transaction, error)
	CreateBatch(transactions []models.Transaction) error
	CountByUserID(userID uuid.UUID) (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for revoked-token lookups
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}
