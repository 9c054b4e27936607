package services

import (
	"time"

	"koinsave/internal/dto"
	"koinsave/internal/models"

	"github.com/google/uuid"
)

// AnalyticsServiceInterface exposes the aggregation engine over one user's
// transaction snapshot. Every call recomputes from scratch; results are pure
// functions of the stored snapshot and the current time.
type AnalyticsServiceInterface interface {
	GetPeriodSummary(userID uuid.UUID, period models.Period) (*models.PeriodSummary, error)
	GetTopCategories(userID uuid.UUID, period models.Period) ([]models.CategoryBreakdown, error)
	GetSubscriptions(userID uuid.UUID) (*models.SubscriptionReport, error)
	GetSafeToSpend(userID uuid.UUID) (*models.SafeToSpendEstimate, error)
}

// InsightServiceInterface produces the ranked, bounded insight list
type InsightServiceInterface interface {
	GetInsights(userID uuid.UUID) ([]models.Insight, error)
}

// TransactionServiceInterface defines transaction recording and retrieval
type TransactionServiceInterface interface {
	RecordTransaction(userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, *models.User, error)
	ListTransactions(userID uuid.UUID, req *dto.ListTransactionsRequest) ([]models.Transaction, int64, error)
	ExportCSV(userID uuid.UUID) ([]byte, error)
}

// AuthServiceInterface defines the authentication operations
type AuthServiceInterface interface {
	Signup(req *dto.SignupRequest) (*dto.TokenResponse, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(accessToken string) error
	CurrentUser(userID uuid.UUID) (*models.User, error)
}

// TokenServiceInterface defines JWT issuing and validation
type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

// PasswordServiceInterface defines password hashing and policy checks
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// DemoDataServiceInterface generates realistic demo transactions for a user
type DemoDataServiceInterface interface {
	SeedDemoData(userID uuid.UUID, months int) (int, error)
}

// MetricsRecorderInterface abstracts the metrics backend
type MetricsRecorderInterface interface {
	IncrementTransactionsRecorded(transactionType string)
	IncrementInsightsGenerated(kind string)
	IncrementAnalyticsRequests(operation string)
	ObserveSnapshotFetch(duration time.Duration)
}
