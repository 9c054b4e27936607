package services

import (
	"fmt"
	"log/slog"
	"time"

	"koinsave/internal/models"
	"koinsave/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	demoSalaryAmount = 4200.00
	demoRentAmount   = 1450.00
	salaryDayOfMonth = 1
	rentDayOfMonth   = 3
	billsDayOfMonth  = 15
)

// demoSubscription is a fixed recurring charge seeded every month so the
// subscription detector has exact recipient and amount repeats to find.
type demoSubscription struct {
	recipient string
	amount    float64
	category  string
}

var demoSubscriptions = []demoSubscription{
	{"Netflix", 15.99, models.CategoryEntertainment},
	{"Spotify", 9.99, models.CategoryEntertainment},
	{"CloudFit Gym", 45.00, models.CategoryHealthcare},
	{"PowerGrid Energy", 89.50, models.CategoryUtilities},
}

// demoDataService seeds realistic transaction history for demo accounts
type demoDataService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	faker           *gofakeit.Faker
}

// NewDemoDataService creates a demo data seeder. The faker is seeded so
// repeated runs in development produce the same history.
func NewDemoDataService(
	transactionRepo repositories.TransactionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	seed uint64,
) DemoDataServiceInterface {
	return &demoDataService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		faker:           gofakeit.New(seed),
	}
}

// SeedDemoData generates the given number of months of history for a user:
// a monthly salary, rent, fixed subscriptions, and a spread of day-to-day
// purchases. The user's balance is set to the net of everything generated.
// Returns the number of transactions created.
func (s *demoDataService) SeedDemoData(userID uuid.UUID, months int) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load user: %w", err)
	}

	if months < 1 {
		months = 3
	}

	now := time.Now()
	var transactions []models.Transaction
	balance := user.Balance

	for m := months - 1; m >= 0; m-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -m, 0)

		transactions = append(transactions, s.salaryFor(userID, monthStart))
		transactions = append(transactions, s.rentFor(userID, monthStart))
		for _, sub := range demoSubscriptions {
			transactions = append(transactions, s.subscriptionFor(userID, monthStart, sub))
		}
		transactions = append(transactions, s.dailyPurchasesFor(userID, monthStart)...)
	}

	// Drop anything generated past "now" so the engine's rolling windows
	// never see future-dated seed data.
	kept := transactions[:0]
	for _, t := range transactions {
		if !t.OccurredAt.After(now) {
			kept = append(kept, t)
		}
	}
	transactions = kept

	for i := range transactions {
		balance = balance.Add(transactions[i].BalanceDelta())
	}

	if err := s.transactionRepo.CreateBatch(transactions); err != nil {
		return 0, fmt.Errorf("failed to seed transactions: %w", err)
	}
	if err := s.userRepo.UpdateBalance(userID, balance); err != nil {
		return 0, fmt.Errorf("failed to update seeded balance: %w", err)
	}

	slog.Info("demo data seeded",
		"user_id", userID,
		"months", months,
		"transactions", len(transactions),
		"balance", balance.StringFixed(2))

	return len(transactions), nil
}

func (s *demoDataService) salaryFor(userID uuid.UUID, monthStart time.Time) models.Transaction {
	return models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeReceive,
		Amount:      decimal.NewFromFloat(demoSalaryAmount),
		Description: "Monthly salary",
		Recipient:   s.faker.Company(),
		Category:    models.CategoryIncome,
		Status:      models.TransactionStatusCompleted,
		OccurredAt:  monthStart.AddDate(0, 0, salaryDayOfMonth-1).Add(9 * time.Hour),
	}
}

func (s *demoDataService) rentFor(userID uuid.UUID, monthStart time.Time) models.Transaction {
	return models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeBills,
		Amount:      decimal.NewFromFloat(demoRentAmount),
		Description: "Monthly rent",
		Recipient:   "Oakview Property Management",
		Category:    models.CategoryHousing,
		Status:      models.TransactionStatusCompleted,
		OccurredAt:  monthStart.AddDate(0, 0, rentDayOfMonth-1).Add(8 * time.Hour),
	}
}

func (s *demoDataService) subscriptionFor(userID uuid.UUID, monthStart time.Time, sub demoSubscription) models.Transaction {
	return models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeBills,
		Amount:      decimal.NewFromFloat(sub.amount),
		Description: sub.recipient + " subscription",
		Recipient:   sub.recipient,
		Category:    sub.category,
		Status:      models.TransactionStatusCompleted,
		OccurredAt:  monthStart.AddDate(0, 0, billsDayOfMonth-1).Add(14 * time.Hour),
	}
}

func (s *demoDataService) dailyPurchasesFor(userID uuid.UUID, monthStart time.Time) []models.Transaction {
	categories := []string{
		models.CategoryFood,
		models.CategoryShopping,
		models.CategoryTransportation,
		models.CategoryEntertainment,
	}

	count := s.faker.Number(12, 20)
	purchases := make([]models.Transaction, 0, count+1)
	for i := 0; i < count; i++ {
		day := s.faker.Number(1, 28)
		category := categories[s.faker.Number(0, len(categories)-1)]
		purchases = append(purchases, models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeSend,
			Amount:      decimal.NewFromFloat(s.faker.Float64Range(4.50, 120.00)).Round(2),
			Description: s.faker.ProductName(),
			Recipient:   s.faker.Company(),
			Category:    category,
			Status:      models.TransactionStatusCompleted,
			OccurredAt:  monthStart.AddDate(0, 0, day-1).Add(time.Duration(s.faker.Number(8, 21)) * time.Hour),
		})
	}

	// One savings transfer a month keeps the savings-rate insight exercised.
	purchases = append(purchases, models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeSavings,
		Amount:      decimal.NewFromFloat(s.faker.Float64Range(200, 600)).Round(2),
		Description: "Savings transfer",
		Recipient:   "Self",
		Category:    models.CategorySavings,
		Status:      models.TransactionStatusCompleted,
		OccurredAt:  monthStart.AddDate(0, 0, s.faker.Number(2, 10)).Add(10 * time.Hour),
	})

	return purchases
}
