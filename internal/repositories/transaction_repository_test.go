package repositories

import (
	"testing"
	"time"

	"koinsave/internal/database"
	"koinsave/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo TransactionRepositoryInterface
	user *models.User
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "repo@example.com", decimal.NewFromInt(1000))
}

func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

func (s *TransactionRepositorySuite) newTransaction(txType, category, description string, amount float64, occurredAt time.Time) *models.Transaction {
	return &models.Transaction{
		UserID:      s.user.ID,
		Type:        txType,
		Amount:      decimal.NewFromFloat(amount),
		Description: description,
		Recipient:   "Acme",
		Category:    category,
		Status:      models.TransactionStatusCompleted,
		OccurredAt:  occurredAt,
	}
}

func (s *TransactionRepositorySuite) TestCreateWithBalanceUpdate() {
	transaction := s.newTransaction(models.TransactionTypeSend, models.CategoryFood, "Lunch", 25.50, time.Now())

	err := s.repo.CreateWithBalanceUpdate(transaction, decimal.NewFromFloat(974.50))
	s.Require().NoError(err)

	stored, err := s.repo.GetByID(transaction.ID)
	s.Require().NoError(err)
	s.True(stored.Amount.Equal(decimal.NewFromFloat(25.50)))

	var user models.User
	s.Require().NoError(s.db.First(&user, "id = ?", s.user.ID).Error)
	s.True(user.Balance.Equal(decimal.NewFromFloat(974.50)))
}

func (s *TransactionRepositorySuite) TestCreateWithBalanceUpdate_UnknownUserRollsBack() {
	transaction := s.newTransaction(models.TransactionTypeSend, models.CategoryFood, "Lunch", 10, time.Now())
	transaction.UserID = uuid.New()

	err := s.repo.CreateWithBalanceUpdate(transaction, decimal.NewFromInt(990))
	s.ErrorIs(err, ErrUserNotFound)

	var count int64
	s.Require().NoError(s.db.Model(&models.Transaction{}).Count(&count).Error)
	s.Zero(count)
}

func (s *TransactionRepositorySuite) TestCreateWithBalanceUpdate_InvalidRecordRollsBack() {
	transaction := s.newTransaction("invalid-type", models.CategoryFood, "Lunch", 10, time.Now())

	err := s.repo.CreateWithBalanceUpdate(transaction, decimal.NewFromInt(990))
	s.Require().Error(err)

	var user models.User
	s.Require().NoError(s.db.First(&user, "id = ?", s.user.ID).Error)
	s.True(user.Balance.Equal(decimal.NewFromInt(1000)))
}

func (s *TransactionRepositorySuite) TestGetWithFilters() {
	now := time.Now()
	batch := []models.Transaction{
		*s.newTransaction(models.TransactionTypeSend, models.CategoryFood, "Grocery run", 40, now.Add(-3*time.Hour)),
		*s.newTransaction(models.TransactionTypeBills, models.CategoryUtilities, "Electric bill", 90, now.Add(-2*time.Hour)),
		*s.newTransaction(models.TransactionTypeReceive, models.CategoryIncome, "Salary", 3000, now.Add(-1*time.Hour)),
	}
	s.Require().NoError(s.repo.CreateBatch(batch))

	s.Run("all newest first", func() {
		results, total, err := s.repo.GetWithFilters(models.TransactionFilters{UserID: s.user.ID})
		s.Require().NoError(err)
		s.Equal(int64(3), total)
		s.Require().Len(results, 3)
		s.Equal("Salary", results[0].Description)
		s.Equal("Grocery run", results[2].Description)
	})

	s.Run("by type", func() {
		results, total, err := s.repo.GetWithFilters(models.TransactionFilters{
			UserID: s.user.ID,
			Type:   models.TransactionTypeBills,
		})
		s.Require().NoError(err)
		s.Equal(int64(1), total)
		s.Require().Len(results, 1)
		s.Equal("Electric bill", results[0].Description)
	})

	s.Run("by category", func() {
		results, _, err := s.repo.GetWithFilters(models.TransactionFilters{
			UserID:   s.user.ID,
			Category: models.CategoryFood,
		})
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.Equal("Grocery run", results[0].Description)
	})

	s.Run("search matches description case-insensitively", func() {
		results, _, err := s.repo.GetWithFilters(models.TransactionFilters{
			UserID: s.user.ID,
			Search: "SALARY",
		})
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.Equal("Salary", results[0].Description)
	})

	s.Run("pagination keeps total", func() {
		results, total, err := s.repo.GetWithFilters(models.TransactionFilters{
			UserID: s.user.ID,
			Limit:  2,
			Offset: 2,
		})
		s.Require().NoError(err)
		s.Equal(int64(3), total)
		s.Require().Len(results, 1)
		s.Equal("Grocery run", results[0].Description)
	})

	s.Run("date range excludes outside window", func() {
		from := now.Add(-150 * time.Minute)
		results, _, err := s.repo.GetWithFilters(models.TransactionFilters{
			UserID: s.user.ID,
			From:   &from,
		})
		s.Require().NoError(err)
		s.Len(results, 2)
	})

	s.Run("other user sees nothing", func() {
		results, total, err := s.repo.GetWithFilters(models.TransactionFilters{UserID: uuid.New()})
		s.Require().NoError(err)
		s.Zero(total)
		s.Empty(results)
	})
}

func (s *TransactionRepositorySuite) TestGetByDateRange_ChronologicalOrder() {
	now := time.Now()
	batch := []models.Transaction{
		*s.newTransaction(models.TransactionTypeSend, models.CategoryFood, "Second", 10, now.Add(-1*time.Hour)),
		*s.newTransaction(models.TransactionTypeSend, models.CategoryFood, "First", 10, now.Add(-2*time.Hour)),
	}
	s.Require().NoError(s.repo.CreateBatch(batch))

	results, err := s.repo.GetByDateRange(s.user.ID, now.Add(-24*time.Hour), now)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("First", results[0].Description)
	s.Equal("Second", results[1].Description)
}

func (s *TransactionRepositorySuite) TestCountByUserID() {
	s.Require().NoError(s.repo.Create(s.newTransaction(models.TransactionTypeSend, models.CategoryFood, "Lunch", 12, time.Now())))

	count, err := s.repo.CountByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	count, err = s.repo.CountByUserID(uuid.New())
	s.Require().NoError(err)
	s.Zero(count)
}
