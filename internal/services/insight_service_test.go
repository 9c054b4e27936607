package services

import (
	"fmt"
	"testing"
	"time"

	"koinsave/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InsightEngineSuite struct {
	suite.Suite
	now    time.Time
	userID uuid.UUID
}

func (s *InsightEngineSuite) SetupTest() {
	s.now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	s.userID = uuid.New()
}

func TestInsightEngineSuite(t *testing.T) {
	suite.Run(t, new(InsightEngineSuite))
}

func (s *InsightEngineSuite) txn(txType string, amount float64, category string, occurredAt time.Time) models.Transaction {
	return models.Transaction{
		ID:         uuid.New(),
		UserID:     s.userID,
		Type:       txType,
		Amount:     decimal.NewFromFloat(amount),
		Category:   category,
		Recipient:  "Test Recipient",
		Status:     models.TransactionStatusCompleted,
		OccurredAt: occurredAt,
	}
}

func (s *InsightEngineSuite) thisMonth(day int) time.Time {
	return time.Date(2024, time.June, day, 10, 0, 0, 0, time.UTC)
}

func (s *InsightEngineSuite) lastMonth(day int) time.Time {
	return time.Date(2024, time.May, day, 10, 0, 0, 0, time.UTC)
}

func (s *InsightEngineSuite) TestSpendingIncreaseTriggersWarning() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeSend, 1000, models.CategoryShopping, s.lastMonth(10)),
		s.txn(models.TransactionTypeSend, 1500, models.CategoryShopping, s.thisMonth(10)),
	}

	insights := GenerateInsights(transactions, s.now)

	require.NotEmpty(s.T(), insights)
	s.Equal(models.InsightKindSpendingTrend, insights[0].Kind)
	s.Equal(models.InsightSeverityWarning, insights[0].Severity)
	s.Equal("You're spending 50.0% more than last month. Consider reviewing your expenses.", insights[0].Message)
}

func (s *InsightEngineSuite) TestSpendingDecreaseTriggersSuccess() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeSend, 2000, models.CategoryShopping, s.lastMonth(10)),
		s.txn(models.TransactionTypeSend, 1000, models.CategoryShopping, s.thisMonth(10)),
	}

	insights := GenerateInsights(transactions, s.now)

	require.NotEmpty(s.T(), insights)
	s.Equal(models.InsightKindSpendingTrend, insights[0].Kind)
	s.Equal(models.InsightSeveritySuccess, insights[0].Severity)
	s.Equal("You've reduced spending by 50.0% compared to last month!", insights[0].Message)
}

func (s *InsightEngineSuite) TestNoTrendInsightWithoutPriorBaseline() {
	// No prior-month expenses at all: spending-trend must stay silent even
	// though this month has plenty of spend.
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeSend, 900, models.CategoryShopping, s.thisMonth(10)),
	}

	insights := GenerateInsights(transactions, s.now)

	for _, insight := range insights {
		s.NotEqual(models.InsightKindSpendingTrend, insight.Kind)
	}
}

func (s *InsightEngineSuite) TestSmallChangeDrawsNoTrendInsight() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeSend, 1000, models.CategoryShopping, s.lastMonth(10)),
		s.txn(models.TransactionTypeSend, 1050, models.CategoryShopping, s.thisMonth(10)),
	}

	insights := GenerateInsights(transactions, s.now)

	for _, insight := range insights {
		s.NotEqual(models.InsightKindSpendingTrend, insight.Kind)
	}
}

func (s *InsightEngineSuite) TestTopCategoryInsightNamesLargestCategory() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeSend, 320.50, models.CategoryFood, s.thisMonth(3)),
		s.txn(models.TransactionTypeSend, 80, models.CategoryShopping, s.thisMonth(5)),
	}

	insights := GenerateInsights(transactions, s.now)

	var topCategory *models.Insight
	for i := range insights {
		if insights[i].Kind == models.InsightKindTopCategory {
			topCategory = &insights[i]
		}
	}

	require.NotNil(s.T(), topCategory)
	s.Equal(models.InsightSeverityInfo, topCategory.Severity)
	s.Equal("Most money went to food: $320.50. Is this aligned with your priorities?", topCategory.Message)
}

func (s *InsightEngineSuite) TestSmallPurchaseTipAnnualizesSavings() {
	var transactions []models.Transaction
	// 8 purchases of 15 each: all under 20, totalling 120
	for day := 1; day <= 8; day++ {
		transactions = append(transactions, s.txn(models.TransactionTypeSend, 15, models.CategoryFood, s.thisMonth(day)))
	}

	insights := GenerateInsights(transactions, s.now)

	var tip *models.Insight
	for i := range insights {
		if insights[i].Kind == models.InsightKindSmallPurchases {
			tip = &insights[i]
		}
	}

	require.NotNil(s.T(), tip)
	s.Equal(models.InsightSeverityTip, tip.Severity)
	s.Equal("You spent $120.00 on small purchases. Reducing these by 50% could save you $720.00/year!", tip.Message)
}

func (s *InsightEngineSuite) TestLargePurchasesDoNotCountAsSmall() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeSend, 500, models.CategoryShopping, s.thisMonth(3)),
		s.txn(models.TransactionTypeSend, 19.99, models.CategoryFood, s.thisMonth(4)),
	}

	insights := GenerateInsights(transactions, s.now)

	for _, insight := range insights {
		s.NotEqual(models.InsightKindSmallPurchases, insight.Kind)
	}
}

func (s *InsightEngineSuite) TestExcellentSavingsRate() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeReceive, 4000, models.CategoryIncome, s.thisMonth(1)),
		s.txn(models.TransactionTypeSend, 2000, models.CategoryShopping, s.thisMonth(10)),
	}

	insights := GenerateInsights(transactions, s.now)

	var savingsRate *models.Insight
	for i := range insights {
		if insights[i].Kind == models.InsightKindSavingsRate {
			savingsRate = &insights[i]
		}
	}

	require.NotNil(s.T(), savingsRate)
	s.Equal(models.InsightSeveritySuccess, savingsRate.Severity)
	s.Equal("You're saving 50.0% of your income. Keep it up!", savingsRate.Message)
}

func (s *InsightEngineSuite) TestLowSavingsRateWarning() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeReceive, 1000, models.CategoryIncome, s.thisMonth(1)),
		s.txn(models.TransactionTypeSend, 950, models.CategoryShopping, s.thisMonth(10)),
	}

	insights := GenerateInsights(transactions, s.now)

	var savingsRate *models.Insight
	for i := range insights {
		if insights[i].Kind == models.InsightKindSavingsRate {
			savingsRate = &insights[i]
		}
	}

	require.NotNil(s.T(), savingsRate)
	s.Equal(models.InsightSeverityWarning, savingsRate.Severity)
	s.Equal("You're only saving 5.0% of your income. Aim for at least 20%.", savingsRate.Message)
}

func (s *InsightEngineSuite) TestNoSavingsRateInsightWithoutIncome() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeSend, 300, models.CategoryShopping, s.thisMonth(10)),
	}

	insights := GenerateInsights(transactions, s.now)

	for _, insight := range insights {
		s.NotEqual(models.InsightKindSavingsRate, insight.Kind)
	}
}

func (s *InsightEngineSuite) TestTruncationKeepsPriorityOrder() {
	var transactions []models.Transaction

	// Trend: 50% increase over last month
	transactions = append(transactions,
		s.txn(models.TransactionTypeSend, 1000, models.CategoryShopping, s.lastMonth(10)),
		s.txn(models.TransactionTypeSend, 1200, models.CategoryShopping, s.thisMonth(10)),
	)
	// Small purchases: over the alert total
	for day := 1; day <= 10; day++ {
		transactions = append(transactions, s.txn(models.TransactionTypeSend, 15, models.CategoryFood, s.thisMonth(day)))
	}
	// Low savings rate
	transactions = append(transactions, s.txn(models.TransactionTypeReceive, 1400, models.CategoryIncome, s.thisMonth(1)))

	insights := GenerateInsights(transactions, s.now)

	// All four rules qualify; only the first three survive, in rule order.
	require.Len(s.T(), insights, MaxInsights)
	s.Equal(models.InsightKindSpendingTrend, insights[0].Kind)
	s.Equal(models.InsightKindTopCategory, insights[1].Kind)
	s.Equal(models.InsightKindSmallPurchases, insights[2].Kind)
}

func (s *InsightEngineSuite) TestEmptySnapshotYieldsNoInsights() {
	insights := GenerateInsights(nil, s.now)
	s.Empty(insights)
}

func (s *InsightEngineSuite) TestMessagesRenderOneDecimalPlace() {
	transactions := []models.Transaction{
		s.txn(models.TransactionTypeSend, 300, models.CategoryShopping, s.lastMonth(10)),
		s.txn(models.TransactionTypeSend, 400, models.CategoryShopping, s.thisMonth(10)),
	}

	insights := GenerateInsights(transactions, s.now)

	require.NotEmpty(s.T(), insights)
	expected := fmt.Sprintf("You're spending %.1f%% more than last month. Consider reviewing your expenses.", 400.0/300.0*100-100)
	s.Equal(expected, insights[0].Message)
}
