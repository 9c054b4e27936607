package services

import (
	"fmt"
	"log/slog"
	"time"

	"koinsave/internal/models"
	"koinsave/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxInsights caps the number of insights returned per request
	MaxInsights = 3

	// TrendAlertThresholdPercent is the month-over-month spending change,
	// in either direction, that triggers a trend insight.
	TrendAlertThresholdPercent = 10.0

	// SmallPurchaseAnnualizedFactor projects the yearly savings of halving
	// small purchases as six times the monthly small-purchase sum.
	SmallPurchaseAnnualizedFactor = 6

	// SavingsRateExcellentPercent and SavingsRateLowPercent bound the
	// savings-rate commentary; rates between them draw no insight.
	SavingsRateExcellentPercent = 20.0
	SavingsRateLowPercent       = 10.0
)

var (
	// smallPurchaseCeiling bounds what counts as a small purchase
	smallPurchaseCeiling = decimal.NewFromInt(20)

	// smallPurchaseAlertTotal is the monthly small-purchase sum above which
	// the savings-opportunity tip fires.
	smallPurchaseAlertTotal = decimal.NewFromInt(100)
)

// GenerateInsights evaluates the four insight rules in their fixed priority
// order (spending trend, top category, small purchases, savings rate),
// collects every qualifying insight in that order, and truncates to
// MaxInsights. The result is never re-sorted by severity: first qualified,
// first kept.
func GenerateInsights(transactions []models.Transaction, now time.Time) []models.Insight {
	thisStart, thisEnd := PeriodWindow(models.PeriodMonth, now)
	priorRef := thisStart.AddDate(0, -1, 0)

	thisSummary := SummarizePeriod(transactions, models.PeriodMonth, now)
	priorSummary := SummarizePeriod(transactions, models.PeriodMonth, priorRef)

	insights := make([]models.Insight, 0, 4)

	if insight, ok := spendingTrendInsight(thisSummary.Expenses, priorSummary.Expenses); ok {
		insights = append(insights, insight)
	}

	if insight, ok := topCategoryInsight(transactions, thisStart, thisEnd); ok {
		insights = append(insights, insight)
	}

	if insight, ok := smallPurchaseInsight(transactions, thisStart, thisEnd); ok {
		insights = append(insights, insight)
	}

	if insight, ok := savingsRateInsight(thisSummary.Income, thisSummary.Expenses); ok {
		insights = append(insights, insight)
	}

	if len(insights) > MaxInsights {
		insights = insights[:MaxInsights]
	}

	return insights
}

// spendingTrendInsight compares this calendar month's expenses against the
// prior calendar month's. A zero prior month means no baseline and no alert.
func spendingTrendInsight(thisMonth, priorMonth decimal.Decimal) (models.Insight, bool) {
	if !priorMonth.IsPositive() {
		return models.Insight{}, false
	}

	change, _ := thisMonth.Sub(priorMonth).Div(priorMonth).Float64()
	percentChange := change * 100

	if percentChange > TrendAlertThresholdPercent {
		return models.Insight{
			Kind:     models.InsightKindSpendingTrend,
			Severity: models.InsightSeverityWarning,
			Title:    "Spending Alert",
			Message:  fmt.Sprintf("You're spending %.1f%% more than last month. Consider reviewing your expenses.", percentChange),
		}, true
	}

	if percentChange < -TrendAlertThresholdPercent {
		return models.Insight{
			Kind:     models.InsightKindSpendingTrend,
			Severity: models.InsightSeveritySuccess,
			Title:    "Great Job!",
			Message:  fmt.Sprintf("You've reduced spending by %.1f%% compared to last month!", -percentChange),
		}, true
	}

	return models.Insight{}, false
}

// topCategoryInsight names the single highest-spend category of the month,
// if any expense exists.
func topCategoryInsight(transactions []models.Transaction, start, end time.Time) (models.Insight, bool) {
	top := TopCategories(transactions, start, end, 1)
	if len(top) == 0 {
		return models.Insight{}, false
	}

	return models.Insight{
		Kind:     models.InsightKindTopCategory,
		Severity: models.InsightSeverityInfo,
		Title:    "Top Spending Category",
		Message:  fmt.Sprintf("Most money went to %s: $%s. Is this aligned with your priorities?", top[0].Category, top[0].Amount.StringFixed(2)),
	}, true
}

// smallPurchaseInsight sums the month's sub-20 expenses and, above a 100
// total, projects the annualized savings of halving them.
func smallPurchaseInsight(transactions []models.Transaction, start, end time.Time) (models.Insight, bool) {
	total := decimal.Zero
	for i := range transactions {
		t := &transactions[i]
		if !t.IsExpense() || !inWindow(t.OccurredAt, start, end) {
			continue
		}
		if t.Amount.LessThan(smallPurchaseCeiling) {
			total = total.Add(t.Amount)
		}
	}

	if !total.GreaterThan(smallPurchaseAlertTotal) {
		return models.Insight{}, false
	}

	projected := total.Mul(decimal.NewFromInt(SmallPurchaseAnnualizedFactor))

	return models.Insight{
		Kind:     models.InsightKindSmallPurchases,
		Severity: models.InsightSeverityTip,
		Title:    "Savings Opportunity",
		Message:  fmt.Sprintf("You spent $%s on small purchases. Reducing these by 50%% could save you $%s/year!", total.StringFixed(2), projected.StringFixed(2)),
	}, true
}

// savingsRateInsight comments on the month's savings rate. Zero income means
// the rate is undefined and no insight is emitted.
func savingsRateInsight(income, expenses decimal.Decimal) (models.Insight, bool) {
	if !income.IsPositive() {
		return models.Insight{}, false
	}

	rate, _ := income.Sub(expenses).Div(income).Float64()
	savingsRate := rate * 100

	if savingsRate > SavingsRateExcellentPercent {
		return models.Insight{
			Kind:     models.InsightKindSavingsRate,
			Severity: models.InsightSeveritySuccess,
			Title:    "Excellent Savings Rate!",
			Message:  fmt.Sprintf("You're saving %.1f%% of your income. Keep it up!", savingsRate),
		}, true
	}

	if savingsRate < SavingsRateLowPercent {
		return models.Insight{
			Kind:     models.InsightKindSavingsRate,
			Severity: models.InsightSeverityWarning,
			Title:    "Low Savings Rate",
			Message:  fmt.Sprintf("You're only saving %.1f%% of your income. Aim for at least 20%%.", savingsRate),
		}, true
	}

	return models.Insight{}, false
}

type insightService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	metrics         MetricsRecorderInterface
	now             func() time.Time
}

// NewInsightService creates an InsightServiceInterface instance
func NewInsightService(
	transactionRepo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
) InsightServiceInterface {
	return &insightService{
		transactionRepo: transactionRepo,
		metrics:         metrics,
		now:             time.Now,
	}
}

func (s *insightService) GetInsights(userID uuid.UUID) ([]models.Insight, error) {
	transactions, err := s.transactionRepo.GetByUserID(userID)
	if err != nil {
		slog.Error("failed to fetch transactions for insights",
			"user_id", userID,
			"error", err)
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	insights := GenerateInsights(transactions, s.now())

	for _, insight := range insights {
		s.metrics.IncrementInsightsGenerated(insight.Kind)
	}

	slog.Info("insights generated",
		"user_id", userID,
		"insight_count", len(insights))

	return insights, nil
}
