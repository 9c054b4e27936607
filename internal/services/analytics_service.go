package services

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"koinsave/internal/models"
	"koinsave/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregation is always a full recomputation over one user's transaction
// snapshot; there is no incremental state and no cache. Correctness only
// requires that every function here is pure in (snapshot, now).

const (
	// TopCategoryLimit caps the category breakdown
	TopCategoryLimit = 5

	// RecurringMinOccurrences is the strict threshold for flagging a
	// (recipient, amount) pair as a recurring charge.
	RecurringMinOccurrences = 2

	// AssumedChargeIntervalDays is the fixed billing interval assumed when
	// estimating the next charge. Actual inter-occurrence intervals are
	// deliberately not measured.
	AssumedChargeIntervalDays = 30

	// DueSoonStatusDays marks a charge "due-soon" when the next charge is
	// at most this many days away.
	DueSoonStatusDays = 3

	// DueSoonReportWindowDays is the wider window used for the report's
	// due-soon counter. Distinct from the status threshold on purpose.
	DueSoonReportWindowDays = 7
)

var (
	savingsReserveRate = decimal.NewFromFloat(0.10)
	bufferRate         = decimal.NewFromFloat(0.05)
	minimumBuffer      = decimal.NewFromInt(50)

	safeTierMinPercent    = 40.0
	cautionTierMinPercent = 20.0
)

// PeriodWindow computes the aggregation window for a period relative to now.
// Week and year are rolling windows ending at now; month covers the calendar
// month containing now. The inconsistency is intentional and must not be
// "fixed" to a uniform rolling window.
func PeriodWindow(period models.Period, now time.Time) (time.Time, time.Time) {
	switch period {
	case models.PeriodWeek:
		return now.AddDate(0, 0, -7), now
	case models.PeriodYear:
		return now.AddDate(-1, 0, 0), now
	default: // month
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return start, end
	}
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// SummarizePeriod aggregates income, expenses, savings and net over the
// period's window. Net is income minus expenses; savings movements are
// tracked separately and never subtract from net. Sums are exact decimals;
// rounding happens only at the presentation boundary.
func SummarizePeriod(transactions []models.Transaction, period models.Period, now time.Time) models.PeriodSummary {
	start, end := PeriodWindow(period, now)

	summary := models.PeriodSummary{
		Period:       period,
		WindowStart:  start,
		WindowEnd:    end,
		Income:       decimal.Zero,
		Expenses:     decimal.Zero,
		Savings:      decimal.Zero,
		CountsByType: make(map[string]int),
	}

	for i := range transactions {
		t := &transactions[i]
		if !inWindow(t.OccurredAt, start, end) {
			continue
		}

		summary.CountsByType[t.Type]++

		switch t.Type {
		case models.TransactionTypeReceive:
			summary.Income = summary.Income.Add(t.Amount)
		case models.TransactionTypeSend, models.TransactionTypeBills:
			summary.Expenses = summary.Expenses.Add(t.Amount)
		case models.TransactionTypeSavings:
			summary.Savings = summary.Savings.Add(t.Amount)
		}
	}

	summary.Net = summary.Income.Sub(summary.Expenses)
	return summary
}

// TopCategories groups expense transactions inside [start, end] by category
// and returns at most limit entries, descending by amount. The sort is
// stable: categories with equal sums keep first-seen order. Percentages are
// shares of the window's total expenses, and 0 when there are no expenses.
func TopCategories(transactions []models.Transaction, start, end time.Time, limit int) []models.CategoryBreakdown {
	sums := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	total := decimal.Zero

	for i := range transactions {
		t := &transactions[i]
		if !t.IsExpense() || !inWindow(t.OccurredAt, start, end) {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
		total = total.Add(t.Amount)
	}

	entries := make([]models.CategoryBreakdown, 0, len(order))
	for _, category := range order {
		entries = append(entries, models.CategoryBreakdown{
			Category: category,
			Amount:   sums[category],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.GreaterThan(entries[j].Amount)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		if total.IsPositive() {
			share, _ := entries[i].Amount.Div(total).Float64()
			entries[i].PercentOfExpenses = share * 100
		}
	}

	return entries
}

// DetectRecurringCharges finds subscription-like obligations: expense
// transactions with the same recipient and the same exact amount, observed
// two or more times. No fuzzy matching is attempted. Output order is the
// first-seen order of qualifying pairs, so identical input yields identical
// output.
func DetectRecurringCharges(transactions []models.Transaction, now time.Time) models.SubscriptionReport {
	type group struct {
		name     string
		amount   decimal.Decimal
		category string
		dates    []time.Time
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for i := range transactions {
		t := &transactions[i]
		if !t.IsExpense() {
			continue
		}
		key := t.Recipient + "|" + t.Amount.StringFixed(2)
		g, ok := groups[key]
		if !ok {
			g = &group{name: t.Recipient, amount: t.Amount, category: t.Category}
			groups[key] = g
			order = append(order, key)
		}
		g.dates = append(g.dates, t.OccurredAt)
	}

	report := models.SubscriptionReport{
		Charges:          make([]models.RecurringCharge, 0),
		TotalMonthly:     decimal.Zero,
		PotentialSavings: decimal.Zero,
	}

	for _, key := range order {
		g := groups[key]
		if len(g.dates) < RecurringMinOccurrences {
			continue
		}

		sort.Slice(g.dates, func(i, j int) bool { return g.dates[i].Before(g.dates[j]) })
		lastDate := g.dates[len(g.dates)-1]
		nextDate := lastDate.AddDate(0, 0, AssumedChargeIntervalDays)
		daysUntil := int(math.Ceil(nextDate.Sub(now).Hours() / 24))

		status := models.RecurringStatusActive
		if daysUntil <= DueSoonStatusDays {
			status = models.RecurringStatusDueSoon
		}

		charge := models.RecurringCharge{
			Name:            g.name,
			Amount:          g.amount,
			Category:        g.category,
			Occurrences:     g.dates,
			EstimatedNextAt: nextDate,
			DaysUntilNext:   daysUntil,
			Status:          status,
			UsageScore:      usageScore(len(g.dates), lastDate, now),
		}

		report.TotalMonthly = report.TotalMonthly.Add(charge.Amount)
		if charge.LowUsage() {
			report.PotentialSavings = report.PotentialSavings.Add(charge.Amount)
		}
		if daysUntil <= DueSoonReportWindowDays {
			report.DueSoonCount++
		}

		report.Charges = append(report.Charges, charge)
	}

	return report
}

// usageScore is a deterministic recency-weighted frequency proxy in [0,100]:
// each observed charge adds 12 points and a charge seen within the last 26
// days adds up to 52 more, decaying 2 points per day since the last
// occurrence. The same snapshot always yields the same score, so a charge
// never flips between usage tiers across requests.
func usageScore(occurrences int, lastDate, now time.Time) int {
	daysSinceLast := int(now.Sub(lastDate).Hours() / 24)
	if daysSinceLast < 0 {
		daysSinceLast = 0
	}

	recency := 52 - 2*daysSinceLast
	if recency < 0 {
		recency = 0
	}

	score := occurrences*12 + recency
	if score > 100 {
		score = 100
	}
	return score
}

// ComputeSafeToSpend estimates discretionary headroom: the balance minus a
// flat upcoming-bills reserve, a 10% savings reserve and a cash buffer of at
// least 50. A non-positive balance short-circuits to a zero, danger-tier
// estimate so no division by zero can occur.
func ComputeSafeToSpend(balance, upcomingBills decimal.Decimal) models.SafeToSpendEstimate {
	if !balance.IsPositive() {
		return models.SafeToSpendEstimate{
			Amount:   decimal.Zero,
			RiskTier: models.RiskTierDanger,
		}
	}

	savingsReserve := balance.Mul(savingsReserveRate)

	buffer := balance.Mul(bufferRate)
	if buffer.LessThan(minimumBuffer) {
		buffer = minimumBuffer
	}

	safe := balance.Sub(upcomingBills).Sub(savingsReserve).Sub(buffer)
	if safe.IsNegative() {
		safe = decimal.Zero
	}

	ratio, _ := safe.Div(balance).Float64()
	pct := ratio * 100

	tier := models.RiskTierDanger
	switch {
	case pct > safeTierMinPercent:
		tier = models.RiskTierSafe
	case pct > cautionTierMinPercent:
		tier = models.RiskTierCaution
	}

	return models.SafeToSpendEstimate{
		Amount:           safe,
		RiskTier:         tier,
		PercentOfBalance: pct,
	}
}

type analyticsService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	upcomingBills   decimal.Decimal
	metrics         MetricsRecorderInterface
	now             func() time.Time
}

// NewAnalyticsService creates an AnalyticsServiceInterface instance.
// upcomingBills is the flat reserve used by the safe-to-spend estimate.
func NewAnalyticsService(
	transactionRepo repositories.TransactionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	upcomingBills decimal.Decimal,
	metrics MetricsRecorderInterface,
) AnalyticsServiceInterface {
	return &analyticsService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		upcomingBills:   upcomingBills,
		metrics:         metrics,
		now:             time.Now,
	}
}

func (s *analyticsService) GetPeriodSummary(userID uuid.UUID, period models.Period) (*models.PeriodSummary, error) {
	transactions, err := s.snapshot(userID, "summary")
	if err != nil {
		return nil, err
	}

	summary := SummarizePeriod(transactions, period, s.now())

	slog.Info("period summary generated",
		"user_id", userID,
		"period", period,
		"transaction_count", len(transactions),
		"net", summary.Net.String())

	return &summary, nil
}

func (s *analyticsService) GetTopCategories(userID uuid.UUID, period models.Period) ([]models.CategoryBreakdown, error) {
	transactions, err := s.snapshot(userID, "categories")
	if err != nil {
		return nil, err
	}

	start, end := PeriodWindow(period, s.now())
	return TopCategories(transactions, start, end, TopCategoryLimit), nil
}

func (s *analyticsService) GetSubscriptions(userID uuid.UUID) (*models.SubscriptionReport, error) {
	transactions, err := s.snapshot(userID, "subscriptions")
	if err != nil {
		return nil, err
	}

	report := DetectRecurringCharges(transactions, s.now())

	slog.Info("recurring charges detected",
		"user_id", userID,
		"charge_count", len(report.Charges),
		"total_monthly", report.TotalMonthly.String())

	return &report, nil
}

func (s *analyticsService) GetSafeToSpend(userID uuid.UUID) (*models.SafeToSpendEstimate, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for safe-to-spend: %w", err)
	}

	s.metrics.IncrementAnalyticsRequests("safe_to_spend")
	estimate := ComputeSafeToSpend(user.Balance, s.upcomingBills)
	return &estimate, nil
}

// snapshot fetches the user's full transaction list once per request; every
// engine call computes from this single consistent snapshot.
func (s *analyticsService) snapshot(userID uuid.UUID, operation string) ([]models.Transaction, error) {
	started := s.now()

	transactions, err := s.transactionRepo.GetByUserID(userID)
	if err != nil {
		slog.Error("failed to fetch transaction snapshot",
			"user_id", userID,
			"operation", operation,
			"error", err)
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	s.metrics.IncrementAnalyticsRequests(operation)
	s.metrics.ObserveSnapshotFetch(time.Since(started))

	return transactions, nil
}
