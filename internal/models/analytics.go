package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Period selects the aggregation window. Week and year are rolling windows
// ending at the reference instant; month is calendar-aligned. The asymmetry
// is deliberate and load-bearing for downstream consumers.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

var ErrInvalidPeriod = errors.New("invalid period: must be week, month or year")

// ParsePeriod validates a period selector, defaulting to month when empty.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	case "":
		return PeriodMonth, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// PeriodSummary aggregates one user's transactions over a window.
// Net is income minus expenses; savings are tracked separately and do not
// reduce net.
type PeriodSummary struct {
	Period       Period           `json:"period"`
	WindowStart  time.Time        `json:"window_start"`
	WindowEnd    time.Time        `json:"window_end"`
	Income       decimal.Decimal  `json:"income"`
	Expenses     decimal.Decimal  `json:"expenses"`
	Savings      decimal.Decimal  `json:"savings"`
	Net          decimal.Decimal  `json:"net"`
	CountsByType map[string]int   `json:"counts_by_type"`
}

// CategoryBreakdown is one entry of the top-spending-categories report.
type CategoryBreakdown struct {
	Category          string          `json:"category"`
	Amount            decimal.Decimal `json:"amount"`
	PercentOfExpenses float64         `json:"percent_of_expenses"`
}

// Recurring charge statuses
const (
	RecurringStatusActive  = "active"
	RecurringStatusDueSoon = "due-soon"
)

// LowUsageScoreThreshold marks a recurring charge as a cancellation
// candidate when its usage score falls below it.
const LowUsageScoreThreshold = 40

// RecurringCharge is a subscription-like obligation: the same counterparty
// charged the same exact amount two or more times.
type RecurringCharge struct {
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	Occurrences     []time.Time     `json:"occurrences"`
	EstimatedNextAt time.Time       `json:"estimated_next_at"`
	DaysUntilNext   int             `json:"days_until_next"`
	Status          string          `json:"status"`
	UsageScore      int             `json:"usage_score"`
}

// LowUsage reports whether the charge is a cancellation candidate.
func (rc *RecurringCharge) LowUsage() bool {
	return rc.UsageScore < LowUsageScoreThreshold
}

// SubscriptionReport is the aggregate view over all detected recurring charges.
type SubscriptionReport struct {
	Charges          []RecurringCharge `json:"charges"`
	TotalMonthly     decimal.Decimal   `json:"total_monthly"`
	PotentialSavings decimal.Decimal   `json:"potential_savings"`
	DueSoonCount     int               `json:"due_soon_count"`
}

// Risk tiers for the safe-to-spend estimate
const (
	RiskTierSafe    = "safe"
	RiskTierCaution = "caution"
	RiskTierDanger  = "danger"
)

// SafeToSpendEstimate is the discretionary-spending headroom after reserving
// for upcoming bills, a savings goal and a cash buffer.
type SafeToSpendEstimate struct {
	Amount           decimal.Decimal `json:"amount"`
	RiskTier         string          `json:"risk_tier"`
	PercentOfBalance float64         `json:"percent_of_balance"`
}

// Insight kinds, in the fixed priority order they are generated
const (
	InsightKindSpendingTrend  = "spending-trend"
	InsightKindTopCategory    = "top-category"
	InsightKindSmallPurchases = "small-purchases"
	InsightKindSavingsRate    = "savings-rate"
)

// Insight severities
const (
	InsightSeverityWarning = "warning"
	InsightSeveritySuccess = "success"
	InsightSeverityInfo    = "info"
	InsightSeverityTip     = "tip"
)

// Insight is a short ranked observation derived from aggregated spending data.
type Insight struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}
