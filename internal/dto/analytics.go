package dto

import (
	"time"

	"koinsave/internal/models"
)

// PeriodSummaryResponse is the wire form of a period summary; money fields
// are rendered with two fraction digits at this boundary.
type PeriodSummaryResponse struct {
	Period       string         `json:"period"`
	WindowStart  time.Time      `json:"window_start"`
	WindowEnd    time.Time      `json:"window_end"`
	Income       string         `json:"income"`
	Expenses     string         `json:"expenses"`
	Savings      string         `json:"savings"`
	Net          string         `json:"net"`
	CountsByType map[string]int `json:"counts_by_type"`
}

// NewPeriodSummaryResponse converts an engine summary to its wire form
func NewPeriodSummaryResponse(s models.PeriodSummary) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		Period:       string(s.Period),
		WindowStart:  s.WindowStart,
		WindowEnd:    s.WindowEnd,
		Income:       s.Income.StringFixed(2),
		Expenses:     s.Expenses.StringFixed(2),
		Savings:      s.Savings.StringFixed(2),
		Net:          s.Net.StringFixed(2),
		CountsByType: s.CountsByType,
	}
}

// CategoryBreakdownResponse is one top-category entry on the wire
type CategoryBreakdownResponse struct {
	Category          string  `json:"category"`
	Amount            string  `json:"amount"`
	PercentOfExpenses float64 `json:"percent_of_expenses"`
}

// NewCategoryBreakdownResponse converts engine breakdown entries to wire form
func NewCategoryBreakdownResponse(entries []models.CategoryBreakdown) []CategoryBreakdownResponse {
	out := make([]CategoryBreakdownResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, CategoryBreakdownResponse{
			Category:          e.Category,
			Amount:            e.Amount.StringFixed(2),
			PercentOfExpenses: e.PercentOfExpenses,
		})
	}
	return out
}

// RecurringChargeResponse is one detected subscription on the wire
type RecurringChargeResponse struct {
	Name            string    `json:"name"`
	Amount          string    `json:"amount"`
	Category        string    `json:"category"`
	OccurrenceCount int       `json:"occurrence_count"`
	EstimatedNextAt time.Time `json:"estimated_next_at"`
	DaysUntilNext   int       `json:"days_until_next"`
	Status          string    `json:"status"`
	UsageScore      int       `json:"usage_score"`
	LowUsage        bool      `json:"low_usage"`
}

// SubscriptionReportResponse is the aggregate subscription view on the wire
type SubscriptionReportResponse struct {
	Charges          []RecurringChargeResponse `json:"charges"`
	TotalMonthly     string                    `json:"total_monthly"`
	PotentialSavings string                    `json:"potential_savings"`
	DueSoonCount     int                       `json:"due_soon_count"`
}

// NewSubscriptionReportResponse converts an engine report to wire form
func NewSubscriptionReportResponse(r models.SubscriptionReport) SubscriptionReportResponse {
	charges := make([]RecurringChargeResponse, 0, len(r.Charges))
	for i := range r.Charges {
		c := &r.Charges[i]
		charges = append(charges, RecurringChargeResponse{
			Name:            c.Name,
			Amount:          c.Amount.StringFixed(2),
			Category:        c.Category,
			OccurrenceCount: len(c.Occurrences),
			EstimatedNextAt: c.EstimatedNextAt,
			DaysUntilNext:   c.DaysUntilNext,
			Status:          c.Status,
			UsageScore:      c.UsageScore,
			LowUsage:        c.LowUsage(),
		})
	}
	return SubscriptionReportResponse{
		Charges:          charges,
		TotalMonthly:     r.TotalMonthly.StringFixed(2),
		PotentialSavings: r.PotentialSavings.StringFixed(2),
		DueSoonCount:     r.DueSoonCount,
	}
}

// SafeToSpendResponse is the safe-to-spend estimate on the wire
type SafeToSpendResponse struct {
	Amount           string  `json:"amount"`
	RiskTier         string  `json:"risk_tier"`
	PercentOfBalance float64 `json:"percent_of_balance"`
}

// NewSafeToSpendResponse converts an engine estimate to wire form
func NewSafeToSpendResponse(e models.SafeToSpendEstimate) SafeToSpendResponse {
	return SafeToSpendResponse{
		Amount:           e.Amount.StringFixed(2),
		RiskTier:         e.RiskTier,
		PercentOfBalance: e.PercentOfBalance,
	}
}

// InsightListResponse is the ranked insight list on the wire
type InsightListResponse struct {
	Insights []models.Insight `json:"insights"`
}
