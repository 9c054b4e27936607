package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"koinsave/internal/dto"
	"koinsave/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsService struct {
	summary    *models.PeriodSummary
	categories []models.CategoryBreakdown
	report     *models.SubscriptionReport
	estimate   *models.SafeToSpendEstimate
	err        error

	lastPeriod models.Period
}

func (f *fakeAnalyticsService) GetPeriodSummary(userID uuid.UUID, period models.Period) (*models.PeriodSummary, error) {
	f.lastPeriod = period
	return f.summary, f.err
}

func (f *fakeAnalyticsService) GetTopCategories(userID uuid.UUID, period models.Period) ([]models.CategoryBreakdown, error) {
	f.lastPeriod = period
	return f.categories, f.err
}

func (f *fakeAnalyticsService) GetSubscriptions(userID uuid.UUID) (*models.SubscriptionReport, error) {
	return f.report, f.err
}

func (f *fakeAnalyticsService) GetSafeToSpend(userID uuid.UUID) (*models.SafeToSpendEstimate, error) {
	return f.estimate, f.err
}

type fakeInsightService struct {
	insights []models.Insight
	err      error
}

func (f *fakeInsightService) GetInsights(userID uuid.UUID) ([]models.Insight, error) {
	return f.insights, f.err
}

func analyticsRequest(t *testing.T, target string, userID *uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", *userID)
	}
	return c, rec
}

func TestAnalyticsSummary(t *testing.T) {
	userID := uuid.New()
	analytics := &fakeAnalyticsService{
		summary: &models.PeriodSummary{
			Period:   models.PeriodWeek,
			Income:   decimal.NewFromInt(3000),
			Expenses: decimal.NewFromInt(1000),
			Savings:  decimal.NewFromInt(500),
			Net:      decimal.NewFromInt(2000),
			CountsByType: map[string]int{
				models.TransactionTypeReceive: 1,
				models.TransactionTypeSend:    2,
			},
		},
	}
	h := NewAnalyticsHandler(analytics, &fakeInsightService{})

	c, rec := analyticsRequest(t, "/api/v1/analytics/summary?period=week", &userID)
	require.NoError(t, h.Summary(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.PeriodWeek, analytics.lastPeriod)

	var body dto.PeriodSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "week", body.Period)
	assert.Equal(t, "2000.00", body.Net)
}

func TestAnalyticsSummary_DefaultsToMonth(t *testing.T) {
	userID := uuid.New()
	analytics := &fakeAnalyticsService{summary: &models.PeriodSummary{Period: models.PeriodMonth}}
	h := NewAnalyticsHandler(analytics, &fakeInsightService{})

	c, _ := analyticsRequest(t, "/api/v1/analytics/summary", &userID)
	require.NoError(t, h.Summary(c))

	assert.Equal(t, models.PeriodMonth, analytics.lastPeriod)
}

func TestAnalyticsSummary_InvalidPeriod(t *testing.T) {
	userID := uuid.New()
	h := NewAnalyticsHandler(&fakeAnalyticsService{}, &fakeInsightService{})

	c, rec := analyticsRequest(t, "/api/v1/analytics/summary?period=quarter", &userID)
	require.NoError(t, h.Summary(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ANALYTICS_001")
}

func TestAnalyticsSummary_Unauthenticated(t *testing.T) {
	h := NewAnalyticsHandler(&fakeAnalyticsService{}, &fakeInsightService{})

	c, rec := analyticsRequest(t, "/api/v1/analytics/summary", nil)
	require.NoError(t, h.Summary(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyticsSummary_ServiceError(t *testing.T) {
	userID := uuid.New()
	h := NewAnalyticsHandler(&fakeAnalyticsService{err: errors.New("db down")}, &fakeInsightService{})

	c, rec := analyticsRequest(t, "/api/v1/analytics/summary", &userID)
	require.NoError(t, h.Summary(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_001")
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestAnalyticsCategories(t *testing.T) {
	userID := uuid.New()
	analytics := &fakeAnalyticsService{
		categories: []models.CategoryBreakdown{
			{Category: "food", Amount: decimal.NewFromFloat(320.50), PercentOfExpenses: 64.1},
			{Category: "utilities", Amount: decimal.NewFromFloat(179.50), PercentOfExpenses: 35.9},
		},
	}
	h := NewAnalyticsHandler(analytics, &fakeInsightService{})

	c, rec := analyticsRequest(t, "/api/v1/analytics/categories?period=month", &userID)
	require.NoError(t, h.Categories(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body []dto.CategoryBreakdownResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "food", body[0].Category)
}

func TestAnalyticsSubscriptions(t *testing.T) {
	userID := uuid.New()
	analytics := &fakeAnalyticsService{
		report: &models.SubscriptionReport{
			Charges: []models.RecurringCharge{{
				Name:            "Netflix",
				Amount:          decimal.NewFromFloat(15.99),
				Category:        "entertainment",
				Occurrences:     []time.Time{time.Now().AddDate(0, -1, 0), time.Now()},
				EstimatedNextAt: time.Now().AddDate(0, 0, 30),
				DaysUntilNext:   30,
				Status:          models.RecurringStatusActive,
				UsageScore:      72,
			}},
			TotalMonthly:     decimal.NewFromFloat(15.99),
			PotentialSavings: decimal.Zero,
			DueSoonCount:     0,
		},
	}
	h := NewAnalyticsHandler(analytics, &fakeInsightService{})

	c, rec := analyticsRequest(t, "/api/v1/analytics/subscriptions", &userID)
	require.NoError(t, h.Subscriptions(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Netflix")
}

func TestAnalyticsSafeToSpend(t *testing.T) {
	userID := uuid.New()
	analytics := &fakeAnalyticsService{
		estimate: &models.SafeToSpendEstimate{
			Amount:           decimal.NewFromInt(4050),
			RiskTier:         models.RiskTierSafe,
			PercentOfBalance: 81,
		},
	}
	h := NewAnalyticsHandler(analytics, &fakeInsightService{})

	c, rec := analyticsRequest(t, "/api/v1/analytics/safe-to-spend", &userID)
	require.NoError(t, h.SafeToSpend(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body dto.SafeToSpendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "safe", body.RiskTier)
	assert.Equal(t, "4050.00", body.Amount)
}

func TestAnalyticsInsights(t *testing.T) {
	userID := uuid.New()
	insights := &fakeInsightService{
		insights: []models.Insight{
			{Kind: models.InsightKindSpendingTrend, Severity: models.InsightSeverityWarning, Title: "Spending Alert", Message: "You're spending 50.0% more than last month. Consider reviewing your expenses."},
		},
	}
	h := NewAnalyticsHandler(&fakeAnalyticsService{}, insights)

	c, rec := analyticsRequest(t, "/api/v1/analytics/insights", &userID)
	require.NoError(t, h.Insights(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body dto.InsightListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Insights, 1)
	assert.Equal(t, "spending-trend", body.Insights[0].Kind)
}
