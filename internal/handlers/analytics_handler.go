package handlers

import (
	"net/http"

	"koinsave/internal/dto"
	apierrors "koinsave/internal/errors"
	"koinsave/internal/models"
	"koinsave/internal/services"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler exposes the aggregation engine over HTTP
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServiceInterface
	insightService   services.InsightServiceInterface
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	analyticsService services.AnalyticsServiceInterface,
	insightService services.InsightServiceInterface,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		insightService:   insightService,
	}
}

// Summary returns income, expenses, net and per-type counts for a period.
// The period query parameter accepts week, month and year; month is the
// default when absent.
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	period, err := models.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return SendError(c, apierrors.AnalyticsInvalidPeriod)
	}

	summary, err := h.analyticsService.GetPeriodSummary(userID, period)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewPeriodSummaryResponse(*summary))
}

// Categories returns the top expense categories for a period
func (h *AnalyticsHandler) Categories(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	period, err := models.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return SendError(c, apierrors.AnalyticsInvalidPeriod)
	}

	breakdown, err := h.analyticsService.GetTopCategories(userID, period)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCategoryBreakdownResponse(breakdown))
}

// Subscriptions returns the detected recurring charges
func (h *AnalyticsHandler) Subscriptions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	report, err := h.analyticsService.GetSubscriptions(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSubscriptionReportResponse(*report))
}

// SafeToSpend returns the discretionary spending estimate
func (h *AnalyticsHandler) SafeToSpend(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	estimate, err := h.analyticsService.GetSafeToSpend(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSafeToSpendResponse(*estimate))
}

// Insights returns the ranked insight list for the user
func (h *AnalyticsHandler) Insights(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	insights, err := h.insightService.GetInsights(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.InsightListResponse{Insights: insights})
}
