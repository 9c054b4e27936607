package handlers

import (
	"net/http"
	"time"

	"koinsave/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	demoDataService services.DemoDataServiceInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(demoDataService services.DemoDataServiceInterface) *DevHandler {
	return &DevHandler{
		demoDataService: demoDataService,
	}
}

// SeedDemoData generates realistic demo transaction history for the
// authenticated user
//
// Method: POST /api/v1/dev/seed
// Authentication: Required
// Environment: Development only
//
// Query parameters:
//   - months: Months of history to generate (default: 3, max: 12)
func (h *DevHandler) SeedDemoData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	months := getIntParam(c, "months", 3)
	if months < 1 {
		months = 1
	}
	if months > 12 {
		months = 12
	}

	created, err := h.demoDataService.SeedDemoData(userID, months)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to seed demo data")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":              "demo data generated successfully",
		"transactions_created": created,
		"months":               months,
		"generated_at":         time.Now().UTC().Format(time.RFC3339),
	})
}
