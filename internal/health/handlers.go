package health

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for health endpoints.
type Handlers struct {
	health *Service
}

// NewHandlers creates new health handlers.
func NewHandlers(health *Service) *Handlers {
	return &Handlers{health: health}
}

// RegisterRoutes registers health routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAll)
	g.GET("/summary", h.GetSummary)
	g.POST("/test", h.TestAll)
	g.GET("/:id", h.GetItem)
	g.POST("/:id/test", h.TestItem)
}

// GetAll returns every tracked upstream.
// GET /api/v1/health
func (h *Handlers) GetAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.GetAll())
}

// GetSummary returns status counts.
// GET /api/v1/health/summary
func (h *Handlers) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.GetSummary())
}

// GetItem returns one upstream.
// GET /api/v1/health/:id
func (h *Handlers) GetItem(c echo.Context) error {
	item := h.health.GetItem(c.Param("id"))
	if item == nil {
		return echo.NewHTTPError(http.StatusNotFound, "health item not found")
	}
	return c.JSON(http.StatusOK, item)
}

// TestAll checks every upstream.
// POST /api/v1/health/test
func (h *Handlers) TestAll(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": h.health.TestAll(c.Request().Context()),
	})
}

// TestItem checks one upstream and updates its status.
// POST /api/v1/health/:id/test
func (h *Handlers) TestItem(c echo.Context) error {
	result, ok := h.health.Test(c.Request().Context(), c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "health item not found")
	}
	return c.JSON(http.StatusOK, result)
}
