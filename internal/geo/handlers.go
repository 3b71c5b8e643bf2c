package geo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wherewatch/wherewatch/internal/locale"
)

// Handlers provides HTTP handlers for country detection.
type Handlers struct {
	resolver *Resolver
}

// NewHandlers creates new geo handlers.
func NewHandlers(resolver *Resolver) *Handlers {
	return &Handlers{resolver: resolver}
}

// RegisterRoutes registers the country routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/country", h.GetCountry)
	g.GET("/country/detect", h.DetectCountry)
}

// ForRequest returns a resolver reading the request's signals and locating
// the client address.
func (h *Handlers) ForRequest(c echo.Context) *Resolver {
	return h.resolver.WithSignals(RequestSignals(c.Request())).WithRemoteIP(c.RealIP())
}

// Guess is the immediate country guess for a request.
func (h *Handlers) Guess(c echo.Context) locale.Country {
	return h.ForRequest(c).ResolveSync()
}

// GetCountry returns the immediate guess from request signals.
// GET /api/v1/country
func (h *Handlers) GetCountry(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ForRequest(c).DetectSync())
}

// DetectCountry geolocates the client and falls back to request signals.
// GET /api/v1/country/detect
func (h *Handlers) DetectCountry(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ForRequest(c).DetectAsync(c.Request().Context()))
}
