package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/wherewatch/wherewatch/internal/catalog/types"
	"github.com/wherewatch/wherewatch/internal/locale"
)

// CountryGuesser returns the best immediate country guess for a request.
type CountryGuesser func(c echo.Context) locale.Country

// Handlers provides HTTP handlers for catalog operations.
type Handlers struct {
	service *Service
	guess   CountryGuesser
}

// NewHandlers creates new catalog handlers. guess is used by the title page
// when the request names no country; nil means locale.Default.
func NewHandlers(service *Service, guess CountryGuesser) *Handlers {
	if guess == nil {
		guess = func(echo.Context) locale.Country { return locale.Default }
	}
	return &Handlers{
		service: service,
		guess:   guess,
	}
}

// RegisterRoutes registers the catalog routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/popular/:kind", h.GetPopular)
	g.GET("/countries", h.ListCountries)

	g.GET("/titles/:kind/:id", h.GetDetails)
	g.GET("/titles/:kind/:id/sources", h.GetSources)
	g.GET("/titles/:kind/:id/page", h.GetTitlePage)
}

// TitlePage is a title together with its sources in one country.
type TitlePage struct {
	Title   *types.Title   `json:"title"`
	Sources []types.Source `json:"sources"`
	Country locale.Country `json:"country"`
}

// CountryInfo describes one supported country.
type CountryInfo struct {
	Code     locale.Country `json:"code"`
	Language string         `json:"language"`
}

// Search searches movies and series.
// GET /api/v1/search?query=...&country=...&language=...
func (h *Handlers) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	result, err := h.service.Search(c.Request().Context(), query, c.QueryParam("country"), c.QueryParam("language"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetPopular lists popular titles.
// GET /api/v1/popular/:kind?country=...&language=...
func (h *Handlers) GetPopular(c echo.Context) error {
	kind, err := types.ParseKind(c.Param("kind"))
	if err != nil {
		return toHTTPError(err)
	}

	result, err := h.service.GetPopular(c.Request().Context(), kind, c.QueryParam("country"), c.QueryParam("language"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetDetails returns one title.
// GET /api/v1/titles/:kind/:id?country=...&language=...
func (h *Handlers) GetDetails(c echo.Context) error {
	kind, id, err := titleParams(c)
	if err != nil {
		return err
	}

	title, err := h.service.GetDetails(c.Request().Context(), id, kind, c.QueryParam("country"), c.QueryParam("language"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, title)
}

// GetSources lists watch sources for one title in one country.
// GET /api/v1/titles/:kind/:id/sources?country=...
func (h *Handlers) GetSources(c echo.Context) error {
	kind, id, err := titleParams(c)
	if err != nil {
		return err
	}

	sources, err := h.service.GetSources(c.Request().Context(), id, kind, c.QueryParam("country"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, sources)
}

// GetTitlePage fetches details and sources concurrently. The country falls
// back to the request's immediate guess.
// GET /api/v1/titles/:kind/:id/page?country=...&language=...
func (h *Handlers) GetTitlePage(c echo.Context) error {
	kind, id, err := titleParams(c)
	if err != nil {
		return err
	}

	country := locale.Normalize(c.QueryParam("country"))
	if country == "" {
		country = h.guess(c)
	}
	language := c.QueryParam("language")

	page := TitlePage{Country: country}
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		title, err := h.service.GetDetails(ctx, id, kind, country.String(), language)
		page.Title = title
		return err
	})
	g.Go(func() error {
		sources, err := h.service.GetSources(ctx, id, kind, country.String())
		page.Sources = sources
		return err
	})
	if err := g.Wait(); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, page)
}

// ListCountries returns the supported countries and their request languages.
// GET /api/v1/countries
func (h *Handlers) ListCountries(c echo.Context) error {
	countries := locale.Supported()
	out := make([]CountryInfo, len(countries))
	for i, country := range countries {
		out[i] = CountryInfo{Code: country, Language: country.Language()}
	}
	return c.JSON(http.StatusOK, out)
}

func titleParams(c echo.Context) (types.MediaKind, int, error) {
	kind, err := types.ParseKind(c.Param("kind"))
	if err != nil {
		return "", 0, toHTTPError(err)
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return kind, id, nil
}

// toHTTPError maps gateway errors to HTTP responses. Upstream failures other
// than 404 become 502 with the upstream status attached.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, types.ErrCountryRequired):
		return echo.NewHTTPError(http.StatusBadRequest, "country parameter is required")
	case errors.Is(err, types.ErrInvalidKind):
		return echo.NewHTTPError(http.StatusBadRequest, types.ErrInvalidKind.Error())
	case errors.Is(err, types.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "title not found")
	}

	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(http.StatusBadGateway, map[string]interface{}{
			"message":        apiErr.Error(),
			"upstreamStatus": apiErr.StatusCode,
		})
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
