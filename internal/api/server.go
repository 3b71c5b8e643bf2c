package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/wherewatch/wherewatch/internal/api/middleware"
	"github.com/wherewatch/wherewatch/internal/catalog"
	"github.com/wherewatch/wherewatch/internal/config"
	"github.com/wherewatch/wherewatch/internal/geo"
	"github.com/wherewatch/wherewatch/internal/geo/ipapi"
	"github.com/wherewatch/wherewatch/internal/health"
)

// Server handles HTTP requests for the wherewatch API.
type Server struct {
	echo      *echo.Echo
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	// Services
	catalogService *catalog.Service
	resolver       *geo.Resolver
	healthService  *health.Service
}

// NewServer creates a new API server instance with real upstream clients.
func NewServer(cfg *config.Config, logger zerolog.Logger) *Server {
	var locator geo.Locator
	if cfg.Geo.Enabled {
		locator = ipapi.NewClient(cfg.Geo, logger)
	}

	// The server has no local signals of its own; each request supplies them.
	resolver := geo.NewResolver(nil, locator, logger)

	return NewServerWithServices(cfg, catalog.NewService(cfg.Catalog, logger), resolver, logger)
}

// NewServerWithServices creates a server around existing services (for testing).
func NewServerWithServices(cfg *config.Config, catalogService *catalog.Service, resolver *geo.Resolver, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:           e,
		logger:         logger.With().Str("component", "api").Logger(),
		cfg:            cfg,
		startTime:      time.Now(),
		catalogService: catalogService,
		healthService:  health.NewService(logger),
	}

	s.healthService.RegisterItem(catalog.HealthItem, catalogService.ProviderName(), health.StatusError, catalogService.CheckHealth)
	catalogService.SetHealth(s.healthService)

	// Geolocation failures fall back to local signals, so they only warn.
	if cfg.Geo.Enabled {
		s.healthService.RegisterItem(geo.HealthItem, "Geolocation", health.StatusWarning, resolver.CheckLocator)
		resolver = resolver.WithHealth(s.healthService)
	}
	s.resolver = resolver

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAcceptEncoding, "Accept-Language", apimw.HeaderTimezone},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("request_id", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("request_id", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	s.echo.Use(apimw.SecurityHeaders())
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	health.NewHandlers(s.healthService).RegisterRoutes(api.Group("/health"))

	geoHandlers := geo.NewHandlers(s.resolver)
	geoHandlers.RegisterRoutes(api)

	catalogHandlers := catalog.NewHandlers(s.catalogService, geoHandlers.Guess)
	catalogHandlers.RegisterRoutes(api)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Health returns the upstream health service.
func (s *Server) Health() *health.Service {
	return s.healthService
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":           config.Version,
		"startTime":         s.startTime.Format(time.RFC3339),
		"catalogProvider":   s.catalogService.ProviderName(),
		"catalogConfigured": s.catalogService.IsConfigured(),
		"geoEnabled":        s.cfg.Geo.Enabled,
		"health":            s.healthService.GetSummary(),
	})
}
