// Package catalog is the gateway to the upstream movie and TV catalog. It
// picks the request language for a country and returns normalized titles and
// watch sources. It never caches and never retries.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wherewatch/wherewatch/internal/catalog/tmdb"
	"github.com/wherewatch/wherewatch/internal/catalog/types"
	"github.com/wherewatch/wherewatch/internal/config"
	"github.com/wherewatch/wherewatch/internal/locale"
)

// HealthItem is the ID the service reports upstream health under.
const HealthItem = "catalog"

// HealthReporter receives the outcome of each upstream request.
type HealthReporter interface {
	Report(id string, err error)
}

// Service answers catalog queries for a given country.
type Service struct {
	client Client
	health HealthReporter
	logger zerolog.Logger
}

// NewService creates a catalog service backed by the TMDB client.
func NewService(cfg config.CatalogConfig, logger zerolog.Logger) *Service {
	return NewServiceWithClient(tmdb.NewClient(cfg, logger), logger)
}

// NewServiceWithClient creates a catalog service with a custom client (for testing/mocking).
func NewServiceWithClient(client Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// SetHealth sets the reporter notified after every upstream request.
func (s *Service) SetHealth(h HealthReporter) {
	s.health = h
}

// report forwards err to the health reporter.
func (s *Service) report(err error) {
	if s.health == nil {
		return
	}
	s.health.Report(HealthItem, healthError(err))
}

// healthError drops errors that still prove the upstream answered.
func healthError(err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	return err
}

// IsConfigured reports whether catalog credentials are present.
func (s *Service) IsConfigured() bool {
	return s.client.IsConfigured()
}

// Test checks connectivity to the upstream catalog.
func (s *Service) Test(ctx context.Context) error {
	return s.client.Test(ctx)
}

// CheckHealth is Test judged the way live requests are reported.
func (s *Service) CheckHealth(ctx context.Context) error {
	return healthError(s.client.Test(ctx))
}

// ProviderName returns the upstream provider name.
func (s *Service) ProviderName() string {
	return s.client.Name()
}

// ResolveLanguage picks the request language: an explicit language wins,
// then the country's language, then en-US.
func ResolveLanguage(country, language string) string {
	if lang := strings.TrimSpace(language); lang != "" {
		return lang
	}
	if strings.TrimSpace(country) != "" {
		return locale.LanguageFor(country)
	}
	return locale.DefaultLanguage
}

// Search finds movies and series matching query.
func (s *Service) Search(ctx context.Context, query, country, language string) (*types.SearchResult, error) {
	lang := ResolveLanguage(country, language)

	titles, err := s.client.SearchMulti(ctx, query, lang)
	s.report(err)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	s.logger.Debug().
		Str("query", query).
		Str("language", lang).
		Int("results", len(titles)).
		Msg("Search completed")

	return types.NewSearchResult(titles), nil
}

// GetPopular lists popular titles of one kind.
func (s *Service) GetPopular(ctx context.Context, kind types.MediaKind, country, language string) (*types.SearchResult, error) {
	if kind != types.KindMovie && kind != types.KindSeries {
		return nil, types.ErrInvalidKind
	}

	titles, err := s.client.Popular(ctx, kind, ResolveLanguage(country, language))
	s.report(err)
	if err != nil {
		return nil, fmt.Errorf("popular %s: %w", kind, err)
	}

	return types.NewSearchResult(titles), nil
}

// GetDetails fetches one title with genres and runtime.
func (s *Service) GetDetails(ctx context.Context, id int, kind types.MediaKind, country, language string) (*types.Title, error) {
	lang := ResolveLanguage(country, language)

	var (
		title *types.Title
		err   error
	)
	switch kind {
	case types.KindMovie:
		title, err = s.client.GetMovie(ctx, id, lang)
	case types.KindSeries:
		title, err = s.client.GetSeries(ctx, id, lang)
	default:
		return nil, types.ErrInvalidKind
	}
	s.report(err)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", kind, id, err)
	}

	return title, nil
}

// GetSources lists where a title can be watched in country. An empty
// country fails before any upstream request is made.
func (s *Service) GetSources(ctx context.Context, id int, kind types.MediaKind, country string) ([]types.Source, error) {
	region := locale.Normalize(country)
	if region == "" {
		return nil, types.ErrCountryRequired
	}
	if kind != types.KindMovie && kind != types.KindSeries {
		return nil, types.ErrInvalidKind
	}

	sources, err := s.client.GetWatchProviders(ctx, kind, id, region.String())
	s.report(err)
	if err != nil {
		return nil, fmt.Errorf("sources for %s %d in %s: %w", kind, id, region, err)
	}

	return sources, nil
}
