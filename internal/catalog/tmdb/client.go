package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wherewatch/wherewatch/internal/catalog/types"
	"github.com/wherewatch/wherewatch/internal/config"
	"github.com/wherewatch/wherewatch/internal/locale"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
)

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.CatalogConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. Missing credentials are not an error
// here; requests are still sent and TMDB's 401 is surfaced to the caller.
func NewClient(cfg config.CatalogConfig, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = defaultImageBaseURL
	}
	if cfg.PosterSize == "" {
		cfg.PosterSize = "w500"
	}
	if cfg.BackdropSize == "" {
		cfg.BackdropSize = "w780"
	}
	if cfg.LogoSize == "" {
		cfg.LogoSize = "w500"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if a bearer token or API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.BearerToken != "" || c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/configuration", c.config.BaseURL)

	var result struct {
		Images struct {
			SecureBaseURL string `json:"secure_base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, endpoint, url.Values{}, &result)
}

// SearchMulti searches movies and series in one request. People and any
// other media types are dropped. A payload without a results array is
// logged and treated as no results.
func (c *Client) SearchMulti(ctx context.Context, query, language string) ([]types.Title, error) {
	endpoint := fmt.Sprintf("%s/search/multi", c.config.BaseURL)
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if language != "" {
		params.Set("language", language)
	}

	var raw json.RawMessage
	if err := c.doRequest(ctx, endpoint, params, &raw); err != nil {
		return nil, err
	}

	entries, ok := decodeMultiResults(raw)
	if !ok {
		c.logger.Warn().
			Str("query", query).
			Msg("schema mismatch in search response, returning no results")
		return []types.Title{}, nil
	}

	titles := make([]types.Title, 0, len(entries))
	for _, entry := range entries {
		if entry.MediaType != "movie" && entry.MediaType != "tv" {
			continue
		}
		titles = append(titles, c.toTitle(entry, types.KindFromUpstream(entry.MediaType)))
	}

	c.logger.Debug().
		Str("query", query).
		Str("language", language).
		Int("results", len(titles)).
		Int("dropped", len(entries)-len(titles)).
		Msg("Multi search completed")

	return titles, nil
}

// Popular lists the current popular titles of one kind.
func (c *Client) Popular(ctx context.Context, kind types.MediaKind, language string) ([]types.Title, error) {
	endpoint := fmt.Sprintf("%s/%s/popular", c.config.BaseURL, kind.UpstreamPath())
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var response ListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	titles := make([]types.Title, len(response.Results))
	for i, entry := range response.Results {
		titles[i] = c.toTitle(entry, kind)
	}

	c.logger.Debug().
		Str("kind", string(kind)).
		Int("results", len(titles)).
		Msg("Popular list fetched")

	return titles, nil
}

// GetMovie gets detailed movie info by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, id int, language string) (*types.Title, error) {
	endpoint := fmt.Sprintf("%s/movie/%d", c.config.BaseURL, id)
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var details MovieDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	result := c.movieDetailsToTitle(details)

	c.logger.Debug().
		Int("id", id).
		Str("title", result.Name).
		Msg("Got movie details")

	return &result, nil
}

// GetSeries gets detailed TV series info by TMDB ID.
func (c *Client) GetSeries(ctx context.Context, id int, language string) (*types.Title, error) {
	endpoint := fmt.Sprintf("%s/tv/%d", c.config.BaseURL, id)
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var details TVDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	result := c.tvDetailsToTitle(details)

	c.logger.Debug().
		Int("id", id).
		Str("title", result.Name).
		Msg("Got series details")

	return &result, nil
}

// GetWatchProviders returns where a title can be watched in one country.
// The country key is looked up upper-case first, then lower-case. A country
// with no listing yields an empty slice.
func (c *Client) GetWatchProviders(ctx context.Context, kind types.MediaKind, id int, country string) ([]types.Source, error) {
	endpoint := fmt.Sprintf("%s/%s/%d/watch/providers", c.config.BaseURL, kind.UpstreamPath(), id)

	var response WatchProvidersResponse
	if err := c.doRequest(ctx, endpoint, url.Values{}, &response); err != nil {
		return nil, err
	}

	region := locale.Normalize(country).String()
	providers, ok := response.Results[region]
	if !ok {
		providers, ok = response.Results[strings.ToLower(region)]
	}
	if !ok {
		c.logger.Debug().
			Int("id", id).
			Str("country", region).
			Msg("No watch providers for country")
		return []types.Source{}, nil
	}

	sources := c.toSources(providers, region)

	c.logger.Debug().
		Int("id", id).
		Str("kind", string(kind)).
		Str("country", region).
		Int("sources", len(sources)).
		Msg("Got watch providers")

	return sources, nil
}

// GetImageURL returns the full URL for an image path, or "" for an empty path.
func (c *Client) GetImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

func (c *Client) imageURL(path *string, size string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := c.GetImageURL(*path, size)
	return &u
}

// doRequest performs a GET request and decodes the JSON body into result.
// Every failure is returned as a *types.APIError.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if c.config.BearerToken == "" && c.config.APIKey != "" {
		params.Set("api_key", c.config.APIKey)
	}

	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &types.APIError{Message: "failed to create request", Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if c.config.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.BearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return &types.APIError{Message: "HTTP request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &types.APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}

		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.StatusMessage != "" {
			apiErr.Message = errResp.StatusMessage
		}

		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("url", endpoint).
			Str("message", apiErr.Message).
			Msg("TMDB API error")

		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &types.APIError{
			StatusCode: resp.StatusCode,
			Message:    "failed to decode response",
			Err:        err,
		}
	}

	return nil
}

// decodeMultiResults extracts the results array from a search envelope.
// It returns false when the envelope does not carry one.
func decodeMultiResults(raw json.RawMessage) ([]MultiResult, bool) {
	var envelope MultiSearchResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, false
	}

	trimmed := strings.TrimSpace(string(envelope.Results))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}

	var entries []MultiResult
	if err := json.Unmarshal(envelope.Results, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// parseYear returns the year of a YYYY-MM-DD date, or nil when the date does
// not start with four digits.
func parseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return nil
		}
	}
	if len(date) > 4 && date[4] != '-' {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year == 0 {
		return nil
	}
	return &year
}

// rating drops missing and zero averages; TMDB reports 0 for unrated titles.
func rating(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	r := *v
	return &r
}

func genreNames(genres []Genre) []string {
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return names
}

// toTitle converts a list entry. Unknown media types fall back to kind.
func (c *Client) toTitle(entry MultiResult, kind types.MediaKind) types.Title {
	name, altName, date := entry.Title, entry.OriginalTitle, entry.ReleaseDate
	if kind == types.KindSeries {
		name, altName, date = entry.Name, entry.OriginalName, entry.FirstAirDate
	}

	return types.Title{
		ID:          entry.ID,
		Name:        name,
		AltName:     altName,
		Year:        parseYear(date),
		Rating:      rating(entry.VoteAverage),
		Kind:        kind,
		PosterURL:   c.imageURL(entry.PosterPath, c.config.PosterSize),
		BackdropURL: c.imageURL(entry.BackdropPath, c.config.BackdropSize),
		Overview:    entry.Overview,
		ReleaseDate: date,
	}
}

func (c *Client) movieDetailsToTitle(details MovieDetails) types.Title {
	title := types.Title{
		ID:          details.ID,
		Name:        details.Title,
		AltName:     details.OriginalTitle,
		Year:        parseYear(details.ReleaseDate),
		Rating:      rating(details.VoteAverage),
		Kind:        types.KindMovie,
		PosterURL:   c.imageURL(details.PosterPath, c.config.PosterSize),
		BackdropURL: c.imageURL(details.BackdropPath, c.config.BackdropSize),
		Overview:    details.Overview,
		ReleaseDate: details.ReleaseDate,
		Genres:      genreNames(details.Genres),
	}

	if details.Runtime != nil && *details.Runtime > 0 {
		runtime := *details.Runtime
		title.Runtime = &runtime
	}

	return title
}

func (c *Client) tvDetailsToTitle(details TVDetails) types.Title {
	title := types.Title{
		ID:          details.ID,
		Name:        details.Name,
		AltName:     details.OriginalName,
		Year:        parseYear(details.FirstAirDate),
		Rating:      rating(details.VoteAverage),
		Kind:        types.KindSeries,
		PosterURL:   c.imageURL(details.PosterPath, c.config.PosterSize),
		BackdropURL: c.imageURL(details.BackdropPath, c.config.BackdropSize),
		Overview:    details.Overview,
		ReleaseDate: details.FirstAirDate,
		Genres:      genreNames(details.Genres),
	}

	// Get runtime from episode run time (use first if available)
	if len(details.EpisodeRunTime) > 0 && details.EpisodeRunTime[0] > 0 {
		runtime := details.EpisodeRunTime[0]
		title.Runtime = &runtime
	}

	return title
}

type bucket struct {
	kind    types.Availability
	entries []WatchProvider
}

// toSources flattens the provider buckets in a fixed order: subscription,
// free, ad-supported, rent, buy.
func (c *Client) toSources(p CountryProviders, region string) []types.Source {
	buckets := []bucket{
		{types.AvailabilitySubscription, p.Flatrate},
		{types.AvailabilitySubscription, p.Subscription},
		{types.AvailabilityFree, p.Free},
		{types.AvailabilityAdSupported, p.Ads},
		{types.AvailabilityAdSupported, p.AdSupported},
		{types.AvailabilityRent, p.Rent},
		{types.AvailabilityBuy, p.Buy},
	}

	type key struct {
		kind types.Availability
		id   int
	}
	seen := make(map[key]bool)

	sources := make([]types.Source, 0)
	for _, b := range buckets {
		for _, wp := range b.entries {
			k := key{b.kind, wp.ProviderID}
			if seen[k] {
				continue
			}
			seen[k] = true

			var priority *int
			if wp.DisplayPriority != nil {
				p := *wp.DisplayPriority
				priority = &p
			}

			sources = append(sources, types.Source{
				ID:              wp.ProviderID,
				Name:            wp.ProviderName,
				Kind:            b.kind,
				LogoURL:         c.imageURL(wp.LogoPath, c.config.LogoSize),
				DisplayPriority: priority,
				Regions:         []string{region},
			})
		}
	}

	return sources
}
