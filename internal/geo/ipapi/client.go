// Package ipapi looks up the country of an IP address using ipapi.co.
package ipapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wherewatch/wherewatch/internal/config"
)

var (
	ErrLookupFailed = errors.New("geolocation lookup failed")
	ErrNoCountry    = errors.New("geolocation response has no country")
)

// Client is an ipapi.co client. Each Lookup is a single request.
type Client struct {
	httpClient *http.Client
	config     config.GeoConfig
	logger     zerolog.Logger
}

// NewClient creates a new ipapi client.
func NewClient(cfg config.GeoConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://ipapi.co"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "ipapi").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "ipapi"
}

// Lookup returns the upper-case country code for ip. An empty ip looks up
// the address the request originates from.
func (c *Client) Lookup(ctx context.Context, ip string) (string, error) {
	endpoint := fmt.Sprintf("%s/json/", strings.TrimRight(c.config.BaseURL, "/"))
	if ip != "" {
		endpoint = fmt.Sprintf("%s/%s/json/", strings.TrimRight(c.config.BaseURL, "/"), ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wherewatch/"+config.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var result LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %w", ErrLookupFailed, err)
	}

	if result.Error {
		return "", fmt.Errorf("%w: %s", ErrLookupFailed, result.Reason)
	}

	code := strings.ToUpper(strings.TrimSpace(result.CountryCode))
	if code == "" {
		return "", ErrNoCountry
	}

	c.logger.Debug().
		Str("ip", result.IP).
		Str("country", code).
		Msg("Geolocation lookup completed")

	return code, nil
}
