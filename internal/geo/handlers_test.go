package geo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wherewatch/wherewatch/internal/locale"
)

func TestHandlers_GetCountry(t *testing.T) {
	loc := &fakeLocator{code: "FR"}
	h := NewHandlers(NewResolver(nil, loc, zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/country", nil)
	req.Header.Set("X-Timezone", "Europe/Istanbul")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.GetCountry(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var d Detection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, locale.TR, d.Country)
	assert.Equal(t, "tr-TR", d.Language)
	assert.Equal(t, MethodTimezone, d.Method)
	assert.Zero(t, loc.calls, "the immediate guess must not do I/O")
}

func TestHandlers_DetectCountry(t *testing.T) {
	loc := &fakeLocator{code: "FR"}
	h := NewHandlers(NewResolver(nil, loc, zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/country/detect", nil)
	req.Header.Set(echo.HeaderXRealIP, "198.51.100.20")
	req.Header.Set("Accept-Language", "ja-JP")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.DetectCountry(c))

	var d Detection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, locale.FR, d.Country)
	assert.Equal(t, MethodGeoIP, d.Method)
	assert.Equal(t, []string{"198.51.100.20"}, loc.ips)
}

func TestHandlers_DetectCountry_PrivateClient(t *testing.T) {
	loc := &fakeLocator{code: "FR"}
	h := NewHandlers(NewResolver(nil, loc, zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/country/detect", nil)
	req.RemoteAddr = "192.168.1.5:51234"
	req.Header.Set("Accept-Language", "ja-JP")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.DetectCountry(c))

	var d Detection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, locale.JP, d.Country)
	assert.Equal(t, MethodLocale, d.Method)
	assert.Zero(t, loc.calls)
}
