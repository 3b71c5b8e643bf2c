package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// HeaderTimezone carries the browser's IANA timezone name.
const HeaderTimezone = "X-Timezone"

var securityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "SAMEORIGIN",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Content-Security-Policy": "frame-ancestors 'self'",
}

// SecurityHeaders sets the standard hardening headers on every response.
// API responses are never cached and vary on the signals used to guess the
// caller's country.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for k, v := range securityHeaders {
				h.Set(k, v)
			}

			if strings.HasPrefix(c.Request().URL.Path, "/api") {
				h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
				h.Set("Pragma", "no-cache")
				h.Add(echo.HeaderVary, "Accept-Language")
				h.Add(echo.HeaderVary, HeaderTimezone)
			}

			return next(c)
		}
	}
}
