// Package geo guesses which supported country a user is in.
//
// ResolveSync uses only local signals (timezone, then locale) and never does
// I/O. ResolveAsync first asks an IP geolocation service and falls back to
// the same local chain. Neither ever fails: the terminal answer is
// locale.Default.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/wherewatch/wherewatch/internal/locale"
)

// ErrNoLocator is returned by CheckLocator when geolocation is disabled.
var ErrNoLocator = errors.New("geolocation disabled")

// Locator returns the country code for an IP address. An empty ip means the
// caller's own address.
type Locator interface {
	Lookup(ctx context.Context, ip string) (string, error)
}

// CountryResolver is the resolver contract consumers depend on.
type CountryResolver interface {
	ResolveSync() locale.Country
	ResolveAsync(ctx context.Context) locale.Country
}

// Method names the signal a guess came from.
type Method string

const (
	MethodGeoIP    Method = "geoip"
	MethodTimezone Method = "timezone"
	MethodLocale   Method = "locale"
	MethodDefault  Method = "default"
)

// Detection is a country guess together with how it was made.
type Detection struct {
	Country  locale.Country `json:"country"`
	Language string         `json:"language"`
	Method   Method         `json:"method"`
}

// Resolver combines local signals with an optional IP locator. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	signals SignalSource
	locator Locator
	health  HealthReporter
	ip      string
	logger  zerolog.Logger
}

// HealthItem is the ID lookup outcomes are reported under.
const HealthItem = "geolocation"

// HealthReporter receives the outcome of each geolocation lookup.
type HealthReporter interface {
	Report(id string, err error)
}

// NewResolver creates a resolver. A nil locator makes ResolveAsync behave
// like ResolveSync.
func NewResolver(signals SignalSource, locator Locator, logger zerolog.Logger) *Resolver {
	return &Resolver{
		signals: signals,
		locator: locator,
		logger:  logger.With().Str("component", "geo").Logger(),
	}
}

// WithSignals returns a copy of the resolver reading from signals.
func (r *Resolver) WithSignals(signals SignalSource) *Resolver {
	cp := *r
	cp.signals = signals
	return &cp
}

// WithHealth returns a copy that reports lookup outcomes to h.
func (r *Resolver) WithHealth(h HealthReporter) *Resolver {
	cp := *r
	cp.health = h
	return &cp
}

// CheckLocator performs one lookup of the caller's own address.
func (r *Resolver) CheckLocator(ctx context.Context) error {
	if r.locator == nil {
		return ErrNoLocator
	}
	_, err := r.locator.Lookup(ctx, "")
	return err
}

// WithRemoteIP returns a copy that geolocates ip instead of the caller's own
// address. Loopback, private and unparsable addresses cannot be located, so
// the copy skips the lookup and uses local signals only.
func (r *Resolver) WithRemoteIP(ip string) *Resolver {
	cp := *r
	cp.ip = ip

	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast() {
		cp.locator = nil
	}
	return &cp
}

// ResolveSync returns an immediate guess from local signals.
func (r *Resolver) ResolveSync() locale.Country {
	return r.DetectSync().Country
}

// ResolveAsync returns the geolocated country when available, otherwise the
// ResolveSync guess.
func (r *Resolver) ResolveAsync(ctx context.Context) locale.Country {
	return r.DetectAsync(ctx).Country
}

// DetectSync is ResolveSync with the method reported.
func (r *Resolver) DetectSync() Detection {
	if tz := r.signal("timezone", r.readTimezone); tz != "" {
		if c, ok := CountryForTimezone(tz); ok {
			return detection(c, MethodTimezone)
		}
		r.logger.Debug().Str("timezone", tz).Msg("Timezone not mapped to a supported country")
	}

	if loc := r.signal("locale", r.readLocale); loc != "" {
		if c, ok := CountryForLocale(loc); ok {
			return detection(c, MethodLocale)
		}
		r.logger.Debug().Str("locale", loc).Msg("Locale not mapped to a supported country")
	}

	return detection(locale.Default, MethodDefault)
}

// DetectAsync is ResolveAsync with the method reported.
func (r *Resolver) DetectAsync(ctx context.Context) Detection {
	if r.locator != nil {
		if c, ok := r.lookup(ctx); ok {
			return detection(c, MethodGeoIP)
		}
	}
	return r.DetectSync()
}

func (r *Resolver) lookup(ctx context.Context) (country locale.Country, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Debug().Str("panic", fmt.Sprint(rec)).Msg("Geolocation lookup panicked")
			country, ok = "", false
		}
	}()

	code, err := r.locator.Lookup(ctx, r.ip)
	if r.health != nil {
		r.health.Report(HealthItem, err)
	}
	if err != nil {
		r.logger.Debug().Err(err).Str("ip", r.ip).Msg("Geolocation lookup failed, using local signals")
		return "", false
	}

	c, supported := locale.ParseCountry(code)
	if !supported {
		r.logger.Debug().Str("country", code).Msg("Geolocated country not supported, using local signals")
		return "", false
	}
	return c, true
}

func (r *Resolver) readTimezone() (string, error) {
	if r.signals == nil {
		return "", ErrNoSignal
	}
	return r.signals.Timezone()
}

func (r *Resolver) readLocale() (string, error) {
	if r.signals == nil {
		return "", ErrNoSignal
	}
	return r.signals.Locale()
}

// signal calls fn and turns errors and panics into an empty result.
func (r *Resolver) signal(name string, fn func() (string, error)) (value string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Debug().Str("signal", name).Str("panic", fmt.Sprint(rec)).Msg("Signal source panicked")
			value = ""
		}
	}()

	v, err := fn()
	if err != nil {
		return ""
	}
	return v
}

func detection(c locale.Country, m Method) Detection {
	return Detection{Country: c, Language: c.Language(), Method: m}
}
