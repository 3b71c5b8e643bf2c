package geo

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/language"

	"github.com/wherewatch/wherewatch/internal/locale"
)

// ErrNoSignal is returned by a SignalSource that has nothing to report.
var ErrNoSignal = errors.New("no signal")

// SignalSource supplies the local hints the resolver works from. Either
// method may fail or return an empty string; both mean "no signal".
type SignalSource interface {
	Timezone() (string, error)
	Locale() (string, error)
}

const zoneinfoMarker = "zoneinfo/"

// SystemSignals reads the timezone and locale of the running process.
type SystemSignals struct {
	fs     afero.Fs
	getenv func(string) string
}

// NewSystemSignals creates a SystemSignals. A nil fs uses the OS filesystem
// and a nil getenv uses os.Getenv.
func NewSystemSignals(fs afero.Fs, getenv func(string) string) *SystemSignals {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	return &SystemSignals{fs: fs, getenv: getenv}
}

// Timezone checks TZ, then /etc/timezone, then the /etc/localtime symlink.
func (s *SystemSignals) Timezone() (string, error) {
	if tz := strings.TrimPrefix(strings.TrimSpace(s.getenv("TZ")), ":"); tz != "" {
		return zoneFromPath(tz), nil
	}

	if data, err := afero.ReadFile(s.fs, "/etc/timezone"); err == nil {
		if tz := strings.TrimSpace(string(data)); tz != "" {
			return tz, nil
		}
	}

	if lr, ok := s.fs.(afero.LinkReader); ok {
		if target, err := lr.ReadlinkIfPossible("/etc/localtime"); err == nil {
			if tz := zoneFromPath(target); tz != "" {
				return tz, nil
			}
		}
	}

	return "", ErrNoSignal
}

// Locale checks the POSIX locale variables in precedence order.
func (s *SystemSignals) Locale() (string, error) {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(s.getenv(key)); v != "" && !isPOSIXDefault(v) {
			return v, nil
		}
	}

	// LANGUAGE is a colon-separated priority list.
	if v := s.getenv("LANGUAGE"); v != "" {
		first, _, _ := strings.Cut(v, ":")
		if first = strings.TrimSpace(first); first != "" {
			return first, nil
		}
	}

	return "", ErrNoSignal
}

// requestSignals reads hints a browser sends along with a request.
type requestSignals struct {
	r *http.Request
}

// RequestSignals returns the signals carried by an HTTP request: the
// X-Timezone header or tz query parameter, and the locale query parameter
// or the highest-weighted Accept-Language entry.
func RequestSignals(r *http.Request) SignalSource {
	return requestSignals{r: r}
}

func (s requestSignals) Timezone() (string, error) {
	if tz := strings.TrimSpace(s.r.Header.Get("X-Timezone")); tz != "" {
		return tz, nil
	}
	if tz := strings.TrimSpace(s.r.URL.Query().Get("tz")); tz != "" {
		return tz, nil
	}
	return "", ErrNoSignal
}

func (s requestSignals) Locale() (string, error) {
	if l := strings.TrimSpace(s.r.URL.Query().Get("locale")); l != "" {
		return l, nil
	}

	header := s.r.Header.Get("Accept-Language")
	if header == "" {
		return "", ErrNoSignal
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", ErrNoSignal
	}
	return tags[0].String(), nil
}

// CountryForLocale maps a locale string such as "tr-TR", "de_AT.UTF-8" or
// "ja" to a supported country. A supported region subtag wins; otherwise the
// language subtag is looked up.
func CountryForLocale(s string) (locale.Country, bool) {
	tag, ok := parseLocale(s)
	if !ok {
		return "", false
	}

	if region, conf := tag.Region(); conf == language.Exact {
		if c, ok := locale.ParseCountry(region.String()); ok {
			return c, true
		}
	}

	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	c, ok := languageCountries[base.String()]
	return c, ok
}

func parseLocale(s string) (language.Tag, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || isPOSIXDefault(s) {
		return language.Und, false
	}

	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

func isPOSIXDefault(s string) bool {
	base, _, _ := strings.Cut(s, ".")
	return base == "C" || base == "POSIX"
}

// zoneFromPath turns "/usr/share/zoneinfo/Europe/Istanbul" into
// "Europe/Istanbul". Plain zone names are returned as is.
func zoneFromPath(p string) string {
	if i := strings.LastIndex(p, zoneinfoMarker); i >= 0 {
		zone := p[i+len(zoneinfoMarker):]
		zone = strings.TrimPrefix(zone, "posix/")
		return strings.TrimPrefix(zone, "right/")
	}
	if strings.HasPrefix(p, "/") {
		return ""
	}
	return p
}
