// Package locale defines the country codes the rest of the application
// understands and the request-language tag used for each of them.
package locale

import "strings"

// Country is an ISO-3166 alpha-2 country code in upper case.
type Country string

// Supported countries.
const (
	US Country = "US"
	GB Country = "GB"
	TR Country = "TR"
	DE Country = "DE"
	FR Country = "FR"
	IT Country = "IT"
	ES Country = "ES"
	CA Country = "CA"
	AU Country = "AU"
	JP Country = "JP"
	KR Country = "KR"
	BR Country = "BR"
	MX Country = "MX"
	IN Country = "IN"
	CN Country = "CN"
)

// Default is returned whenever no signal yields a supported country.
const Default = US

// DefaultLanguage is the request language used for unknown countries.
const DefaultLanguage = "en-US"

// supported lists every supported country in display order.
var supported = []Country{US, GB, TR, DE, FR, IT, ES, CA, AU, JP, KR, BR, MX, IN, CN}

var languages = map[Country]string{
	US: "en-US",
	GB: "en-US",
	CA: "en-US",
	AU: "en-US",
	IN: "en-US",
	TR: "tr-TR",
	DE: "de-DE",
	FR: "fr-FR",
	IT: "it-IT",
	ES: "es-ES",
	JP: "ja-JP",
	KR: "ko-KR",
	BR: "pt-BR",
	MX: "es-MX",
	CN: "zh-CN",
}

// Supported returns the supported countries in display order.
func Supported() []Country {
	out := make([]Country, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether c is in the supported set.
func (c Country) IsSupported() bool {
	_, ok := languages[c]
	return ok
}

// String returns the country code.
func (c Country) String() string {
	return string(c)
}

// Language returns the request-language tag for c, or DefaultLanguage when
// the country has no entry.
func (c Country) Language() string {
	if lang, ok := languages[c]; ok {
		return lang
	}
	return DefaultLanguage
}

// ParseCountry normalizes s to an upper-case country code. It returns false
// when s is not a supported country.
func ParseCountry(s string) (Country, bool) {
	c := Normalize(s)
	return c, c.IsSupported()
}

// Normalize trims and upper-cases s without checking support. Upstream
// region keys are looked up with the result.
func Normalize(s string) Country {
	return Country(strings.ToUpper(strings.TrimSpace(s)))
}

// LanguageFor maps an arbitrary country string to its language tag.
func LanguageFor(country string) string {
	return Normalize(country).Language()
}
