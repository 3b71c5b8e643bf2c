package geo

import "github.com/wherewatch/wherewatch/internal/locale"

// timezoneCountries maps IANA zone names to supported countries. Zones not
// listed give no signal.
var timezoneCountries = map[string]locale.Country{
	"America/New_York":    locale.US,
	"America/Los_Angeles": locale.US,
	"America/Chicago":     locale.US,
	"America/Denver":      locale.US,
	"America/Phoenix":     locale.US,
	"America/Anchorage":   locale.US,
	"America/Honolulu":    locale.US,
	"America/Detroit":     locale.US,
	"Pacific/Honolulu":    locale.US,
	"US/Eastern":          locale.US,
	"US/Central":          locale.US,
	"US/Mountain":         locale.US,
	"US/Pacific":          locale.US,

	"Europe/London": locale.GB,
	"GB":            locale.GB,

	"Europe/Istanbul": locale.TR,
	"Asia/Istanbul":   locale.TR,
	"Turkey":          locale.TR,

	"Europe/Berlin": locale.DE,
	"Europe/Munich": locale.DE,

	"Europe/Paris": locale.FR,

	"Europe/Rome":  locale.IT,
	"Europe/Milan": locale.IT,

	"Europe/Madrid":    locale.ES,
	"Europe/Barcelona": locale.ES,
	"Atlantic/Canary":  locale.ES,

	"America/Toronto":   locale.CA,
	"America/Vancouver": locale.CA,
	"America/Montreal":  locale.CA,
	"America/Edmonton":  locale.CA,
	"America/Winnipeg":  locale.CA,
	"America/Halifax":   locale.CA,

	"Australia/Sydney":    locale.AU,
	"Australia/Melbourne": locale.AU,
	"Australia/Brisbane":  locale.AU,
	"Australia/Perth":     locale.AU,
	"Australia/Adelaide":  locale.AU,

	"Asia/Tokyo": locale.JP,
	"Japan":      locale.JP,

	"Asia/Seoul": locale.KR,
	"ROK":        locale.KR,

	"America/Sao_Paulo":      locale.BR,
	"America/Rio_de_Janeiro": locale.BR,

	"America/Mexico_City": locale.MX,
	"America/Monterrey":   locale.MX,
	"America/Tijuana":     locale.MX,

	"Asia/Kolkata":  locale.IN,
	"Asia/Calcutta": locale.IN,

	"Asia/Shanghai": locale.CN,
	"Asia/Beijing":  locale.CN,
	"PRC":           locale.CN,
}

// languageCountries maps bare language subtags to the country whose catalog
// a speaker most likely wants.
var languageCountries = map[string]locale.Country{
	"tr": locale.TR,
	"de": locale.DE,
	"fr": locale.FR,
	"it": locale.IT,
	"es": locale.ES,
	"ja": locale.JP,
	"ko": locale.KR,
	"pt": locale.BR,
	"zh": locale.CN,
	"hi": locale.IN,
}

// CountryForTimezone looks up a zone name.
func CountryForTimezone(tz string) (locale.Country, bool) {
	c, ok := timezoneCountries[tz]
	return c, ok
}
