package types

// MediaKind distinguishes movies from series.
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindSeries MediaKind = "series"
)

// ParseKind accepts the internal kind names plus the upstream "tv" alias.
func ParseKind(s string) (MediaKind, error) {
	switch s {
	case "movie", "movies":
		return KindMovie, nil
	case "series", "tv", "show":
		return KindSeries, nil
	default:
		return "", ErrInvalidKind
	}
}

// KindFromUpstream maps an upstream media type to a MediaKind. Anything that
// is not "tv" is treated as a movie.
func KindFromUpstream(mediaType string) MediaKind {
	if mediaType == "tv" {
		return KindSeries
	}
	return KindMovie
}

// UpstreamPath returns the path segment the catalog uses for k.
func (k MediaKind) UpstreamPath() string {
	if k == KindSeries {
		return "tv"
	}
	return "movie"
}

// Availability is how a source offers a title.
type Availability string

const (
	AvailabilitySubscription Availability = "subscription"
	AvailabilityFree         Availability = "free"
	AvailabilityAdSupported  Availability = "ad-supported"
	AvailabilityRent         Availability = "rent"
	AvailabilityBuy          Availability = "buy"
)

// Title is a normalized movie or series record.
type Title struct {
	ID          int       `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	AltName     string    `json:"altName,omitempty" yaml:"altName,omitempty"`
	Year        *int      `json:"year,omitempty" yaml:"year,omitempty"`
	Rating      *float64  `json:"rating,omitempty" yaml:"rating,omitempty"`
	Kind        MediaKind `json:"kind" yaml:"kind"`
	PosterURL   *string   `json:"posterUrl,omitempty" yaml:"posterUrl,omitempty"`
	BackdropURL *string   `json:"backdropUrl,omitempty" yaml:"backdropUrl,omitempty"`
	Overview    string    `json:"overview" yaml:"overview"`
	ReleaseDate string    `json:"releaseDate,omitempty" yaml:"releaseDate,omitempty"`
	Genres      []string  `json:"genres,omitempty" yaml:"genres,omitempty"`
	Runtime     *int      `json:"runtime,omitempty" yaml:"runtime,omitempty"`
}

// Source is one way of watching a title in one country. A provider listed
// under several availability kinds yields one Source per kind.
type Source struct {
	ID              int          `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Kind            Availability `json:"type" yaml:"type"`
	LogoURL         *string      `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	DisplayPriority *int         `json:"displayPriority,omitempty" yaml:"displayPriority,omitempty"`
	Regions         []string     `json:"regions" yaml:"regions"`
}

// SearchResult wraps a list of titles. Titles is never nil.
type SearchResult struct {
	Titles []Title `json:"titles" yaml:"titles"`
}

// NewSearchResult returns a result whose Titles is non-nil.
func NewSearchResult(titles []Title) *SearchResult {
	if titles == nil {
		titles = []Title{}
	}
	return &SearchResult{Titles: titles}
}
