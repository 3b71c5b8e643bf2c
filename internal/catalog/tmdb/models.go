package tmdb

import "encoding/json"

// MultiSearchResponse is the response from TMDB multi search. Results is kept
// raw so a malformed envelope can be told apart from an empty one.
type MultiSearchResponse struct {
	Page         int             `json:"page"`
	Results      json.RawMessage `json:"results"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
}

// ListResponse is a paged list of titles, as returned by the popular endpoints.
type ListResponse struct {
	Page         int           `json:"page"`
	Results      []MultiResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MultiResult is one entry of a multi search. Movies carry Title and
// ReleaseDate; series carry Name and FirstAirDate; people carry neither.
type MultiResult struct {
	ID            int      `json:"id"`
	MediaType     string   `json:"media_type"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Name          string   `json:"name"`
	OriginalName  string   `json:"original_name"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"release_date"`
	FirstAirDate  string   `json:"first_air_date"`
	PosterPath    *string  `json:"poster_path"`
	BackdropPath  *string  `json:"backdrop_path"`
	VoteAverage   *float64 `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	Popularity    float64  `json:"popularity"`
	GenreIDs      []int    `json:"genre_ids"`
}

// MovieDetails is the detailed movie info from TMDB.
type MovieDetails struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"release_date"`
	PosterPath    *string  `json:"poster_path"`
	BackdropPath  *string  `json:"backdrop_path"`
	VoteAverage   *float64 `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	Runtime       *int     `json:"runtime"`
	Status        string   `json:"status"`
	Tagline       string   `json:"tagline"`
	Genres        []Genre  `json:"genres"`
}

// TVDetails is the detailed TV series info from TMDB.
type TVDetails struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	OriginalName   string   `json:"original_name"`
	Overview       string   `json:"overview"`
	FirstAirDate   string   `json:"first_air_date"`
	LastAirDate    string   `json:"last_air_date"`
	PosterPath     *string  `json:"poster_path"`
	BackdropPath   *string  `json:"backdrop_path"`
	VoteAverage    *float64 `json:"vote_average"`
	VoteCount      int      `json:"vote_count"`
	Status         string   `json:"status"`
	Genres         []Genre  `json:"genres"`
	EpisodeRunTime []int    `json:"episode_run_time"`
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WatchProvidersResponse is the response from the watch/providers endpoints,
// keyed by country code.
type WatchProvidersResponse struct {
	ID      int                        `json:"id"`
	Results map[string]CountryProviders `json:"results"`
}

// CountryProviders lists the providers for one country, grouped by how the
// title is offered. TMDB has used both "ads" and "ad_supported", and some
// mirrors send "subscription" instead of "flatrate".
type CountryProviders struct {
	Link         string          `json:"link"`
	Flatrate     []WatchProvider `json:"flatrate"`
	Subscription []WatchProvider `json:"subscription"`
	Free         []WatchProvider `json:"free"`
	Ads          []WatchProvider `json:"ads"`
	AdSupported  []WatchProvider `json:"ad_supported"`
	Rent         []WatchProvider `json:"rent"`
	Buy          []WatchProvider `json:"buy"`
}

// WatchProvider is a single streaming or retail provider.
type WatchProvider struct {
	ProviderID      int     `json:"provider_id"`
	ProviderName    string  `json:"provider_name"`
	LogoPath        *string `json:"logo_path"`
	DisplayPriority *int    `json:"display_priority"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
