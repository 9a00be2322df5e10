package domain

import "fmt"

// Movie is a read-only projection of a catalog entry as returned by the
// upstream API. It is never mutated after ingestion, with one exception:
// a missing trailer reference may be backfilled when the movie is received.
type Movie struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"originalTitle,omitempty"`
	Plot          string   `json:"plot,omitempty"`
	PosterURL     *string  `json:"posterUrl,omitempty"`
	BackdropURL   *string  `json:"backdropUrl,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	TmdbRating    float64  `json:"tmdbRating,omitempty"`
	ReleaseYear   int      `json:"releaseYear,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	TrailerURL    string   `json:"trailerUrl,omitempty"`
	Runtime       int      `json:"runtime,omitempty"`
	Language      string   `json:"language,omitempty"`
	Budget        string   `json:"budget,omitempty"`
	Revenue       string   `json:"revenue,omitempty"`
	Director      string   `json:"director,omitempty"`
}

// HasGenre reports whether the movie carries the given genre tag.
func (m Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// DisplayRating returns the rating to show, preferring the TMDB score.
func (m Movie) DisplayRating() float64 {
	if m.TmdbRating > 0 {
		return m.TmdbRating
	}
	return m.Rating
}

// FormattedRuntime returns the runtime in a human-readable format.
func (m Movie) FormattedRuntime() string {
	if m.Runtime <= 0 {
		return ""
	}
	h := m.Runtime / 60
	mins := m.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
