package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/vkozyrev/cinescope/internal/domain"
)

// movieIndex implements fuzzy.Source over a movie list so views can narrow
// long listings (favorites, genre results) as the user types.
type movieIndex struct {
	movies      []domain.Movie
	lowerTitles []string
}

func newMovieIndex(movies []domain.Movie) *movieIndex {
	idx := &movieIndex{movies: movies, lowerTitles: make([]string, len(movies))}
	for i, m := range movies {
		idx.lowerTitles[i] = strings.ToLower(m.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *movieIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of movies (implements fuzzy.Source)
func (idx *movieIndex) Len() int { return len(idx.movies) }

// filter returns the movies matching the pattern, best matches first, or the
// full list for an empty pattern.
func (idx *movieIndex) filter(pattern string) []domain.Movie {
	pattern = strings.TrimSpace(strings.ToLower(pattern))
	if pattern == "" {
		return idx.movies
	}

	matches := fuzzy.FindFrom(pattern, idx)
	results := make([]domain.Movie, len(matches))
	for i, match := range matches {
		results[i] = idx.movies[match.Index]
	}
	return results
}
