package catalog

import "github.com/vkozyrev/cinescope/internal/domain"

// Read-only selectors for the presentation layer. Each returns a copy of the
// underlying slice state.

// Top10 returns the current top-10 listing.
func (s *Service) Top10() []domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMovies(s.state.Top10)
}

// RandomMovie returns the hero pick, or nil if none is loaded.
func (s *Service) RandomMovie() *domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMovie(s.state.RandomMovie)
}

// RandomStatus returns the hero-pick slice status.
func (s *Service) RandomStatus() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RandomStatus
}

// CurrentMovie returns the detail-view movie, or nil during navigation.
func (s *Service) CurrentMovie() *domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMovie(s.state.CurrentMovie)
}

// FilteredMovies returns the full listing for the current genre.
func (s *Service) FilteredMovies() []domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMovies(s.state.FilteredMovies)
}

// DisplayedMovies returns the filtered listing truncated to the pagination
// cursor, which is what the genre view renders.
func (s *Service) DisplayedMovies() []domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := s.state.DisplayedCount
	if count > len(s.state.FilteredMovies) {
		count = len(s.state.FilteredMovies)
	}
	return cloneMovies(s.state.FilteredMovies[:count])
}

// CurrentGenre returns the active genre tag.
func (s *Service) CurrentGenre() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentGenre
}

// DisplayedCount returns the pagination cursor for the current genre.
func (s *Service) DisplayedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DisplayedCount
}

// HasMore reports whether the current genre has movies beyond the cursor.
func (s *Service) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DisplayedCount < len(s.state.FilteredMovies)
}

// MoviesPerPage returns the pagination step.
func (s *Service) MoviesPerPage() int {
	return moviesPerPage
}

// SearchResults returns the latest search matches.
func (s *Service) SearchResults() []domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMovies(s.state.SearchResults)
}

// SearchStatus returns the search slice status.
func (s *Service) SearchStatus() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SearchStatus
}

// Status returns the shared listing/detail slice status.
func (s *Service) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

// CachedGenre returns the cache entry for a genre, if present.
func (s *Service) CachedGenre(genre string) ([]domain.Movie, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	movies, ok := s.state.GenreCache[genre]
	return cloneMovies(movies), ok
}

// CacheView returns copies of the cache-relevant state the persistence
// middleware snapshots: the genre cache, the current genre, and the per-genre
// pagination cursors.
func (s *Service) CacheView() (map[string][]domain.Movie, string, map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache := make(map[string][]domain.Movie, len(s.state.GenreCache))
	for genre, movies := range s.state.GenreCache {
		cache[genre] = cloneMovies(movies)
	}
	counts := make(map[string]int, len(s.state.GenreDisplayedCount))
	for genre, count := range s.state.GenreDisplayedCount {
		counts[genre] = count
	}
	return cache, s.state.CurrentGenre, counts
}

func cloneMovie(m *domain.Movie) *domain.Movie {
	if m == nil {
		return nil
	}
	copied := *m
	return &copied
}
