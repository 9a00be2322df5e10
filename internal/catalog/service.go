// Package catalog owns all movie-list state: the top-10 listing, the random
// hero pick, single-movie detail, the genre-filtered listing with its cache
// and pagination cursors, and search results.
package catalog

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/vkozyrev/cinescope/internal/domain"
)

const (
	// moviesPerPage is the pagination step for genre listings.
	moviesPerPage = 10

	// randomPageMax bounds the pseudo-random page index for listing fetches.
	randomPageMax = 100

	// filterPages / filterPageLimit / filterTarget drive the genre fetch
	// loop: sequential pages 1..filterPages of filterPageLimit movies,
	// stopping early once filterTarget movies have accumulated.
	filterPages     = 10
	filterPageLimit = 50
	filterTarget    = 100

	// searchPages random pages of searchPageLimit movies feed each search;
	// the match list is truncated to searchMaxResults.
	searchPages      = 10
	searchPageLimit  = 10
	searchMaxResults = 10
)

// Select-field sets requested per operation, mirroring what each view needs.
const (
	top10Fields  = "id posterUrl genres title originalTitle"
	randomFields = "id title originalTitle posterUrl rating tmdbRating releaseYear genres trailerUrl plot runtime backdropUrl"
	filterFields = "id title originalTitle posterUrl rating tmdbRating releaseYear genres"
	searchFields = "id title originalTitle posterUrl releaseYear genres"
)

// state is the complete machine state. All fields are guarded by Service.mu;
// selectors hand out copies.
type state struct {
	Top10               []domain.Movie
	RandomMovie         *domain.Movie
	RandomStatus        domain.Status
	CurrentMovie        *domain.Movie
	FilteredMovies      []domain.Movie
	GenreCache          map[string][]domain.Movie
	CurrentGenre        string
	DisplayedCount      int
	GenreDisplayedCount map[string]int
	SearchResults       []domain.Movie
	SearchStatus        domain.Status
	Status              domain.Status
}

// Service is the catalog state machine. Operations block until their
// transition has been applied; failures surface only through slice statuses,
// never as returned errors. Overlapping invocations of the same operation are
// last-response-wins on shared slices.
type Service struct {
	gateway  domain.CatalogGateway
	trailers domain.TrailerLookup
	logger   *slog.Logger

	mu        sync.Mutex
	state     state
	observers []domain.TransitionObserver
}

// Option configures a Service.
type Option func(*Service)

// WithSeed restores genre-cache state from a persisted session snapshot.
func WithSeed(genreCache map[string][]domain.Movie, currentGenre string, displayedCounts map[string]int) Option {
	return func(s *Service) {
		if genreCache != nil {
			s.state.GenreCache = genreCache
		}
		s.state.CurrentGenre = currentGenre
		if displayedCounts != nil {
			s.state.GenreDisplayedCount = displayedCounts
		}
	}
}

// NewService creates the catalog state machine.
func NewService(gw domain.CatalogGateway, trailers domain.TrailerLookup, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		gateway:  gw,
		trailers: trailers,
		logger:   logger,
		state: state{
			GenreCache:          make(map[string][]domain.Movie),
			GenreDisplayedCount: make(map[string]int),
			DisplayedCount:      moviesPerPage,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddObserver registers a transition observer. Observers are notified after
// each transition is applied, outside the machine's critical section.
func (s *Service) AddObserver(o domain.TransitionObserver) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// apply mutates state under the lock, then notifies observers.
func (s *Service) apply(t domain.Transition, mutate func(*state)) {
	s.mu.Lock()
	mutate(&s.state)
	observers := make([]domain.TransitionObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.OnTransition(t)
	}
}

// === Operations ===

// FetchTop10 loads ten movies from a pseudo-random catalog page and replaces
// the top-10 listing with a shuffled copy. A failure leaves the previous
// listing intact and requires an explicit re-invocation.
func (s *Service) FetchTop10(ctx context.Context) {
	s.apply(domain.Transition{Kind: domain.TransitionTop10Started}, func(st *state) {
		st.Status = domain.StatusLoading
	})

	page := randomPage()
	movies, err := s.gateway.GetMovies(ctx, domain.MovieQuery{
		Page:         page,
		Limit:        moviesPerPage,
		SelectFields: top10Fields,
	})
	if err != nil {
		s.logger.Error("failed to fetch top10", "error", err, "page", page)
		s.apply(domain.Transition{Kind: domain.TransitionTop10Failed}, func(st *state) {
			st.Status = domain.StatusFailed
		})
		return
	}

	shuffle(movies)
	s.logger.Info("loaded top10", "count", len(movies), "page", page)
	s.apply(domain.Transition{Kind: domain.TransitionTop10Loaded}, func(st *state) {
		st.Status = domain.StatusIdle
		st.Top10 = movies
	})
}

// FetchRandomMovie resolves the hero pick: the dedicated random endpoint
// first, then a uniform pick from a random page of ten on any failure. The
// trailer reference is backfilled if absent. Callers guard against issuing a
// second fetch while one is in flight.
func (s *Service) FetchRandomMovie(ctx context.Context) {
	s.apply(domain.Transition{Kind: domain.TransitionRandomStarted}, func(st *state) {
		st.RandomStatus = domain.StatusLoading
	})

	movie, err := s.gateway.GetRandomMovie(ctx)
	if err != nil || movie == nil {
		if err != nil {
			s.logger.Debug("random endpoint unavailable, using fallback", "error", err)
		}
		movie = s.randomFromPage(ctx)
	}

	if movie == nil {
		s.apply(domain.Transition{Kind: domain.TransitionRandomFailed}, func(st *state) {
			st.RandomStatus = domain.StatusFailed
		})
		return
	}

	s.backfillTrailer(movie)
	s.apply(domain.Transition{Kind: domain.TransitionRandomLoaded}, func(st *state) {
		st.RandomStatus = domain.StatusIdle
		st.RandomMovie = movie
	})
}

// randomFromPage fetches a random listing page and picks one movie uniformly.
func (s *Service) randomFromPage(ctx context.Context) *domain.Movie {
	page := randomPage()
	movies, err := s.gateway.GetMovies(ctx, domain.MovieQuery{
		Page:         page,
		Limit:        moviesPerPage,
		SortField:    "_id",
		SortType:     1,
		SelectFields: randomFields,
	})
	if err != nil {
		s.logger.Error("random fallback fetch failed", "error", err, "page", page)
		return nil
	}
	if len(movies) == 0 {
		return nil
	}
	pick := movies[rand.Intn(len(movies))]
	return &pick
}

// FetchMovieByID loads the detail view for one movie. The current movie is
// cleared synchronously before the fetch so stale detail is never shown
// during navigation. A nil payload counts as failure.
func (s *Service) FetchMovieByID(ctx context.Context, id int) {
	s.apply(domain.Transition{Kind: domain.TransitionDetailStarted, MovieID: id}, func(st *state) {
		st.Status = domain.StatusLoading
		st.CurrentMovie = nil
	})

	movie, err := s.gateway.GetMovieByID(ctx, id)
	if err != nil || movie == nil {
		if err != nil {
			s.logger.Error("failed to fetch movie", "error", err, "id", id)
		}
		s.apply(domain.Transition{Kind: domain.TransitionDetailFailed, MovieID: id}, func(st *state) {
			st.Status = domain.StatusFailed
			st.CurrentMovie = nil
		})
		return
	}

	s.backfillTrailer(movie)
	s.apply(domain.Transition{Kind: domain.TransitionDetailLoaded, MovieID: id}, func(st *state) {
		st.Status = domain.StatusIdle
		st.CurrentMovie = movie
	})
}

// FetchMoviesByFilter switches the current genre. A non-empty cache entry is
// authoritative: it is restored synchronously together with that genre's
// recorded pagination cursor and no network call is made. Otherwise pages are
// fetched sequentially, filtered client-side as a guard against server filter
// mismatches, shuffled, and written to the cache. Per-page errors are logged
// and skipped; an all-pages failure completes with an empty idle result.
func (s *Service) FetchMoviesByFilter(ctx context.Context, genre string) {
	s.mu.Lock()
	cached := s.state.GenreCache[genre]
	hit := len(cached) > 0

	if s.state.CurrentGenre != genre {
		s.state.FilteredMovies = nil
		if !hit {
			s.state.DisplayedCount = moviesPerPage
		}
	}
	if hit {
		s.state.Status = domain.StatusIdle
		s.state.FilteredMovies = cloneMovies(cached)
		if count, ok := s.state.GenreDisplayedCount[genre]; ok && count > 0 {
			s.state.DisplayedCount = count
		} else {
			s.state.DisplayedCount = moviesPerPage
		}
	} else {
		s.state.Status = domain.StatusLoading
	}
	s.state.CurrentGenre = genre
	observers := make([]domain.TransitionObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	kind := domain.TransitionGenreStarted
	if hit {
		kind = domain.TransitionGenreRestored
	}
	for _, o := range observers {
		o.OnTransition(domain.Transition{Kind: kind, Genre: genre})
	}

	if hit {
		return
	}

	var all []domain.Movie
	for page := 1; page <= filterPages; page++ {
		movies, err := s.gateway.GetMovies(ctx, domain.MovieQuery{
			Page:         page,
			Limit:        filterPageLimit,
			SelectFields: filterFields,
			Genre:        genre,
		})
		if err != nil {
			s.logger.Warn("genre page fetch failed", "error", err, "genre", genre, "page", page)
			continue
		}

		// Redundant client-side membership check; the server-side genres
		// filter has been observed to leak mismatches.
		if genre != "" {
			movies = filterByGenre(movies, genre)
		}

		all = append(all, movies...)
		if len(all) >= filterTarget {
			break
		}
	}

	shuffle(all)
	s.logger.Info("loaded genre listing", "genre", genre, "count", len(all))

	s.apply(domain.Transition{Kind: domain.TransitionGenreFetched, Genre: genre}, func(st *state) {
		st.Status = domain.StatusIdle
		st.GenreCache[genre] = all
		st.FilteredMovies = cloneMovies(all)
		st.CurrentGenre = genre
		st.DisplayedCount = moviesPerPage
		st.GenreDisplayedCount[genre] = moviesPerPage
	})
}

// LoadMoreMovies advances the current genre's pagination cursor by one page
// step, clamped to the cached list length. Pure state transition.
func (s *Service) LoadMoreMovies() {
	var genre string
	s.apply(domain.Transition{Kind: domain.TransitionPageAdvanced}, func(st *state) {
		genre = st.CurrentGenre
		total := len(st.GenreCache[genre])
		current := st.GenreDisplayedCount[genre]
		if current == 0 {
			current = moviesPerPage
		}
		next := current + moviesPerPage
		if next > total {
			next = total
		}
		st.DisplayedCount = next
		st.GenreDisplayedCount[genre] = next
	})
	s.logger.Debug("advanced genre page", "genre", genre)
}

// SearchMovies resolves a title search. A blank query yields an empty result
// with no network call. Otherwise ten pseudo-random pages are fetched, the
// concatenation is filtered by case-insensitive substring match on title or
// original title, and the matches truncated to ten. Results are never cached.
func (s *Service) SearchMovies(ctx context.Context, query string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		s.apply(domain.Transition{Kind: domain.TransitionSearchFinished, Query: query}, func(st *state) {
			st.SearchStatus = domain.StatusIdle
			st.SearchResults = nil
		})
		return
	}

	s.apply(domain.Transition{Kind: domain.TransitionSearchStarted, Query: query}, func(st *state) {
		st.SearchStatus = domain.StatusLoading
	})

	var all []domain.Movie
	for i := 0; i < searchPages; i++ {
		page := randomPage()
		movies, err := s.gateway.GetMovies(ctx, domain.MovieQuery{
			Page:         page,
			Limit:        searchPageLimit,
			SelectFields: searchFields,
		})
		if err != nil {
			s.logger.Warn("search page fetch failed", "error", err, "page", page)
			continue
		}
		all = append(all, movies...)
	}

	q := strings.ToLower(trimmed)
	var matches []domain.Movie
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.OriginalTitle), q) {
			matches = append(matches, m)
			if len(matches) == searchMaxResults {
				break
			}
		}
	}

	s.logger.Debug("search finished", "query", trimmed, "matches", len(matches), "scanned", len(all))
	s.apply(domain.Transition{Kind: domain.TransitionSearchFinished, Query: query}, func(st *state) {
		st.SearchStatus = domain.StatusIdle
		st.SearchResults = matches
	})
}

// backfillTrailer fills a missing trailer reference via the injected lookup.
func (s *Service) backfillTrailer(m *domain.Movie) {
	if m == nil || m.TrailerURL != "" || s.trailers == nil {
		return
	}
	if ref, ok := s.trailers.Lookup(m.Title, m.OriginalTitle); ok {
		m.TrailerURL = ref
	}
}

// === Helpers ===

func randomPage() int {
	return rand.Intn(randomPageMax) + 1
}

func shuffle(movies []domain.Movie) {
	rand.Shuffle(len(movies), func(i, j int) {
		movies[i], movies[j] = movies[j], movies[i]
	})
}

func filterByGenre(movies []domain.Movie, genre string) []domain.Movie {
	filtered := movies[:0:0]
	for _, m := range movies {
		if m.HasGenre(genre) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func cloneMovies(movies []domain.Movie) []domain.Movie {
	if movies == nil {
		return nil
	}
	out := make([]domain.Movie, len(movies))
	copy(out, movies)
	return out
}
