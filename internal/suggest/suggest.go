// Package suggest maintains a local index over already-cached movies and
// serves fuzzy title suggestions without touching the network. The search
// dropdown shows these while the debounced remote search is pending.
package suggest

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/vkozyrev/cinescope/internal/domain"
)

// Index holds movies keyed by lowercase title.
type Index struct {
	mu      sync.RWMutex
	byTitle map[string]domain.Movie
}

// NewIndex creates an empty suggestion index.
func NewIndex() *Index {
	return &Index{byTitle: make(map[string]domain.Movie)}
}

// Add indexes movies by lowercase title. Later entries with the same title
// replace earlier ones.
func (idx *Index) Add(movies []domain.Movie) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, m := range movies {
		if m.Title == "" {
			continue
		}
		idx.byTitle[strings.ToLower(m.Title)] = m
	}
}

// Len returns the number of indexed titles.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byTitle)
}

// Clear removes all indexed movies.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byTitle = make(map[string]domain.Movie)
}

// Query returns up to limit movies whose titles fuzzily match the query,
// best matches first.
func (idx *Index) Query(query string, limit int) []domain.Movie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	titles := make([]string, 0, len(idx.byTitle))
	for title := range idx.byTitle {
		titles = append(titles, title)
	}

	matches := fuzzy.RankFindFold(query, titles)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	results := make([]domain.Movie, 0, len(matches))
	for _, match := range matches {
		if limit > 0 && len(results) == limit {
			break
		}
		if m, ok := idx.byTitle[match.Target]; ok {
			results = append(results, m)
		}
	}
	return results
}
