// Package persist snapshots cache-relevant catalog state to the durable
// session store after the transitions that change it.
package persist

import (
	"log/slog"
	"time"

	"github.com/vkozyrev/cinescope/internal/domain"
	"github.com/vkozyrev/cinescope/internal/store"
)

// CacheSource exposes the state the snapshot captures. Implemented by the
// catalog service.
type CacheSource interface {
	CacheView() (genreCache map[string][]domain.Movie, currentGenre string, displayedCounts map[string]int)
}

// SnapshotStore receives the serialized snapshot. Implemented by store.Store.
type SnapshotStore interface {
	SaveSnapshot(*store.Snapshot) error
}

// SnapshotWriter is a transition observer that persists the genre cache after
// a genre fetch completes or the pagination cursor advances. Write failures
// are logged and never surfaced.
type SnapshotWriter struct {
	source CacheSource
	store  SnapshotStore
	logger *slog.Logger

	now func() time.Time
}

// NewSnapshotWriter creates the observer.
func NewSnapshotWriter(source CacheSource, st SnapshotStore, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotWriter{source: source, store: st, logger: logger, now: time.Now}
}

// OnTransition implements domain.TransitionObserver.
func (w *SnapshotWriter) OnTransition(t domain.Transition) {
	switch t.Kind {
	case domain.TransitionGenreFetched, domain.TransitionPageAdvanced:
	default:
		return
	}

	cache, genre, counts := w.source.CacheView()
	snap := &store.Snapshot{
		GenreCache:          cache,
		CurrentGenre:        genre,
		GenreDisplayedCount: counts,
		Timestamp:           w.now().UnixMilli(),
	}

	if err := w.store.SaveSnapshot(snap); err != nil {
		w.logger.Error("failed to write genre cache snapshot", "error", err)
		return
	}
	w.logger.Debug("wrote genre cache snapshot", "genres", len(cache), "trigger", t.Kind.String())
}
