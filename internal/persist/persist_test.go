package persist

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkozyrev/cinescope/internal/domain"
	"github.com/vkozyrev/cinescope/internal/store"
)

type fakeSource struct {
	cache  map[string][]domain.Movie
	genre  string
	counts map[string]int
}

func (f *fakeSource) CacheView() (map[string][]domain.Movie, string, map[string]int) {
	return f.cache, f.genre, f.counts
}

type fakeStore struct {
	saved []*store.Snapshot
	err   error
}

func (f *fakeStore) SaveSnapshot(s *store.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, s)
	return nil
}

func newWriter(src CacheSource, st SnapshotStore) *SnapshotWriter {
	return NewSnapshotWriter(src, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWritesAfterGenreFetch(t *testing.T) {
	src := &fakeSource{
		cache:  map[string][]domain.Movie{"drama": {{ID: 1}}},
		genre:  "drama",
		counts: map[string]int{"drama": 10},
	}
	st := &fakeStore{}
	w := newWriter(src, st)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	w.OnTransition(domain.Transition{Kind: domain.TransitionGenreFetched, Genre: "drama"})

	require.Len(t, st.saved, 1)
	snap := st.saved[0]
	assert.Equal(t, "drama", snap.CurrentGenre)
	assert.Equal(t, 10, snap.GenreDisplayedCount["drama"])
	assert.Equal(t, fixed.UnixMilli(), snap.Timestamp)
}

func TestWritesAfterPageAdvance(t *testing.T) {
	st := &fakeStore{}
	w := newWriter(&fakeSource{}, st)

	w.OnTransition(domain.Transition{Kind: domain.TransitionPageAdvanced})

	assert.Len(t, st.saved, 1)
}

func TestIgnoresOtherTransitions(t *testing.T) {
	st := &fakeStore{}
	w := newWriter(&fakeSource{}, st)

	for _, kind := range []domain.TransitionKind{
		domain.TransitionTop10Started,
		domain.TransitionTop10Loaded,
		domain.TransitionGenreStarted,
		domain.TransitionGenreRestored,
		domain.TransitionSearchStarted,
		domain.TransitionSearchFinished,
		domain.TransitionDetailLoaded,
		domain.TransitionRandomLoaded,
	} {
		w.OnTransition(domain.Transition{Kind: kind})
	}

	assert.Empty(t, st.saved, "only fetch and pagination transitions persist")
}

func TestWriteErrorIsSwallowed(t *testing.T) {
	st := &fakeStore{err: errors.New("disk full")}
	w := newWriter(&fakeSource{}, st)

	assert.NotPanics(t, func() {
		w.OnTransition(domain.Transition{Kind: domain.TransitionGenreFetched})
	})
}
