package domain

// TransitionKind identifies a completed state-machine transition. Observers
// match on kinds instead of comparing transition name strings.
type TransitionKind int

const (
	TransitionTop10Started TransitionKind = iota
	TransitionTop10Loaded
	TransitionTop10Failed
	TransitionRandomStarted
	TransitionRandomLoaded
	TransitionRandomFailed
	TransitionDetailStarted
	TransitionDetailLoaded
	TransitionDetailFailed
	TransitionGenreStarted
	TransitionGenreRestored
	TransitionGenreFetched
	TransitionPageAdvanced
	TransitionSearchStarted
	TransitionSearchFinished
)

// String returns a human-readable representation of the transition kind.
func (k TransitionKind) String() string {
	switch k {
	case TransitionTop10Started:
		return "top10/started"
	case TransitionTop10Loaded:
		return "top10/loaded"
	case TransitionTop10Failed:
		return "top10/failed"
	case TransitionRandomStarted:
		return "random/started"
	case TransitionRandomLoaded:
		return "random/loaded"
	case TransitionRandomFailed:
		return "random/failed"
	case TransitionDetailStarted:
		return "detail/started"
	case TransitionDetailLoaded:
		return "detail/loaded"
	case TransitionDetailFailed:
		return "detail/failed"
	case TransitionGenreStarted:
		return "genre/started"
	case TransitionGenreRestored:
		return "genre/restored"
	case TransitionGenreFetched:
		return "genre/fetched"
	case TransitionPageAdvanced:
		return "genre/page-advanced"
	case TransitionSearchStarted:
		return "search/started"
	case TransitionSearchFinished:
		return "search/finished"
	default:
		return "unknown"
	}
}

// Transition describes one applied state transition.
type Transition struct {
	Kind    TransitionKind
	Genre   string // set for genre transitions
	MovieID int    // set for detail transitions
	Query   string // set for search transitions
}

// TransitionObserver receives a notification after each transition has been
// applied. Observers run outside the machine's critical section and may read
// selectors, but must not invoke operations on the notifying machine.
type TransitionObserver interface {
	OnTransition(t Transition)
}
