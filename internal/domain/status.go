package domain

// Status tracks the request state of a single data slice. A succeeded request
// merges back into StatusIdle; there is no distinct "succeeded" state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
