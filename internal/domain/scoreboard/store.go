package scoreboard

import (
	"sync/atomic"
	"time"
)

// PublishedState is what readers observe: the latest good snapshot plus
// degraded-state bookkeeping. A new value replaces the old one wholesale.
type PublishedState struct {
	Snapshot    *Snapshot
	PublishedAt time.Time
	Degraded    bool
	LastErr     error
	LastError   string
	LastErrorAt time.Time
}

// Health is the liveness view served by the health endpoint.
type Health struct {
	HasSnapshot bool    `json:"has_snapshot"`
	AgeSeconds  float64 `json:"age_seconds"`
	Week        int     `json:"week,omitempty"`
	Degraded    bool    `json:"degraded"`
	LastError   string  `json:"last_error,omitempty"`
}

// Store owns the atomically swapped published state. A single writer (the
// refresh loop) publishes; request handlers only read. No locking beyond the
// pointer swap.
type Store struct {
	state atomic.Pointer[PublishedState]
}

func NewStore() *Store {
	s := &Store{}
	s.state.Store(&PublishedState{})
	return s
}

// Publish replaces the current state with a fresh snapshot and clears the
// degraded flag.
func (s *Store) Publish(snapshot *Snapshot, at time.Time) {
	s.state.Store(&PublishedState{
		Snapshot:    snapshot,
		PublishedAt: at.UTC(),
	})
}

// MarkFailure records a refresh error while keeping the last good snapshot
// (and its publish time) visible to readers.
func (s *Store) MarkFailure(err error, at time.Time) {
	if err == nil {
		return
	}

	prev := s.state.Load()
	s.state.Store(&PublishedState{
		Snapshot:    prev.Snapshot,
		PublishedAt: prev.PublishedAt,
		Degraded:    true,
		LastErr:     err,
		LastError:   err.Error(),
		LastErrorAt: at.UTC(),
	})
}

// Latest returns the most recently published state. Never nil.
func (s *Store) Latest() *PublishedState {
	return s.state.Load()
}

// HealthAt reports liveness relative to now. Age is zero until the first
// successful publish, then grows monotonically between refreshes.
func (s *Store) HealthAt(now time.Time) Health {
	state := s.state.Load()
	out := Health{
		Degraded:  state.Degraded,
		LastError: state.LastError,
	}
	if state.Snapshot == nil {
		return out
	}

	out.HasSnapshot = true
	out.Week = state.Snapshot.Week
	age := now.UTC().Sub(state.PublishedAt).Seconds()
	if age < 0 {
		age = 0
	}
	out.AgeSeconds = age
	return out
}
