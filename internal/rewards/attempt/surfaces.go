package attempt

import (
	"errors"
	"sync"
	"time"
)

// ErrInFlight is returned when an attempt on the same surface is still running.
var ErrInFlight = errors.New("an ad is already in progress")

// State of one surface.
type State string

const (
	StateIdle         State = "idle"
	StateLoading      State = "loading"
	StateRewarded     State = "rewarded"
	StateRetryPending State = "retry_pending"
	StateFailed       State = "failed"
)

// SurfaceState is the explicit per-surface retry bookkeeping.
type SurfaceState struct {
	State         State
	Retries       int
	LastAttemptAt time.Time
	InFlight      bool
}

// Surfaces tracks SurfaceState per key and lets only one attempt per key run.
type Surfaces struct {
	mu     sync.Mutex
	states map[string]*SurfaceState
}

func NewSurfaces() *Surfaces {
	return &Surfaces{states: make(map[string]*SurfaceState)}
}

// Key builds the surface key for one user.
func Key(surface, userID string) string {
	return surface + ":" + userID
}

func (s *Surfaces) acquire(key string, now time.Time, staleAfter time.Duration) (SurfaceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[key]
	if !ok {
		st = &SurfaceState{State: StateIdle}
		s.states[key] = st
	}
	if st.InFlight {
		return SurfaceState{}, ErrInFlight
	}
	if staleAfter > 0 && !st.LastAttemptAt.IsZero() && now.Sub(st.LastAttemptAt) > staleAfter {
		st.Retries = 0
	}
	st.InFlight = true
	return *st, nil
}

func (s *Surfaces) update(key string, fn func(st *SurfaceState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[key]; ok {
		fn(st)
	}
}

func (s *Surfaces) release(key string) {
	s.update(key, func(st *SurfaceState) {
		st.InFlight = false
		st.State = StateIdle
	})
}

// Get returns a copy of the state under key.
func (s *Surfaces) Get(key string) (SurfaceState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[key]
	if !ok {
		return SurfaceState{}, false
	}
	return *st, true
}

// Prune drops idle entries whose last attempt is before cutoff.
func (s *Surfaces) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, st := range s.states {
		if !st.InFlight && st.LastAttemptAt.Before(cutoff) {
			delete(s.states, key)
			removed++
		}
	}
	return removed
}
