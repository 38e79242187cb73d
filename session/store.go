// Package session holds one ConversationState per session id and serializes
// access to it. The per-session lock is what guarantees at most one turn
// executes per session at a time: a second message for the same session
// waits here (bounded by the lock timeout) instead of interleaving state
// mutations. Idle sessions are evicted on an external schedule.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/logging"
	"github.com/campusops/adminflow/metrics"
)

// entry pairs a session's state with its lock. The lock is a 1-slot channel
// so acquisition can race a timer and the caller's context.
type entry struct {
	state   *core.ConversationState
	lock    chan struct{}
	touched time.Time
}

// Options configure the store.
type Options struct {
	// LockTimeout bounds how long WithLock waits for a session's lock.
	LockTimeout time.Duration
	// HistoryLimit is applied to newly created conversation states.
	HistoryLimit int
	// Logger for lifecycle events.
	Logger logging.Logger
	// Metrics for eviction counting; may be nil.
	Metrics *metrics.Collector
}

// Store is the in-process session registry. All access to a session's
// state goes through WithLock; there is no way to obtain the state without
// holding its lock.
type Store struct {
	mu           sync.Mutex
	sessions     map[string]*entry
	lockTimeout  time.Duration
	historyLimit int
	logger       logging.Logger
	metrics      *metrics.Collector
}

// NewStore constructs an empty store with optional overrides.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{
		LockTimeout:  5 * time.Second,
		HistoryLimit: core.DefaultHistoryLimit,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		sessions:     make(map[string]*entry),
		lockTimeout:  opts.LockTimeout,
		historyLimit: opts.HistoryLimit,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
	}
}

// getOrCreate returns the entry for id, creating state on first contact.
func (s *Store) getOrCreate(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		state := core.NewConversationState(id)
		state.HistoryLimit = s.historyLimit
		e = &entry{state: state, lock: make(chan struct{}, 1), touched: time.Now()}
		s.sessions[id] = e
		s.logger.Debug("session created", "session_id", id)
	}
	return e
}

// WithLock runs fn with exclusive access to the session's state. It blocks
// until the lock is acquired, the lock timeout elapses
// (core.ErrSessionLockTimeout), or ctx is done. The touched time is
// refreshed on release so an active session is never evicted.
func (s *Store) WithLock(ctx context.Context, id string, fn func(state *core.ConversationState) error) error {
	e := s.getOrCreate(id)

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case e.lock <- struct{}{}:
	case <-timer.C:
		return core.ErrSessionLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() {
		s.mu.Lock()
		e.touched = time.Now()
		s.mu.Unlock()
		<-e.lock
	}()

	return fn(e.state)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle removes sessions untouched for longer than maxAge and returns
// how many were removed. Sessions whose lock is currently held are skipped:
// an in-flight turn both proves the session is live and forbids removal.
// Evicting an already absent session is a no-op, so external schedulers can
// call this blindly.
func (s *Store) EvictIdle(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.sessions {
		if e.touched.After(cutoff) {
			continue
		}
		select {
		case e.lock <- struct{}{}:
			delete(s.sessions, id)
			<-e.lock
			evicted++
			s.logger.Debug("session evicted", "session_id", id)
		default:
			// Lock held: a turn is in flight, skip this cycle.
		}
	}
	if evicted > 0 && s.metrics != nil {
		s.metrics.SessionsEvicted.Add(float64(evicted))
	}
	return evicted
}
