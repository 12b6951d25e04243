package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/DukeRupert/wrestaurant/internal/domain"
	"github.com/DukeRupert/wrestaurant/internal/metrics"
	"github.com/google/uuid"
)

// Store holds screen states keyed by session id. Every mutation of a state
// runs under the store lock, so one browser's clicks apply one at a time.
type Store struct {
	idleTimeout time.Duration
	isSecure    bool
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

type entry struct {
	state    *domain.State
	lastSeen time.Time
}

// StoreConfig holds configuration for the store.
type StoreConfig struct {
	IdleTimeout time.Duration
	IsSecure    bool
	Logger      *slog.Logger
}

// NewStore creates an empty store. Call Run to start expiring idle states.
func NewStore(cfg StoreConfig) *Store {
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Store{
		idleTimeout: idle,
		isSecure:    cfg.IsSecure,
		logger:      cfg.Logger,
		now:         time.Now,
		entries:     make(map[uuid.UUID]*entry),
	}
}

// Resolve returns the session id for the request, creating a fresh state when
// the request has no live session. The cookie is (re)issued on every call so
// its expiry follows the server-side idle timeout.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			s.mu.Lock()
			e, ok := s.entries[id]
			if ok {
				e.lastSeen = s.now()
			}
			s.mu.Unlock()
			if ok {
				s.setCookie(w, id)
				return id
			}
		}
	}

	id := uuid.New()
	s.mu.Lock()
	s.entries[id] = &entry{state: domain.NewState(), lastSeen: s.now()}
	count := len(s.entries)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	s.logger.Debug("session created", "session_id", id)

	s.setCookie(w, id)
	return id
}

func (s *Store) setCookie(w http.ResponseWriter, id uuid.UUID) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id.String(),
		Path:     CookiePath,
		MaxAge:   int(s.idleTimeout.Seconds()),
		HttpOnly: true,
		Secure:   s.isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Snapshot returns a copy of the session's state, safe to render without
// holding the lock. A missing session yields a fresh state.
func (s *Store) Snapshot(id uuid.UUID) *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return domain.NewState()
	}
	return e.state.Clone()
}

// Update runs fn on a working copy of the session's state under the store
// lock. The copy replaces the stored state only when fn returns nil, so a
// refused action leaves the state as it was. The returned snapshot is the
// stored state after the call.
func (s *Store) Update(id uuid.UUID, fn func(*domain.State) error) (*domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{state: domain.NewState()}
		s.entries[id] = e
	}
	e.lastSeen = s.now()

	work := e.state.Clone()
	if err := fn(work); err != nil {
		return e.state.Clone(), err
	}
	e.state = work
	return work.Clone(), nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run expires idle sessions until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("expired idle sessions", "count", n)
			}
		}
	}
}

// Sweep removes sessions idle for longer than the timeout and returns how
// many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.idleTimeout {
			delete(s.entries, id)
			removed++
		}
	}
	count := len(s.entries)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	return removed
}

func (s *Store) sweepInterval() time.Duration {
	interval := s.idleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
