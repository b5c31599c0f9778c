package session

import (
	"context"
	"log"
	"sync"
	"time"

	"tlcintake/internal/domain"
	"tlcintake/internal/i18n"
)

// Manager owns the live session registry. Sessions are held in memory only;
// an idle or ended session is swept after the configured timeout.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	catalog  *i18n.Catalog
	idleTTL  time.Duration
}

// NewManager creates a session registry. idleTTL bounds how long an
// inactive session is retained.
func NewManager(catalog *i18n.Catalog, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*Session),
		catalog:  catalog,
		idleTTL:  idleTTL,
	}
}

// Create registers a new session.
func (m *Manager) Create() *Session {
	s := New(m.catalog)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	log.Printf("session.Manager: created session %s", s.ID)
	return s
}

// Get returns the session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes ended and idle-expired sessions and returns how many were
// dropped.
func (m *Manager) Sweep() int {
	cutoff := time.Now().UTC().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.Ended() || s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps periodically until ctx is cancelled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					log.Printf("session.Manager: swept %d expired sessions", n)
				}
			}
		}
	}()
}
