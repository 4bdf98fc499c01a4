package session

import (
	"sync"
	"time"
)

type entry struct {
	mu      sync.Mutex
	session Session
	touched time.Time
}

// Manager owns all user sessions. Transitions for the same user are strictly
// ordered by a per-user lock; different users never contend beyond the brief
// map lookup. A non-zero TTL silently discards wizards idle for longer.
type Manager struct {
	mu      sync.RWMutex
	entries map[int64]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewManager constructs an in-memory session manager. ttl 0 disables the
// idle timeout.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		entries: make(map[int64]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Manager) entryFor(userID int64) *entry {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()
	if ok {
		return e
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok = m.entries[userID]; ok {
		return e
	}
	e = &entry{touched: m.now()}
	m.entries[userID] = e
	return e
}

// Do runs fn with exclusive access to the user's session. Expired wizards are
// discarded before fn observes them.
func (m *Manager) Do(userID int64, fn func(s *Session)) {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if m.expired(e) {
		e.session.Reset()
	}
	fn(&e.session)
	e.touched = m.now()
}

// InProgress reports whether the user currently has an active wizard.
func (m *Manager) InProgress(userID int64) bool {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if m.expired(e) {
		e.session.Reset()
	}
	return e.session.Active()
}

// Clear removes the user's session entirely.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
}

func (m *Manager) expired(e *entry) bool {
	return m.ttl > 0 && e.session.Active() && m.now().Sub(e.touched) > m.ttl
}
