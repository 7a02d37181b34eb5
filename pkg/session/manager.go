package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-widgetgen/pkg/genservice"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session: not found")

// Manager keeps the controllers of concurrent sessions keyed by a random id.
// Every controller shares the same service and options.
type Manager struct {
	svc  genservice.Service
	opts []Option

	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewManager builds a manager whose controllers use svc and opts.
func NewManager(svc genservice.Service, opts ...Option) *Manager {
	return &Manager{
		svc:      svc,
		opts:     append([]Option(nil), opts...),
		sessions: make(map[string]*Controller),
	}
}

// Create registers a fresh controller and returns its id.
func (m *Manager) Create() (string, *Controller) {
	id := uuid.NewString()
	ctrl := NewController(m.svc, m.opts...)

	m.mu.Lock()
	m.sessions[id] = ctrl
	m.mu.Unlock()
	return id, ctrl
}

// Get returns the controller for id.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctrl, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ctrl, nil
}

// Delete discards the session and forgets it. In-flight responses for it are
// dropped.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	ctrl, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	ctrl.Discard()
	return nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the live session ids sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
