package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/stream"
)

// OpenFunc dials a new channel for a scene.
type OpenFunc func(ctx context.Context) (*stream.Channel, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager keeps at most one live channel per scene.
// Per-scene locks are reference counted and dropped once unused.
type Manager struct {
	mu     sync.Mutex
	locks  map[string]*lockEntry
	active map[string]*stream.Channel

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:  make(map[string]*lockEntry),
		active: make(map[string]*stream.Channel),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(sceneID) after unlocking.
func (m *Manager) acquire(sceneID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sceneID]
	if !ok {
		entry = &lockEntry{}
		m.locks[sceneID] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(sceneID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sceneID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sceneID)
	}
}

// WithLock executes fn while holding the lock for the scene.
func (m *Manager) WithLock(ctx context.Context, sceneID string, fn func(context.Context) error) error {
	entry := m.acquire(sceneID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sceneID)
	}()
	return fn(ctx)
}

// Open closes any live channel of the scene and registers the one returned by open.
// The registration is dropped when the channel finishes.
func (m *Manager) Open(ctx context.Context, sceneID string, open OpenFunc) (*stream.Channel, error) {
	if sceneID == "" {
		return nil, domain.ErrEmptyID
	}
	var ch *stream.Channel
	err := m.WithLock(ctx, sceneID, func(ctx context.Context) error {
		if prev, ok := m.Active(sceneID); ok {
			m.logger.Debug("replacing live channel", "scene_id", sceneID, "state", prev.State())
			if err := prev.Close(); err != nil {
				m.logger.Warn("close previous channel", "scene_id", sceneID, "err", err)
			}
			m.forget(sceneID, prev)
		}

		var err error
		ch, err = open(ctx)
		if err != nil {
			return err
		}
		if ch == nil {
			return errors.New("session: open returned no channel")
		}

		m.mu.Lock()
		m.active[sceneID] = ch
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		<-ch.Done()
		m.forget(sceneID, ch)
	}()
	return ch, nil
}

// Active returns the live channel of a scene, if any.
func (m *Manager) Active(sceneID string) (*stream.Channel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.active[sceneID]
	if !ok || ch.State().Terminal() {
		return nil, false
	}
	return ch, true
}

// Close closes the live channel of a scene. It reports whether one was open.
func (m *Manager) Close(sceneID string) bool {
	m.mu.Lock()
	ch, ok := m.active[sceneID]
	delete(m.active, sceneID)
	m.mu.Unlock()
	if !ok {
		return false
	}
	if err := ch.Close(); err != nil {
		m.logger.Warn("close channel", "scene_id", sceneID, "err", err)
	}
	return true
}

// CloseAll closes every live channel.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	chans := m.active
	m.active = make(map[string]*stream.Channel)
	m.mu.Unlock()

	for id, ch := range chans {
		if err := ch.Close(); err != nil {
			m.logger.Warn("close channel", "scene_id", id, "err", err)
		}
	}
}

// Len returns the number of live channels. Registrations of channels that already
// ended are dropped here rather than waiting for their watcher.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.active {
		if ch.State().Terminal() {
			delete(m.active, id)
		}
	}
	return len(m.active)
}

// forget drops the registration only if ch is still the registered channel.
func (m *Manager) forget(sceneID string, ch *stream.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active[sceneID] == ch {
		delete(m.active, sceneID)
	}
}
