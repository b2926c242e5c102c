package session

import (
	"context"
	"sync"
	"time"

	"storefront/backend/models"
	"storefront/backend/utils"
)

// Manager hands out one Store per identity subject plus a shared store for
// anonymous visitors. Stores idle for longer than ttl are dropped.
type Manager struct {
	backend Backend
	catalog *Catalog
	log     *utils.Logger
	ttl     time.Duration

	mu        sync.Mutex
	stores    map[string]*Store
	anonymous *Store
}

func NewManager(backend Backend, log *utils.Logger, ttl time.Duration) *Manager {
	cat := NewCatalog(backend, log)
	anonymous := NewStore(backend, cat, log)
	anonymous.shared = true
	return &Manager{
		backend:   backend,
		catalog:   cat,
		log:       log,
		ttl:       ttl,
		stores:    map[string]*Store{},
		anonymous: anonymous,
	}
}

func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// Start loads the catalog once. A failure is logged and the catalog starts
// empty; the next refresh retries.
func (m *Manager) Start(ctx context.Context) {
	if err := m.catalog.Refresh(ctx); err != nil {
		m.log.Error("initial catalog load failed", "error", err)
	}
}

// Session returns the store for id, creating it on first sight. A missing
// identity gets the anonymous store.
func (m *Manager) Session(ctx context.Context, id *models.Identity) *Store {
	if !id.Present() {
		return m.anonymous
	}

	m.mu.Lock()
	s, ok := m.stores[id.Subject]
	if !ok {
		s = NewStore(m.backend, m.catalog, m.log)
		m.stores[id.Subject] = s
	}
	m.mu.Unlock()

	s.SetIdentity(ctx, id)
	return s
}

// Forget drops the store of a signed-out subject.
func (m *Manager) Forget(subject string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, subject)
}

// Evict drops stores idle since before now-ttl and reports how many went.
func (m *Manager) Evict(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for subject, s := range m.stores {
		if now.Sub(s.idleSince()) > m.ttl {
			delete(m.stores, subject)
			n++
		}
	}
	if n > 0 {
		m.log.Debug("evicted idle sessions", "count", n, "remaining", len(m.stores))
	}
	return n
}

// Run evicts idle stores every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Evict(now)
		}
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
