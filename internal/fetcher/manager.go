package fetcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoBackends is returned when no backend could be initialized or
// every configured backend failed a call.
var ErrNoBackends = errors.New("fetcher: no usable backend")

// BackendStatus is one backend's entry in a status report.
type BackendStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Active  bool   `json:"active"`
}

// Status describes the manager and its backends.
type Status struct {
	ActiveBackend string          `json:"active_backend"`
	Initialized   bool            `json:"initialized"`
	Backends      []BackendStatus `json:"backends"`
}

// Manager drives the configured backends in priority order with
// whole-call fallback: a backend that errors before yielding its first
// post is skipped for that call; once a backend starts yielding, the
// call is committed to it and a later error aborts the call instead of
// resuming on another backend. That keeps per-call ordering and dedup
// behavior predictable.
type Manager struct {
	log     *zap.Logger
	timeout time.Duration

	candidates []Scraper

	mu          sync.Mutex
	scrapers    []Scraper
	active      Scraper
	initialized bool
}

// NewManager takes backends in priority order. Call Initialize before
// searching and Close when done.
func NewManager(log *zap.Logger, callTimeout time.Duration, backends ...Scraper) *Manager {
	if callTimeout <= 0 {
		callTimeout = 2 * time.Minute
	}
	return &Manager{
		log:        log,
		timeout:    callTimeout,
		candidates: backends,
	}
}

// Initialize attempts every backend in priority order. Individual
// failures are logged and skipped; the manager is ready once at least
// one backend comes up. The first backend up becomes the reported
// active default.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.candidates {
		initCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := s.Initialize(initCtx)
		cancel()

		if err != nil {
			m.log.Warn("backend failed to initialize",
				zap.String("backend", s.Name()),
				zap.Error(err))
			continue
		}
		m.log.Info("backend initialized", zap.String("backend", s.Name()))
		m.scrapers = append(m.scrapers, s)
	}

	if len(m.scrapers) == 0 {
		return ErrNoBackends
	}

	m.active = m.scrapers[0]
	m.initialized = true
	m.log.Info("fetcher ready",
		zap.String("active", m.active.Name()),
		zap.Int("backends", len(m.scrapers)))
	return nil
}

func (m *Manager) ready() []Scraper {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrapers
}

func (m *Manager) setActive(s Scraper) {
	m.mu.Lock()
	m.active = s
	m.mu.Unlock()
}

// Search streams posts for a query with automatic fallback across
// backends. The stream ends after one backend completes, or carries a
// single terminal error when every backend failed. Cancel ctx to stop
// the stream early.
func (m *Manager) Search(ctx context.Context, query string, opts SearchOptions) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		var lastErr error
		for _, s := range m.ready() {
			m.log.Debug("trying backend",
				zap.String("backend", s.Name()),
				zap.String("query", query))

			yielded, err := m.forward(ctx, out, query, opts, s)
			if err == nil {
				m.setActive(s)
				return
			}
			if ctx.Err() != nil {
				return
			}
			if yielded {
				// Committed to this backend; do not resume elsewhere.
				m.log.Warn("backend failed mid-stream",
					zap.String("backend", s.Name()),
					zap.Error(err))
				fail(ctx, out, err)
				return
			}

			m.log.Warn("backend failed, falling back",
				zap.String("backend", s.Name()),
				zap.Error(err))
			lastErr = err
		}

		if lastErr == nil {
			lastErr = ErrNoBackends
		}
		fail(ctx, out, lastErr)
	}()

	return out
}

// forward relays one backend's stream onto out. Reports whether any
// post was relayed before the stream ended.
func (m *Manager) forward(ctx context.Context, out chan<- Result, query string, opts SearchOptions, s Scraper) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	yielded := false
	for r := range s.Search(callCtx, query, opts) {
		if r.Err != nil {
			return yielded, r.Err
		}
		if !emit(ctx, out, r) {
			return yielded, ctx.Err()
		}
		yielded = true
	}
	return yielded, nil
}

// SearchMultiple runs Search once per query in order and suppresses
// posts already yielded under an earlier query. A query whose whole
// fallback chain fails is logged and skipped.
func (m *Manager) SearchMultiple(ctx context.Context, queries []string, limitPerQuery int) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		seen := make(map[string]bool)
		for _, query := range queries {
			if ctx.Err() != nil {
				return
			}

			for r := range m.Search(ctx, query, SearchOptions{Limit: limitPerQuery}) {
				if r.Err != nil {
					m.log.Error("query failed on all backends",
						zap.String("query", query),
						zap.Error(r.Err))
					break
				}
				if seen[r.Post.ID] {
					continue
				}
				seen[r.Post.ID] = true
				if !emit(ctx, out, r) {
					return
				}
			}
		}
	}()

	return out
}

// UserPosts streams one account's posts with the same fallback rules
// as Search.
func (m *Manager) UserPosts(ctx context.Context, username string, limit int) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		var lastErr error
		for _, s := range m.ready() {
			callCtx, cancel := context.WithTimeout(ctx, m.timeout)

			yielded := false
			var err error
			for r := range s.UserPosts(callCtx, username, limit) {
				if r.Err != nil {
					err = r.Err
					break
				}
				if !emit(ctx, out, r) {
					cancel()
					return
				}
				yielded = true
			}
			cancel()

			if err == nil {
				m.setActive(s)
				return
			}
			if ctx.Err() != nil {
				return
			}
			if yielded {
				fail(ctx, out, err)
				return
			}

			m.log.Warn("backend failed for user posts, falling back",
				zap.String("backend", s.Name()),
				zap.String("username", username),
				zap.Error(err))
			lastErr = err
		}

		if lastErr == nil {
			lastErr = ErrNoBackends
		}
		fail(ctx, out, lastErr)
	}()

	return out
}

// Status reports the manager state. Each health check runs under a
// short timeout so a hung backend cannot stall the report.
func (m *Manager) Status(ctx context.Context) Status {
	m.mu.Lock()
	scrapers := m.scrapers
	active := m.active
	initialized := m.initialized
	m.mu.Unlock()

	st := Status{Initialized: initialized}
	if active != nil {
		st.ActiveBackend = active.Name()
	}

	for _, s := range scrapers {
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		healthy := s.HealthCheck(checkCtx)
		cancel()

		st.Backends = append(st.Backends, BackendStatus{
			Name:    s.Name(),
			Healthy: healthy,
			Active:  s == active,
		})
	}
	return st
}

// Close tears down every initialized backend.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.scrapers {
		if err := s.Close(); err != nil {
			m.log.Warn("error closing backend",
				zap.String("backend", s.Name()),
				zap.Error(err))
		}
	}
	m.scrapers = nil
	m.active = nil
	m.initialized = false
}
