package worker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/saasradar/saasradar/internal/config"
	"github.com/saasradar/saasradar/internal/fetcher"
	"github.com/saasradar/saasradar/internal/notify"
	"github.com/saasradar/saasradar/internal/scoring"
	"github.com/saasradar/saasradar/internal/storage"
)

// Worker schedules discovery runs on a fixed interval. A run already in
// progress is never overlapped by the next tick.
type Worker struct {
	Log      *zap.Logger
	Manager  *fetcher.Manager
	Scorer   *scoring.Scorer
	Store    *storage.Store
	Notifier *notify.Notifier
	Config   *config.Config

	Ticker   *time.Ticker
	StopChan chan bool
	mu       sync.Mutex
	running  bool
	active   bool

	lastRun     time.Time
	lastErr     error
	lastResults RunStats
}

func NewWorker(log *zap.Logger, m *fetcher.Manager, s *scoring.Scorer, store *storage.Store, n *notify.Notifier, cfg *config.Config) *Worker {
	return &Worker{
		Log:      log,
		Manager:  m,
		Scorer:   s,
		Store:    store,
		Notifier: n,
		Config:   cfg,
		StopChan: make(chan bool),
	}
}

func (w *Worker) Start(interval time.Duration) {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		w.Log.Warn("scheduler already active")
		return
	}
	w.active = true
	w.mu.Unlock()

	w.Ticker = time.NewTicker(interval)
	go func() {
		defer func() {
			w.mu.Lock()
			w.active = false
			w.mu.Unlock()
		}()
		for {
			select {
			case <-w.Ticker.C:
				w.DiscoverAll()
			case <-w.StopChan:
				w.Ticker.Stop()
				return
			}
		}
	}()
	w.Log.Info("background worker started", zap.Duration("interval", interval))
}

func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.StopChan <- true
	w.Log.Info("background worker stopped")
}

func (w *Worker) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// DiscoverAll runs one discovery pass, skipping if a run is already in
// flight.
func (w *Worker) DiscoverAll() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.Log.Info("discovery already in progress, skipping")
		return
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	stats, err := w.runWithRetries()

	w.mu.Lock()
	w.lastRun = time.Now()
	w.lastErr = err
	w.lastResults = stats
	w.mu.Unlock()
}

// LastRun reports the outcome of the most recent pass.
func (w *Worker) LastRun() (time.Time, RunStats, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun, w.lastResults, w.lastErr
}
