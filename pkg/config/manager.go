package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/ankigen/ankigen/pkg/logger"
)

// debounceWindow is how long the manager waits after the last file
// event before reloading, so editors that write in bursts trigger a
// single reload.
const debounceWindow = 100 * time.Millisecond

// Manager owns the live configuration. It loads a snapshot from a
// fixed set of sources, reloads when a watched source changes, and
// fans updates out to subscribers.
type Manager struct {
	Service Service

	mu        sync.RWMutex
	current   *Config
	sources   []Source
	callbacks []func(*Config)

	// loadMu serializes Service.Load calls; the service rebuilds
	// shared state on every load.
	loadMu      sync.Mutex
	watchCancel context.CancelFunc
	watchWg     sync.WaitGroup
	closeOnce   sync.Once
}

// NewManager wraps service in a Manager. A nil service gets the
// default implementation.
func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{Service: service}
}

// Load resolves the configuration from sources and starts watching
// them. The sources stay attached for later Reload calls.
func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	m.loadMu.Lock()
	cfg, err := m.Service.Load(ctx, sources...)
	m.loadMu.Unlock()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sources = append([]Source(nil), sources...)
	m.mu.Unlock()
	m.publish(cfg)

	// The watch must outlive the call that triggered the load.
	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.mu.Lock()
	if m.watchCancel != nil {
		m.watchCancel()
	}
	m.watchCancel = cancel
	m.mu.Unlock()
	m.watchSources(watchCtx, sources)

	return cfg, nil
}

// Get returns the most recently published configuration, or nil before
// the first Load.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reload re-reads every attached source and publishes the result.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.RLock()
	sources := append([]Source(nil), m.sources...)
	m.mu.RUnlock()

	m.loadMu.Lock()
	cfg, err := m.Service.Load(ctx, sources...)
	m.loadMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	m.publish(cfg)
	return nil
}

// OnChange subscribes fn to configuration updates. Subscribers run on
// the goroutine that published the change.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Close stops watching and closes the attached sources.
func (m *Manager) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		cancel := m.watchCancel
		sources := m.sources
		m.sources = nil
		m.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		m.watchWg.Wait()

		for _, src := range sources {
			if src == nil {
				continue
			}
			if err := src.Close(); err != nil {
				logger.FromContext(ctx).Error("failed to close configuration source", "error", err)
			}
		}
	})
	return nil
}

// watchSources subscribes to change notification on every source.
// Events from all sources funnel into one debounced reload.
func (m *Manager) watchSources(ctx context.Context, sources []Source) {
	schedule := m.reloadScheduler(ctx)
	for _, src := range sources {
		if src == nil {
			continue
		}
		m.watchWg.Add(1)
		go func(src Source) {
			defer m.watchWg.Done()
			if err := src.Watch(ctx, schedule); err != nil {
				logger.FromContext(ctx).Debug("configuration source is not watchable",
					"source", src.Type(), "error", err)
			}
		}(src)
	}
}

// reloadScheduler returns a callback that coalesces change events,
// reloading once debounceWindow has passed since the last event.
func (m *Manager) reloadScheduler(ctx context.Context) func() {
	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceWindow, func() {
			if ctx.Err() != nil {
				return
			}
			if err := m.Reload(ctx); err != nil {
				logger.FromContext(ctx).Error("failed to reload configuration", "error", err)
			}
		})
	}
}

// publish swaps in the new snapshot and notifies subscribers when the
// contents actually changed.
func (m *Manager) publish(cfg *Config) {
	m.mu.Lock()
	prev := m.current
	m.current = cfg
	subscribers := append(([]func(*Config))(nil), m.callbacks...)
	m.mu.Unlock()

	if prev != nil && configEqual(prev, cfg) {
		return
	}
	for _, fn := range subscribers {
		if fn != nil {
			fn(cfg)
		}
	}
}

// configEqual compares two snapshots structurally.
func configEqual(a, b *Config) bool {
	return reflect.DeepEqual(a, b)
}
