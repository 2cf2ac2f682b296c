package config

import (
	"context"
	"sync"

	"github.com/ankigen/ankigen/pkg/logger"
)

type managerKeyType struct{}

var managerKey managerKeyType

// ContextWithManager attaches m to ctx for FromContext lookups.
func ContextWithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerKey, m)
}

var (
	fallbackOnce sync.Once
	fallbackMgr  *Manager
)

// ManagerFromContext returns the manager attached to ctx. Without one
// it falls back to a process-wide manager over defaults and
// environment variables, so library code always sees a usable
// configuration. Callers that need YAML or CLI sources must attach
// their own manager.
func ManagerFromContext(ctx context.Context) *Manager {
	if ctx != nil {
		if m, ok := ctx.Value(managerKey).(*Manager); ok && m != nil {
			return m
		}
	}
	fallbackOnce.Do(func() {
		base := ctx
		if base == nil {
			base = context.Background()
		}
		m := NewManager(NewService())
		if _, err := m.Load(base, NewDefaultProvider(), NewEnvProvider()); err != nil {
			logger.FromContext(base).Warn("failed to load fallback configuration", "error", err)
		}
		fallbackMgr = m
	})
	return fallbackMgr
}

// FromContext returns the active configuration for ctx. It is nil only
// when even the fallback load failed.
func FromContext(ctx context.Context) *Config {
	if m := ManagerFromContext(ctx); m != nil {
		return m.Get()
	}
	return nil
}
