package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ankigen/ankigen/pkg/logger"
	"github.com/ankigen/ankigen/pkg/version"
)

// sysState holds the process-level instruments. One set per process;
// re-registration is guarded so repeated service construction cannot
// duplicate instruments.
var sysState struct {
	mu        sync.Mutex
	ready     bool
	buildInfo metric.Float64Gauge
	uptime    metric.Float64ObservableGauge
	uptimeReg metric.Registration
	startedAt time.Time
}

// InitSystemMetrics registers the build info and uptime instruments on
// meter and records the build labels. Safe to call more than once.
func InitSystemMetrics(ctx context.Context, meter metric.Meter) {
	sysState.mu.Lock()
	if !sysState.ready {
		registerSystemInstruments(ctx, meter)
		sysState.ready = true
	}
	gauge := sysState.buildInfo
	sysState.mu.Unlock()

	if gauge == nil {
		return
	}
	ver, commit, goVersion := buildDetails()
	gauge.Record(ctx, 1,
		metric.WithAttributes(
			attribute.String("version", ver),
			attribute.String("commit_hash", commit),
			attribute.String("go_version", goVersion),
		),
	)
	logger.FromContext(ctx).Info("system metrics initialized",
		"version", ver,
		"commit", commit,
		"go_version", goVersion,
	)
}

// registerSystemInstruments creates the gauges and wires the uptime
// observer. Callers must hold sysState.mu.
func registerSystemInstruments(ctx context.Context, meter metric.Meter) {
	log := logger.FromContext(ctx)
	var err error
	sysState.buildInfo, err = meter.Float64Gauge(
		"ankigen_build_info",
		metric.WithDescription("Build information (value=1)"),
	)
	if err != nil {
		log.Error("failed to create build info gauge", "error", err)
	}
	sysState.uptime, err = meter.Float64ObservableGauge(
		"ankigen_uptime_seconds",
		metric.WithDescription("Service uptime in seconds"),
	)
	if err != nil {
		log.Error("failed to create uptime gauge", "error", err)
		return
	}
	sysState.startedAt = time.Now()

	// Bind locals so the observer never touches sysState after a reset.
	uptime := sysState.uptime
	startedAt := sysState.startedAt
	sysState.uptimeReg, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveFloat64(uptime, time.Since(startedAt).Seconds())
		return nil
	}, uptime)
	if err != nil {
		log.Error("failed to register uptime callback", "error", err)
	}
}

// buildDetails resolves the labels recorded on the build info gauge.
func buildDetails() (ver, commit, goVersion string) {
	info := version.Get()
	return info.Version, info.CommitHash, runtime.Version()
}

// ResetSystemMetricsForTesting unregisters the uptime observer and
// clears instrument state so tests can re-init on a fresh meter.
func ResetSystemMetricsForTesting() {
	sysState.mu.Lock()
	defer sysState.mu.Unlock()
	if sysState.uptimeReg != nil {
		_ = sysState.uptimeReg.Unregister()
	}
	sysState.ready = false
	sysState.buildInfo = nil
	sysState.uptime = nil
	sysState.uptimeReg = nil
	sysState.startedAt = time.Time{}
}
