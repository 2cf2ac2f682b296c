// Package monitoring wires OpenTelemetry metrics to a Prometheus
// exporter and exposes them over HTTP.
package monitoring

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/ankigen/ankigen/engine/infra/monitoring/middleware"
	"github.com/ankigen/ankigen/pkg/logger"
)

// meterName scopes every instrument created through this service.
const meterName = "ankigen"

// Service owns the metric pipeline from instrument to scrape endpoint.
// A disabled or degraded service still carries a usable no-op meter, so
// instrumented code never needs a nil check.
type Service struct {
	cfg      *Config
	meter    metric.Meter
	registry *prom.Registry
	provider *sdkmetric.MeterProvider
	initErr  error
}

// NewMonitoringService builds a service backed by a Prometheus exporter.
// With monitoring disabled in cfg the returned service hands out a no-op
// meter and every hook degrades to pass-through.
func NewMonitoringService(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	if !cfg.Enabled {
		log.Debug("monitoring disabled, using no-op meter")
		return disabledService(cfg, nil), nil
	}
	svc, err := newLiveService(cfg)
	if err != nil {
		return nil, err
	}
	InitSystemMetrics(ctx, svc.meter)
	log.Info("monitoring service initialized", "path", cfg.Path)
	return svc, nil
}

// NewMonitoringServiceWithFallback never fails: an initialization error
// is recorded on a degraded no-op service instead of being returned.
func NewMonitoringServiceWithFallback(ctx context.Context, cfg *Config) *Service {
	svc, err := NewMonitoringService(ctx, cfg)
	if err == nil {
		return svc
	}
	logger.FromContext(ctx).Error("failed to initialize monitoring, using no-op implementation", "error", err)
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return disabledService(cfg, err)
}

func newLiveService(cfg *Config) (*Service, error) {
	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return &Service{
		cfg:      cfg,
		meter:    provider.Meter(meterName),
		registry: registry,
		provider: provider,
	}, nil
}

func disabledService(cfg *Config, initErr error) *Service {
	return &Service{
		cfg:     cfg,
		meter:   noop.NewMeterProvider().Meter(meterName),
		initErr: initErr,
	}
}

// Meter returns the meter for custom instrumentation. Valid even when
// the service is degraded.
func (s *Service) Meter() metric.Meter {
	return s.meter
}

// Path returns the HTTP path the exporter is served on.
func (s *Service) Path() string {
	return s.cfg.Path
}

// IsInitialized reports whether metric export is live.
func (s *Service) IsInitialized() bool {
	return s.provider != nil
}

// InitializationError returns the error swallowed by the fallback path,
// if any.
func (s *Service) InitializationError() error {
	return s.initErr
}

// GinMiddleware returns middleware recording HTTP request metrics, or a
// pass-through when export is not live.
func (s *Service) GinMiddleware(ctx context.Context) gin.HandlerFunc {
	if !s.IsInitialized() {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.HTTPMetrics(ctx, s.meter)
}

// ExporterHandler returns the handler for the metrics endpoint. A
// degraded service answers 503.
func (s *Service) ExporterHandler() http.Handler {
	if s.IsInitialized() {
		return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte("Monitoring service not initialized")); err != nil {
			logger.FromContext(r.Context()).Error("failed to write metrics unavailable response", "error", err)
		}
	})
}

// Shutdown flushes and stops the meter provider.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Shutdown(ctx)
}

// SetAsGlobal installs the provider as the global OpenTelemetry meter
// provider so lazily created instruments bind to it.
func (s *Service) SetAsGlobal() {
	if s.provider != nil {
		otel.SetMeterProvider(s.provider)
	}
}
