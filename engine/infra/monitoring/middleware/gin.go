// Package middleware carries the HTTP metric instrumentation shared by
// every route.
package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ankigen/ankigen/engine/infra/monitoring/metrics"
	"github.com/ankigen/ankigen/pkg/logger"
)

// instruments groups the per-request instruments. One set per process:
// the middleware may be constructed once per server instance, but the
// instruments must register only once.
type instruments struct {
	requests metric.Int64Counter
	latency  metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

var (
	instMu      sync.Mutex
	currentInst *instruments
)

func (i *instruments) ready() bool {
	return i != nil && i.requests != nil && i.latency != nil && i.inFlight != nil
}

// observe records the counter and histogram for a finished request.
// The route template keeps label cardinality bounded; unmatched
// requests collapse into one bucket.
func (i *instruments) observe(c *gin.Context, elapsed time.Duration) {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	attrs := metric.WithAttributes(
		attribute.String("method", c.Request.Method),
		attribute.String("path", route),
		attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
	)
	ctx := c.Request.Context()
	i.requests.Add(ctx, 1, attrs)
	i.latency.Record(ctx, elapsed.Seconds(), attrs)
}

// HTTPMetrics returns Gin middleware that records request counts,
// latency, and an in-flight gauge per route. With a nil meter or
// failed registration it passes requests through untouched.
func HTTPMetrics(ctx context.Context, meter metric.Meter) gin.HandlerFunc {
	inst := acquireInstruments(ctx, meter)
	return func(c *gin.Context) {
		if !inst.ready() {
			c.Next()
			return
		}
		defer func() {
			if r := recover(); r != nil {
				logger.FromContext(c.Request.Context()).Error("panic in HTTP metrics middleware", "panic", r)
			}
		}()
		start := time.Now()
		inst.inFlight.Add(c.Request.Context(), 1)
		defer inst.inFlight.Add(c.Request.Context(), -1)

		c.Next()

		inst.observe(c, time.Since(start))
	}
}

// acquireInstruments returns the shared instrument set, registering it
// on meter the first time through.
func acquireInstruments(ctx context.Context, meter metric.Meter) *instruments {
	if meter == nil {
		return nil
	}
	instMu.Lock()
	defer instMu.Unlock()
	if currentInst != nil {
		return currentInst
	}
	log := logger.FromContext(ctx)
	inst := &instruments{}
	var err error
	inst.requests, err = meter.Int64Counter(
		metrics.MetricName("http_requests_total"),
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		log.Error("failed to create http requests total counter", "error", err)
	}
	inst.latency, err = meter.Float64Histogram(
		metrics.MetricName("http_request_duration_seconds"),
		metric.WithDescription("HTTP request latency"),
		metric.WithExplicitBucketBoundaries(metrics.HTTPDurationBuckets...),
	)
	if err != nil {
		log.Error("failed to create http request duration histogram", "error", err)
	}
	inst.inFlight, err = meter.Int64UpDownCounter(
		metrics.MetricName("http_requests_in_flight"),
		metric.WithDescription("Currently active HTTP requests"),
	)
	if err != nil {
		log.Error("failed to create http requests in flight counter", "error", err)
	}
	currentInst = inst
	return inst
}

// ResetMetricsForTesting drops the shared instruments so tests can
// register fresh ones on a new meter.
func ResetMetricsForTesting() {
	instMu.Lock()
	defer instMu.Unlock()
	currentInst = nil
}
