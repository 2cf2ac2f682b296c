package deckrouter

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ankigen/ankigen/engine/infra/monitoring/metrics"
)

var (
	metricsOnce     sync.Once
	metricsMu       sync.Mutex
	metricsInitErr  error
	uploadBytesHist metric.Int64Histogram
	generatedTotal  metric.Int64Counter
	failedTotal     metric.Int64Counter
)

func recordUpload(ctx context.Context, bytes int64) {
	if ensureMetrics() != nil || uploadBytesHist == nil {
		return
	}
	uploadBytesHist.Record(ctx, bytes)
}

func recordGenerated(ctx context.Context, format string) {
	if ensureMetrics() != nil || generatedTotal == nil {
		return
	}
	generatedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

func recordFailure(ctx context.Context) {
	if ensureMetrics() != nil || failedTotal == nil {
		return
	}
	failedTotal.Add(ctx, 1)
}

func ResetMetricsForTesting() {
	metricsMu.Lock()
	metricsOnce = sync.Once{}
	metricsInitErr = nil
	uploadBytesHist = nil
	generatedTotal = nil
	failedTotal = nil
	metricsMu.Unlock()
}

func ensureMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("ankigen.deck")
		metricsInitErr = initDeckMetrics(meter)
	})
	return metricsInitErr
}

func initDeckMetrics(meter metric.Meter) error {
	var err error
	uploadBytesHist, err = meter.Int64Histogram(
		metrics.MetricNameWithSubsystem("deck", "upload_bytes"),
		metric.WithDescription("Size of uploaded PDF documents"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(metrics.UploadSizeBuckets...),
	)
	if err != nil {
		return err
	}
	generatedTotal, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("deck", "generated_total"),
		metric.WithDescription("Decks generated over HTTP by output format"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}
	failedTotal, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("deck", "failed_total"),
		metric.WithDescription("Deck generation requests that failed after upload"),
		metric.WithUnit("1"),
	)
	return err
}
