package pipeline

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ankigen/ankigen/engine/infra/monitoring/metrics"
)

var (
	metricsOnce         sync.Once
	metricsMu           sync.Mutex
	metricsInitErr      error
	runDurationHist     metric.Float64Histogram
	pagesCounter        metric.Int64Counter
	pagesSkippedCounter metric.Int64Counter
	tokensCounter       metric.Int64Counter
	cardsCounter        metric.Int64Counter
)

func recordRun(ctx context.Context, res *Result) {
	if err := ensureMetrics(); err != nil {
		return
	}
	if runDurationHist != nil {
		runDurationHist.Record(ctx, res.Duration.Seconds())
	}
	if pagesCounter != nil && res.Pages > 0 {
		pagesCounter.Add(ctx, int64(res.Pages))
	}
	if pagesSkippedCounter != nil && res.PagesSkipped > 0 {
		pagesSkippedCounter.Add(ctx, int64(res.PagesSkipped))
	}
	if tokensCounter != nil && res.Tokens > 0 {
		tokensCounter.Add(ctx, int64(res.Tokens))
	}
	if cardsCounter != nil && len(res.Cards) > 0 {
		cardsCounter.Add(ctx, int64(len(res.Cards)))
	}
}

func ResetMetricsForTesting() {
	metricsMu.Lock()
	metricsOnce = sync.Once{}
	metricsInitErr = nil
	runDurationHist = nil
	pagesCounter = nil
	pagesSkippedCounter = nil
	tokensCounter = nil
	cardsCounter = nil
	metricsMu.Unlock()
}

func ensureMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("ankigen.pipeline")
		metricsInitErr = initRunMetrics(meter)
	})
	return metricsInitErr
}

func initRunMetrics(meter metric.Meter) error {
	var err error
	runDurationHist, err = meter.Float64Histogram(
		metrics.MetricNameWithSubsystem("pipeline", "run_duration_seconds"),
		metric.WithDescription("Latency of full extraction runs"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.RunDurationBuckets...),
	)
	if err != nil {
		return err
	}
	pagesCounter, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("pipeline", "pages_total"),
		metric.WithDescription("Pages seen across extraction runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}
	pagesSkippedCounter, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("pipeline", "pages_skipped_total"),
		metric.WithDescription("Pages skipped for missing or unreadable text"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}
	tokensCounter, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("pipeline", "tokens_total"),
		metric.WithDescription("Vocabulary tokens folded across runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}
	cardsCounter, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("pipeline", "cards_total"),
		metric.WithDescription("Cards emitted across runs"),
		metric.WithUnit("1"),
	)
	return err
}
