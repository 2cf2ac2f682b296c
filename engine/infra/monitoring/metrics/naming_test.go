package metrics

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricName(t *testing.T) {
	t.Run("Should prepend the project namespace", func(t *testing.T) {
		assert.Equal(t, "ankigen_runs_total", MetricName("runs_total"))
	})
	t.Run("Should not double the namespace", func(t *testing.T) {
		assert.Equal(t, "ankigen_tokens_total", MetricName("ankigen_tokens_total"))
	})
	t.Run("Should return the bare namespace for an empty name", func(t *testing.T) {
		assert.Equal(t, "ankigen_", MetricName(""))
	})
}

func TestMetricNameWithSubsystem(t *testing.T) {
	cases := []struct {
		name      string
		subsystem string
		metric    string
		want      string
	}{
		{
			name:      "Should join subsystem and metric under the namespace",
			subsystem: "pipeline",
			metric:    "pages_total",
			want:      "ankigen_pipeline_pages_total",
		},
		{
			name:      "Should trim stray underscores from the subsystem",
			subsystem: "_export_",
			metric:    "sheets_total",
			want:      "ankigen_export_sheets_total",
		},
		{
			name:      "Should fall back to the subsystem when the metric is empty",
			subsystem: "pipeline",
			metric:    "",
			want:      "ankigen_pipeline",
		},
		{
			name:      "Should pass through metrics that already carry the namespace",
			subsystem: "reading",
			metric:    "ankigen_lookups_total",
			want:      "ankigen_lookups_total",
		},
		{
			name:      "Should degrade to MetricName when the subsystem is empty",
			subsystem: "",
			metric:    "uploads_total",
			want:      "ankigen_uploads_total",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MetricNameWithSubsystem(tc.subsystem, tc.metric))
		})
	}
}

func TestBucketBoundaries(t *testing.T) {
	buckets := map[string][]float64{
		"run duration":  RunDurationBuckets,
		"http duration": HTTPDurationBuckets,
		"upload size":   UploadSizeBuckets,
	}
	for name, bounds := range buckets {
		t.Run("Should keep "+name+" buckets strictly increasing", func(t *testing.T) {
			assert.True(t, slices.IsSorted(bounds))
			assert.Equal(t, len(bounds), len(slices.Compact(slices.Clone(bounds))))
		})
	}
}
