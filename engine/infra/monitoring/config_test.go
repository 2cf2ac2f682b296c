package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Run("Should default to disabled on /metrics", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NotNil(t, cfg)
		assert.False(t, cfg.Enabled)
		assert.Equal(t, "/metrics", cfg.Path)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Should accept rooted paths outside the API group", func(t *testing.T) {
		paths := []string{
			"/metrics",
			"/monitoring/metrics",
			"/custom-metrics",
			"/m",
			"/health/metrics",
		}
		for _, path := range paths {
			cfg := &Config{Enabled: true, Path: path}
			assert.NoError(t, cfg.Validate(), "path %q", path)
		}
	})
	t.Run("Should reject malformed paths", func(t *testing.T) {
		cases := []struct {
			path    string
			wantErr string
		}{
			{"", "monitoring path cannot be empty"},
			{"metrics", "monitoring path must start with '/'"},
			{"/api/metrics", "monitoring path cannot be under /api/"},
			{"/metrics?format=json", "monitoring path cannot contain query parameters"},
		}
		for _, tc := range cases {
			cfg := &Config{Enabled: true, Path: tc.path}
			assert.ErrorContains(t, cfg.Validate(), tc.wantErr, "path %q", tc.path)
		}
	})
	t.Run("Should validate the path even when monitoring is disabled", func(t *testing.T) {
		cfg := &Config{Enabled: false, Path: "/custom/metrics"}
		assert.NoError(t, cfg.Validate())
	})
}
