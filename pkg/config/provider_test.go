package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dig walks a dot-delimited path through nested maps, returning nil
// when the path leaves the tree.
func dig(data map[string]any, path string) any {
	node := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = m[part]
	}
	return node
}

func TestEnvProvider(t *testing.T) {
	t.Run("Should stay an empty position marker", func(t *testing.T) {
		provider := NewEnvProvider()
		data, err := provider.Load()
		require.NoError(t, err)
		assert.Empty(t, data)
		assert.Equal(t, SourceEnv, provider.Type())
		assert.NoError(t, provider.Watch(t.Context(), func() {}))
		assert.NoError(t, provider.Close())
	})
}

func TestCLIProvider(t *testing.T) {
	t.Run("Should place each known flag at its config path", func(t *testing.T) {
		bindings := []struct {
			flag  string
			value any
			path  string
		}{
			{"host", "cli.internal", "server.host"},
			{"port", 6001, "server.port"},
			{"timeout", 45 * time.Second, "server.timeout"},
			{"max-upload-mb", 64, "server.max_upload_mb"},
			{"cors", true, "server.cors_enabled"},
			{"dict", "uni", "analyzer.dict"},
			{"mode", "search", "analyzer.mode"},
			{"min-level", "N2", "filter.min_level"},
			{"jlpt", "data/jlpt.csv", "reference.jlpt_path"},
			{"frequency", "data/freq.csv", "reference.frequency_path"},
			{"meaning", "data/meaning.csv", "reference.meaning_path"},
			{"format", "csv", "output.format"},
			{"sheet", "Vocab", "output.sheet"},
			{"log-level", "debug", "runtime.log_level"},
			{"metrics", true, "monitoring.enabled"},
			{"metrics-path", "/scrape", "monitoring.path"},
			{"quiet", true, "cli.quiet"},
			{"no-color", true, "cli.no_color"},
		}
		for _, b := range bindings {
			data, err := NewCLIProvider(map[string]any{b.flag: b.value}).Load()
			require.NoErrorf(t, err, "flag %s", b.flag)
			assert.Equalf(t, b.value, dig(data, b.path), "flag %s should land at %s", b.flag, b.path)
		}
	})

	t.Run("Should drop flags without a mapping", func(t *testing.T) {
		data, err := NewCLIProvider(map[string]any{"unknown-flag": "value"}).Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("Should load nothing from nil or empty flag sets", func(t *testing.T) {
		for _, flags := range []map[string]any{nil, {}} {
			data, err := NewCLIProvider(flags).Load()
			require.NoError(t, err)
			require.NotNil(t, data)
			assert.Empty(t, data)
		}
	})

	t.Run("Should identify as the CLI source", func(t *testing.T) {
		provider := NewCLIProvider(nil)
		assert.Equal(t, SourceCLI, provider.Type())
		assert.NoError(t, provider.Watch(t.Context(), func() {}))
		assert.NoError(t, provider.Close())
	})
}

func TestSetNested(t *testing.T) {
	t.Run("Should create intermediate maps along the path", func(t *testing.T) {
		m := make(map[string]any)
		require.NoError(t, setNested(m, "reference.paths.jlpt", "jlpt.csv"))
		require.NoError(t, setNested(m, "reference.paths.freq", "freq.csv"))
		assert.Equal(t, "jlpt.csv", dig(m, "reference.paths.jlpt"))
		assert.Equal(t, "freq.csv", dig(m, "reference.paths.freq"))
	})

	t.Run("Should refuse to tunnel through a scalar", func(t *testing.T) {
		m := map[string]any{"server": "scalar"}
		err := setNested(m, "server.host", "nope")
		require.Error(t, err)
		assert.ErrorContains(t, err, `configuration conflict: key "server" is not a map`)
		assert.Equal(t, "scalar", m["server"])
	})

	t.Run("Should treat an empty path as a no-op", func(t *testing.T) {
		m := make(map[string]any)
		require.NoError(t, setNested(m, "", "value"))
		assert.Empty(t, m)
	})
}

func TestYAMLProvider(t *testing.T) {
	writeYAML := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "ankigen.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	t.Run("Should parse the file into a nested tree", func(t *testing.T) {
		path := writeYAML(t, "server:\n  host: yaml.internal\n  port: 9090\nfilter:\n  min_level: N1\n")
		data, err := NewYAMLProvider(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "yaml.internal", dig(data, "server.host"))
		assert.Equal(t, 9090, dig(data, "server.port"))
		assert.Equal(t, "N1", dig(data, "filter.min_level"))
	})

	t.Run("Should drop explicit nulls so they cannot mask other sources", func(t *testing.T) {
		path := writeYAML(t, "server:\n  host: yaml.internal\n  port:\noutput:\n")
		data, err := NewYAMLProvider(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "yaml.internal", dig(data, "server.host"))
		server, ok := data["server"].(map[string]any)
		require.True(t, ok)
		assert.NotContains(t, server, "port")
		assert.NotContains(t, data, "output")
	})

	t.Run("Should treat a missing file as empty", func(t *testing.T) {
		data, err := NewYAMLProvider(filepath.Join(t.TempDir(), "absent.yaml")).Load()
		require.NoError(t, err)
		require.NotNil(t, data)
		assert.Empty(t, data)
	})

	t.Run("Should report malformed YAML", func(t *testing.T) {
		path := writeYAML(t, "filter: [broken")
		data, err := NewYAMLProvider(path).Load()
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to parse YAML file")
		assert.Nil(t, data)
	})

	t.Run("Should identify as the YAML source and close its watcher", func(t *testing.T) {
		provider := NewYAMLProvider(writeYAML(t, "output:\n  sheet: Deck\n"))
		assert.Equal(t, SourceYAML, provider.Type())
		require.NoError(t, provider.Watch(t.Context(), func() {}))
		assert.NoError(t, provider.Close())
	})
}

func TestDefaultProvider(t *testing.T) {
	t.Run("Should mirror the built-in defaults as a nested tree", func(t *testing.T) {
		data, err := NewDefaultProvider().Load()
		require.NoError(t, err)

		want := Default()
		assert.Equal(t, want.Server.Host, dig(data, "server.host"))
		assert.Equal(t, want.Server.Port, dig(data, "server.port"))
		assert.Equal(t, want.Server.MaxUploadMB, dig(data, "server.max_upload_mb"))
		assert.Equal(t, want.Analyzer.Dict, dig(data, "analyzer.dict"))
		assert.Equal(t, want.Analyzer.Mode, dig(data, "analyzer.mode"))
		assert.Equal(t, want.Filter.MinLevel, dig(data, "filter.min_level"))
		assert.Equal(t, want.Output.Format, dig(data, "output.format"))
		assert.Equal(t, want.Output.Sheet, dig(data, "output.sheet"))
		assert.Equal(t, want.Runtime.Environment, dig(data, "runtime.environment"))
		assert.Equal(t, want.Monitoring.Path, dig(data, "monitoring.path"))
	})

	t.Run("Should sit at the bottom of the precedence order", func(t *testing.T) {
		provider := NewDefaultProvider()
		assert.Equal(t, SourceDefault, provider.Type())
		assert.NoError(t, provider.Watch(t.Context(), func() {}))
		assert.NoError(t, provider.Close())
	})
}
