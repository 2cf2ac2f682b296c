package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Run("Should fill every section with its documented baseline", func(t *testing.T) {
		cfg := Default()
		require.NotNil(t, cfg)

		checks := []struct {
			key  string
			got  any
			want any
		}{
			{"server.host", cfg.Server.Host, "127.0.0.1"},
			{"server.port", cfg.Server.Port, 5984},
			{"server.timeout", cfg.Server.Timeout, 30 * time.Second},
			{"server.max_upload_mb", cfg.Server.MaxUploadMB, 32},
			{"server.cors_enabled", cfg.Server.CORSEnabled, false},
			{"analyzer.dict", cfg.Analyzer.Dict, "ipa"},
			{"analyzer.mode", cfg.Analyzer.Mode, "normal"},
			{"filter.min_level", cfg.Filter.MinLevel, "N3"},
			{"reference.jlpt_path", cfg.Reference.JLPTPath, ""},
			{"reference.frequency_path", cfg.Reference.FrequencyPath, ""},
			{"reference.meaning_path", cfg.Reference.MeaningPath, ""},
			{"output.format", cfg.Output.Format, "xlsx"},
			{"output.sheet", cfg.Output.Sheet, "Deck"},
			{"runtime.environment", cfg.Runtime.Environment, "development"},
			{"runtime.log_level", cfg.Runtime.LogLevel, "info"},
			{"monitoring.enabled", cfg.Monitoring.Enabled, true},
			{"monitoring.path", cfg.Monitoring.Path, "/metrics"},
			{"cli.mode", cfg.CLI.Mode, "auto"},
			{"cli.quiet", cfg.CLI.Quiet, false},
			{"cli.no_color", cfg.CLI.NoColor, false},
		}
		for _, c := range checks {
			assert.Equalf(t, c.want, c.got, "default for %s", c.key)
		}
	})

	t.Run("Should hand each caller an independent tree", func(t *testing.T) {
		first := Default()
		second := Default()
		require.NotSame(t, first, second)

		first.Filter.MinLevel = "N1"
		assert.Equal(t, "N3", second.Filter.MinLevel)
	})

	t.Run("Should pass validation unmodified", func(t *testing.T) {
		assert.NoError(t, NewService().Validate(Default()))
	})
}

func TestConfig_FieldValidation(t *testing.T) {
	svc := NewService()
	check := func(mutate func(*Config)) error {
		cfg := Default()
		mutate(cfg)
		return svc.Validate(cfg)
	}

	t.Run("Should accept every value the schema allows", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Config)
		}{
			{"port at the lower bound", func(c *Config) { c.Server.Port = 1 }},
			{"port at the upper bound", func(c *Config) { c.Server.Port = 65535 }},
			{"uni dictionary", func(c *Config) { c.Analyzer.Dict = "uni" }},
			{"search segmentation", func(c *Config) { c.Analyzer.Mode = "search" }},
			{"extended segmentation", func(c *Config) { c.Analyzer.Mode = "extended" }},
			{"strictest difficulty cutoff", func(c *Config) { c.Filter.MinLevel = "N1" }},
			{"lowercase level", func(c *Config) { c.Filter.MinLevel = "n2" }},
			{"level with surrounding spaces", func(c *Config) { c.Filter.MinLevel = " N4 " }},
			{"csv output", func(c *Config) { c.Output.Format = "csv" }},
			{"production environment", func(c *Config) { c.Runtime.Environment = "production" }},
			{"debug log level", func(c *Config) { c.Runtime.LogLevel = "debug" }},
			{"disabled log level", func(c *Config) { c.Runtime.LogLevel = "disabled" }},
			{"interactive terminal mode", func(c *Config) { c.CLI.Mode = "interactive" }},
			{"plain terminal mode", func(c *Config) { c.CLI.Mode = "plain" }},
		}
		for _, tc := range cases {
			assert.NoErrorf(t, check(tc.mutate), "%s should pass validation", tc.name)
		}
	})

	t.Run("Should reject values the schema excludes", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Config)
		}{
			{"port zero", func(c *Config) { c.Server.Port = 0 }},
			{"port above the range", func(c *Config) { c.Server.Port = 65536 }},
			{"negative port", func(c *Config) { c.Server.Port = -1 }},
			{"empty host", func(c *Config) { c.Server.Host = "" }},
			{"zero upload cap", func(c *Config) { c.Server.MaxUploadMB = 0 }},
			{"unknown dictionary", func(c *Config) { c.Analyzer.Dict = "juman" }},
			{"empty dictionary", func(c *Config) { c.Analyzer.Dict = "" }},
			{"unknown segmentation", func(c *Config) { c.Analyzer.Mode = "aggressive" }},
			{"empty segmentation", func(c *Config) { c.Analyzer.Mode = "" }},
			{"level above the scale", func(c *Config) { c.Filter.MinLevel = "N0" }},
			{"level below the scale", func(c *Config) { c.Filter.MinLevel = "N6" }},
			{"level with a foreign prefix", func(c *Config) { c.Filter.MinLevel = "X1" }},
			{"empty level", func(c *Config) { c.Filter.MinLevel = "" }},
			{"unsupported output format", func(c *Config) { c.Output.Format = "pdf" }},
			{"empty output format", func(c *Config) { c.Output.Format = "" }},
			{"empty sheet name", func(c *Config) { c.Output.Sheet = "" }},
			{"unknown environment", func(c *Config) { c.Runtime.Environment = "staging" }},
			{"empty environment", func(c *Config) { c.Runtime.Environment = "" }},
			{"unknown log level", func(c *Config) { c.Runtime.LogLevel = "verbose" }},
			{"empty log level", func(c *Config) { c.Runtime.LogLevel = "" }},
			{"unknown terminal mode", func(c *Config) { c.CLI.Mode = "fancy" }},
		}
		for _, tc := range cases {
			assert.Errorf(t, check(tc.mutate), "%s should fail validation", tc.name)
		}
	})
}

func TestSourceType_Names(t *testing.T) {
	t.Run("Should expose stable names for source attribution", func(t *testing.T) {
		want := map[SourceType]string{
			SourceDefault: "default",
			SourceYAML:    "yaml",
			SourceEnv:     "env",
			SourceCLI:     "cli",
		}
		for typ, name := range want {
			assert.Equal(t, name, string(typ))
		}
	})
}
