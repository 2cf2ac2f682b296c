package config

import (
	"context"
	"time"
)

// Config is the resolved ankigen configuration tree. Koanf tags name
// the keys, validate tags bound the values, and env tags pin the
// variables that do not follow the naming convention.
type Config struct {
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	Analyzer   AnalyzerConfig   `koanf:"analyzer"   validate:"required"`
	Filter     FilterConfig     `koanf:"filter"     validate:"required"`
	Reference  ReferenceConfig  `koanf:"reference"`
	Output     OutputConfig     `koanf:"output"     validate:"required"`
	Runtime    RuntimeConfig    `koanf:"runtime"    validate:"required"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
	CLI        CLIConfig        `koanf:"cli"`
}

// ServerConfig sizes the HTTP surface: bind address, request timeout,
// and the upload cap enforced on deck generation requests.
type ServerConfig struct {
	Host        string        `koanf:"host"          validate:"required"        env:"ANKIGEN_SERVER_HOST"`
	Port        int           `koanf:"port"          validate:"min=1,max=65535" env:"ANKIGEN_SERVER_PORT"`
	Timeout     time.Duration `koanf:"timeout"                                  env:"ANKIGEN_SERVER_TIMEOUT"`
	MaxUploadMB int           `koanf:"max_upload_mb" validate:"min=1"           env:"ANKIGEN_SERVER_MAX_UPLOAD_MB"`
	CORSEnabled bool          `koanf:"cors_enabled"                             env:"ANKIGEN_SERVER_CORS_ENABLED"`
}

// AnalyzerConfig selects the morphological dictionary and segmentation
// mode.
type AnalyzerConfig struct {
	Dict string `koanf:"dict" validate:"oneof=ipa uni"              env:"ANKIGEN_ANALYZER_DICT"`
	Mode string `koanf:"mode" validate:"oneof=normal search extended" env:"ANKIGEN_ANALYZER_MODE"`
}

// FilterConfig holds the difficulty cutoff applied during enrichment.
type FilterConfig struct {
	MinLevel string `koanf:"min_level" validate:"required,jlpt_level" env:"ANKIGEN_FILTER_MIN_LEVEL"`
}

// ReferenceConfig holds optional default paths for the reference
// datasets used by the CLI.
type ReferenceConfig struct {
	JLPTPath      string `koanf:"jlpt_path"      env:"ANKIGEN_REFERENCE_JLPT_PATH"`
	FrequencyPath string `koanf:"frequency_path" env:"ANKIGEN_REFERENCE_FREQUENCY_PATH"`
	MeaningPath   string `koanf:"meaning_path"   env:"ANKIGEN_REFERENCE_MEANING_PATH"`
}

// OutputConfig controls the exported spreadsheet.
type OutputConfig struct {
	Format string `koanf:"format" validate:"oneof=xlsx csv" env:"ANKIGEN_OUTPUT_FORMAT"`
	Sheet  string `koanf:"sheet"  validate:"required"       env:"ANKIGEN_OUTPUT_SHEET"`
}

// RuntimeConfig names the environment and the default log level.
type RuntimeConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development production"          env:"ANKIGEN_RUNTIME_ENVIRONMENT"`
	LogLevel    string `koanf:"log_level"   validate:"oneof=debug info warn error disabled" env:"ANKIGEN_RUNTIME_LOG_LEVEL"`
}

// MonitoringConfig controls the metrics endpoint.
type MonitoringConfig struct {
	Enabled bool   `koanf:"enabled" env:"ANKIGEN_MONITORING_ENABLED"`
	Path    string `koanf:"path"    env:"ANKIGEN_MONITORING_PATH"`
}

// CLIConfig carries presentation preferences for terminal output.
type CLIConfig struct {
	Mode    string `koanf:"mode"     validate:"oneof=auto interactive plain" env:"ANKIGEN_CLI_MODE"`
	Quiet   bool   `koanf:"quiet"                                            env:"ANKIGEN_CLI_QUIET"`
	NoColor bool   `koanf:"no_color"                                         env:"ANKIGEN_CLI_NO_COLOR"`
}

// Service resolves, validates, and tracks the configuration.
type Service interface {
	// Load applies the sources in order, later sources winning, and
	// returns the validated result.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Watch registers a callback invoked after each successful reload.
	Watch(ctx context.Context, callback func(*Config)) error
	// Validate checks struct tags and cross-field rules.
	Validate(config *Config) error
	// GetSource reports which source supplied a key, for precedence
	// debugging.
	GetSource(key string) SourceType
}

// Source is one provider of configuration values.
type Source interface {
	// Load reads the source into a nested map.
	Load() (map[string]any, error)
	// Watch arranges for callback to run when the source content
	// changes.
	Watch(ctx context.Context, callback func()) error
	// Type identifies the source for precedence attribution.
	Type() SourceType
	// Close stops any watcher the source started.
	Close() error
}

// SourceType names where a configuration value came from.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata records, per key, which source supplied the value during
// the last load.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Default returns the development-ready baseline configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        5984,
			Timeout:     30 * time.Second,
			MaxUploadMB: 32,
			CORSEnabled: false,
		},
		Analyzer: AnalyzerConfig{
			Dict: "ipa",
			Mode: "normal",
		},
		Filter: FilterConfig{
			MinLevel: "N3",
		},
		Reference: ReferenceConfig{},
		Output: OutputConfig{
			Format: "xlsx",
			Sheet:  "Deck",
		},
		Runtime: RuntimeConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		Monitoring: MonitoringConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		CLI: CLIConfig{
			Mode: "auto",
		},
	}
}
