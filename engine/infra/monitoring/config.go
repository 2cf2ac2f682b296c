package monitoring

import (
	"fmt"
	"strings"
)

// Config holds configuration for the monitoring service.
type Config struct {
	Enabled bool   `json:"enabled" yaml:"enabled" koanf:"enabled" mapstructure:"enabled"`
	Path    string `json:"path"    yaml:"path"    koanf:"path"    mapstructure:"path"`
}

// DefaultConfig returns the default monitoring configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled: false,
		Path:    "/metrics",
	}
}

// Validate checks the monitoring configuration. The path must be a
// rooted route that cannot shadow the API group.
func (c *Config) Validate() error {
	switch {
	case c.Path == "":
		return fmt.Errorf("monitoring path cannot be empty")
	case !strings.HasPrefix(c.Path, "/"):
		return fmt.Errorf("monitoring path must start with '/': got %s", c.Path)
	case strings.HasPrefix(c.Path, "/api/"):
		return fmt.Errorf("monitoring path cannot be under /api/")
	case strings.ContainsRune(c.Path, '?'):
		return fmt.Errorf("monitoring path cannot contain query parameters")
	default:
		return nil
	}
}
