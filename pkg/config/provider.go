package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// staticSource supplies the no-op Watch and Close shared by sources
// whose values never change after process start.
type staticSource struct{}

func (staticSource) Watch(context.Context, func()) error { return nil }

func (staticSource) Close() error { return nil }

// envProvider is a position marker: the loader reads the process
// environment natively through koanf when it reaches this source.
type envProvider struct {
	staticSource
}

// NewEnvProvider returns the environment variable source.
func NewEnvProvider() Source {
	return &envProvider{}
}

func (*envProvider) Load() (map[string]any, error) {
	return make(map[string]any), nil
}

func (*envProvider) Type() SourceType {
	return SourceEnv
}

// cliFlagPaths maps CLI flag names to configuration paths.
var cliFlagPaths = map[string]string{
	"host":          "server.host",
	"port":          "server.port",
	"timeout":       "server.timeout",
	"max-upload-mb": "server.max_upload_mb",
	"cors":          "server.cors_enabled",
	"dict":          "analyzer.dict",
	"mode":          "analyzer.mode",
	"min-level":     "filter.min_level",
	"jlpt":          "reference.jlpt_path",
	"frequency":     "reference.frequency_path",
	"meaning":       "reference.meaning_path",
	"format":        "output.format",
	"sheet":         "output.sheet",
	"log-level":     "runtime.log_level",
	"environment":   "runtime.environment",
	"metrics":       "monitoring.enabled",
	"metrics-path":  "monitoring.path",
	"quiet":         "cli.quiet",
	"no-color":      "cli.no_color",
}

// cliProvider exposes parsed command-line flags as a source.
type cliProvider struct {
	staticSource
	flags map[string]any
}

// NewCLIProvider wraps explicitly-set flag values in a source. Flags
// without an entry in cliFlagPaths are ignored.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{flags: flags}
}

func (c *cliProvider) Load() (map[string]any, error) {
	out := make(map[string]any)
	for flag, value := range c.flags {
		path, ok := cliFlagPaths[flag]
		if !ok {
			continue
		}
		if err := setNested(out, path, value); err != nil {
			return nil, fmt.Errorf("failed to set CLI flag %s: %w", flag, err)
		}
	}
	return out, nil
}

func (*cliProvider) Type() SourceType {
	return SourceCLI
}

// setNested writes value at a dot-delimited path, creating intermediate
// maps. A non-map value on the path is reported as a conflict.
func setNested(m map[string]any, path string, value any) error {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	node := m
	for i, part := range parts[:len(parts)-1] {
		child, ok := node[part]
		if !ok {
			next := make(map[string]any)
			node[part] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("configuration conflict: key %q is not a map", strings.Join(parts[:i+1], "."))
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
	return nil
}

// yamlProvider reads a YAML configuration file and reports writes to
// it. A missing file is not an error; generate must work without one.
type yamlProvider struct {
	path string

	mu      sync.Mutex
	watcher *Watcher
}

// NewYAMLProvider returns a source backed by the YAML file at path.
func NewYAMLProvider(path string) Source {
	return &yamlProvider{path: path}
}

func (y *yamlProvider) Load() (map[string]any, error) {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return pruneNils(raw), nil
}

// Watch registers callback for changes to the file. The first call
// starts the watcher; later calls add callbacks to it.
func (y *yamlProvider) Watch(ctx context.Context, callback func()) error {
	y.mu.Lock()
	defer y.mu.Unlock()
	if y.watcher == nil {
		watcher, err := NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		if err := watcher.Watch(ctx, y.path); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch YAML file: %w", err)
		}
		y.watcher = watcher
	}
	y.watcher.OnChange(callback)
	return nil
}

func (*yamlProvider) Type() SourceType {
	return SourceYAML
}

func (y *yamlProvider) Close() error {
	y.mu.Lock()
	defer y.mu.Unlock()
	if y.watcher == nil {
		return nil
	}
	err := y.watcher.Close()
	y.watcher = nil
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// pruneNils drops nil values and emptied sections so an explicit YAML
// null cannot mask a value from another source.
func pruneNils(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
		case map[string]any:
			if pruned := pruneNils(val); len(pruned) > 0 {
				out[k] = pruned
			}
		default:
			out[k] = v
		}
	}
	return out
}

// defaultProvider carries the built-in defaults as an explicit source,
// making the bottom of the precedence order visible in source lists.
type defaultProvider struct {
	staticSource
	values map[string]any
}

// NewDefaultProvider returns a source holding the built-in defaults.
func NewDefaultProvider() Source {
	return &defaultProvider{values: defaultValues()}
}

func (d *defaultProvider) Load() (map[string]any, error) {
	return d.values, nil
}

func (*defaultProvider) Type() SourceType {
	return SourceDefault
}

// defaultValues mirrors Default() as a nested map.
func defaultValues() map[string]any {
	cfg := Default()
	return map[string]any{
		"server": map[string]any{
			"host":          cfg.Server.Host,
			"port":          cfg.Server.Port,
			"timeout":       cfg.Server.Timeout.String(),
			"max_upload_mb": cfg.Server.MaxUploadMB,
			"cors_enabled":  cfg.Server.CORSEnabled,
		},
		"analyzer": map[string]any{
			"dict": cfg.Analyzer.Dict,
			"mode": cfg.Analyzer.Mode,
		},
		"filter": map[string]any{
			"min_level": cfg.Filter.MinLevel,
		},
		"reference": map[string]any{
			"jlpt_path":      cfg.Reference.JLPTPath,
			"frequency_path": cfg.Reference.FrequencyPath,
			"meaning_path":   cfg.Reference.MeaningPath,
		},
		"output": map[string]any{
			"format": cfg.Output.Format,
			"sheet":  cfg.Output.Sheet,
		},
		"runtime": map[string]any{
			"environment": cfg.Runtime.Environment,
			"log_level":   cfg.Runtime.LogLevel,
		},
		"monitoring": map[string]any{
			"enabled": cfg.Monitoring.Enabled,
			"path":    cfg.Monitoring.Path,
		},
		"cli": map[string]any{
			"mode":     cfg.CLI.Mode,
			"quiet":    cfg.CLI.Quiet,
			"no_color": cfg.CLI.NoColor,
		},
	}
}
