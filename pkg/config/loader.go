package config

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ANKIGEN_"

// service resolves configuration for the Service interface. Each Load
// builds a fresh koanf tree, so a failed load never corrupts the
// previously resolved state.
type service struct {
	validate *validator.Validate

	mu   sync.RWMutex
	meta Metadata

	cbMu      sync.RWMutex
	callbacks []func(*Config)
}

// NewService returns a Service that resolves configuration from
// defaults, files, environment variables, and CLI flags.
func NewService() Service {
	v := validator.New()
	_ = RegisterCustomValidators(v)
	return &service{
		validate: v,
		meta:     Metadata{Sources: make(map[string]SourceType)},
	}
}

// Load resolves the configuration. Defaults are seeded first, then the
// sources apply in order, so a later source overrides an earlier one.
// A source of type SourceEnv marks the position at which the process
// environment is read.
func (s *service) Load(_ context.Context, sources ...Source) (*Config, error) {
	tree := koanf.New(".")
	origins := make(map[string]SourceType)

	if err := seedDefaults(tree, origins); err != nil {
		return nil, err
	}
	for _, src := range sources {
		switch {
		case src == nil:
		case src.Type() == SourceEnv:
			if err := applyEnvironment(tree, origins); err != nil {
				return nil, err
			}
		default:
			if err := applySource(tree, origins, src); err != nil {
				return nil, err
			}
		}
	}

	cfg, err := s.decode(tree)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	s.mu.Lock()
	s.meta = Metadata{Sources: origins, LoadedAt: time.Now()}
	s.mu.Unlock()

	return cfg, nil
}

// Validate checks struct tags plus the runtime rules tags cannot
// express.
func (s *service) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := s.validate.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return checkRuntimeRules(cfg)
}

// Watch registers a callback for configuration updates. Reloading and
// change detection are driven by the Manager; registration alone never
// fires the callback.
func (s *service) Watch(_ context.Context, callback func(*Config)) error {
	if callback == nil {
		return fmt.Errorf("callback cannot be nil")
	}
	s.cbMu.Lock()
	s.callbacks = append(s.callbacks, callback)
	s.cbMu.Unlock()
	return nil
}

// GetSource reports which source set the given key during the last
// Load. Unknown keys report SourceDefault.
func (s *service) GetSource(key string) SourceType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if origin, ok := s.meta.Sources[key]; ok {
		return origin
	}
	return SourceDefault
}

// seedDefaults fills the tree from Default() and marks every key as
// default-provided.
func seedDefaults(tree *koanf.Koanf, origins map[string]SourceType) error {
	if err := tree.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	for _, key := range tree.Keys() {
		origins[key] = SourceDefault
	}
	return nil
}

// applySource merges one map-backed source into the tree key by key,
// so values absent from the source keep their existing settings. Keys
// whose value actually changed are attributed to the source.
func applySource(tree *koanf.Koanf, origins map[string]SourceType, src Source) error {
	raw, err := src.Load()
	if err != nil {
		return fmt.Errorf("failed to load from source %s: %w", src.Type(), err)
	}
	for key, val := range flatten("", raw) {
		if val == nil {
			continue
		}
		prev := tree.Get(key)
		had := tree.Exists(key)
		if err := tree.Set(key, val); err != nil {
			return fmt.Errorf("failed to set key %s from source %s: %w", key, src.Type(), err)
		}
		if !had || !reflect.DeepEqual(prev, val) {
			origins[key] = src.Type()
		}
	}
	return nil
}

// applyEnvironment merges ANKIGEN_* variables into the tree. Explicit
// env struct tags win over the naming convention when resolving paths.
func applyEnvironment(tree *koanf.Koanf, origins map[string]SourceType) error {
	before := make(map[string]any)
	for _, key := range tree.Keys() {
		before[key] = tree.Get(key)
	}

	tagged := envTagPaths()
	provider := env.ProviderWithValue(envPrefix, ".", func(key string, value string) (string, any) {
		if path, ok := tagged[key]; ok {
			return path, value
		}
		return transformEnvKey(key), value
	})
	if err := tree.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	for _, key := range tree.Keys() {
		prev, had := before[key]
		if !had || !reflect.DeepEqual(prev, tree.Get(key)) {
			origins[key] = SourceEnv
		}
	}
	return nil
}

// decode unmarshals the merged tree into a Config.
func (s *service) decode(tree *koanf.Koanf) (*Config, error) {
	var cfg Config
	err := tree.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

// checkRuntimeRules holds the cross-field constraints.
func checkRuntimeRules(cfg *Config) error {
	if cfg.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}
	if cfg.Monitoring.Enabled {
		if cfg.Monitoring.Path == "" {
			return fmt.Errorf("monitoring path is required when monitoring is enabled")
		}
		if !strings.HasPrefix(cfg.Monitoring.Path, "/") {
			return fmt.Errorf("monitoring path must start with '/': got %s", cfg.Monitoring.Path)
		}
	}
	return nil
}

// transformEnvKey converts an environment variable name to a koanf
// path: the first underscore separates the section, the rest of the
// name keeps its underscores. ANKIGEN_SERVER_MAX_UPLOAD_MB becomes
// server.max_upload_mb.
func transformEnvKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))

	// FieldsFunc drops empty parts, which handles names like
	// "FOO__BAR", "_FOO", and "FOO_".
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_'
	})

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + "." + strings.Join(parts[1:], "_")
	}
}

// flatten converts nested maps into dot-delimited leaf keys.
func flatten(prefix string, in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			for ck, cv := range flatten(key, child) {
				out[ck] = cv
			}
			continue
		}
		out[key] = v
	}
	return out
}
