package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type flagKind int

const (
	flagString flagKind = iota
	flagInt
	flagBool
	flagDuration
)

// configFlags lists every flag that feeds the configuration tree. Flag
// names double as configuration keys; the CLI source maps them onto
// config paths.
var configFlags = map[string]flagKind{
	// server
	"host":          flagString,
	"port":          flagInt,
	"cors":          flagBool,
	"timeout":       flagDuration,
	"max-upload-mb": flagInt,
	// analyzer
	"dict": flagString,
	"mode": flagString,
	// deck
	"min-level": flagString,
	"format":    flagString,
	"sheet":     flagString,
	// reference data
	"jlpt":      flagString,
	"frequency": flagString,
	"meaning":   flagString,
	// runtime and monitoring
	"log-level":    flagString,
	"metrics":      flagBool,
	"metrics-path": flagString,
	// presentation
	"quiet":    flagBool,
	"no-color": flagBool,
}

// extractCLIFlags copies every configuration flag the user set on cmd
// into flags, keyed by flag name. Untouched flags stay out of the map
// so precedence can tell defaults from explicit values.
func extractCLIFlags(cmd *cobra.Command, flags map[string]any) {
	for name, kind := range configFlags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		if value, err := flagValue(cmd, name, kind); err == nil {
			flags[name] = value
		}
	}
}

func flagValue(cmd *cobra.Command, name string, kind flagKind) (any, error) {
	switch kind {
	case flagInt:
		return cmd.Flags().GetInt(name)
	case flagBool:
		return cmd.Flags().GetBool(name)
	case flagDuration:
		return cmd.Flags().GetDuration(name)
	default:
		return cmd.Flags().GetString(name)
	}
}

// loadEnvFile applies the --env-file dotenv to the process environment.
// A missing file is fine so the default .env stays optional; anything
// present must be a regular file.
func loadEnvFile(cmd *cobra.Command) (string, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return "", nil
	}
	path, err := filepath.Abs(filepath.Clean(envFile))
	if err != nil {
		return "", fmt.Errorf("failed to resolve env file path %q: %w", envFile, err)
	}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return path, nil
	case err != nil:
		return "", fmt.Errorf("failed to stat env file %q: %w", path, err)
	case !info.Mode().IsRegular():
		return "", fmt.Errorf("env file %q is not a regular file", path)
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("failed to apply env file %q: %w", path, err)
	}
	return path, nil
}

// baseNameFor derives the artifact base name from the --output flag.
// An empty output keeps the exporter's default name.
func baseNameFor(outputPath string) string {
	if outputPath == "" {
		return ""
	}
	base := filepath.Base(outputPath)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSpace(base)
}
