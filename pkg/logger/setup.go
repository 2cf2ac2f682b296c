package logger

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Flags holds the logging flag values read from the root command.
type Flags struct {
	Level  string
	JSON   bool
	Source bool
}

// FlagsFromCommand reads the logging flags registered on cmd.
func FlagsFromCommand(cmd *cobra.Command) (Flags, error) {
	var f Flags
	var err error
	if f.Level, err = cmd.Flags().GetString("log-level"); err != nil {
		return f, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if f.JSON, err = cmd.Flags().GetBool("log-json"); err != nil {
		return f, fmt.Errorf("failed to get log-json flag: %w", err)
	}
	if f.Source, err = cmd.Flags().GetBool("log-source"); err != nil {
		return f, fmt.Errorf("failed to get log-source flag: %w", err)
	}
	return f, nil
}

// Setup installs the package default logger from flag values and
// returns it for context injection.
func Setup(f Flags) Logger {
	Init(&Config{
		Level:      ParseLevel(f.Level),
		Output:     os.Stdout,
		JSON:       f.JSON,
		AddSource:  f.Source,
		TimeFormat: "15:04:05",
	})
	return Default()
}
