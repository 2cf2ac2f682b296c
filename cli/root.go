// Package cli wires the ankigen commands: one-shot deck generation,
// the HTTP server, and configuration inspection.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankigen/ankigen/pkg/config"
	"github.com/ankigen/ankigen/pkg/logger"
)

// RootCmd returns the ankigen root command.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ankigen",
		Short:        "Japanese vocabulary deck generator",
		Long:         "ankigen extracts vocabulary from Japanese PDFs and builds enriched spreadsheets for Anki import.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupCommandContext(cmd)
		},
	}

	root.PersistentFlags().String("config", "ankigen.yaml", "Path to the configuration file")
	root.PersistentFlags().String("env-file", ".env", "Path to the environment variables file")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	root.PersistentFlags().Bool("log-source", false, "Include source file and line in logs")
	root.PersistentFlags().Bool("quiet", false, "Suppress the result summary")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	root.AddCommand(
		GenerateCmd(),
		ServeCmd(),
		ConfigCmd(),
		VersionCmd(),
	)

	return root
}

// setupCommandContext loads the env file, installs the logger, and
// attaches a configuration manager to the command context. Every
// command sees the same precedence: defaults, YAML file, environment,
// CLI flags.
func setupCommandContext(cmd *cobra.Command) error {
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	logFlags, err := logger.FlagsFromCommand(cmd)
	if err != nil {
		return err
	}
	log := logger.Setup(logFlags)
	ctx := logger.ContextWithLogger(cmd.Context(), log)

	sources, err := buildConfigSources(cmd)
	if err != nil {
		return err
	}
	manager := config.NewManager(config.NewService())
	if _, err := manager.Load(ctx, sources...); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx = config.ContextWithManager(ctx, manager)
	cmd.SetContext(ctx)
	return nil
}

// buildConfigSources assembles the configuration sources in precedence
// order: defaults, YAML file, environment, CLI flags.
func buildConfigSources(cmd *cobra.Command) ([]config.Source, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	sources := []config.Source{config.NewDefaultProvider()}
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	sources = append(sources, config.NewEnvProvider())
	cliFlags := make(map[string]any)
	extractCLIFlags(cmd, cliFlags)
	if len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}
	return sources, nil
}
