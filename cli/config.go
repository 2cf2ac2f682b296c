package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ankigen/ankigen/pkg/config"
)

// ConfigCmd groups the configuration inspection subcommands.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection and validation",
	}

	cmd.AddCommand(
		configShowCmd(),
		configValidateCmd(),
	)

	return cmd
}

// configShowCmd renders the merged configuration, optionally with the
// source each key resolved from.
func configShowCmd() *cobra.Command {
	var (
		format      string
		showSources bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration and where each value came from",
		Long: `Display the merged configuration. With --sources each key also shows
which source (default, yaml, env, or cli) provided its value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, format, showSources)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (json, yaml, table)")
	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show configuration sources")
	return cmd
}

// runConfigShow loads the configuration through a dedicated service so
// per-key source attribution is available.
func runConfigShow(cmd *cobra.Command, format string, showSources bool) error {
	service, cfg, err := loadConfigService(cmd)
	if err != nil {
		return err
	}
	flat, err := flattenConfig(cfg)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		return outputConfigJSON(cmd, service, flat, showSources)
	case "yaml":
		return outputConfigYAML(cmd, service, flat, showSources)
	case "table":
		return outputConfigTable(cmd, service, flat, showSources)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// configValidateCmd validates the merged configuration.
func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the merged configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, cfg, err := loadConfigService(cmd)
			if err != nil {
				return err
			}
			if err := service.Validate(cfg); err != nil {
				return fmt.Errorf("configuration is invalid: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	}
}

// loadConfigService performs a fresh load with the same sources as the
// command context uses, returning the service for source lookups.
func loadConfigService(cmd *cobra.Command) (config.Service, *config.Config, error) {
	sources, err := buildConfigSources(cmd)
	if err != nil {
		return nil, nil, err
	}
	service := config.NewService()
	cfg, err := service.Load(cmd.Context(), sources...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return service, cfg, nil
}

// flattenConfig projects the configuration onto the dotted keys the
// loader tracks sources under.
func flattenConfig(cfg *config.Config) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to flatten configuration: %w", err)
	}
	return k, nil
}

func sourcesFor(service config.Service, flat *koanf.Koanf) map[string]string {
	out := make(map[string]string, len(flat.Keys()))
	for _, key := range flat.Keys() {
		out[key] = string(service.GetSource(key))
	}
	return out
}

func outputConfigJSON(cmd *cobra.Command, service config.Service, flat *koanf.Koanf, showSources bool) error {
	payload := map[string]any{"config": flat.Raw()}
	if showSources {
		payload["sources"] = sourcesFor(service, flat)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputConfigYAML(cmd *cobra.Command, service config.Service, flat *koanf.Koanf, showSources bool) error {
	payload := map[string]any{"config": flat.Raw()}
	if showSources {
		payload["sources"] = sourcesFor(service, flat)
	}
	data, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func outputConfigTable(cmd *cobra.Command, service config.Service, flat *koanf.Koanf, showSources bool) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if showSources {
		fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
	} else {
		fmt.Fprintln(w, "KEY\tVALUE")
	}
	for _, key := range flat.Keys() {
		if showSources {
			fmt.Fprintf(w, "%s\t%v\t%s\n", key, flat.Get(key), service.GetSource(key))
		} else {
			fmt.Fprintf(w, "%s\t%v\n", key, flat.Get(key))
		}
	}
	return w.Flush()
}
