package cli

import (
	"github.com/spf13/cobra"

	"github.com/ankigen/ankigen/engine/infra/server"
	"github.com/ankigen/ankigen/pkg/config"
)

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	defaults := config.Default()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the deck generation HTTP server",
		Long: `Serve deck generation over HTTP. The analyzer dictionary loads once
at startup; each request uploads a PDF plus reference datasets and
receives a spreadsheet back.`,
		RunE: handleServeCmd,
	}

	cmd.Flags().String("host", defaults.Server.Host, "Host to bind the server to")
	cmd.Flags().Int("port", defaults.Server.Port, "Port to listen on")
	cmd.Flags().Bool("cors", defaults.Server.CORSEnabled, "Enable permissive CORS")
	cmd.Flags().Int("max-upload-mb", defaults.Server.MaxUploadMB, "Maximum request body size in megabytes")
	cmd.Flags().Duration("timeout", defaults.Server.Timeout, "Per-request write timeout")
	cmd.Flags().Bool("metrics", defaults.Monitoring.Enabled, "Expose Prometheus metrics")
	cmd.Flags().String("metrics-path", defaults.Monitoring.Path, "Metrics endpoint path")
	cmd.Flags().String("dict", defaults.Analyzer.Dict, "Kagome dictionary (ipa, uni)")
	cmd.Flags().String("mode", defaults.Analyzer.Mode, "Segmentation mode (normal, search, extended)")
	cmd.Flags().String("min-level", defaults.Filter.MinLevel, "Default JLPT cutoff for requests")
	cmd.Flags().String("format", defaults.Output.Format, "Default output format for requests")

	return cmd
}

func handleServeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	srv, err := server.NewServer(ctx)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
