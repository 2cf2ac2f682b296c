package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ankigen/ankigen/cli/helpers"
	deckuc "github.com/ankigen/ankigen/engine/deck/uc"
	"github.com/ankigen/ankigen/engine/export"
	"github.com/ankigen/ankigen/engine/jlpt"
	"github.com/ankigen/ankigen/engine/morph"
	"github.com/ankigen/ankigen/engine/pdftext"
	"github.com/ankigen/ankigen/engine/reading"
	"github.com/ankigen/ankigen/engine/refdata"
	"github.com/ankigen/ankigen/pkg/config"
	"github.com/ankigen/ankigen/pkg/logger"
)

var summaryPathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

// GenerateCmd returns the generate command.
func GenerateCmd() *cobra.Command {
	defaults := config.Default()
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a vocabulary deck from a PDF",
		Long: `Extract Japanese vocabulary from a PDF, enrich it with readings,
JLPT levels, frequencies, and meanings, and write an Anki-importable
spreadsheet.`,
		Example: `  ankigen generate --pdf book.pdf --jlpt jlpt.csv --frequency freq.csv --meaning meaning.csv
  ankigen generate --pdf book.pdf --jlpt jlpt.csv --frequency freq.csv --meaning meaning.csv \
    --min-level N2 --format csv --output chapter1.csv`,
		RunE: handleGenerateCmd,
	}

	cmd.Flags().String("pdf", "", "Path to the source PDF (required)")
	cmd.Flags().String("jlpt", "", "Path to the word,level JLPT dataset")
	cmd.Flags().String("frequency", "", "Path to the word,count frequency dataset")
	cmd.Flags().String("meaning", "", "Path to the word,meaning dataset")
	cmd.Flags().String("min-level", defaults.Filter.MinLevel, "JLPT cutoff; words above it are dropped")
	cmd.Flags().String("format", defaults.Output.Format, "Output format (xlsx, csv)")
	cmd.Flags().String("sheet", defaults.Output.Sheet, "Sheet name for xlsx output")
	cmd.Flags().String("output", "", "Output path (defaults to anki_vocab.<format>)")
	cmd.Flags().String("dict", defaults.Analyzer.Dict, "Kagome dictionary (ipa, uni)")
	cmd.Flags().String("mode", defaults.Analyzer.Mode, "Segmentation mode (normal, search, extended)")

	return cmd
}

// generateInputs holds the resolved file paths for one run. Dataset
// paths come from configuration so flags, YAML, and environment
// variables all feed them.
type generateInputs struct {
	pdfPath       string
	jlptPath      string
	frequencyPath string
	meaningPath   string
	outputPath    string
}

func handleGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := config.FromContext(ctx)
	log := logger.FromContext(ctx)
	in, err := collectGenerateInputs(cmd, cfg)
	if err != nil {
		return err
	}
	analyzer, err := morph.New(morph.Config{Dict: cfg.Analyzer.Dict, Mode: cfg.Analyzer.Mode})
	if err != nil {
		return err
	}
	reader, err := reading.NewGenerator(cfg.Analyzer.Dict)
	if err != nil {
		return err
	}
	refs, err := refdata.LoadSet(in.jlptPath, in.frequencyPath, in.meaningPath)
	if err != nil {
		return err
	}
	minLevel, err := jlpt.Parse(cfg.Filter.MinLevel)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	doc, err := pdftext.Open(in.pdfPath)
	if err != nil {
		return err
	}
	defer doc.Close()
	out, err := deckuc.NewGenerate(analyzer, reader).Execute(ctx, &deckuc.GenerateInput{
		Source:   doc,
		Refs:     refs,
		MinLevel: minLevel,
		Format:   format,
		Sheet:    cfg.Output.Sheet,
		BaseName: baseNameFor(in.outputPath),
		OnPage: func(page, total int) {
			log.Debug("page analyzed", "page", page, "total", total)
		},
	})
	if err != nil {
		return err
	}
	path := in.outputPath
	if path == "" {
		path = out.Filename
	}
	if err := writeArtifact(path, out.Data); err != nil {
		return err
	}
	log.Info("deck generated", "path", path, "cards", len(out.Result.Cards))
	printSummary(cmd, cfg, path, out)
	return nil
}

func collectGenerateInputs(cmd *cobra.Command, cfg *config.Config) (*generateInputs, error) {
	pdfPath, err := cmd.Flags().GetString("pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to get pdf flag: %w", err)
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, fmt.Errorf("failed to get output flag: %w", err)
	}
	in := &generateInputs{
		pdfPath:       pdfPath,
		jlptPath:      cfg.Reference.JLPTPath,
		frequencyPath: cfg.Reference.FrequencyPath,
		meaningPath:   cfg.Reference.MeaningPath,
		outputPath:    outputPath,
	}
	if err := helpers.ValidateRequired(in.pdfPath, "--pdf"); err != nil {
		return nil, err
	}
	if err := helpers.ValidateRequired(in.jlptPath, "--jlpt"); err != nil {
		return nil, err
	}
	if err := helpers.ValidateRequired(in.frequencyPath, "--frequency"); err != nil {
		return nil, err
	}
	if err := helpers.ValidateRequired(in.meaningPath, "--meaning"); err != nil {
		return nil, err
	}
	inputs := []struct {
		name string
		path string
	}{
		{"pdf", in.pdfPath},
		{"jlpt", in.jlptPath},
		{"frequency", in.frequencyPath},
		{"meaning", in.meaningPath},
	}
	for _, f := range inputs {
		if !helpers.FileExists(f.path) {
			return nil, helpers.NewCliError("FILE_NOT_FOUND", fmt.Sprintf("%s file does not exist", f.name), f.path)
		}
	}
	return in, nil
}

// writeArtifact writes data to path via a temp file in the target
// directory and renames it into place, so readers never observe a
// partial spreadsheet.
func writeArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".ankigen-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set artifact permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

func printSummary(cmd *cobra.Command, cfg *config.Config, path string, out *deckuc.GenerateOutput) {
	if cfg.CLI.Quiet {
		return
	}
	res := out.Result
	pathLabel := path
	if helpers.DetectMode(cfg) == helpers.ModeInteractive && helpers.ShouldUseColor(cfg) {
		pathLabel = summaryPathStyle.Render(path)
	}
	w := cmd.OutOrStdout()
	cards := len(res.Cards)
	fmt.Fprintf(w, "Deck written to %s (%d %s)\n", pathLabel, cards, helpers.Pluralize(cards, "card", "cards"))
	fmt.Fprintf(w, "  Pages     %d", res.Pages)
	if res.PagesSkipped > 0 {
		fmt.Fprintf(w, " (%d skipped)", res.PagesSkipped)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Tokens    %d\n", res.Tokens)
	fmt.Fprintf(w, "  Unique    %d\n", res.UniqueLemmas)
	fmt.Fprintf(w, "  Duration  %s\n", helpers.FormatDuration(res.Duration))
}
