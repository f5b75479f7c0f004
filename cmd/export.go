// Package cmd — export command.
// Renders the stored records and failure log into a dataset file or a
// report. It handles format selection and the output directory.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/filmdex/core"
	"github.com/gaurav-prasanna/filmdex/core/output"
	"github.com/gaurav-prasanna/filmdex/core/render"
	"github.com/gaurav-prasanna/filmdex/store"
)

// Flag variables.
var (
	flagExportFormat    string
	flagExportOutputDir string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records to json, csv, markdown, or pdf",
	Long: `Export renders the stored records and failure log into a dataset file
(json, csv) or a report (markdown, pdf).

Examples:
  filmdex export --format json
  filmdex export --format csv --output_dir ./out
  filmdex export --format pdf`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&flagExportFormat, "format", "json", "Output format: json, csv, markdown, or pdf")
	exportCmd.Flags().StringVar(&flagExportOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	renderer, baseName, err := selectRenderer(flagExportFormat)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ctx, stop := signalContext()
	defer stop()

	recs, err := st.Records(ctx)
	if err != nil {
		return err
	}
	fails, err := st.Failures(ctx)
	if err != nil {
		return err
	}

	data, err := renderer.Render(recs, fails)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", flagExportFormat, err)
	}

	writer, err := output.New(flagExportOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	path, err := writer.WriteNamed(baseName, data, renderer.Extension())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "✓ Written: %s (%d records, %d failures)\n", path, len(recs), len(fails))
	return nil
}

// selectRenderer creates the appropriate Renderer and export base
// name for the format.
func selectRenderer(format string) (core.Renderer, string, error) {
	switch format {
	case "json":
		return render.NewJSONRenderer(), "filmdex_dataset", nil
	case "csv":
		return render.NewCSVRenderer(), "filmdex_dataset", nil
	case "markdown":
		return render.NewMarkdownRenderer(), "filmdex_report", nil
	case "pdf":
		return render.NewPDFRenderer(), "filmdex_report", nil
	default:
		return nil, "", fmt.Errorf("unknown format %q (want json, csv, markdown, or pdf)", format)
	}
}
