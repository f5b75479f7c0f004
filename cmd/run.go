// Package cmd — run command.
// Executes both pipeline phases back to back: discover the URL set,
// then scrape every title that has no result yet.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/filmdex/core"
)

// Flag variables.
var (
	flagRunRefresh bool
	flagRunArchive bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Discover the catalog and scrape every title",
	Long: `Run walks the index partitions to collect detail URLs, then fetches
and extracts each title into the checkpoint store. Interrupted runs
resume where they stopped.

Examples:
  filmdex run
  filmdex run --refresh
  filmdex run --archive`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&flagRunRefresh, "refresh", false, "Rediscover the URL set even if one is stored")
	runCmd.Flags().BoolVar(&flagRunArchive, "archive", false, "Snapshot each fetched page as Markdown")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	app, err := buildApp(flagRunRefresh, flagRunArchive)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	summary, err := app.pipeline.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

// printSummary writes the run counters to stdout.
func printSummary(s core.RunSummary) {
	fmt.Fprintf(os.Stdout, "Discovered: %d\n", s.Discovered)
	fmt.Fprintf(os.Stdout, "Processed:  %d\n", s.Processed)
	fmt.Fprintf(os.Stdout, "Succeeded:  %d\n", s.Succeeded)
	fmt.Fprintf(os.Stdout, "Failed:     %d\n", s.Failed)
	fmt.Fprintf(os.Stdout, "Skipped:    %d\n", s.Skipped)
}
