// Package cmd — scrape command.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagScrapeArchive bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the stored URL set into records",
	Long: `Scrape fetches and extracts every URL stored by a previous discover,
skipping URLs that already have a result. Requires a stored URL set.`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&flagScrapeArchive, "archive", false, "Snapshot each fetched page as Markdown")
}

func runScrape(cmd *cobra.Command, args []string) error {
	app, err := buildApp(false, flagScrapeArchive)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	urls, err := app.store.LoadURLSet(ctx)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no stored URL set: run 'filmdex discover' first")
	}

	summary, err := app.pipeline.Scrape(ctx, urls)
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}
