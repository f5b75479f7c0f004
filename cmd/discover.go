// Package cmd — discover command.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagDiscoverRefresh bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Walk the index partitions and store the detail URL set",
	Long: `Discover walks every configured index partition page by page, collects
item links, and stores the deduplicated URL set for a later scrape.
With --refresh, a stored set is replaced instead of reused.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().BoolVar(&flagDiscoverRefresh, "refresh", false, "Rediscover the URL set even if one is stored")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	app, err := buildApp(flagDiscoverRefresh, false)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	urls, err := app.pipeline.Discover(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Discovered %d detail URLs\n", len(urls))
	return nil
}
