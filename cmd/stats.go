// Package cmd — stats command.
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/filmdex/core"
	"github.com/gaurav-prasanna/filmdex/store"
)

// topDistributors caps the distributor ranking.
const topDistributors = 10

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the stored dataset",
	Long: `Stats prints dataset totals, the failure breakdown by stage and
category, and the distributors with the most records.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	recs, err := st.Records(ctx)
	if err != nil {
		return err
	}
	fails, err := st.Failures(ctx)
	if err != nil {
		return err
	}

	printTotals(recs, fails)
	if len(fails) > 0 {
		printFailureBreakdown(fails)
	}
	if len(recs) > 0 {
		printTopDistributors(recs)
	}
	return nil
}

func printTotals(recs []core.Record, fails []core.FailureEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRow(table.Row{"Records", len(recs)})
	t.AppendRow(table.Row{"Failures", len(fails)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printFailureBreakdown(fails []core.FailureEntry) {
	type key struct {
		stage    core.Stage
		category core.Category
	}
	counts := make(map[key]int)
	for _, f := range fails {
		counts[key{f.Stage, f.Category}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		if keys[i].stage != keys[j].stage {
			return keys[i].stage < keys[j].stage
		}
		return keys[i].category < keys[j].category
	})

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Stage", "Category", "Count"})
	for _, k := range keys {
		t.AppendRow(table.Row{string(k.stage), string(k.category), counts[k]})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printTopDistributors(recs []core.Record) {
	counts := make(map[string]int)
	for _, rec := range recs {
		if rec.Distributor != nil {
			counts[*rec.Distributor]++
		}
	}
	if len(counts) == 0 {
		return
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topDistributors {
		names = names[:topDistributors]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Distributor", "Records"})
	for _, name := range names {
		t.AppendRow(table.Row{name, counts[name]})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
