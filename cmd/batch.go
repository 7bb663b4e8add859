package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rustmaps/filter"
	"github.com/s0up4200/rustmaps/rustmaps"
)

var (
	whereExpr   string
	preset      string
	concurrency int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <size:seed>...",
	Short: "Look up several maps by size and seed",
	Long: `Look up several maps concurrently by size and seed, optionally keeping only
those matching a filter expression.

Expressions see each map payload as Map, with its top-level keys also
available directly, e.g.:

  rustmaps batch 4500:1337 3500:42 --where 'size >= 4000'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "filter expression")
	batchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "parallel lookups (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	lookups := make([]rustmaps.SeedSize, 0, len(args))
	for _, arg := range args {
		ss, err := rustmaps.ParseSeedSize(arg)
		if err != nil {
			return err
		}
		lookups = append(lookups, ss)
	}

	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	var f *filter.Filter
	if expr != "" {
		f, err = filter.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	limit := cfg.Batch.Concurrency
	if concurrency > 0 {
		limit = concurrency
	}

	logger.Info().Int("maps", len(lookups)).Int("concurrency", limit).Str("filter", expr).Msg("Looking up maps")

	results, err := client.GetMapsBySeedSize(cmd.Context(), lookups, limit, stagingOption())
	if err != nil {
		return err
	}

	if f != nil {
		results = f.Select(results)
	}

	out := make(map[string]any, len(results))
	for _, r := range results {
		out[r.SeedSize.String()] = r.Data
	}
	if len(out) == 0 {
		return printResult(cmd.OutOrStdout(), "maps", nil)
	}
	return printResult(cmd.OutOrStdout(), "maps", out)
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset
	if whereExpr != "" {
		return whereExpr, nil
	}

	if preset != "" {
		if expr, ok := cfg.Filter.Presets[preset]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}
