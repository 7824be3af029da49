package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blizzardhq/blizzard/internal/models"
	"github.com/blizzardhq/blizzard/internal/projectconfig"
	"github.com/blizzardhq/blizzard/internal/statistics"
	"github.com/blizzardhq/blizzard/internal/store"
)

func newHistoryCommand() *cobra.Command {
	var showStats bool
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past predictions and accuracy",
		Long: `Show past predictions, newest first.

With --stats, also prints accuracy metrics: hit rate over resolved days,
mean absolute probability error, and a bootstrap confidence interval when
enough days are resolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			resultStore := store.New(cfg.Paths.Static, cfg.Production(), nil)
			records := resultStore.ListHistory()
			if len(records) == 0 {
				fmt.Println("No predictions recorded yet.")
				return nil
			}

			shown := records
			if limit > 0 && limit < len(shown) {
				shown = shown[:limit]
			}

			fmt.Printf("%-12s %-18s %-10s  %s\n", "Date", "Prediction", "Actual", "Details")
			fmt.Println(strings.Repeat("─", 70))
			for _, rec := range shown {
				fmt.Printf("%-12s %-18s %-10s  %s\n",
					rec.ID, rec.Prediction, actualText(rec), firstLine(rec.Details, 60))
			}

			if showStats {
				printStats(statistics.ComputeAccuracy(records))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStats, "stats", false, "Print accuracy metrics")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n entries (0 = all)")

	return cmd
}

func actualText(rec models.PredictionRecord) string {
	if rec.Actual == nil {
		return "-"
	}
	return string(*rec.Actual)
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > max {
		s = s[:max-3] + "..."
	}
	return s
}

func printStats(stats statistics.AccuracyStats) {
	fmt.Println()
	fmt.Printf("Predictions: %d total, %d resolved\n", stats.Total, stats.Resolved)
	if stats.Resolved == 0 {
		fmt.Println("No resolved predictions to score yet.")
		return
	}
	fmt.Printf("Accuracy:    %.1f%% (%d/%d)\n", stats.Accuracy*100, stats.Correct, stats.Resolved)
	fmt.Printf("Mean error:  %.1f percentage points\n", stats.MeanAbsErr)
	if stats.CI != nil {
		fmt.Printf("95%% CI:      [%.1f%%, %.1f%%]\n", stats.CI.Lower*100, stats.CI.Upper*100)
	}
}
