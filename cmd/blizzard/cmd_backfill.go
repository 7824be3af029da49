package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blizzardhq/blizzard/internal/models"
	"github.com/blizzardhq/blizzard/internal/projectconfig"
	"github.com/blizzardhq/blizzard/internal/store"
)

func newBackfillCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill <date> <yes|no>",
		Short: "Record the real-world outcome for a past prediction",
		Long: `Record the real-world outcome for a past prediction.

The date is the prediction's calendar date (YYYY-MM-DD). Outcomes are
write-once: backfilling a date that already has an outcome is a no-op.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if _, err := time.Parse("2006-01-02", id); err != nil {
				return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", id)
			}

			var actual models.Decision
			switch strings.ToLower(args[1]) {
			case "yes":
				actual = models.DecisionYes
			case "no":
				actual = models.DecisionNo
			default:
				return fmt.Errorf("invalid outcome %q: expected yes or no", args[1])
			}

			cfg, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			resultStore := store.New(cfg.Paths.Static, cfg.Production(), nil)
			if err := resultStore.BackfillOutcome(id, actual); err != nil {
				return err
			}

			fmt.Printf("Recorded outcome for %s: %s\n", id, actual)
			return nil
		},
	}

	return cmd
}
