package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"papertrade/types"
)

func backfillCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Recompute and upsert daily snapshots for all accounts over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(types.DayFormat, from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			end, err := time.Parse(types.DayFormat, to)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("--to %s is before --from %s", to, from)
			}

			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			defer a.close()

			days := int(end.Sub(start).Hours()/24) + 1
			bar := initProgressBar(days)
			for day := start; !day.After(end); day = types.NextDay(day) {
				if err := a.snaps.SnapshotAll(cmd.Context(), day); err != nil {
					return err
				}
				bar.Add(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day to backfill (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day to backfill (YYYY-MM-DD)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backfilling snapshots..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
