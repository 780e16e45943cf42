package main

import (
	"time"

	"github.com/spf13/cobra"
)

func dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Run the post-close cycle: close candles, snapshots, rankings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			defer a.close()
			return a.runner.RunDaily(cmd.Context(), time.Now())
		},
	}
}

func midnightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "midnight",
		Short: "Run the day-boundary cycle: tiers, opening snapshot, baseline resets",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			defer a.close()
			return a.runner.RunMidnight(cmd.Context(), time.Now())
		},
	}
}
