package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"papertrade/types"
)

func historyCmd() *cobra.Command {
	var account, from, to string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print an account's reconstructed daily value series",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(account)
			if err != nil {
				return fmt.Errorf("invalid --account: %w", err)
			}
			var window types.Range
			if from != "" {
				if window.Start, err = time.Parse(types.DayFormat, from); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}
			if to != "" {
				if window.End, err = time.Parse(types.DayFormat, to); err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				window.End = window.End.Add(24*time.Hour - time.Nanosecond)
			}

			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			defer a.close()

			points, err := a.recon.History(cmd.Context(), id, window)
			if err != nil {
				return err
			}
			for _, p := range points {
				mark := ""
				if p.Estimated {
					mark = " ~"
				}
				fmt.Printf("%s  total=%s  cash=%s  return=%s%%%s\n",
					p.Time.Format(time.RFC3339), p.TotalAssets, p.Cash, p.Return, mark)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account id")
	cmd.Flags().StringVar(&from, "from", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "window end (YYYY-MM-DD)")
	cmd.MarkFlagRequired("account")
	return cmd
}

func rankingCmd() *cobra.Command {
	var periodStr, tierStr, account string
	var limit int

	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Print a leaderboard, or one account's rank with --account",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := types.ParsePeriod(periodStr)
			if err != nil {
				return err
			}

			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			defer a.close()

			if account != "" {
				id, err := uuid.Parse(account)
				if err != nil {
					return fmt.Errorf("invalid --account: %w", err)
				}
				entry, err := a.boards.GetAccountRank(cmd.Context(), id, period)
				if err != nil {
					return err
				}
				fmt.Printf("#%d  %s  %s  %s%%\n", entry.Rank, entry.Tier, entry.AccountId, entry.Return)
				return nil
			}

			var tier types.Tier
			switch tierStr {
			case "entry":
				tier = types.TierEntry
			case "elite":
				tier = types.TierElite
			default:
				return fmt.Errorf("unknown tier %q, want entry or elite", tierStr)
			}
			entries, err := a.boards.GetRanking(cmd.Context(), period, tier, limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("#%-4d %s  %s%%\n", e.Rank, e.AccountId, e.Return)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&periodStr, "period", "weekly", "period kind: weekly, monthly or alltime")
	cmd.Flags().StringVar(&tierStr, "tier", "entry", "tier: entry or elite")
	cmd.Flags().IntVar(&limit, "limit", 0, "max entries to print (0 = all)")
	cmd.Flags().StringVar(&account, "account", "", "print this account's rank instead of the board")
	return cmd
}
