package main

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig      string
	flagVerbose     bool
	flagMetricsAddr string
)

func main() {
	root := &cobra.Command{
		Use:   "papertrade",
		Short: "Portfolio valuation and ranking engine for the paper-trading platform",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
			if flagVerbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			if flagMetricsAddr != "" {
				go func() {
					if err := http.ListenAndServe(flagMetricsAddr, promhttp.Handler()); err != nil {
						log.Error().Err(err).Msg("metrics listener stopped")
					}
				}()
			}
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address")

	root.AddCommand(dailyCmd(), midnightCmd(), backfillCmd(), historyCmd(), rankingCmd())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
