package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fairval",
	Short: "P/E based fair value analysis for stocks",
	Long: `fairval computes fair value bands for a stock from its quarterly
fundamentals: forward EPS is estimated two ways, a justified P/E band is
synthesized from historical, peer, and fundamentals-derived P/E, and the
current price is classified against the resulting price band.

Vendor data is cached in Postgres with per-tier freshness rules, so
repeated valuations stay within free API quotas.

Usage:
  go run ./cmd/fairval [command]

Examples:
  go run ./cmd/fairval api
  go run ./cmd/fairval value AAPL --peers MSFT,GOOGL
  go run ./cmd/fairval refresh AAPL`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
