package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fairval/internal/contracts"
)

// valueCmd represents the value command
var valueCmd = &cobra.Command{
	Use:   "value <ticker>",
	Short: "Run a fair value analysis",
	Long: `Runs the full valuation pipeline for a ticker and prints the fair
value band and verdict. An unexpired cached report is reused unless
--refresh is set.

Example:
  go run ./cmd/fairval value AAPL
  go run ./cmd/fairval value AAPL --peers MSFT,GOOGL --refresh`,
	Args: cobra.ExactArgs(1),
	RunE: runValue,
}

var (
	valuePeers   string
	valueRefresh bool
)

func init() {
	rootCmd.AddCommand(valueCmd)

	valueCmd.Flags().StringVar(&valuePeers, "peers", "", "comma-separated peer tickers")
	valueCmd.Flags().BoolVar(&valueRefresh, "refresh", false, "recompute even when a cached report exists")
}

func runValue(cmd *cobra.Command, args []string) error {
	application, closeApp, err := buildApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ticker := strings.ToUpper(args[0])
	var peers []string
	for _, p := range strings.Split(valuePeers, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			peers = append(peers, p)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var report *contracts.ValuationReport
	if !valueRefresh {
		report, err = application.valuations.CachedReport(ctx, ticker, peers)
		if err != nil {
			return err
		}
	}
	if report == nil {
		report, err = application.valuations.PerformValuation(ctx, ticker, peers)
		if err != nil {
			return err
		}
	}

	printReport(report)
	return nil
}

func printReport(r *contracts.ValuationReport) {
	fmt.Printf("=== %s (%s) ===\n", r.CompanyName, r.Ticker)
	fmt.Printf("Current price:   $%.2f\n", r.Current.CurrentPrice)
	if r.Current.CurrentPe > 0 {
		fmt.Printf("Current P/E:     %.1f (TTM EPS $%.2f)\n", r.Current.CurrentPe, r.Current.TTMEps)
	}
	fmt.Println()

	fmt.Printf("Forward EPS:     $%.2f (growth $%.2f, regression $%.2f)\n",
		r.ForwardEPS, r.ForwardGrowth.ForwardEPS, r.ForwardRegression.ForwardEPS)
	if r.HistoricalPe != nil {
		fmt.Printf("Historical P/E:  avg %.1f over %d report dates\n",
			r.HistoricalPe.Average, len(r.HistoricalPe.Samples))
	}
	if r.PeerComparison != nil {
		fmt.Printf("Peer P/E:        avg %.1f across %d peers\n",
			r.PeerComparison.AveragePe, len(r.PeerComparison.Peers))
	}
	fmt.Printf("Fundamentals P/E: %.1f\n", r.Fundamentals.FundamentalsPe)
	fmt.Printf("Justified P/E:   %.1f - %.1f\n", r.JustifiedPe.Low, r.JustifiedPe.High)
	fmt.Println()

	fmt.Printf("Fair value band: $%.2f - $%.2f (midpoint $%.2f)\n",
		r.FairValue.Low, r.FairValue.High, r.FairValue.Midpoint)
	fmt.Printf("Verdict:         %s (%+.1f%%)\n", r.FairValue.Assessment, r.FairValue.UpsidePercent)

	if r.Degraded {
		fmt.Println("\nNote: served from partially stale or incomplete data")
	}
	fmt.Printf("\nGenerated %s, valid until %s\n",
		r.GeneratedAt.Format(time.RFC3339), r.ExpiresAt.Format(time.RFC3339))
}
