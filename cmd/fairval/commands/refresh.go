package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh <ticker>",
	Short: "Force a vendor refetch of quarterly fundamentals",
	Long: `Discards cached quarters for a ticker and refetches them from the
configured vendor.

Example:
  go run ./cmd/fairval refresh AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	application, closeApp, err := buildApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ticker := strings.ToUpper(args[0])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records, err := application.statements.ForceRefresh(ctx, ticker)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", ticker, err)
	}

	fmt.Printf("Refreshed %d quarters for %s\n", len(records), ticker)
	for _, r := range records {
		fmt.Printf("  %s  EPS %6.2f  revenue %14.0f\n", r.FiscalQuarter, r.EPS, r.Revenue)
	}
	return nil
}
