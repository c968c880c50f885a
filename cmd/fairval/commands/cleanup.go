package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Database cleanup tools",
	Long: `Performs database cleanup tasks.

Example:
  fairval cleanup reports`,
}

var cleanupReportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Delete expired valuation reports",
	Long: `Deletes valuation reports past their expiry. The API scheduler does
this hourly; this command runs the same purge on demand.

Example:
  fairval cleanup reports`,
	RunE: runCleanupReports,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.AddCommand(cleanupReportsCmd)
}

func runCleanupReports(cmd *cobra.Command, args []string) error {
	application, closeApp, err := buildApp()
	if err != nil {
		return err
	}
	defer closeApp()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := application.reports.DeleteExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("purge reports: %w", err)
	}

	fmt.Printf("Deleted %d expired reports\n", removed)
	return nil
}
