package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fairval/internal/api"
	"github.com/wonny/fairval/internal/api/handlers"
	"github.com/wonny/fairval/internal/scheduler"
	"github.com/wonny/fairval/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server with the background maintenance
scheduler.

Endpoints:
  GET  /health                           - Health check
  GET  /api/valuation/{ticker}           - Run or reuse a valuation
  GET  /api/financials/{ticker}          - Cached quarterly fundamentals
  POST /api/financials/{ticker}/refresh  - Force a vendor refetch
  GET  /api/price/{ticker}               - Current or dated price

Example:
  go run ./cmd/fairval api
  go run ./cmd/fairval api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	application, closeApp, err := buildApp()
	if err != nil {
		return err
	}
	defer closeApp()

	if apiPort != "" {
		application.cfg.Port = apiPort
	}
	log := application.log

	// Handlers and router
	valuationHandler := handlers.NewValuationHandler(application.valuations, log)
	financialsHandler := handlers.NewFinancialsHandler(application.statements, log)
	priceHandler := handlers.NewPriceHandler(application.prices, log)
	router := api.NewRouter(valuationHandler, financialsHandler, priceHandler, log)

	server := api.New(application.cfg, log, router)

	// Background maintenance
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewReportPurgeJob(application.reports, log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewStatementRefreshJob(application.companies, application.statements, log)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", application.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
