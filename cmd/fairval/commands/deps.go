package commands

import (
	"fmt"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/internal/external/alphavantage"
	"github.com/wonny/fairval/internal/external/fmp"
	"github.com/wonny/fairval/internal/prices"
	"github.com/wonny/fairval/internal/statements"
	"github.com/wonny/fairval/internal/store"
	"github.com/wonny/fairval/internal/valuation"
	"github.com/wonny/fairval/pkg/config"
	"github.com/wonny/fairval/pkg/database"
	"github.com/wonny/fairval/pkg/logger"
	"github.com/wonny/fairval/pkg/redis"
)

// app bundles the wired service graph shared by the CLI commands
type app struct {
	cfg *config.Config
	log *logger.Logger

	db    *database.DB
	redis *redis.Client

	companies  *store.CompanyRepository
	reports    *store.ReportRepository
	statements *statements.Service
	prices     *prices.Service
	valuations *valuation.Service
}

// buildApp loads config and wires every service. The caller must call
// close when done.
func buildApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	if verbose {
		cfg.LogLevel = "debug"
		log = logger.New(cfg)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	closeAll := func() {
		redisClient.Close()
		db.Close()
	}

	// Vendor clients. Alpha Vantage always serves prices; fundamentals
	// follow the configured data source.
	avClient := alphavantage.NewClient(cfg.AlphaVantage, log)

	var fundamentalsSource contracts.FundamentalsSource
	switch cfg.Valuation.DataSource {
	case "fmp":
		fundamentalsSource = fmp.NewClient(cfg.FMP, log)
	default:
		fundamentalsSource = avClient
	}

	transformer, err := statements.NewTransformer(cfg.Valuation.DataSource)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	statementRepo := store.NewStatementRepository(db.Pool)
	priceRepo := store.NewPriceRepository(db.Pool)
	companyRepo := store.NewCompanyRepository(db.Pool)
	reportRepo := store.NewReportRepository(db.Pool)

	statementSvc := statements.NewService(statementRepo, companyRepo, fundamentalsSource, transformer, cfg.Valuation, log)
	priceSvc := prices.NewService(priceRepo, avClient, "Alpha Vantage", cfg.Valuation, log)

	var hotCache *redis.Cache
	if redisClient.Enabled() {
		hotCache = redis.NewCache(redisClient, "fairval")
	}
	valuationSvc := valuation.NewService(statementSvc, priceSvc, reportRepo, hotCache, cfg.Valuation, log)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		redis:      redisClient,
		companies:  companyRepo,
		reports:    reportRepo,
		statements: statementSvc,
		prices:     priceSvc,
		valuations: valuationSvc,
	}, closeAll, nil
}
