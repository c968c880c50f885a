package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	FMP          FMPConfig
	AlphaVantage AlphaVantageConfig

	// Valuation engine
	Valuation ValuationConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration for the report hot cache
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	APIKey  string
	BaseURL string
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string

	// Free tier allows roughly one request every 1.5s
	RateInterval time.Duration
}

// ValuationConfig holds every tunable of the valuation pipeline.
// Changing any of these changes valuation outputs.
type ValuationConfig struct {
	// Data source selection for statement transformation
	DataSource string // "alphavantage" or "fmp"

	// Cache / freshness
	FundamentalsMaxAgeDays int           // fundamentals cache freshness window
	ReportTTL              time.Duration // valuation report expiry
	NumQuarters            int           // quarters requested from vendors

	// Price lookup
	PriceLookupWindowDays int // days searched at or before a target date
	PriceFetchBufferDays  int // buffer added to batch range fetches

	// Core model parameters
	MinQuartersForValuation int
	TTMQuarters             int
	BaseMarketPE            float64
	GrowthMultiplier        float64
	MinPE                   float64

	// Fundamentals P/E adjustments
	ExcellentNetMargin       float64
	MarginExcellentBonus     float64
	MarginImprovingBonus     float64
	HighDebtToEquity         float64
	DebtRiskPenalty          float64
	DecliningMarginPenalty   float64
	EquityEstimateMultiplier float64

	// Justified P/E nominal weights (renormalized over present inputs)
	WeightHistorical   float64
	WeightPeer         float64
	WeightFundamentals float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		FMP: FMPConfig{
			APIKey:  getEnv("FMP_API_KEY", ""),
			BaseURL: getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
		},

		AlphaVantage: AlphaVantageConfig{
			APIKey:       getEnv("ALPHA_VANTAGE_API_KEY", ""),
			BaseURL:      getEnv("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
			RateInterval: getEnvAsDuration("ALPHA_VANTAGE_RATE_INTERVAL", "1500ms"),
		},

		Valuation: ValuationConfig{
			DataSource: getEnv("DATA_SOURCE", "alphavantage"),

			FundamentalsMaxAgeDays: getEnvAsInt("CACHE_EXPIRY_DAYS", 30),
			ReportTTL:              getEnvAsDuration("VALUATION_CACHE_TTL", "24h"),
			NumQuarters:            getEnvAsInt("NUM_QUARTERS", 16),

			PriceLookupWindowDays: getEnvAsInt("PRICE_LOOKUP_DAYS_RANGE", 5),
			PriceFetchBufferDays:  getEnvAsInt("PRICE_FETCH_BUFFER_DAYS", 7),

			MinQuartersForValuation: getEnvAsInt("MIN_QUARTERS_FOR_VALUATION", 8),
			TTMQuarters:             4,
			BaseMarketPE:            getEnvAsFloat("PE_BASE_MARKET", 22.0),
			GrowthMultiplier:        getEnvAsFloat("PE_GROWTH_MULTIPLIER", 0.5),
			MinPE:                   getEnvAsFloat("PE_MIN", 5.0),

			ExcellentNetMargin:       0.20,
			MarginExcellentBonus:     3,
			MarginImprovingBonus:     2,
			HighDebtToEquity:         1.5,
			DebtRiskPenalty:          -2,
			DecliningMarginPenalty:   -2,
			EquityEstimateMultiplier: 20,

			WeightHistorical:   0.4,
			WeightPeer:         0.3,
			WeightFundamentals: 0.3,
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Valuation.DataSource != "alphavantage" && c.Valuation.DataSource != "fmp" {
		return fmt.Errorf("DATA_SOURCE must be one of: alphavantage, fmp")
	}

	if c.Valuation.MinQuartersForValuation < c.Valuation.TTMQuarters {
		return fmt.Errorf("MIN_QUARTERS_FOR_VALUATION must be at least %d", c.Valuation.TTMQuarters)
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
