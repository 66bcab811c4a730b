package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"library-lending/internal/core/domain"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	Lending  LendingConfig
	Events   EventsConfig
}

// DatabaseConfig holds database configuration.
// Driver is one of mysql, postgres or sqlite; Path is only used by sqlite.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string
}

// LendingConfig holds loan period, fine rate and overdue sweep schedule
type LendingConfig struct {
	LoanPeriodDays   int
	FinePerDay       float64
	OverdueSweepCron string
}

// EventsConfig holds NATS configuration. An empty NATSURL disables publishing.
type EventsConfig struct {
	NATSURL string
	Subject string
}

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	lending, err := loadLendingConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: database,
		Lending:  lending,
		Events: EventsConfig{
			NATSURL: strings.TrimSpace(getEnv("NATS_URL", "")),
			Subject: getEnv("NATS_SUBJECT", "library.loans"),
		},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", appMode, database.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv(prefix+"DB_DRIVER", DriverMySQL)))
	defaultPort := "3306"
	switch driver {
	case DriverMySQL, DriverSQLite:
	case DriverPostgres:
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid %sDB_DRIVER: '%s' (must be 'mysql', 'postgres' or 'sqlite')", prefix, driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "library"),
		Path:     getEnv(prefix+"DB_PATH", "library.db"),
	}, nil
}

// loadLendingConfig loads lending rules
func loadLendingConfig() (LendingConfig, error) {
	days, err := strconv.Atoi(getEnv("LOAN_PERIOD_DAYS", strconv.Itoa(domain.DefaultLoanPeriodDays)))
	if err != nil || days < 1 {
		return LendingConfig{}, fmt.Errorf("invalid LOAN_PERIOD_DAYS: must be a positive integer")
	}

	fine, err := strconv.ParseFloat(getEnv("FINE_PER_DAY", strconv.FormatFloat(domain.DefaultFinePerDay, 'f', 2, 64)), 64)
	if err != nil || fine <= 0 {
		return LendingConfig{}, fmt.Errorf("invalid FINE_PER_DAY: must be a positive number")
	}

	return LendingConfig{
		LoanPeriodDays:   days,
		FinePerDay:       fine,
		OverdueSweepCron: getEnv("OVERDUE_SWEEP_CRON", "5 0 * * *"),
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
