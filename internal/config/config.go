package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"vrsurvey/internal/analysis/dist"
	"vrsurvey/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Data     DataConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database connection settings. URL may be empty when
// respondents come from a file.
type DatabaseConfig struct {
	URL            string
	MaxOpenConns   int
	ConnectTimeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig points at a spreadsheet export of survey_results.
type DataConfig struct {
	SurveyFile string
	Sheet      string
	// RunStore is a SQLite file for run history when no database is set.
	RunStore string
}

// AnalysisConfig holds the statistical conventions of a run.
type AnalysisConfig struct {
	Alpha           float64
	Method          dist.Method
	CompositeDigits int
	ReportPrecision int
	PValueDigits    int
	HistogramBins   int
	ZThreshold      float64
	MinAge          float64
	MaxAge          float64
	PersistRuns     bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	return LoadWith(nil)
}

// LoadWith reads the environment, applies override (e.g. command-line
// flags) and then validates the result.
func LoadWith(override func(*Config)) (*Config, error) {
	config := &Config{}

	config.Database = *loadDatabaseConfig()
	config.Server = *loadServerConfig()
	config.Data = *loadDataConfig()

	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	config.Analysis = *analysisConfig

	if override != nil {
		override(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// HasDatabase reports whether a database is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:            os.Getenv("DATABASE_URL"),
		MaxOpenConns:   getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		ConnectTimeout: getEnvDurationOrDefault("DB_CONNECT_TIMEOUT", 10*time.Second),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		SurveyFile: getEnvOrDefault("SURVEY_FILE", ""),
		Sheet:      getEnvOrDefault("SURVEY_SHEET", "Sheet1"),
		RunStore:   getEnvOrDefault("RUNS_DB", ""),
	}
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	method, err := dist.ParseMethod(os.Getenv("TEST_METHOD"))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	return &AnalysisConfig{
		Alpha:           getEnvFloatOrDefault("ALPHA", 0.05),
		Method:          method,
		CompositeDigits: getEnvIntOrDefault("COMPOSITE_DIGITS", 3),
		ReportPrecision: getEnvIntOrDefault("REPORT_PRECISION", 3),
		PValueDigits:    getEnvIntOrDefault("PVALUE_DIGITS", 4),
		HistogramBins:   getEnvIntOrDefault("HISTOGRAM_BINS", 10),
		ZThreshold:      getEnvFloatOrDefault("ANOMALY_Z_THRESHOLD", 3),
		MinAge:          getEnvFloatOrDefault("AGE_MIN", 10),
		MaxAge:          getEnvFloatOrDefault("AGE_MAX", 100),
		PersistRuns:     getEnvBoolOrDefault("PERSIST_RUNS", true),
	}, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" && config.Data.SurveyFile == "" {
		return errors.ConfigInvalid("either DATABASE_URL or SURVEY_FILE is required")
	}
	a := config.Analysis
	if a.Alpha <= 0 || a.Alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("ALPHA must be in (0, 1), got %v", a.Alpha))
	}
	if a.HistogramBins <= 0 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be positive")
	}
	if a.ZThreshold <= 0 {
		return errors.ConfigInvalid("ANOMALY_Z_THRESHOLD must be positive")
	}
	if a.MinAge > a.MaxAge {
		return errors.ConfigInvalid(fmt.Sprintf("AGE_MIN (%v) exceeds AGE_MAX (%v)", a.MinAge, a.MaxAge))
	}
	if a.ReportPrecision < 0 || a.PValueDigits < 0 {
		return errors.ConfigInvalid("REPORT_PRECISION and PVALUE_DIGITS must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
