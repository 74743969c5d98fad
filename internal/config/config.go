package config

import (
	"fmt"
	"os"
	"strconv"

	"sheetclean/adapters/datareadiness/coercer"
	"sheetclean/internal"
	"sheetclean/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Coercion CoercionConfig
	Workbook WorkbookConfig
	LogLevel internal.LogLevel
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// CoercionConfig holds the column type thresholds
type CoercionConfig struct {
	BooleanThreshold  float64
	NumericThreshold  float64
	DateTimeThreshold float64
	DayFirst          bool
}

// Coercer converts the thresholds into the normalizer's config
func (c CoercionConfig) Coercer() coercer.CoercionConfig {
	return coercer.CoercionConfig{
		BooleanThreshold:  c.BooleanThreshold,
		NumericThreshold:  c.NumericThreshold,
		DateTimeThreshold: c.DateTimeThreshold,
		DayFirst:          c.DayFirst,
	}
}

// WorkbookConfig holds workbook processing settings
type WorkbookConfig struct {
	SheetConcurrency int
	DescriptionSheet string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	config.Server = *loadServerConfig()
	config.Database = DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")}

	coercionConfig, err := loadCoercionConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load coercion configuration")
	}
	config.Coercion = *coercionConfig

	workbookConfig, err := loadWorkbookConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load workbook configuration")
	}
	config.Workbook = *workbookConfig

	config.LogLevel = internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadCoercionConfig() (*CoercionConfig, error) {
	defaults := coercer.DefaultCoercionConfig()

	boolean, err := getEnvFloat("BOOLEAN_THRESHOLD", defaults.BooleanThreshold)
	if err != nil {
		return nil, err
	}
	numeric, err := getEnvFloat("NUMERIC_THRESHOLD", defaults.NumericThreshold)
	if err != nil {
		return nil, err
	}
	datetime, err := getEnvFloat("DATETIME_THRESHOLD", defaults.DateTimeThreshold)
	if err != nil {
		return nil, err
	}
	dayFirst, err := getEnvBool("DAY_FIRST", defaults.DayFirst)
	if err != nil {
		return nil, err
	}

	return &CoercionConfig{
		BooleanThreshold:  boolean,
		NumericThreshold:  numeric,
		DateTimeThreshold: datetime,
		DayFirst:          dayFirst,
	}, nil
}

func loadWorkbookConfig() (*WorkbookConfig, error) {
	concurrency, err := getEnvInt("SHEET_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	return &WorkbookConfig{
		SheetConcurrency: concurrency,
		DescriptionSheet: getEnvOrDefault("DESCRIPTION_SHEET", "Descriptions"),
	}, nil
}

func validateConfig(config *Config) error {
	thresholds := map[string]float64{
		"BOOLEAN_THRESHOLD":  config.Coercion.BooleanThreshold,
		"NUMERIC_THRESHOLD":  config.Coercion.NumericThreshold,
		"DATETIME_THRESHOLD": config.Coercion.DateTimeThreshold,
	}
	for _, key := range []string{"BOOLEAN_THRESHOLD", "NUMERIC_THRESHOLD", "DATETIME_THRESHOLD"} {
		if v := thresholds[key]; v <= 0 || v > 1 {
			return errors.ConfigInvalid(fmt.Sprintf("%s must be in (0, 1], got %g", key, v))
		}
	}
	if config.Workbook.SheetConcurrency < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("SHEET_CONCURRENCY must be at least 1, got %d", config.Workbook.SheetConcurrency))
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
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

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s must be a boolean, got %q", key, value))
	}
	return boolValue, nil
}
