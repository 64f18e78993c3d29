package config

import (
	"fmt"
	"time"

	"golang-stock-importer/pkg/common"
	"golang-stock-importer/pkg/config"
	"golang-stock-importer/pkg/utils"
)

// Import holds CSV import settings.
type Import struct {
	TimeZone            string `mapstructure:"time_zone"`
	MaxPriceUploadBytes int64  `mapstructure:"max_price_upload_bytes"`
	MaxNewsUploadBytes  int64  `mapstructure:"max_news_upload_bytes"`
	MaxImportsPerMinute int    `mapstructure:"max_imports_per_minute"`
	StockCacheTTL       string `mapstructure:"stock_cache_ttl"`
}

// Retention holds the optional news clean-up schedule.
type Retention struct {
	Cron           string `mapstructure:"cron"`
	NewsMaxAgeDays int    `mapstructure:"news_max_age_days"`
}

// Enabled reports whether the retention job should run.
func (r Retention) Enabled() bool {
	return r.Cron != "" && r.NewsMaxAgeDays > 0
}

// CORS holds allowed origins for browser clients.
type CORS struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Config holds the full configuration for the import service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	CORS      CORS            `mapstructure:"cors"`
	Import    Import          `mapstructure:"import"`
	Retention Retention       `mapstructure:"retention"`
}

var defaults = map[string]interface{}{
	"app.name":                      "stock-importer",
	"logger.level":                  "info",
	"logger.encoding":               "json",
	"api.port":                      3000,
	"import.time_zone":              common.DefaultTimeZone,
	"import.max_price_upload_bytes": common.MaxPriceUploadBytes,
	"import.max_news_upload_bytes":  common.MaxNewsUploadBytes,
	"import.stock_cache_ttl":        "5m",
	"cors.allow_origins":            []string{"http://localhost:5173"},
}

// Load loads the import service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves Import.TimeZone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Import.TimeZone)
}

// StockCacheTTL parses Import.StockCacheTTL.
func (c *Config) StockCacheTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Import.StockCacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid import.stock_cache_ttl: %w", err)
	}
	return ttl, nil
}
