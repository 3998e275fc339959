// Package config loads application settings from an optional YAML file and
// environment overrides.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/utils"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Crypto   CryptoConfig   `yaml:"crypto"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Report   ReportConfig   `yaml:"report"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Path           string `yaml:"path"`
	// KeepImportLogs bounds the import history; 0 keeps everything.
	KeepImportLogs int    `yaml:"keep_import_logs"`
}

type CryptoConfig struct {
	// LocalRate converts USDT quotes to the local currency.
	LocalRate float64       `yaml:"local_rate"`
	SymbolTTL time.Duration `yaml:"symbol_ttl"`
}

type FeedsConfig struct {
	StocksURL string        `yaml:"stocks_url"`
	MarketURL string        `yaml:"market_url"`
	CryptoURL string        `yaml:"crypto_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type ReportConfig struct {
	Currency string `yaml:"currency"`
}

type LedgerConfig struct {
	ConfirmWord string `yaml:"confirm_word"`
}

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "2008"},
		Database: DatabaseConfig{Path: "./data/portfoy.db", KeepImportLogs: 500},
		Crypto:   CryptoConfig{LocalRate: 34, SymbolTTL: 5 * time.Minute},
		Feeds:    FeedsConfig{Timeout: 15 * time.Second},
		Report:   ReportConfig{Currency: "TRY"},
		Ledger:   LedgerConfig{ConfirmWord: "delete"},
	}
}

// Load starts from Default, merges the YAML file at path when it exists and
// applies environment overrides last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = utils.GetEnv("APP_PORT", c.Server.Port)
	c.Database.Path = utils.GetEnv("DB_PATH", c.Database.Path)
	c.Database.KeepImportLogs = utils.GetEnvInt("KEEP_IMPORT_LOGS", c.Database.KeepImportLogs)
	c.Crypto.LocalRate = utils.GetEnvFloat("CRYPTO_LOCAL_RATE", c.Crypto.LocalRate)
	c.Crypto.SymbolTTL = utils.GetEnvDuration("CRYPTO_SYMBOL_TTL", c.Crypto.SymbolTTL)
	c.Feeds.StocksURL = utils.GetEnv("STOCKS_API_URL", c.Feeds.StocksURL)
	c.Feeds.MarketURL = utils.GetEnv("MARKET_API_URL", c.Feeds.MarketURL)
	c.Feeds.CryptoURL = utils.GetEnv("CRYPTO_API_URL", c.Feeds.CryptoURL)
	c.Feeds.Timeout = utils.GetEnvDuration("FEED_TIMEOUT", c.Feeds.Timeout)
	c.Report.Currency = utils.GetEnv("REPORT_CURRENCY", c.Report.Currency)
	c.Ledger.ConfirmWord = utils.GetEnv("CLEAR_CONFIRM_WORD", c.Ledger.ConfirmWord)
}

func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Server.Port) == "":
		return errors.Wrap(ErrInvalidConfig, "server.port is required")
	case strings.TrimSpace(c.Database.Path) == "":
		return errors.Wrap(ErrInvalidConfig, "database.path is required")
	case c.Database.KeepImportLogs < 0:
		return errors.Wrap(ErrInvalidConfig, "database.keep_import_logs cannot be negative")
	case !(c.Crypto.LocalRate > 0):
		return errors.Wrap(ErrInvalidConfig, "crypto.local_rate must be positive")
	case c.Feeds.Timeout < 0:
		return errors.Wrap(ErrInvalidConfig, "feeds.timeout cannot be negative")
	case strings.TrimSpace(c.Report.Currency) == "":
		return errors.Wrap(ErrInvalidConfig, "report.currency is required")
	case strings.TrimSpace(c.Ledger.ConfirmWord) == "":
		return errors.Wrap(ErrInvalidConfig, "ledger.confirm_word is required")
	default:
		return nil
	}
}
