package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxrisk/correlation"
	"github.com/rustyeddy/fxrisk/pkg/logger"
	"github.com/rustyeddy/fxrisk/risk"
)

// Config is the complete fxrisk configuration
type Config struct {
	Account      AccountConfig      `json:"account" yaml:"account"`
	Risk         RiskConfig         `json:"risk" yaml:"risk"`
	Correlations CorrelationsConfig `json:"correlations" yaml:"correlations"`
	Journal      JournalConfig      `json:"journal" yaml:"journal"`
	Server       ServerConfig       `json:"server" yaml:"server"`
	Log          LogConfig          `json:"log" yaml:"log"`
}

// AccountConfig is the account used when a request does not carry a balance.
type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

type RiskConfig struct {
	MaxRiskPerTrade float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"`
}

// CorrelationsConfig points at an authored table. Empty means the built-in table.
type CorrelationsConfig struct {
	TablePath string `json:"table_path,omitempty" yaml:"table_path,omitempty"`
}

// JournalConfig enables the SQLite journal when DBPath is set.
type JournalConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance < 0 {
		return fmt.Errorf("account.balance must not be negative")
	}
	if c.Risk.MaxRiskPerTrade <= 0 || c.Risk.MaxRiskPerTrade > 1 {
		return fmt.Errorf("risk.max_risk_per_trade must be between 0 and 1")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency: "USD",
			Balance:  100000,
		},
		Risk: RiskConfig{
			MaxRiskPerTrade: risk.DefaultMaxRiskPerTrade,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyEnv loads a .env file if present and overrides fields from FXRISK_*
// variables. Malformed numbers are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	if v := os.Getenv("FXRISK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FXRISK_LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FXRISK_LOG_PRETTY: %w", err)
		}
		c.Log.Pretty = b
	}
	if v := os.Getenv("FXRISK_JOURNAL_DB"); v != "" {
		c.Journal.DBPath = v
	}
	if v := os.Getenv("FXRISK_CORRELATION_TABLE"); v != "" {
		c.Correlations.TablePath = v
	}
	if v := os.Getenv("FXRISK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FXRISK_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("FXRISK_ACCOUNT_BALANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FXRISK_ACCOUNT_BALANCE: %w", err)
		}
		c.Account.Balance = f
	}
	if v := os.Getenv("FXRISK_MAX_RISK_PER_TRADE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FXRISK_MAX_RISK_PER_TRADE: %w", err)
		}
		c.Risk.MaxRiskPerTrade = f
	}
	return nil
}

// CorrelationTable loads the configured table, or the built-in one.
func (c *Config) CorrelationTable() (correlation.Table, error) {
	if c.Correlations.TablePath == "" {
		return correlation.Default(), nil
	}
	return correlation.LoadFile(c.Correlations.TablePath)
}

func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Pretty: c.Log.Pretty}
}
