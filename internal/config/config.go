// Package config handles configuration management for finwarehouse.
// Values come from an optional .env file, a YAML config file and CLI
// flags; flags take precedence over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for finwarehouse.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Warehouse holds the target database configuration.
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// Generate holds defaults for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Serve holds configuration for the HTTP API.
	Serve ServeConfig `mapstructure:"serve"`
}

// WarehouseConfig describes the warehouse connection.
type WarehouseConfig struct {
	// Driver selects the backend: "postgres" or "snowflake".
	Driver string `mapstructure:"driver"`

	// DSN is the connection string for the postgres driver.
	DSN string `mapstructure:"dsn"`

	// Snowflake connection parameters, used when Driver is "snowflake".
	Account   string `mapstructure:"account"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

// GenerateConfig holds defaults for data generation.
type GenerateConfig struct {
	// Customers, Merchants and Transactions are the record counts.
	Customers    int `mapstructure:"customers"`
	Merchants    int `mapstructure:"merchants"`
	Transactions int `mapstructure:"transactions"`

	// Seed makes a run reproducible. Zero picks a time-based seed.
	Seed uint64 `mapstructure:"seed"`

	// AccountsMin/AccountsMax bound accounts per customer.
	AccountsMin int `mapstructure:"accounts_min"`
	AccountsMax int `mapstructure:"accounts_max"`

	// WindowDays is the length of the historical transaction window.
	WindowDays int `mapstructure:"window_days"`
}

// ServeConfig holds HTTP API configuration.
type ServeConfig struct {
	// Listen is the address the API binds to.
	Listen string `mapstructure:"listen"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Warehouse: WarehouseConfig{
			Driver: "postgres",
			Schema: "PUBLIC",
		},
		Generate: GenerateConfig{
			Customers:    100,
			Merchants:    50,
			Transactions: 1000,
			AccountsMin:  1,
			AccountsMax:  3,
			WindowDays:   365,
		},
		Serve: ServeConfig{
			Listen: ":8080",
		},
	}
}

// Load reads configuration. A .env file in the working directory is
// loaded into the environment first (credentials usually live there),
// then the YAML config file:
// 1. Path specified by configFile parameter
// 2. ./finwarehouse.yaml
// 3. ~/.config/finwarehouse/config.yaml
// Environment variables prefixed FINWAREHOUSE_ override file values.
func Load(configFile string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("finwarehouse")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "finwarehouse"))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetEnvPrefix("FINWAREHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that a warehouse target is fully specified.
func (c *Config) Validate() error {
	switch c.Warehouse.Driver {
	case "postgres":
		if c.Warehouse.DSN == "" {
			return fmt.Errorf("warehouse dsn is required for the postgres driver")
		}
	case "snowflake":
		if c.Warehouse.Account == "" || c.Warehouse.Username == "" {
			return fmt.Errorf("warehouse account and username are required for the snowflake driver")
		}
		if c.Warehouse.Database == "" {
			return fmt.Errorf("warehouse database is required for the snowflake driver")
		}
	default:
		return fmt.Errorf("warehouse driver must be 'postgres' or 'snowflake', got %q", c.Warehouse.Driver)
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Generate.Customers < 1 || c.Generate.Merchants < 1 || c.Generate.Transactions < 1 {
		return fmt.Errorf("customers, merchants and transactions counts must be positive")
	}
	if c.Generate.AccountsMin < 1 || c.Generate.AccountsMax < c.Generate.AccountsMin {
		return fmt.Errorf("accounts per customer range [%d,%d] is invalid",
			c.Generate.AccountsMin, c.Generate.AccountsMax)
	}
	if c.Generate.WindowDays < 1 {
		return fmt.Errorf("window_days must be at least 1")
	}
	return nil
}

// ValidateServe checks configuration required for the serve command.
func (c *Config) ValidateServe() error {
	if c.Serve.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}
