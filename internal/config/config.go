package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "LEDGER_"
	configFileEnv = "LEDGER_CONFIG_FILE"
)

type Config struct {
	DatabasePath       string
	CsvRoot            string
	DefaultAccountType string
	HTTPPort           string
	NumWorkers         int
	LogLevel           string
}

// defaults match the local development setup
var defaults = map[string]interface{}{
	"database_path":        "data/ledger.db",
	"csv_root":             "",
	"default_account_type": "other",
	"http_port":            "9446",
	"num_workers":          1,
	"log_level":            "info",
}

// ProcessEnvironmentVariables layers the defaults, an optional yaml file named
// by LEDGER_CONFIG_FILE, and LEDGER_* environment variables, later layers
// winning.
func ProcessEnvironmentVariables() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(configFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Config{
		DatabasePath:       k.String("database_path"),
		CsvRoot:            k.String("csv_root"),
		DefaultAccountType: k.String("default_account_type"),
		HTTPPort:           k.String("http_port"),
		NumWorkers:         k.Int("num_workers"),
		LogLevel:           k.String("log_level"),
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("database_path must not be empty")
	}
	if cfg.DefaultAccountType == "" {
		return nil, fmt.Errorf("default_account_type must not be empty")
	}
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}

	return &cfg, nil
}
