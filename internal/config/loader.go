package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigFile = "config.yaml"

// Load builds the Config for either binary. A .env file in the working
// directory is loaded first and never overrides variables already set.
// Environment variables win over config.yaml, which wins over tag defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := read(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func read(cfg *Config) error {
	path, required := configFile()
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	case required:
		return fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("config: read env: %w", err)
		}
	}
	return nil
}

// configFile reports which YAML file to read and whether it must exist.
// CONFIG_PATH names a required file; otherwise config.yaml is optional.
func configFile() (string, bool) {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p, true
	}
	return defaultConfigFile, false
}
