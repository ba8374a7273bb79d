package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	validDrivers   = []string{"sqlite", "postgres"}
	validRenumber  = []string{"greater", "legacy"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"text", "json"}
)

func (c *Config) normalize() {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.CSV.Renumber = strings.ToLower(strings.TrimSpace(c.CSV.Renumber))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Notion.DatabaseID = NormalizeNotionID(c.Notion.DatabaseID)
	c.Notion.Token = strings.TrimSpace(c.Notion.Token)
}

// NormalizeNotionID removes dashes if present.
func NormalizeNotionID(id string) string {
	id = strings.TrimSpace(id)
	return strings.ReplaceAll(id, "-", "")
}

// Validate checks the loaded configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(validDrivers, c.Database.Driver) {
		errs = append(errs, fmt.Errorf("database.driver must be one of %v, got %q", validDrivers, c.Database.Driver))
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required for sqlite"))
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required for postgres"))
	}
	if c.CSV.Path == "" {
		errs = append(errs, errors.New("csv.path is required"))
	}
	if !slices.Contains(validRenumber, c.CSV.Renumber) {
		errs = append(errs, fmt.Errorf("csv.renumber must be one of %v, got %q", validRenumber, c.CSV.Renumber))
	}
	if (c.Notion.Token == "") != (c.Notion.DatabaseID == "") {
		errs = append(errs, errors.New("notion.token and notion.database_id must be set together"))
	}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of %v, got %q", validLogLevels, c.Log.Level))
	}
	if !slices.Contains(validFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v, got %q", validFormats, c.Log.Format))
	}

	return errors.Join(errs...)
}
