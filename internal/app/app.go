// Package app wires configuration, logging and the two storage backends
// for the command binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"jobtrack.local/internal/config"
	"jobtrack.local/internal/csvstore"
	"jobtrack.local/internal/notion"
	"jobtrack.local/internal/store"
)

// OpenRelational opens the configured engine and migrates the schema.
func OpenRelational(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*store.Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = store.OpenPostgres(cfg.DSN, log)
	default:
		db, err = store.OpenSQLite(cfg.Path, log)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	st := store.New(db, store.WithLogger(log))
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	log.Info("relational store ready", "driver", cfg.Driver)
	return st, nil
}

func OpenCSV(cfg config.CSVConfig, log *slog.Logger) (*csvstore.Store, error) {
	policy, err := csvstore.ParseRenumberPolicy(cfg.Renumber)
	if err != nil {
		return nil, err
	}
	st, err := csvstore.Open(cfg.Path, csvstore.WithLogger(log), csvstore.WithRenumberPolicy(policy))
	if err != nil {
		return nil, err
	}
	log.Info("csv store ready", "path", cfg.Path, "renumber", policy)
	return st, nil
}

// OpenNotion returns a reachable Notion client, or nil when the mirror is
// disabled or the database cannot be reached.
func OpenNotion(ctx context.Context, cfg config.NotionConfig, log *slog.Logger) *notion.Client {
	if !cfg.Enabled() {
		return nil
	}
	nc := notion.New(cfg.Token, cfg.DatabaseID)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := nc.Ping(ctx); err != nil {
		log.Warn("notion ping failed, mirror disabled", "err", err)
		return nil
	}
	log.Info("notion mirror enabled", "database_id", cfg.DatabaseID, "token", Mask(cfg.Token))
	return nc
}

func Mask(s string) string {
	if len(s) <= 10 {
		return "****"
	}
	return s[:4] + "…" + s[len(s)-4:]
}
