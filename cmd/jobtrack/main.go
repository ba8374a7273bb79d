package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"jobtrack.local/internal/app"
	"jobtrack.local/internal/cli"
	"jobtrack.local/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "jobtrack:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := app.OpenRelational(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("close store", "err", err)
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		fmt.Println("Database initialized:", cfg.Database.Path)
	}

	opts := []cli.Option{cli.WithLogger(log)}
	if nc := app.OpenNotion(ctx, cfg.Notion, log); nc != nil {
		opts = append(opts, cli.WithMirror(nc))
	}

	menu := cli.New(st, cli.Relational, os.Stdin, os.Stdout, opts...)
	if err := menu.Run(ctx); err != nil {
		log.Error("menu stopped", slog.Any("err", err))
		return err
	}
	return nil
}
