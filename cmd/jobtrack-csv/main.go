package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jobtrack.local/internal/app"
	"jobtrack.local/internal/cli"
	"jobtrack.local/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "jobtrack-csv:", err)
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

	st, err := app.OpenCSV(cfg.CSV, log)
	if err != nil {
		return err
	}
	defer st.Close()

	menu := cli.New(st, cli.FlatFile, os.Stdin, os.Stdout, cli.WithLogger(log))
	return menu.Run(ctx)
}
