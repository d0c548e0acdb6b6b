// Package main writes the attendance CSV report from the configured storage
// without starting the API server.
//
// Usage:
//
//	export [-out attendance_report.csv] [-env .env]
//
// Use -out - to write to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alem-hub/attendance-tracker/config"
	"github.com/alem-hub/attendance-tracker/internal/application/report"
	"github.com/alem-hub/attendance-tracker/internal/application/tracker"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/attendance-tracker/internal/infrastructure/persistence/snapshot"
	"github.com/alem-hub/attendance-tracker/pkg/logger"
)

func main() {
	out := flag.String("out", report.FileName, "output file, or - for stdout")
	envFile := flag.String("env", ".env", "dotenv file to load if present")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *out, *envFile); err != nil {
		if errors.Is(err, shared.ErrNothingToExport) {
			fmt.Fprintln(os.Stderr, "No data to export")
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Logs go to stderr so "-out -" yields a clean CSV on stdout.
	log := logger.New(logger.Options{
		Output: os.Stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	}).With(logger.Component("export"))

	backend, err := persistence.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer backend.Close()

	repo := snapshot.New(backend.Storage, log, snapshot.WithKey(cfg.Storage.Key))
	tr, err := tracker.New(ctx, repo, log, tracker.WithLocation(cfg.App.Location))
	if err != nil {
		return err
	}

	rep, err := tr.Export(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(rep.Body); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info("report written",
		logger.String("path", out),
		logger.Int("students", rep.Students),
		logger.Int("dates", rep.Dates),
	)
	return nil
}
