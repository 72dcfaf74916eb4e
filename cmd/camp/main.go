// Copyright (c) 2026 camp-sub001 contributors.

/*
Camp is the entry point for the media-library toolkit: it loads the
sibling ".rn" configuration, opens the embedded SQLite database, loads
every chiaki entity store and the nadeshiko rules ledger, then starts
ayano's local HTTP surface and aoi's remote-control listener against one
shared orchestrator.

Usage:

	camp

Configuration is read from a ".rn" file sibling to the executable (see
internal/platform/config). No flags or environment variables are consumed
directly by this binary.

Startup Sequence:

 1. Logger: initialize structured JSON logging (slog).
 2. Config: load the sibling ".rn" file.
 3. Storage: open the embedded SQLite database.
 4. Stores: load every chiaki entity store, wire candidate claims into series.
 5. Ledger: load the nadeshiko rules ledger.
 6. Wiring: construct the shared orchestrator and the akari HTTP client.
 7. Servers: start ayano (HTTP) and aoi (remote control), handle graceful
    shutdown.

No business logic lives here. This file is strictly for orchestration and
wiring.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/367718/camp-sub001/internal/akari"
	"github.com/367718/camp-sub001/internal/aoi"
	"github.com/367718/camp-sub001/internal/ayano"
	"github.com/367718/camp-sub001/internal/chiaki/candidates"
	"github.com/367718/camp-sub001/internal/chiaki/feeds"
	"github.com/367718/camp-sub001/internal/chiaki/formats"
	"github.com/367718/camp-sub001/internal/chiaki/kinds"
	"github.com/367718/camp-sub001/internal/chiaki/persistence"
	"github.com/367718/camp-sub001/internal/chiaki/series"
	"github.com/367718/camp-sub001/internal/nadeshiko/ledger"
	"github.com/367718/camp-sub001/internal/orchestrator"
	"github.com/367718/camp-sub001/internal/platform/config"
	"github.com/367718/camp-sub001/internal/platform/constants"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application_startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// # 1. Logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log = log.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("camp_initializing")

	// # 2. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	exeDir := filepath.Dir(exe)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.GlobalRequestTimeout)
	defer startupCancel()

	// # 3. Storage
	dbName := cfg.String(config.KeyName, "camp.db")
	db, err := persistence.Open(startupCtx, filepath.Join(exeDir, dbName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// # 4. Entity stores
	kindsStore := kinds.NewStore(kinds.NewAdapter(db))
	if err := kindsStore.Load(startupCtx); err != nil {
		return fmt.Errorf("load kinds: %w", err)
	}

	formatsStore := formats.NewStore(formats.NewAdapter(db))
	if err := formatsStore.Load(startupCtx); err != nil {
		return fmt.Errorf("load formats: %w", err)
	}

	feedsStore := feeds.NewStore(feeds.NewAdapter(db))
	if err := feedsStore.Load(startupCtx); err != nil {
		return fmt.Errorf("load feeds: %w", err)
	}

	seriesStore := series.NewStore(series.NewAdapter(db))
	if err := seriesStore.Load(startupCtx); err != nil {
		return fmt.Errorf("load series: %w", err)
	}

	candidatesStore := candidates.NewStore(candidates.NewAdapter(db))
	if err := candidatesStore.Load(startupCtx); err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}

	// Series never imports candidates directly; claims are injected here.
	seriesStore.SetClaims(candidatesStore.Claims())

	// # 5. Ledger
	ledgerPath := strings.TrimSuffix(exe, filepath.Ext(exe)) + ".ck"
	rulesLedger, err := ledger.Load(ledgerPath)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	// # 6. Wiring
	folder := cfg.String(config.KeyFolder, exeDir)
	fetcher := akari.New(akari.DefaultTimeout)

	orch := orchestrator.New(kindsStore, formatsStore, feedsStore, seriesStore, candidatesStore, rulesLedger, fetcher, folder)

	// # 7. Servers
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	address := cfg.String(config.KeyAddress, "127.0.0.1:8487")
	server := ayano.NewServer(appCtx, address, orch, log)

	bindPath := cfg.String(config.KeyBind, filepath.Join(exeDir, "camp.sock"))
	listener, err := aoi.Listen(bindPath, orch, log)
	if err != nil {
		return fmt.Errorf("start remote control listener: %w", err)
	}

	shutdownErr := make(chan error, 2)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownErr <- fmt.Errorf("ayano_crash: %w", err)
		}
	}()

	go func() {
		if err := listener.Serve(appCtx); err != nil {
			shutdownErr <- fmt.Errorf("aoi_crash: %w", err)
		}
	}()

	log.Info("camp_running", slog.String("address", address), slog.String("bind", bindPath))

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-shutdownErr:
		appCancel()
		return err
	}

	appCancel()

	log.Info("shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("ayano_shutdown_failed: %w", err)
	}

	log.Info("graceful_shutdown_complete")
	return nil
}
