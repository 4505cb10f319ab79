// Package main boots the Brand Price Service HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/brand-price-service/internal/config"
	httpapi "github.com/fairyhunter13/brand-price-service/internal/http"
	"github.com/fairyhunter13/brand-price-service/internal/obs"
	"github.com/fairyhunter13/brand-price-service/internal/persist"
	"github.com/fairyhunter13/brand-price-service/internal/seed"
	"github.com/fairyhunter13/brand-price-service/internal/storage"
	"github.com/fairyhunter13/brand-price-service/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		obs.Logger.Error("storage_open_error", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	brands, err := repo.LoadAll(loadCtx)
	loadCancel()
	if err != nil {
		obs.Logger.Error("storage_load_error", "error", err)
		os.Exit(1)
	}

	seeded := false
	if len(brands) == 0 {
		brands, err = seed.Load(cfg.SeedPath)
		if err != nil {
			obs.Logger.Error("seed_load_error", "path", cfg.SeedPath, "error", err)
			os.Exit(1)
		}
		seeded = true
		obs.Logger.Info("seed_loaded", "brand_count", len(brands))
	} else {
		obs.Logger.Info("storage_loaded", "brand_count", len(brands))
	}

	st := store.New()
	seqs := st.Load(brands)

	q := persist.NewQueue(128)
	mgr := persist.NewManager(cfg, q, repo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)

	// A fresh database gets the seed catalog written through the normal
	// write-behind path, so storage and matrix agree from the first request.
	if seeded {
		for _, b := range brands {
			mgr.EnqueueSave(b, seqs[b.ID])
		}
	}

	app := httpapi.NewApp(cfg, st, mgr)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "backlog_size", mgr.BacklogSize(), "worker_count", mgr.WorkerCount())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	mgr.Stop()
	if err := repo.Close(); err != nil {
		obs.Logger.Error("storage_close_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
