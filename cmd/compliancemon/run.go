package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/playok/compliancemon/internal/api"
	"github.com/playok/compliancemon/internal/board"
	"github.com/playok/compliancemon/internal/config"
	"github.com/playok/compliancemon/internal/model"
	"github.com/playok/compliancemon/internal/reconcile"
	"github.com/playok/compliancemon/internal/scheduler"
	"github.com/playok/compliancemon/internal/source"
	"github.com/playok/compliancemon/internal/store"
	"github.com/playok/compliancemon/internal/telemetry"
	"github.com/playok/compliancemon/web"
)

func newRunCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the dashboard server in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

// newReconciler wires both source fetchers into a reconciler.
func newReconciler(cfg *config.Config, log logrus.FieldLogger, m *telemetry.Metrics) *reconcile.Reconciler {
	fc := source.Config{Timeout: cfg.FetchTimeout, Logger: log, Metrics: m}
	return reconcile.New(
		source.NewSourceA(cfg.SourceABase(), fc),
		source.NewSourceB(cfg.SourceBBase(), fc),
		log,
	)
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	// Open store
	db, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Restore the last good snapshot so the dashboard is not empty until the first pass
	b := board.New()
	if snap, err := db.LoadSnapshot(); err != nil {
		log.WithError(err).Warn("failed to restore last snapshot")
	} else if snap != nil {
		b.Restore(snap)
		log.WithField("pass", snap.PassID).Info("restored last snapshot")
	}

	metrics := telemetry.NewMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	sched := scheduler.New(newReconciler(cfg, log, metrics), b,
		scheduler.WithLogger(log),
		scheduler.WithMetrics(metrics),
	)

	// Create WebSocket hub
	hub := api.NewHub(b, log)
	go hub.Run(ctx)

	// Wire board to hub and store
	b.Subscribe(hub.Broadcast)
	b.Subscribe(func(snap *model.Snapshot) {
		if !snap.OK() {
			return
		}
		if err := db.SaveSnapshot(snap); err != nil {
			log.WithError(err).Warn("failed to persist snapshot")
		}
	})

	if err := sched.Start(ctx); err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Board:     b,
		Refresher: sched,
		Hub:       hub,
		Gatherer:  reg,
		Config:    cfg,
		Static:    web.StaticHandler(cfg.BasePath),
		Logger:    log,
	})

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"version":   version,
			"listen":    cfg.Listen,
			"base_path": cfg.BasePath,
			"source_a":  cfg.SourceABase(),
			"source_b":  cfg.SourceBBase(),
		}).Info("compliancemon listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		sched.Stop()
		return err
	}
	log.Info("shutting down...")

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sched.Stop()
	srv.Shutdown(shutCtx)

	log.Info("goodbye")
	return nil
}
