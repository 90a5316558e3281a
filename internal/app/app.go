// Package app wires the VitalPulse components together and owns their
// lifecycle: hydrate from the store at startup, run the reminder scheduler
// and HTTP server, tear everything down on shutdown.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/just-rehan/vitality-companion/internal/api"
	"github.com/just-rehan/vitality-companion/internal/assist"
	"github.com/just-rehan/vitality-companion/internal/auth"
	"github.com/just-rehan/vitality-companion/internal/config"
	"github.com/just-rehan/vitality-companion/internal/metrics"
	"github.com/just-rehan/vitality-companion/internal/reminder"
	"github.com/just-rehan/vitality-companion/internal/session"
	"github.com/just-rehan/vitality-companion/internal/sos"
	"github.com/just-rehan/vitality-companion/internal/store"
	"github.com/just-rehan/vitality-companion/internal/tracker"
	"go.uber.org/zap"
)

type App struct {
	Config    *config.Config
	Store     *store.Store
	Logger    *zap.Logger
	Tracker   *tracker.Tracker
	Session   *session.Session
	Scheduler *reminder.Scheduler
	Server    *api.Server
	Version   string
}

func New(cfg *config.Config, logger *zap.Logger, version string) (*App, error) {
	st, err := store.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	tr := tracker.New(st, logger)
	sess := session.New()

	coordinator := sos.New(tr, logger, cfg.SOS.MapLinkBase, cfg.SOS.ShareLinkBase)
	assistant := assist.New(assist.NewClient(cfg.AI), st, logger)
	authService := auth.New(st, logger, cfg.Security.JWTSecret)
	m := metrics.New()

	server := api.New(cfg, st, tr, sess, coordinator, assistant, authService, m, logger)

	// Reminders land in the session notification slot and on every
	// connected websocket client.
	notifier := reminder.NotifierFunc(func(med tracker.Medication) {
		sess.SetNotification(fmt.Sprintf("Time for %s!", med.Name))
		m.RemindersFired.Inc()
	})

	scheduler := reminder.New(tr, notifier, logger).
		WithInterval(time.Duration(cfg.Reminders.IntervalSeconds) * time.Second)

	return &App{
		Config:    cfg,
		Store:     st,
		Logger:    logger,
		Tracker:   tr,
		Session:   sess,
		Scheduler: scheduler,
		Server:    server,
		Version:   version,
	}, nil
}

// Run starts the scheduler and HTTP server, then blocks until SIGINT or
// SIGTERM.
func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if app.Config.Reminders.Enabled {
		if err := app.Scheduler.Start(ctx); err != nil {
			app.Logger.Error("Failed to start reminder scheduler", zap.Error(err))
		}
	}

	go func() {
		if err := app.Server.Start(); err != nil {
			app.Logger.Fatal("Server error", zap.Error(err))
		}
	}()

	app.Logger.Info("Server started",
		zap.String("address", app.Config.Server.Address),
		zap.Int("port", app.Config.Server.Port),
		zap.String("url", fmt.Sprintf("http://localhost:%d", app.Config.Server.Port)),
		zap.String("version", app.Version),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info("Shutting down...")

	app.Scheduler.Stop()

	if err := app.Server.Shutdown(); err != nil {
		app.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := app.Store.Close(); err != nil {
		app.Logger.Error("Store close error", zap.Error(err))
	}
}
