package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/karimata/healthbook/internal/alarm"
	"github.com/karimata/healthbook/internal/alarmclock"
	"github.com/karimata/healthbook/internal/backup"
	"github.com/karimata/healthbook/internal/calendar"
	"github.com/karimata/healthbook/internal/config"
	"github.com/karimata/healthbook/internal/healthlog"
	"github.com/karimata/healthbook/internal/settings"
	"github.com/karimata/healthbook/internal/storage/kv"
	"github.com/karimata/healthbook/pkg/badgerstore"
	"github.com/karimata/healthbook/pkg/httpserver"
	"github.com/karimata/healthbook/pkg/logger"
)

func Run(cfg *config.Config) {
	l := logger.New(cfg.Log.Level, cfg.App.Env)
	ctx := context.Background()

	// Storage
	db, err := badgerstore.New(cfg.Storage.Path,
		badgerstore.SyncWrites(cfg.Storage.SyncWrites),
		badgerstore.GCInterval(cfg.Storage.GCInterval),
		badgerstore.Logger(l.Logger),
	)
	if err != nil {
		l.Error("app - Run - badgerstore.New", logger.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	store := kv.New(db)

	prefs := settings.New(store)
	if err := prefs.Load(ctx); err != nil {
		l.Error("app - Run - settings.Load", logger.Err(err))
		os.Exit(1)
	}

	// Alarm scheduling
	clock := alarmclock.New(l, nil)
	defer clock.Close()

	alarms := alarm.NewController(alarm.NewStore(store), clock, l, alarm.Durations{
		Snooze:          cfg.Alarm.SnoozeAfter,
		AutoSnooze:      cfg.Alarm.AutoSnoozeAfter,
		AutoSnoozeGuard: cfg.Alarm.AutoSnoozeGuard,
	})
	if err := alarms.Rearm(ctx); err != nil {
		l.Error("app - Run - alarms.Rearm", logger.Err(err))
		os.Exit(1)
	}

	logs := healthlog.NewService(store)
	backups := backup.NewService(logs, alarms)
	feed := calendar.NewFeed(alarms)

	// HTTP Server
	router := SetupRouter(l, cfg, alarms, logs, prefs, backups, feed)

	httpServer := httpserver.New(router,
		httpserver.Addr(cfg.HTTP.IP, cfg.HTTP.Port),
		httpserver.ReadTimeout(cfg.HTTP.Timeout),
		httpserver.WriteTimeout(cfg.HTTP.Timeout),
	)
	l.Info("app - Run - listening", "addr", cfg.HTTP.IP+":"+cfg.HTTP.Port)

	// Waiting signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: " + s.String())
	case err = <-httpServer.Notify():
		l.Error("app - Run - httpServer.Notify", logger.Err(err))
	}

	// Shutdown
	if err := httpServer.Shutdown(); err != nil {
		l.Error("app - Run - httpServer.Shutdown", logger.Err(err))
	}
}
