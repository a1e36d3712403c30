package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/karimata/healthbook/internal/alarm"
	"github.com/karimata/healthbook/internal/backup"
	"github.com/karimata/healthbook/internal/calendar"
	"github.com/karimata/healthbook/internal/config"
	mwlogger "github.com/karimata/healthbook/internal/delivery/http/middleware/logger"
	v1 "github.com/karimata/healthbook/internal/delivery/http/v1"
	"github.com/karimata/healthbook/internal/healthlog"
	"github.com/karimata/healthbook/internal/settings"
	"github.com/karimata/healthbook/pkg/logger"
)

func SetupRouter(
	l *logger.Logger,
	cfg *config.Config,
	alarms *alarm.Controller,
	logs *healthlog.Service,
	prefs *settings.Store,
	backups *backup.Service,
	feed *calendar.Feed,
) http.Handler {
	s := chi.NewRouter()
	s.Use(middleware.RequestID)
	s.Use(mwlogger.New(l))
	s.Use(middleware.Recoverer)
	s.Use(corsMiddleware(cfg))

	s.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.Mount("/v1", v1.NewRouter(l, alarms, logs, prefs, backups, feed))

	return s
}

func corsMiddleware(cfg *config.Config) func(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORS.AllowedOrigins,
		AllowedMethods:   cfg.HTTP.CORS.AllowedMethods,
		AllowedHeaders:   cfg.HTTP.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.HTTP.CORS.ExposedHeaders,
		AllowCredentials: cfg.HTTP.CORS.AllowCredentials,
		Debug:            cfg.HTTP.CORS.Debug,
	})
	return c.Handler
}
