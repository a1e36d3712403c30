// Package v1 implements the JSON API.
package v1

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karimata/healthbook/internal/alarm"
	"github.com/karimata/healthbook/internal/backup"
	"github.com/karimata/healthbook/internal/calendar"
	"github.com/karimata/healthbook/internal/healthlog"
	"github.com/karimata/healthbook/internal/settings"
	"github.com/karimata/healthbook/pkg/logger"
)

// NewRouter mounts every v1 route group.
func NewRouter(
	l *logger.Logger,
	alarms *alarm.Controller,
	logs *healthlog.Service,
	prefs *settings.Store,
	backups *backup.Service,
	feed *calendar.Feed,
) chi.Router {
	v := validator.New()
	r := chi.NewRouter()

	newAlarmRoutes(r, l, v, alarms)
	newLogRoutes(r, l, logs)
	newSettingsRoutes(r, l, v, prefs)
	newBackupRoutes(r, l, backups)
	newCalendarRoutes(r, l, feed)

	return r
}
