package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karimata/healthbook/internal/calendar"
	"github.com/karimata/healthbook/pkg/logger"
)

func newCalendarRoutes(r chi.Router, l *logger.Logger, feed *calendar.Feed) {
	r.Get("/calendar.ics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		if err := feed.WriteTo(r.Context(), w); err != nil {
			l.Error("calendar feed failed", logger.Err(err))
		}
	})
}
