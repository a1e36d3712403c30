package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karimata/healthbook/internal/settings"
	"github.com/karimata/healthbook/pkg/logger"
)

type settingsRoutes struct {
	s *settings.Store
	l *logger.Logger
	v *validator.Validate
}

func newSettingsRoutes(r chi.Router, l *logger.Logger, v *validator.Validate, s *settings.Store) {
	routes := &settingsRoutes{s: s, l: l, v: v}

	r.Get("/settings", routes.get)
	r.Put("/settings", routes.put)
}

type settingsPayload struct {
	TimeFormat string `json:"timeFormat" validate:"omitempty,oneof=auto h12 h24"`
	Weather    string `json:"weather"    validate:"omitempty,oneof=on off"`
}

func (routes *settingsRoutes) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsPayload{
		TimeFormat: string(routes.s.TimeFormat()),
		Weather:    string(routes.s.Weather()),
	})
}

// put applies partial updates: fields left empty keep their stored value.
func (routes *settingsRoutes) put(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, routes.l, err)
		return
	}
	if err := routes.v.Struct(req); err != nil {
		respondError(w, routes.l, err)
		return
	}

	ctx := r.Context()
	if req.TimeFormat != "" {
		if err := routes.s.SetTimeFormat(ctx, settings.TimeFormat(req.TimeFormat)); err != nil {
			respondError(w, routes.l, err)
			return
		}
	}
	if req.Weather != "" {
		if err := routes.s.SetWeather(ctx, settings.WeatherSetting(req.Weather)); err != nil {
			respondError(w, routes.l, err)
			return
		}
	}
	routes.get(w, r)
}
