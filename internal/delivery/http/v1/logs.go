package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karimata/healthbook/internal/healthlog"
	"github.com/karimata/healthbook/pkg/logger"
)

func newLogRoutes(r chi.Router, l *logger.Logger, logs *healthlog.Service) {
	r.Route("/logs", func(r chi.Router) {
		mountCollection(r, l, "/health", logs.Health)
		mountCollection(r, l, "/medication", logs.Medication)
		mountCollection(r, l, "/blood-pressure", logs.BloodPressure)
		mountCollection(r, l, "/weight", logs.Weight)
		mountCollection(r, l, "/blood-sugar", logs.BloodSugar)
		mountCollection(r, l, "/temperature", logs.Temperature)
		mountCollection(r, l, "/visit", logs.Visit)
	})
}

// mountCollection wires the uniform CRUD surface every log list shares.
// Validation lives in the collection itself, so the handlers only move
// JSON in and out.
func mountCollection[T any](r chi.Router, l *logger.Logger, path string, col *healthlog.Collection[T]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			recs, err := col.List(r.Context())
			if err != nil {
				respondError(w, l, err)
				return
			}
			writeJSON(w, http.StatusOK, recs)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var rec T
			if err := decodeJSON(r, &rec); err != nil {
				respondError(w, l, err)
				return
			}
			created, err := col.Add(r.Context(), rec)
			if err != nil {
				respondError(w, l, err)
				return
			}
			writeJSON(w, http.StatusCreated, created)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var rec T
			if err := decodeJSON(r, &rec); err != nil {
				respondError(w, l, err)
				return
			}
			if err := col.Replace(r.Context(), chi.URLParam(r, "id"), rec); err != nil {
				respondError(w, l, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := col.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				respondError(w, l, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}
