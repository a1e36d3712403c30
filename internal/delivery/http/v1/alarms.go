package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karimata/healthbook/internal/alarm"
	"github.com/karimata/healthbook/pkg/logger"
)

type alarmRoutes struct {
	c *alarm.Controller
	l *logger.Logger
	v *validator.Validate
}

func newAlarmRoutes(r chi.Router, l *logger.Logger, v *validator.Validate, c *alarm.Controller) {
	routes := &alarmRoutes{c: c, l: l, v: v}

	r.Route("/alarms", func(r chi.Router) {
		r.Get("/", routes.list)
		r.Post("/", routes.create)
		r.Get("/{id}", routes.get)
		r.Put("/{id}", routes.update)
		r.Delete("/{id}", routes.delete)
		r.Post("/{id}/complete", routes.complete)
		r.Post("/{id}/skip", routes.skip)
		r.Post("/{id}/snooze", routes.snooze)
		r.Post("/{id}/autosnooze", routes.autoSnooze)
	})
}

type reservationRequest struct {
	Time             time.Time `json:"time" validate:"required"`
	Title            string    `json:"title"`
	Detail           string    `json:"detail"`
	RepeatPattern    string    `json:"repeatPattern" validate:"omitempty,oneof=none daily weekly biweekly triweekly fourweekly"`
	Days             []int     `json:"days" validate:"dive,gte=0,lte=6"`
	MedicationName   string    `json:"medicationName"`
	MedicationAmount string    `json:"medicationAmount"`
	MedicationUnit   string    `json:"medicationUnit"`
	SoundKey         string    `json:"soundKey"`
}

func (req *reservationRequest) toReservation() alarm.Reservation {
	r := alarm.Reservation{
		Time:     req.Time,
		Title:    req.Title,
		Detail:   req.Detail,
		Pattern:  alarm.RepeatPattern(req.RepeatPattern),
		SoundKey: req.SoundKey,
	}
	for _, d := range req.Days {
		r.Days = append(r.Days, time.Weekday(d))
	}
	if req.MedicationName != "" {
		r.Medication = &alarm.Medication{
			Name:   req.MedicationName,
			Amount: req.MedicationAmount,
			Unit:   req.MedicationUnit,
		}
	}
	return r
}

type scheduledResponse struct {
	ScheduledFor time.Time `json:"scheduledFor"`
}

func (routes *alarmRoutes) list(w http.ResponseWriter, r *http.Request) {
	alarms, err := routes.c.List(r.Context())
	if err != nil {
		respondError(w, routes.l, err)
		return
	}
	writeJSON(w, http.StatusOK, alarms)
}

func (routes *alarmRoutes) create(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, routes.l, err)
		return
	}
	if err := routes.v.Struct(req); err != nil {
		respondError(w, routes.l, err)
		return
	}

	at, err := routes.c.Create(r.Context(), req.toReservation())
	if err != nil {
		respondError(w, routes.l, err)
		return
	}
	writeJSON(w, http.StatusCreated, scheduledResponse{ScheduledFor: at})
}

func (routes *alarmRoutes) get(w http.ResponseWriter, r *http.Request) {
	a, err := routes.c.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, routes.l, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (routes *alarmRoutes) update(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, routes.l, err)
		return
	}
	if err := routes.v.Struct(req); err != nil {
		respondError(w, routes.l, err)
		return
	}

	at, err := routes.c.Update(r.Context(), chi.URLParam(r, "id"), req.toReservation())
	if err != nil {
		respondError(w, routes.l, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduledResponse{ScheduledFor: at})
}

func (routes *alarmRoutes) delete(w http.ResponseWriter, r *http.Request) {
	if err := routes.c.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, routes.l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (routes *alarmRoutes) complete(w http.ResponseWriter, r *http.Request) {
	if err := routes.c.Complete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, routes.l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (routes *alarmRoutes) skip(w http.ResponseWriter, r *http.Request) {
	if err := routes.c.Skip(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, routes.l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type snoozeRequest struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (routes *alarmRoutes) snooze(w http.ResponseWriter, r *http.Request) {
	// The body is optional: the snoozed copy reuses the stored record's
	// fields when none are given.
	var req snoozeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, routes.l, &badRequestError{err})
		return
	}

	if err := routes.c.Snooze(r.Context(), chi.URLParam(r, "id"), req.Title, req.Detail); err != nil {
		respondError(w, routes.l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (routes *alarmRoutes) autoSnooze(w http.ResponseWriter, r *http.Request) {
	if err := routes.c.AutoSnooze(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, routes.l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
