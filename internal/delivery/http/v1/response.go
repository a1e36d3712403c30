package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/karimata/healthbook/internal/alarm"
	"github.com/karimata/healthbook/internal/backup"
	"github.com/karimata/healthbook/internal/healthlog"
	"github.com/karimata/healthbook/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &badRequestError{fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

// badRequestError marks malformed input detected before it reaches a
// service, so respondError can tell it apart from an internal failure.
type badRequestError struct{ err error }

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func respondError(w http.ResponseWriter, l *logger.Logger, err error) {
	var (
		alarmVal  *alarm.ValidationError
		logVal    *healthlog.ValidationError
		fieldErrs validator.ValidationErrors
		badReq    *badRequestError
	)

	switch {
	case errors.As(err, &alarmVal),
		errors.As(err, &logVal),
		errors.As(err, &fieldErrs),
		errors.As(err, &badReq),
		errors.Is(err, backup.ErrInvalidPayload):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, alarm.ErrNotFound), errors.Is(err, healthlog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		l.Error("request failed", logger.Err(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
