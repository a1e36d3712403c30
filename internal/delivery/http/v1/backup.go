package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karimata/healthbook/internal/backup"
	"github.com/karimata/healthbook/pkg/logger"
)

type backupRoutes struct {
	s *backup.Service
	l *logger.Logger
}

func newBackupRoutes(r chi.Router, l *logger.Logger, s *backup.Service) {
	routes := &backupRoutes{s: s, l: l}

	r.Get("/backup", routes.export)
	r.Post("/backup", routes.restore)
}

func (routes *backupRoutes) export(w http.ResponseWriter, r *http.Request) {
	p, err := routes.s.Export(r.Context())
	if err != nil {
		respondError(w, routes.l, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="healthbook-backup.json"`)
	writeJSON(w, http.StatusOK, p)
}

func (routes *backupRoutes) restore(w http.ResponseWriter, r *http.Request) {
	var p backup.Payload
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, routes.l, err)
		return
	}
	if err := routes.s.Restore(r.Context(), &p); err != nil {
		respondError(w, routes.l, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
