package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/ai"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/brain"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/database"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/notes"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/projects"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/tasks"
)

// userHeader names the owning user of every request.
const userHeader = "X-User-ID"

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

// requireUser resolves and validates the user header before the handler
// runs.
func (s *Server) requireUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userHeader)
		if _, err := uuid.Parse(userID); err != nil {
			writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
			return
		}
		next(w, r, userID)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the failure taxonomy onto HTTP statuses. Every
// failure is a visible JSON body, never a crash.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notes.ErrEmptyContent),
		errors.Is(err, tasks.ErrEmptyTitle),
		errors.Is(err, projects.ErrEmptyTitle),
		errors.Is(err, projects.ErrInvalidColor):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ai.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ai.ErrQuotaExceeded):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, ai.ErrMalformedResponse), errors.Is(err, ai.ErrTransport):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, brain.ErrRefreshInFlight),
		errors.Is(err, brain.ErrStaleResult),
		errors.Is(err, tasks.ErrMutationInFlight),
		errors.Is(err, projects.ErrMutationInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, brain.ErrNothingToAnalyze):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
