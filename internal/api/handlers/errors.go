package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/daily-checkin/internal/api/middleware"
	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// writeError maps a domain error kind to its status code. Client errors carry
// the error text; server errors are logged and answered generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrStorageUnavailable):
		logger.Error("storage unavailable", "method", r.Method, "path", r.URL.Path, "err", err)
		http.Error(w, "Storage unavailable", http.StatusServiceUnavailable)
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathUUID parses a chi URL parameter, answering 400 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}
