package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
)

type errorResponse struct {
	Error    string   `json:"error"`
	Detalles []string `json:"detalles,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps typed domain errors onto HTTP status codes. Anything
// untyped is a 500 with a generic message; the real cause only goes to
// the log.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var (
		validationErr   *domain.ValidationError
		notFoundErr     *domain.NotFoundError
		conflictErr     *domain.ConflictError
		forbiddenErr    *domain.ForbiddenError
		unauthorizedErr *domain.UnauthorizedError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Msg, Detalles: validationErr.Details})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundErr.Msg})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflictErr.Msg})
	case errors.As(err, &forbiddenErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: forbiddenErr.Msg})
	case errors.As(err, &unauthorizedErr):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: unauthorizedErr.Msg})
	default:
		log.Errorf("Unhandled error in HTTP handler: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
