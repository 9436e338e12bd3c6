package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shylockwolf/ainote/internal/database"
	"github.com/shylockwolf/ainote/internal/services/ai"
	"github.com/shylockwolf/ainote/internal/validation"
)

// respondJSON writes v as the raw response payload.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondSuccess writes the {"success": true} acknowledgment used by the
// mutation endpoints.
func respondSuccess(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// respondError writes the uniform error body.
func respondError(w http.ResponseWriter, status int, errorType, message string) {
	if len(message) > 200 {
		message = message[:200] + "..."
	}
	respondJSON(w, status, map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// validateRequest runs struct validation on a decoded request body and
// writes the 400 response itself on failure.
func validateRequest(w http.ResponseWriter, req any) bool {
	err := validation.Validate.Struct(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation Error", "Validation failed: "+validationErrors[0].Error())
		return false
	}
	respondError(w, http.StatusBadRequest, "Validation Error", "Validation failed")
	return false
}

// respondDomainError maps the error taxonomy onto HTTP statuses:
// ValidationError 400, UpstreamError and ParseError 502 (distinct error
// types in the body), StorageError and everything else 500.
func respondDomainError(w http.ResponseWriter, err error) {
	var validationErr *database.ValidationError
	var storageErr *database.StorageError
	var upstreamErr *ai.UpstreamError
	var parseErr *ai.ParseError

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "Validation Error", validationErr.Error())
	case errors.As(err, &upstreamErr):
		respondError(w, http.StatusBadGateway, "Upstream Error", upstreamErr.Error())
	case errors.As(err, &parseErr):
		respondError(w, http.StatusBadGateway, "Parse Error", parseErr.Error())
	case errors.As(err, &storageErr):
		respondError(w, http.StatusInternalServerError, "Storage Error", "Failed to access the note store")
	default:
		respondError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}
