package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	logpkg "github.com/shylockwolf/ainote/internal/logger"
	"github.com/shylockwolf/ainote/internal/services/ai"
	"github.com/shylockwolf/ainote/internal/validation"
)

// AIHandler exposes the note analysis endpoint directly, without storing
// anything.
type AIHandler struct {
	gateway ai.Gateway
	logger  *zap.Logger
}

func NewAIHandler(gateway ai.Gateway, logger *zap.Logger) *AIHandler {
	return &AIHandler{gateway: gateway, logger: logger}
}

type analyzeRequest struct {
	Content string `json:"content" validate:"required"`
}

// Analyze runs the structured note analysis and returns the result as-is.
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil {
		respondError(w, http.StatusServiceUnavailable, "Service Unavailable", "No AI provider configured")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation Error", "Invalid JSON body")
		return
	}
	if !validateRequest(w, req) {
		return
	}

	req.Content = validation.SanitizeText(req.Content)
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "Validation Error", "content must not be empty")
		return
	}

	analysis, err := h.gateway.AnalyzeNote(r.Context(), req.Content)
	if err != nil {
		h.logger.Error("analyze_note_failed", zap.String("error", logpkg.SanitizeError(err)))
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}
