package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shylockwolf/ainote/internal/database"
	logpkg "github.com/shylockwolf/ainote/internal/logger"
	"github.com/shylockwolf/ainote/internal/models"
	"github.com/shylockwolf/ainote/internal/validation"
	"github.com/shylockwolf/ainote/internal/workspace"
)

// DocumentHandler serves the document workspace: one shared buffer, the
// collect flow, AI transforms, and the local formatter.
type DocumentHandler struct {
	workspace *workspace.Workspace
	store     database.NoteStore
	logger    *zap.Logger
}

func NewDocumentHandler(ws *workspace.Workspace, store database.NoteStore, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{workspace: ws, store: store, logger: logger}
}

type documentState struct {
	Content string `json:"content"`
	Context string `json:"context"`
	Busy    bool   `json:"busy"`
}

type setDocumentRequest struct {
	Content string `json:"content"`
}

type collectRequest struct {
	Tags []string `json:"tags"`
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

// Get returns the current buffer, the collected notes context, and whether
// an AI action is in flight.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	content, noteContext, busy := h.workspace.Content()
	respondJSON(w, http.StatusOK, documentState{Content: content, Context: noteContext, Busy: busy})
}

// Set replaces the buffer with the request content.
func (h *DocumentHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation Error", "Invalid JSON body")
		return
	}
	h.workspace.SetContent(req.Content)
	respondSuccess(w)
}

// Collect loads the notes matching the selected tags into the workspace,
// replacing both the buffer and the chat context.
func (h *DocumentHandler) Collect(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation Error", "Invalid JSON body")
		return
	}

	notes, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("collect_list_failed", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	var selected []string
	for _, v := range req.Tags {
		if v = strings.TrimSpace(v); v != "" {
			selected = append(selected, v)
		}
	}
	h.workspace.Collect(models.FilterNotes(notes, selected))

	content, noteContext, busy := h.workspace.Content()
	respondJSON(w, http.StatusOK, documentState{Content: content, Context: noteContext, Busy: busy})
}

// Action runs a buffer-replacing AI transform named in the URL. The mind
// map conversion has its own endpoint and is rejected here.
func (h *DocumentHandler) Action(w http.ResponseWriter, r *http.Request) {
	action := models.DocumentAction(mux.Vars(r)["action"])
	if action == models.ActionMindMap {
		respondError(w, http.StatusBadRequest, "Validation Error", "Unknown document action: "+string(action))
		return
	}
	if err := validation.Validate.Var(string(action), "document_action"); err != nil {
		respondError(w, http.StatusBadRequest, "Validation Error", "Unknown document action: "+string(action))
		return
	}

	result, err := h.workspace.ApplyAIAction(r.Context(), action)
	if err != nil {
		h.respondWorkspaceError(w, "document_action_failed", action, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"content": result})
}

// Chat sends a free-form instruction together with the collected notes
// context and replaces the buffer with the answer.
func (h *DocumentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation Error", "Invalid JSON body")
		return
	}
	if !validateRequest(w, req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Validation Error", "message must not be empty")
		return
	}

	result, err := h.workspace.Chat(r.Context(), req.Message)
	if err != nil {
		h.respondWorkspaceError(w, "document_chat_failed", "chat", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"content": result})
}

// FormatLocal runs the deterministic CJK spacing formatter. No AI call, no
// single-flight guard.
func (h *DocumentHandler) FormatLocal(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"content": h.workspace.ApplyLocalFormat()})
}

// MindMap converts the buffer into a tree without modifying it.
func (h *DocumentHandler) MindMap(w http.ResponseWriter, r *http.Request) {
	root, err := h.workspace.RequestMindMap(r.Context())
	if err != nil {
		h.respondWorkspaceError(w, "document_mindmap_failed", models.ActionMindMap, err)
		return
	}
	respondJSON(w, http.StatusOK, root)
}

func (h *DocumentHandler) respondWorkspaceError(w http.ResponseWriter, event string, action models.DocumentAction, err error) {
	switch {
	case errors.Is(err, workspace.ErrActionInFlight):
		respondError(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, workspace.ErrEmptyDocument):
		respondError(w, http.StatusBadRequest, "Validation Error", err.Error())
	case errors.Is(err, workspace.ErrNoGateway):
		respondError(w, http.StatusServiceUnavailable, "Service Unavailable", err.Error())
	default:
		// Upstream error text can embed model output; sanitize before logging.
		h.logger.Error(event,
			zap.String("action", string(action)),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		respondDomainError(w, err)
	}
}
