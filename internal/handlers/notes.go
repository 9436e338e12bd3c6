package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shylockwolf/ainote/internal/database"
	logpkg "github.com/shylockwolf/ainote/internal/logger"
	"github.com/shylockwolf/ainote/internal/models"
	"github.com/shylockwolf/ainote/internal/services/ai"
	"github.com/shylockwolf/ainote/internal/validation"
)

// NoteHandler serves the note CRUD endpoints and the derived tag index.
type NoteHandler struct {
	store   database.NoteStore
	gateway ai.Gateway
	logger  *zap.Logger
}

func NewNoteHandler(store database.NoteStore, gateway ai.Gateway, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{store: store, gateway: gateway, logger: logger}
}

type createNoteRequest struct {
	Content string       `json:"content" validate:"required"`
	Tags    []models.Tag `json:"tags" validate:"omitempty,dive"`
}

type updateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// List returns all notes, newest first. A tags query parameter narrows the
// result to notes carrying every selected tag value (AND semantics).
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("list_notes_failed", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	if raw := r.URL.Query().Get("tags"); raw != "" {
		var selected []string
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				selected = append(selected, v)
			}
		}
		notes = models.FilterNotes(notes, selected)
	}

	if notes == nil {
		notes = []*models.Note{}
	}
	respondJSON(w, http.StatusOK, notes)
}

// Create stores a new note. When the request carries no tags and an AI
// gateway is configured, tags are synthesized from the content; if the
// gateway fails the note is still saved with a minimal fallback tag set.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
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

	// Explicitly supplied category tags must stay within the closed set;
	// synthesized tags already do.
	for _, tag := range req.Tags {
		if tag.Key != models.TagKeyCategory {
			continue
		}
		if err := validation.Validate.Var(tag.Value, "note_category"); err != nil {
			respondError(w, http.StatusBadRequest, "Validation Error", "Unknown note category: "+tag.Value)
			return
		}
	}

	tags := req.Tags
	if len(tags) == 0 {
		tags = h.synthesizeTags(r, req.Content)
	}

	note, err := h.store.Create(r.Context(), req.Content, tags)
	if err != nil {
		h.logger.Error("create_note_failed", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) synthesizeTags(r *http.Request, content string) []models.Tag {
	now := time.Now()
	if h.gateway == nil {
		return fallbackTags(now)
	}

	analysis, err := h.gateway.AnalyzeNote(r.Context(), content)
	if err != nil {
		h.logger.Warn("note_analysis_failed", zap.String("error", logpkg.SanitizeError(err)))
		return fallbackTags(now)
	}
	return models.TagsFromAnalysis(analysis, now)
}

func fallbackTags(now time.Time) []models.Tag {
	return []models.Tag{
		{Key: models.TagKeyDate, Value: now.Format("2006-01-02")},
		{Key: models.TagKeyCategory, Value: string(models.CategoryOther)},
	}
}

// Update replaces the content of an existing note. Unknown ids are a
// silent no-op, matching the store semantics.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	var req updateNoteRequest
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

	if err := h.store.Update(r.Context(), id, req.Content); err != nil {
		h.logger.Error("update_note_failed", zap.Int64("note_id", id), zap.Error(err))
		respondDomainError(w, err)
		return
	}
	respondSuccess(w)
}

// Delete removes a note and, through the schema cascade, its tags.
// Deleting an unknown id succeeds.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete_note_failed", zap.Int64("note_id", id), zap.Error(err))
		respondDomainError(w, err)
		return
	}
	respondSuccess(w)
}

// Clear removes every note.
func (h *NoteHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		h.logger.Error("clear_notes_failed", zap.Error(err))
		respondDomainError(w, err)
		return
	}
	respondSuccess(w)
}

// ListTags returns the derived tag index: distinct tag values with the
// number of notes carrying each, most frequent first.
func (h *NoteHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("list_tags_failed", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	index := models.BuildTagIndex(notes)
	if index == nil {
		index = []models.TagCount{}
	}
	respondJSON(w, http.StatusOK, index)
}

func noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Validation Error", "Invalid note ID")
		return 0, false
	}
	return id, true
}
