package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shylockwolf/ainote/internal/models"
)

// fakeStore is an in-memory NoteStore for handler tests.
type fakeStore struct {
	notes  []*models.Note
	nextID int64
}

func (s *fakeStore) List(ctx context.Context) ([]*models.Note, error) {
	out := make([]*models.Note, len(s.notes))
	for i := range s.notes {
		out[len(s.notes)-1-i] = s.notes[i]
	}
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, content string, tags []models.Tag) (*models.Note, error) {
	s.nextID++
	note := &models.Note{ID: s.nextID, Content: content, Tags: tags}
	if note.Tags == nil {
		note.Tags = []models.Tag{}
	}
	s.notes = append(s.notes, note)
	return note, nil
}

func (s *fakeStore) Update(ctx context.Context, id int64, content string) error {
	for _, n := range s.notes {
		if n.ID == id {
			n.Content = content
		}
	}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notes = kept
	return nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.notes = nil
	return nil
}

// fakeAnalyzer returns a fixed analysis.
type fakeAnalyzer struct {
	analysis *models.AIAnalysis
	err      error
}

func (f *fakeAnalyzer) AnalyzeNote(ctx context.Context, content string) (*models.AIAnalysis, error) {
	return f.analysis, f.err
}

func (f *fakeAnalyzer) ProcessDocument(ctx context.Context, content string, action models.DocumentAction) (string, error) {
	return "", nil
}

func (f *fakeAnalyzer) ChatWithContext(ctx context.Context, content, noteContext, message string) (string, error) {
	return "", nil
}

func notesRouter(h *NoteHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/notes", h.List).Methods("GET")
	r.HandleFunc("/api/notes", h.Create).Methods("POST")
	r.HandleFunc("/api/notes", h.Clear).Methods("DELETE")
	r.HandleFunc("/api/notes/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/api/notes/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/api/tags", h.ListTags).Methods("GET")
	return r
}

func TestCreateNoteWithExplicitTags(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	h := NewNoteHandler(store, nil, zap.NewNop())

	body := `{"content":"买牛奶","tags":[{"key":"topic","value":"购物"}]}`
	req := httptest.NewRequest("POST", "/api/notes", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	notesRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rr.Code, rr.Body.String())
	}

	var note models.Note
	if err := json.Unmarshal(rr.Body.Bytes(), &note); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if note.Content != "买牛奶" {
		t.Errorf("content = %q", note.Content)
	}
	if len(note.Tags) != 1 || note.Tags[0].Value != "购物" {
		t.Errorf("tags = %+v", note.Tags)
	}
}

func TestCreateNoteSynthesizesTags(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	gw := &fakeAnalyzer{analysis: &models.AIAnalysis{
		Topic:    "预算",
		People:   []string{"张三"},
		Category: models.CategoryFinance,
	}}
	h := NewNoteHandler(store, gw, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/notes", bytes.NewBufferString(`{"content":"和张三谈预算"}`))
	rr := httptest.NewRecorder()
	notesRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var note models.Note
	if err := json.Unmarshal(rr.Body.Bytes(), &note); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(note.Tags) != 4 {
		t.Fatalf("got %d tags, want 4: %+v", len(note.Tags), note.Tags)
	}
	if note.Tags[0].Key != models.TagKeyDate {
		t.Errorf("first tag key = %q, want date", note.Tags[0].Key)
	}
	if note.Tags[1].Value != "预算" || note.Tags[2].Value != "财务" || note.Tags[3].Value != "张三" {
		t.Errorf("tag values = %+v", note.Tags)
	}
}

func TestCreateNoteFallbackTagsOnAIFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	gw := &fakeAnalyzer{err: context.DeadlineExceeded}
	h := NewNoteHandler(store, gw, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/notes", bytes.NewBufferString(`{"content":"离线笔记"}`))
	rr := httptest.NewRecorder()
	notesRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rr.Code)
	}

	var note models.Note
	if err := json.Unmarshal(rr.Body.Bytes(), &note); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(note.Tags) != 2 {
		t.Fatalf("got %d fallback tags, want 2: %+v", len(note.Tags), note.Tags)
	}
	if note.Tags[1].Value != string(models.CategoryOther) {
		t.Errorf("fallback category = %q, want %q", note.Tags[1].Value, models.CategoryOther)
	}
}

func TestCreateNoteRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&fakeStore{}, nil, zap.NewNop())

	for _, body := range []string{`{"content":""}`, `{"content":"   "}`, `{}`} {
		req := httptest.NewRequest("POST", "/api/notes", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		notesRouter(h).ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestCreateNoteRejectsMalformedTags(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&fakeStore{}, nil, zap.NewNop())
	router := notesRouter(h)

	tests := []struct {
		name string
		body string
	}{
		{name: "tag missing value", body: `{"content":"x","tags":[{"key":"topic"}]}`},
		{name: "tag missing key", body: `{"content":"x","tags":[{"value":"购物"}]}`},
		{name: "category outside closed set", body: `{"content":"x","tags":[{"key":"category","value":"work"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest("POST", "/api/notes", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body %s", rr.Code, rr.Body.String())
			}
		})
	}

	// A category from the closed set passes.
	req := httptest.NewRequest("POST", "/api/notes", bytes.NewBufferString(`{"content":"x","tags":[{"key":"category","value":"私人事务"}]}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Errorf("valid category status = %d, want 201, body %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateNoteRejectsMissingContent(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&fakeStore{}, nil, zap.NewNop())

	req := httptest.NewRequest("PUT", "/api/notes/1", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()
	notesRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestListNotesWithTagFilter(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	ctx := context.Background()
	if _, err := store.Create(ctx, "a", []models.Tag{{Key: "topic", Value: "工作"}, {Key: "topic", Value: "Go"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, "b", []models.Tag{{Key: "topic", Value: "工作"}}); err != nil {
		t.Fatal(err)
	}

	h := NewNoteHandler(store, nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/notes?tags=工作,Go", nil)
	rr := httptest.NewRecorder()
	notesRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var notes []models.Note
	if err := json.Unmarshal(rr.Body.Bytes(), &notes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "a" {
		t.Errorf("filtered notes = %+v, want just the one tagged 工作 and Go", notes)
	}
}

func TestListTags(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := store.Create(ctx, "n", []models.Tag{{Key: "topic", Value: "工作"}}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.Create(ctx, "m", []models.Tag{{Key: "topic", Value: "读书"}}); err != nil {
		t.Fatal(err)
	}

	h := NewNoteHandler(store, nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/tags", nil)
	rr := httptest.NewRecorder()
	notesRouter(h).ServeHTTP(rr, req)

	var index []models.TagCount
	if err := json.Unmarshal(rr.Body.Bytes(), &index); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("index = %+v, want 2 entries", index)
	}
	if index[0].Value != "工作" || index[0].Count != 2 {
		t.Errorf("first entry = %+v, want 工作 x2", index[0])
	}
}

func TestDeleteAndClearRespondSuccess(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	if _, err := store.Create(context.Background(), "n", nil); err != nil {
		t.Fatal(err)
	}
	h := NewNoteHandler(store, nil, zap.NewNop())
	router := notesRouter(h)

	for _, target := range []string{"/api/notes/1", "/api/notes"} {
		req := httptest.NewRequest("DELETE", target, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("DELETE %s status = %d, want 200", target, rr.Code)
		}
		var body map[string]bool
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !body["success"] {
			t.Errorf("DELETE %s body = %s, want success true", target, rr.Body.String())
		}
	}
}

func TestUpdateNoteInvalidID(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&fakeStore{}, nil, zap.NewNop())

	req := httptest.NewRequest("PUT", "/api/notes/abc", bytes.NewBufferString(`{"content":"x"}`))
	rr := httptest.NewRecorder()
	notesRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
