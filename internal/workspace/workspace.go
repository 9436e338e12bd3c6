// Package workspace holds the single working document buffer and
// orchestrates AI transforms over it.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/shylockwolf/ainote/internal/models"
	"github.com/shylockwolf/ainote/internal/services/ai"
	"github.com/shylockwolf/ainote/internal/textfmt"
)

var (
	// ErrActionInFlight is returned when an AI action is requested while
	// another one is still outstanding. The second request is rejected,
	// never queued.
	ErrActionInFlight = errors.New("an AI action is already in progress")
	// ErrEmptyDocument is returned when an operation requires a non-empty
	// buffer.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrNoGateway is returned when no AI backend is configured.
	ErrNoGateway = errors.New("no AI provider configured")
)

const (
	// collectSeparator joins filtered notes into the document buffer.
	collectSeparator = "\n\n---\n\n"
	// contextSeparator joins filtered notes into the chat context.
	contextSeparator = "\n"
)

// Workspace owns one mutable text buffer plus a read-only context string
// snapshotted from the filtered notes. At most one AI action may be in
// flight at a time, so two concurrent completions can never race on the
// buffer.
type Workspace struct {
	mu      sync.Mutex
	busy    bool
	content string
	context string
	gateway ai.Gateway
}

// New creates a workspace. gateway may be nil; AI actions then fail with
// ErrNoGateway.
func New(gateway ai.Gateway) *Workspace {
	return &Workspace{gateway: gateway}
}

// Content returns the current buffer, context, and whether an AI action is
// outstanding.
func (w *Workspace) Content() (content, noteContext string, busy bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.content, w.context, w.busy
}

// SetContent replaces the buffer.
func (w *Workspace) SetContent(content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.content = content
}

// Collect replaces the buffer and the context with the given notes'
// contents: the buffer joins them with a horizontal-rule separator, the
// context with single newlines.
func (w *Workspace) Collect(notes []*models.Note) {
	contents := make([]string, 0, len(notes))
	for _, n := range notes {
		contents = append(contents, n.Content)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.content = strings.Join(contents, collectSeparator)
	w.context = strings.Join(contents, contextSeparator)
}

// ApplyAIAction runs a buffer-replacing document action (translate,
// proofread, or format) and overwrites the buffer with the result.
// Single-flight: a concurrent action fails immediately with
// ErrActionInFlight.
func (w *Workspace) ApplyAIAction(ctx context.Context, action models.DocumentAction) (string, error) {
	if action == models.ActionMindMap || !models.ValidDocumentAction(action) {
		return "", errors.New("unsupported document action: " + string(action))
	}
	return w.runAIAction(ctx, true, func(ctx context.Context, content string) (string, error) {
		return w.gateway.ProcessDocument(ctx, content, action)
	})
}

// Chat sends a free-form instruction with the notes context and replaces
// the buffer wholesale with the model's answer. Shares the single-flight
// guard with ApplyAIAction.
func (w *Workspace) Chat(ctx context.Context, message string) (string, error) {
	return w.runAIAction(ctx, true, func(ctx context.Context, content string) (string, error) {
		w.mu.Lock()
		noteContext := w.context
		w.mu.Unlock()
		return w.gateway.ChatWithContext(ctx, content, noteContext, message)
	})
}

// ApplyLocalFormat runs the deterministic CJK-spacing formatter over the
// buffer synchronously and returns the result.
func (w *Workspace) ApplyLocalFormat() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.content = textfmt.FormatText(w.content)
	return w.content
}

// RequestMindMap converts the buffer into a mind-map tree. The buffer must
// be non-empty and is left untouched; a response that is not valid JSON
// surfaces as a ParseError, never silently swallowed.
func (w *Workspace) RequestMindMap(ctx context.Context) (*models.MindMapNode, error) {
	raw, err := w.runAIAction(ctx, false, func(ctx context.Context, content string) (string, error) {
		if strings.TrimSpace(content) == "" {
			return "", ErrEmptyDocument
		}
		return w.gateway.ProcessDocument(ctx, content, models.ActionMindMap)
	})
	if err != nil {
		return nil, err
	}

	var root models.MindMapNode
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil, &ai.ParseError{Message: "mind map response is not valid JSON", Err: err}
	}
	return &root, nil
}

// runAIAction enforces the single-flight guard around call and, when
// replaceBuffer is set, commits the result to the buffer on success.
func (w *Workspace) runAIAction(ctx context.Context, replaceBuffer bool, call func(ctx context.Context, content string) (string, error)) (string, error) {
	if w.gateway == nil {
		return "", ErrNoGateway
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return "", ErrActionInFlight
	}
	w.busy = true
	content := w.content
	w.mu.Unlock()

	result, err := call(ctx, content)

	w.mu.Lock()
	w.busy = false
	if err == nil && replaceBuffer {
		w.content = result
	}
	w.mu.Unlock()

	if err != nil {
		return "", err
	}
	return result, nil
}
