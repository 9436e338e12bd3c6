package ai

import (
	"context"

	"github.com/shylockwolf/ainote/internal/debuglog"
	"github.com/shylockwolf/ainote/internal/models"
	"go.uber.org/zap"
)

// Gateway is the uniform interface over the pluggable LLM backends. The
// active backend is selected at process startup; callers never branch on
// which one is in use.
type Gateway interface {
	// AnalyzeNote classifies a note into topic/people/category/summary.
	// A response that is not valid JSON of the expected shape fails with
	// a ParseError.
	AnalyzeNote(ctx context.Context, content string) (*models.AIAnalysis, error)

	// ProcessDocument applies a document action (translate, proofread,
	// format, mindmap) and returns the model's text. For mindmap, JSON
	// validity of the result is the caller's responsibility.
	ProcessDocument(ctx context.Context, content string, action models.DocumentAction) (string, error)

	// ChatWithContext answers a free-form instruction against the prior
	// notes context and the current document, returning the full
	// replacement text for the document.
	ChatWithContext(ctx context.Context, content, noteContext, message string) (string, error)
}

// DebugSink receives the request/response/error entries every gateway call
// emits. *debuglog.Log satisfies it.
type DebugSink interface {
	Append(entry debuglog.Entry) debuglog.Entry
}

// nopSink discards entries; used when no debug log is wired.
type nopSink struct{}

func (nopSink) Append(entry debuglog.Entry) debuglog.Entry { return entry }

// ProviderFactory builds a gateway from string configuration.
type ProviderFactory func(ctx context.Context, config map[string]string, logger *zap.Logger, debug DebugSink) (Gateway, error)

// Registry stores the available gateway backends by name.
type Registry struct {
	providers map[string]ProviderFactory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ProviderFactory)}
}

// Register registers a provider factory under name.
func (r *Registry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// Get builds the named provider.
func (r *Registry) Get(ctx context.Context, name string, config map[string]string, logger *zap.Logger, debug DebugSink) (Gateway, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return factory(ctx, config, logger, debug)
}

// ErrProviderNotFound is returned when no backend is registered under the
// requested name.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}
