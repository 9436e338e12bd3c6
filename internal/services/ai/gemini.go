package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shylockwolf/ainote/internal/debuglog"
	"github.com/shylockwolf/ainote/internal/models"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultGeminiModel is the default model for the direct SDK backend.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements Gateway with a direct generative-model SDK
// call. For analysis it declares a JSON response schema to the model, with
// the category constrained to the closed enum, instead of relying on
// textual instruction.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
	debug  DebugSink
}

// NewGeminiProvider creates a direct SDK backend. The API key comes from
// process configuration; logger and debug may be nil.
func NewGeminiProvider(ctx context.Context, apiKey, model string, logger *zap.Logger, debug DebugSink) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api_key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if debug == nil {
		debug = nopSink{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
		logger: logger,
		debug:  debug,
	}, nil
}

// AnalyzeNote classifies a note using a declared response schema.
func (p *GeminiProvider) AnalyzeNote(ctx context.Context, content string) (*models.AIAnalysis, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
	}
	raw, err := p.generate(ctx, "analyze_note", analysisPromptBrief(content), config)
	if err != nil {
		return nil, err
	}
	return parseAnalysis(raw)
}

// ProcessDocument applies a document action and returns the model's text.
func (p *GeminiProvider) ProcessDocument(ctx context.Context, content string, action models.DocumentAction) (string, error) {
	prompt, err := documentPrompt(content, action)
	if err != nil {
		return "", err
	}
	return p.generate(ctx, "process_document_"+string(action), prompt, nil)
}

// ChatWithContext returns the full replacement text for the document.
func (p *GeminiProvider) ChatWithContext(ctx context.Context, content, noteContext, message string) (string, error) {
	return p.generate(ctx, "chat_with_context", chatPrompt(content, noteContext, message), nil)
}

func (p *GeminiProvider) generate(ctx context.Context, operation, prompt string, config *genai.GenerateContentConfig) (string, error) {
	p.debug.Append(debuglog.Entry{
		Type:     debuglog.TypeRequest,
		Model:    p.model,
		Content:  prompt,
		Metadata: map[string]any{"schema": config != nil},
	})
	p.logger.Debug("llm_api_request",
		zap.String("operation", operation),
		zap.String("model", p.model),
		zap.Int("prompt_length", len(prompt)),
		zap.String("prompt_preview", sanitizePreview(prompt)),
	)

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	latency := time.Since(start)

	if err != nil {
		upstream := wrapGeminiError(err)
		p.recordError(operation, upstream, latency)
		return "", upstream
	}

	result := resp.Text()
	p.debug.Append(debuglog.Entry{
		Type:    debuglog.TypeResponse,
		Model:   p.model,
		Content: result,
		Metadata: map[string]any{
			"promptLength":   len(prompt),
			"responseLength": len(result),
		},
	})
	p.logger.Debug("llm_api_response",
		zap.String("operation", operation),
		zap.String("model", p.model),
		zap.Int("response_length", len(result)),
		zap.String("response_preview", sanitizePreview(result)),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)
	return result, nil
}

func (p *GeminiProvider) recordError(operation string, upstream *UpstreamError, latency time.Duration) {
	metadata := map[string]any{}
	if upstream.StatusCode > 0 {
		metadata["status"] = upstream.StatusCode
	}
	p.debug.Append(debuglog.Entry{
		Type:     debuglog.TypeError,
		Model:    p.model,
		Content:  upstream.Error(),
		Metadata: metadata,
	})
	p.logger.Debug("llm_api_error",
		zap.String("operation", operation),
		zap.String("model", p.model),
		zap.Error(upstream),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)
}

func wrapGeminiError(err error) *UpstreamError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return &UpstreamError{Message: err.Error(), Err: err}
}

// analysisSchema declares the analysis response shape, with the category
// restricted to the five-member closed set.
func analysisSchema() *genai.Schema {
	categories := models.Categories()
	enum := make([]string, 0, len(categories))
	for _, c := range categories {
		enum = append(enum, string(c))
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic": {Type: genai.TypeString, Description: "主要讨论的话题"},
			"people": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "提及的人员姓名或代称",
			},
			"category": {Type: genai.TypeString, Enum: enum, Description: "所属类别"},
			"summary":  {Type: genai.TypeString, Description: "简短摘要"},
		},
		Required: []string{"topic", "people", "category", "summary"},
	}
}

// RegisterGemini registers the direct SDK backend with the registry.
func RegisterGemini(registry *Registry) {
	registry.Register("gemini", func(ctx context.Context, config map[string]string, logger *zap.Logger, debug DebugSink) (Gateway, error) {
		return NewGeminiProvider(ctx, config["api_key"], config["model"], logger, debug)
	})
}
