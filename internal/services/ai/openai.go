package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/shylockwolf/ainote/internal/debuglog"
	"github.com/shylockwolf/ainote/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultProxyModel is the default model for the chat-completion backend.
	DefaultProxyModel = "deepseek-chat"
	// DefaultProxyBaseURL is the default chat-completion endpoint.
	DefaultProxyBaseURL = "https://api.deepseek.com/v1"
	// DefaultTimeout is the default timeout for API calls.
	DefaultTimeout = 60 * time.Second
)

// OpenAIProvider implements Gateway against any OpenAI-compatible
// chat-completion endpoint (proxy mode). The expected JSON shape for
// analysis is enforced by textual instruction plus json_object response
// format; the returned text is parsed on our side.
type OpenAIProvider struct {
	client openai.Client
	model  string
	logger *zap.Logger
	debug  DebugSink
}

// NewOpenAIProvider creates a chat-completion backend. logger and debug may
// be nil.
func NewOpenAIProvider(apiKey, baseURL, model string, logger *zap.Logger, debug DebugSink) *OpenAIProvider {
	if model == "" {
		model = DefaultProxyModel
	}
	if baseURL == "" {
		baseURL = DefaultProxyBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if debug == nil {
		debug = nopSink{}
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{Timeout: DefaultTimeout}),
	)

	return &OpenAIProvider{
		client: client,
		model:  model,
		logger: logger,
		debug:  debug,
	}
}

// AnalyzeNote classifies a note into topic/people/category/summary.
func (p *OpenAIProvider) AnalyzeNote(ctx context.Context, content string) (*models.AIAnalysis, error) {
	raw, err := p.call(ctx, "analyze_note", analysisPromptJSON(content), true)
	if err != nil {
		return nil, err
	}
	return parseAnalysis(raw)
}

// ProcessDocument applies a document action and returns the model's text.
func (p *OpenAIProvider) ProcessDocument(ctx context.Context, content string, action models.DocumentAction) (string, error) {
	prompt, err := documentPrompt(content, action)
	if err != nil {
		return "", err
	}
	return p.call(ctx, "process_document_"+string(action), prompt, false)
}

// ChatWithContext returns the full replacement text for the document.
func (p *OpenAIProvider) ChatWithContext(ctx context.Context, content, noteContext, message string) (string, error) {
	return p.call(ctx, "chat_with_context", chatPrompt(content, noteContext, message), false)
}

// call dispatches one chat completion, recording request and
// response/error entries in the debug log around it.
func (p *OpenAIProvider) call(ctx context.Context, operation, prompt string, jsonMode bool) (string, error) {
	p.debug.Append(debuglog.Entry{
		Type:     debuglog.TypeRequest,
		Model:    p.model,
		Content:  prompt,
		Metadata: map[string]any{"jsonMode": jsonMode},
	})
	p.logger.Debug("llm_api_request",
		zap.String("operation", operation),
		zap.String("model", p.model),
		zap.Int("prompt_length", len(prompt)),
		zap.String("prompt_preview", sanitizePreview(prompt)),
	)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start)

	if err != nil {
		upstream := wrapOpenAIError(err)
		p.recordError(operation, upstream, latency)
		return "", upstream
	}
	if len(resp.Choices) == 0 {
		upstream := &UpstreamError{Message: "no choices in response"}
		p.recordError(operation, upstream, latency)
		return "", upstream
	}

	result := resp.Choices[0].Message.Content
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

func (p *OpenAIProvider) recordError(operation string, upstream *UpstreamError, latency time.Duration) {
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

// wrapOpenAIError converts SDK and transport failures into a uniform
// UpstreamError carrying the upstream status and message.
func wrapOpenAIError(err error) *UpstreamError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error()
		}
		return &UpstreamError{StatusCode: apiErr.StatusCode, Message: message, Err: err}
	}
	return &UpstreamError{Message: err.Error(), Err: err}
}

// RegisterOpenAI registers the chat-completion backend with the registry.
func RegisterOpenAI(registry *Registry) {
	registry.Register("openai", func(_ context.Context, config map[string]string, logger *zap.Logger, debug DebugSink) (Gateway, error) {
		apiKey := config["api_key"]
		if apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}
		return NewOpenAIProvider(apiKey, config["base_url"], config["model"], logger, debug), nil
	})
}
