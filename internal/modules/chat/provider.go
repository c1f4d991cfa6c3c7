package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	appcfg "github.com/shagor/portfolio-core/internal/config"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// CompletionRequest is one chat completion: a system instruction, prior
// turns and the new user message.
type CompletionRequest struct {
	System      string
	History     []Turn
	Message     string
	MaxTokens   int
	Temperature float64
}

// Completer is a remote chat-completion provider.
type Completer interface {
	Provider() string
	Model() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewCompleter builds the provider named in cfg. It returns (nil, nil) when
// no API key is configured or the provider is "none".
func NewCompleter(cfg appcfg.AIConfig) (Completer, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" || cfg.Provider == "none" {
		return nil, nil
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAICompleter(key, cfg.Model, cfg.Endpoint), nil
	case ProviderAnthropic:
		return newAnthropicCompleter(key, cfg.Model, cfg.Endpoint), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}

// ===========================================================================
// OpenAI
// ===========================================================================

type openAICompleter struct {
	client openai.Client
	model  string
}

func newOpenAICompleter(apiKey, model, endpoint string) *openAICompleter {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/"); endpoint != "" {
		opts = append(opts, openaioption.WithBaseURL(endpoint))
	}
	return &openAICompleter{client: openai.NewClient(opts...), model: model}
}

func (c *openAICompleter) Provider() string { return ProviderOpenAI }
func (c *openAICompleter) Model() string    { return c.model }

func (c *openAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, t := range req.History {
		if t.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(t.Content))
		} else {
			messages = append(messages, openai.UserMessage(t.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.Message))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ===========================================================================
// Anthropic
// ===========================================================================

type anthropicCompleter struct {
	model jetapi.LanguageModel
	id    string
}

func newAnthropicCompleter(apiKey, model, endpoint string) *anthropicCompleter {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	if endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/"); endpoint != "" {
		opts = append(opts, anthropicoption.WithBaseURL(endpoint))
	}
	client := anthropicclient.NewClient(opts...)
	return &anthropicCompleter{
		model: jetanthropic.NewLanguageModel(model, jetanthropic.WithClient(client)),
		id:    model,
	}
}

func (c *anthropicCompleter) Provider() string { return ProviderAnthropic }
func (c *anthropicCompleter) Model() string    { return c.id }

func (c *anthropicCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]jetapi.Message, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: req.System})
	}
	for _, t := range req.History {
		if t.Role == RoleAssistant {
			messages = append(messages, &jetapi.AssistantMessage{Content: jetapi.ContentFromText(t.Content)})
		} else {
			messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(t.Content)})
		}
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(req.Message)})

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	resp, err := jetai.GenerateText(ctx, messages,
		jetai.WithModel(c.model),
		jetai.WithMaxOutputTokens(maxTokens),
		jetai.WithTemperature(req.Temperature),
	)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.(*jetapi.TextBlock); ok {
			out.WriteString(tb.Text)
		}
	}
	return out.String(), nil
}

// ===========================================================================
// Error classification
// ===========================================================================

// IsQuotaError reports whether err means the provider is out of quota or
// rate limiting this key.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode == http.StatusTooManyRequests ||
			oaErr.Code == "insufficient_quota" || oaErr.Code == "rate_limit_exceeded"
	}
	var anErr *anthropicclient.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode == http.StatusTooManyRequests
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "insufficient_quota", "rate_limit", "rate limit", "quota"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
