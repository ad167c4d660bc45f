package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"voicerelay/core"
	openaiapi "voicerelay/services/openai"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config holds the configuration for the OpenAI chat service
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float32
	SystemPrompt string
	Timeout      time.Duration
}

// DefaultConfig returns a Config with sensible defaults. APIKey must still be
// provided by the caller.
func DefaultConfig() Config {
	return Config{
		Model:       openai.GPT3Dot5Turbo,
		MaxTokens:   150,
		Temperature: 0.7,
		SystemPrompt: "You are a helpful AI assistant. " +
			"Provide clear, concise, and accurate responses. " +
			"Keep answers brief unless asked for details.",
		Timeout: 30 * time.Second,
	}
}

// OpenAIChatService implements core.ChatService using OpenAI chat completions
type OpenAIChatService struct {
	client *openai.Client
	config Config
	logger *core.Logger
}

// NewOpenAIChatService creates a new chat service with the provided config
func NewOpenAIChatService(config Config, logger *core.Logger) *OpenAIChatService {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	if logger == nil {
		logger = core.GetLogger()
	}
	return &OpenAIChatService{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger.With(map[string]interface{}{"service": "chat"}),
	}
}

// Complete sends a single user message to the completions endpoint and returns
// the reply text. One attempt per call; no conversation history is carried
// between calls.
func (s *OpenAIChatService) Complete(ctx context.Context, text string) (core.ChatReply, error) {
	if s.config.APIKey == "" {
		return core.ChatReply{}, errors.New("OpenAI API key is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.config.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return core.ChatReply{}, openaiapi.ClassifyError("chat", s.config.Timeout, err)
	}
	if len(resp.Choices) == 0 {
		return core.ChatReply{}, &core.UpstreamError{
			Service: "chat",
			Status:  http.StatusOK,
			Message: "completion returned no choices",
		}
	}

	reply := resp.Choices[0].Message.Content
	s.logger.Debugf("completion finished in %s (%d chars)", time.Since(start).Round(time.Millisecond), len(reply))

	return core.ChatReply{Text: reply}, nil
}
