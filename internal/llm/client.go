package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Default client settings.
const (
	DefaultModel   = openai.GPT3Dot5Turbo
	DefaultTimeout = 15 * time.Second

	// VerifyTimeout bounds the startup health check.
	VerifyTimeout = 10 * time.Second
)

var (
	// ErrEmptyResponse is returned when the API answers without choices.
	ErrEmptyResponse = errors.New("llm: empty response")

	// ErrNotReady is returned by Verify when the reply does not contain "ready".
	ErrNotReady = errors.New("llm: unexpected health check reply")
)

// chatAPI is the subset of *openai.Client used here.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client sends completions to the OpenAI chat API.
// It is safe for concurrent use.
type Client struct {
	api     chatAPI
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	model   string
	timeout time.Duration
	baseURL string
	limit   rate.Limit
	burst   int
	logger  *slog.Logger
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(o *clientOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithBaseURL points the client at an OpenAI compatible endpoint.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) {
		o.baseURL = u
	}
}

// WithRateLimit paces requests. The default allows one request per second
// with a burst of three.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *clientOptions) {
		o.limit = limit
		o.burst = burst
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// New creates a Client for apiKey.
func New(apiKey string, opts ...Option) *Client {
	o := clientOptions{
		model:   DefaultModel,
		timeout: DefaultTimeout,
		limit:   rate.Every(time.Second),
		burst:   3,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   o.model,
		timeout: o.timeout,
		limiter: rate.NewLimiter(o.limit, o.burst),
		logger:  o.logger,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends p and returns the trimmed reply.
func (c *Client) Complete(ctx context.Context, p Prompt) (string, error) {
	return c.complete(ctx, p, c.timeout)
}

func (c *Client) complete(ctx context.Context, p Prompt, timeout time.Duration) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm: rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: p.Text},
		},
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Debug("completion received",
		"model", c.model,
		"duration", time.Since(start),
		"tokens", resp.Usage.TotalTokens,
	)
	return reply, nil
}

// Verify checks that the API key and model work.
// It returns the reply; ErrNotReady is returned alongside a reply that
// does not contain "ready".
func (c *Client) Verify(ctx context.Context) (string, error) {
	reply, err := c.complete(ctx, Prompt{Text: VerifyPrompt, MaxTokens: 5}, VerifyTimeout)
	if err != nil {
		return "", err
	}
	if !strings.Contains(strings.ToLower(reply), "ready") {
		return reply, ErrNotReady
	}
	return reply, nil
}
