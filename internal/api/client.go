package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/diogo/llmchat/internal/config"
	apierrors "github.com/diogo/llmchat/internal/errors"
	"github.com/diogo/llmchat/internal/logging"
	"github.com/diogo/llmchat/internal/models"
)

// ChunkStream is the receiving side of one streamed chat completion.
// Recv returns io.EOF once the service signals completion.
type ChunkStream interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
	Close() error
}

// CompletionStreamer opens streamed chat completions
type CompletionStreamer interface {
	OpenStream(ctx context.Context, req openai.ChatCompletionRequest) (ChunkStream, error)
}

// Client is the process-wide completion client. It is built once at startup
// from the loaded credentials and passed by reference to whoever sends.
type Client struct {
	streamer   CompletionStreamer
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithStreamer replaces the go-openai backed streamer
func WithStreamer(s CompletionStreamer) ClientOption {
	return func(c *Client) {
		c.streamer = s
	}
}

// WithHTTPClient sets the HTTP client used by the go-openai client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the given credentials
func NewClient(creds config.Credentials, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(creds.APIKey) == "" {
		return nil, fmt.Errorf("failed to create client: %w", apierrors.ErrNoAPIKey)
	}

	base := strings.TrimRight(strings.TrimSpace(creds.BaseURL), "/")
	if base == "" {
		base = models.EndpointOpenAI
	}

	c := &Client{
		endpoint: base + models.EndpointChatCompletions,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = logging.OrNop(c.logger)

	if c.streamer == nil {
		oaCfg := openai.DefaultConfig(creds.APIKey)
		oaCfg.BaseURL = base
		if c.httpClient != nil {
			oaCfg.HTTPClient = c.httpClient
		}
		c.streamer = &openaiStreamer{client: openai.NewClientWithConfig(oaCfg)}
	}

	return c, nil
}

// Endpoint returns the chat completions URL this client talks to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// openaiStreamer adapts *openai.Client to CompletionStreamer
type openaiStreamer struct {
	client *openai.Client
}

func (s *openaiStreamer) OpenStream(ctx context.Context, req openai.ChatCompletionRequest) (ChunkStream, error) {
	return s.client.CreateChatCompletionStream(ctx, req)
}
