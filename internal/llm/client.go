// Package llm talks to an OpenAI-compatible chat completions service to
// classify document chunks against the fixed risk category set and to
// summarize documents. Responses are constrained to a JSON schema and
// validated before anything reaches the rest of the pipeline.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/theopenlane/httpsling"
)

const (
	// defaultBaseURL is the chat completions API root
	defaultBaseURL = "https://api.openai.com/v1"
	// defaultModel is the model used for classification and summarization
	defaultModel = "gpt-4o"
	// defaultRequestTimeout bounds each classification or summarization call
	defaultRequestTimeout = 60 * time.Second
	// defaultSummaryMaxChars caps the document prefix sent to the summarizer
	defaultSummaryMaxChars = 16000
	// chatCompletionsPath is the endpoint path for chat completions
	chatCompletionsPath = "/chat/completions"
	// requestTemperature keeps classification output stable across runs
	requestTemperature = 0.1
	// maxResponseTokens bounds the completion size
	maxResponseTokens = 2000
	// minSummaryBullets and maxSummaryBullets bound the summary length
	minSummaryBullets = 3
	maxSummaryBullets = 8
)

// Client calls an OpenAI-compatible chat completions endpoint
type Client struct {
	apiKey          string
	baseURL         string
	model           string
	httpClient      *http.Client
	summaryMaxChars int
}

// Option configures the Client
type Option func(*Client)

// WithBaseURL overrides the default API base URL
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithModel overrides the default model identifier
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient sets a custom HTTP client for API calls
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSummaryMaxChars caps the document prefix sent to the summarizer
func WithSummaryMaxChars(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.summaryMaxChars = n
		}
	}
}

// New creates a Client with the provided API key
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:          apiKey,
		baseURL:         defaultBaseURL,
		model:           defaultModel,
		httpClient:      &http.Client{Timeout: defaultRequestTimeout},
		summaryMaxChars: defaultSummaryMaxChars,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// chatRequest is the chat completions request payload
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatMessage is one message in a chat completions conversation
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the chat completions response payload
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete performs one chat completions call and returns the first choice's content
func (c *Client) complete(ctx context.Context, system, user string, format *responseFormat) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    requestTemperature,
		MaxTokens:      maxResponseTokens,
		ResponseFormat: format,
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+chatCompletionsPath),
		httpsling.Post(),
		httpsling.BearerAuth(c.apiKey),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var completion chatResponse

	resp, err := requester.ReceiveWithContext(ctx, &completion)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("response contains no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// extractJSON trims anything surrounding the outermost JSON object, since
// some models wrap structured output in code fences or prose
func extractJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start < 0 || end <= start {
		return "", false
	}

	return content[start : end+1], true
}

// decodeJSON extracts and unmarshals the outermost JSON object in content
func decodeJSON(content string, dst any) error {
	raw, ok := extractJSON(content)
	if !ok {
		return fmt.Errorf("no JSON object in response")
	}

	return json.Unmarshal([]byte(raw), dst)
}
