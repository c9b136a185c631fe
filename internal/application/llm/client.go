package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Tier selects which configured model handles a call.
type Tier string

const (
	TierFlagship Tier = "FLAGSHIP"
	TierMidRange Tier = "MID_RANGE"
	TierFast     Tier = "FAST"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// JSONSchemaFormat is a strict structured-output constraint.
type JSONSchemaFormat struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

// responseFormat wraps a schema for the chat-completions wire shape.
type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model               string          `json:"model"`
	Messages            []Message       `json:"messages"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
	ReasoningEffort     string          `json:"reasoning_effort,omitempty"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
}

// Usage reports token consumption for one LLM call.
type Usage struct {
	PromptTokens            int `json:"prompt_tokens"`
	CompletionTokens        int `json:"completion_tokens"`
	TotalTokens             int `json:"total_tokens"`
	CompletionTokensDetails struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatResult is the parsed outcome of one completion call.
type ChatResult struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// ChatRequest describes one completion call.
type ChatRequest struct {
	Model           string
	Messages        []Message
	MaxTokens       int
	ReasoningEffort string
	Schema          *JSONSchemaFormat
}

// ChatClient is the port the retry layer and pipelines call through.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResult, error)
	ModelFor(tier Tier) string
}

// Client is an OpenAI-compatible chat-completions client with strict
// JSON-schema structured output support.
type Client struct {
	baseURL    string
	apiKey     string
	models     map[Tier]string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Config carries the client's connection settings.
type Config struct {
	BaseURL       string
	APIKey        string
	FlagshipModel string
	MidRangeModel string
	FastModel     string
	Timeout       time.Duration
	// RequestsPerSecond caps outbound call rate; zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// NewClient creates a Client from config.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst == 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return &Client{
		baseURL: strings.TrimSuffix(strings.TrimRight(cfg.BaseURL, "/"), "/chat/completions"),
		apiKey:  cfg.APIKey,
		models: map[Tier]string{
			TierFlagship: cfg.FlagshipModel,
			TierMidRange: cfg.MidRangeModel,
			TierFast:     cfg.FastModel,
		},
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// ModelFor resolves the model name for a tier.
func (c *Client) ModelFor(tier Tier) string {
	return c.models[tier]
}

// Chat sends one completion request and returns the assistant content and
// token usage.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("llm: rate limit wait: %w", err)
		}
	}

	payload := chatRequest{
		Model:               req.Model,
		Messages:            req.Messages,
		MaxCompletionTokens: req.MaxTokens,
		ReasoningEffort:     req.ReasoningEffort,
	}
	if req.Schema != nil {
		payload.ResponseFormat = &responseFormat{Type: "json_schema", JSONSchema: req.Schema}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("llm: unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("llm: API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("llm: no choices in response")
	}

	choice := chatResp.Choices[0]
	return &ChatResult{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage:        chatResp.Usage,
	}, nil
}

// StripFences removes markdown code fences (```json ... ```) from LLM
// output before JSON parsing.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
