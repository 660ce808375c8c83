package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobguard/pkg/logger"
)

const (
	defaultClaudeAPIURL = "https://api.anthropic.com/v1/messages"
	defaultOpenAIAPIURL = "https://api.openai.com/v1/chat/completions"
)

// LLMClient provides access to large language model APIs
type LLMClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     LLMConfig
}

// LLMConfig holds LLM client configuration
type LLMConfig struct {
	Provider     string // "claude" or "openai"
	ClaudeAPIKey string
	OpenAIAPIKey string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	ClaudeAPIURL string
	OpenAIAPIURL string
}

// NewLLMClient creates a new LLM client. The HTTP client carries a bounded
// timeout so an unresponsive backend can never block a request indefinitely.
func NewLLMClient(cfg LLMConfig, log *logger.Logger) *LLMClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3 // Low temperature for factual analysis
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 120
	}
	if cfg.Model == "" {
		if cfg.Provider == "claude" {
			cfg.Model = "claude-3-5-haiku-20241022"
		} else {
			cfg.Model = "gpt-4o-mini"
		}
	}
	if cfg.ClaudeAPIURL == "" {
		cfg.ClaudeAPIURL = defaultClaudeAPIURL
	}
	if cfg.OpenAIAPIURL == "" {
		cfg.OpenAIAPIURL = defaultOpenAIAPIURL
	}

	return &LLMClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.WithComponent("llm-client"),
		config: cfg,
	}
}

// Complete sends a single-turn prompt to the configured provider and
// returns the generated text. Transport, authentication, rate-limit, and
// malformed-response failures are all returned as errors, never as empty
// output.
func (c *LLMClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	switch c.config.Provider {
	case "claude":
		return c.callClaude(ctx, system, prompt)
	case "openai":
		return c.callOpenAI(ctx, system, prompt)
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s", c.config.Provider)
	}
}

// callClaude makes a request to the Anthropic Messages API
func (c *LLMClient) callClaude(ctx context.Context, system, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	if system != "" {
		reqBody["system"] = system
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.ClaudeAPIURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.ClaudeAPIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claude API error %d: %s", resp.StatusCode, string(body))
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", err
	}

	var content string
	for _, part := range claudeResp.Content {
		if part.Type == "text" {
			content += part.Text
		}
	}
	if content == "" {
		return "", fmt.Errorf("empty response from claude")
	}

	return content, nil
}

// callOpenAI makes a request to the OpenAI Chat Completions API
func (c *LLMClient) callOpenAI(ctx context.Context, system, prompt string) (string, error) {
	messages := []map[string]any{}
	if system != "" {
		messages = append(messages, map[string]any{"role": "system", "content": system})
	}
	messages = append(messages, map[string]any{"role": "user", "content": prompt})

	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"messages":    messages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.OpenAIAPIURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.OpenAIAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API error %d: %s", resp.StatusCode, string(body))
	}

	var openAIResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return openAIResp.Choices[0].Message.Content, nil
}
