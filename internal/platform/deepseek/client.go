// Package deepseek calls the DeepSeek chat completions API.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultURL   = "https://api.deepseek.com/v1/chat/completions"
	DefaultModel = "deepseek-chat"
)

// ErrNoChoices is returned when the API answers without a message.
var ErrNoChoices = errors.New("no response from API")

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the DeepSeek API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client handles interactions with the DeepSeek API
type Client struct {
	apiKey string
	apiURL string
	model  string
	http   *http.Client
}

// NewClient creates a client. Empty url and model fall back to the public
// endpoint and deepseek-chat.
func NewClient(apiKey, apiURL, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("deepseek api key is required")
	}
	if apiURL == "" {
		apiURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		http:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Complete sends a system and user message and returns the reply content.
// JSON output mode is requested since every caller expects JSON back.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	reqBody := Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: 0.3,
		MaxTokens:   1024,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result response
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", ErrNoChoices
	}
	return result.Choices[0].Message.Content, nil
}
