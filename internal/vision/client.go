// Package vision wraps the OpenAI-compatible chat completions API for
// image understanding. Only the narrow surface the card scanner needs
// is exposed: one prompt, one image, one text reply.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/config"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
)

// Sentinel errors for provider failures the caller wants to tell apart.
var (
	ErrInvalidAPIKey = errors.New("vision: invalid API key")
	ErrRateLimited   = errors.New("vision: rate limit exceeded")
	ErrQuotaExceeded = errors.New("vision: insufficient quota")
	ErrNotConfigured = errors.New("vision: no API key configured")
	ErrEmptyResponse = errors.New("vision: model returned no choices")
)

// Client calls an OpenAI-compatible vision model endpoint.
type Client struct {
	cfg        config.OpenAIConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a vision client. A client with an empty API key is
// usable but reports itself as unconfigured; callers must check
// Configured before issuing requests.
func NewClient(cfg config.OpenAIConfig, log *logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Complete sends one prompt plus one image data URL to the model and
// returns the raw text of the first choice.
func (c *Client) Complete(ctx context.Context, prompt, imageDataURL string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageURL{URL: imageDataURL}},
				},
			},
		},
		Temperature: 0,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("vision: marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vision: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("vision: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp.StatusCode, respBody)
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("vision: parse response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return chat.Choices[0].Message.Content, nil
}

// apiError maps provider error codes onto the sentinel errors.
func (c *Client) apiError(status int, body []byte) error {
	var apiErr struct {
		Error struct {
			Code    string `json:"code"`
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)

	code := apiErr.Error.Code
	if code == "" {
		code = apiErr.Error.Type
	}

	switch code {
	case "invalid_api_key":
		return ErrInvalidAPIKey
	case "rate_limit_exceeded":
		return ErrRateLimited
	case "insufficient_quota":
		return ErrQuotaExceeded
	}

	switch status {
	case http.StatusUnauthorized:
		return ErrInvalidAPIKey
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}

	return fmt.Errorf("vision: provider returned %d: %s", status, string(body))
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
