// Package azure reads bills through an Azure OpenAI chat-completions deployment.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/bill"
)

const DefaultAPIVersion = "2024-02-15-preview"

type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
}

func New(cfg Config) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		deployment: cfg.Deployment,
		apiVersion: version,
	}
}

func (c *Client) Name() string { return "azure" }

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends img as a data URL next to the bill prompt and parses the reply.
func (c *Client) Extract(ctx context.Context, img bill.Image) (bill.Fields, error) {
	if !bill.Configured(c.endpoint, c.apiKey, c.deployment) {
		return bill.Fields{}, fmt.Errorf("%w: Azure OpenAI credentials not set", bill.ErrNotConfigured)
	}

	img, err := img.Normalize()
	if err != nil {
		return bill.Fields{}, err
	}

	body := chatRequest{
		Messages: []message{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: bill.Prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: img.DataURL()}},
			},
		}},
		MaxTokens:   500,
		Temperature: 0.1,
	}

	reply, err := c.complete(ctx, body)
	if err != nil {
		return bill.Fields{}, err
	}

	return bill.ParseReply(reply)
}

func (c *Client) complete(ctx context.Context, body chatRequest) (string, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?%s",
		c.endpoint, url.PathEscape(c.deployment), url.Values{"api-version": {c.apiVersion}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", bill.ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", bill.ErrProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: Azure OpenAI API error (status %d): %s", bill.ErrProvider, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", bill.ErrMalformedResponse, err)
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: no content received from Azure OpenAI", bill.ErrEmptyResponse)
	}

	return parsed.Choices[0].Message.Content, nil
}
