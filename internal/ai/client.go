// Package ai implements a minimal client for an OpenAI-compatible provider:
// chat completions constrained to JSON output, and image generation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/observability"
)

// ImageResult holds one generated image. Providers return either a hosted URL
// or inline base64 data; exactly one of the fields is set.
type ImageResult struct {
	URL string
	B64 string
}

// Client talks to the provider's REST API.
type Client interface {
	// ChatJSON sends a system+user prompt pair and returns the model's reply,
	// which is required to be a single JSON object.
	ChatJSON(ctx context.Context, system, user string) (json.RawMessage, error)
	// GenerateImage renders one image for the prompt at the given size
	// (e.g. "1024x1024").
	GenerateImage(ctx context.Context, prompt, size string) (*ImageResult, error)
}

type client struct {
	apiKey     string
	baseURL    string
	chatModel  string
	imageModel string
	httpClient *http.Client
}

// NewClient creates a provider client. baseURL is the API root without a
// trailing slash, e.g. "https://api.openai.com".
func NewClient(apiKey, baseURL, chatModel, imageModel string) Client {
	return &client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		chatModel:  chatModel,
		imageModel: imageModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) ChatJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	reqBody := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	}
	reqBody.ResponseFormat.Type = "json_object"

	respBody, err := c.post(ctx, "chat", "/v1/chat/completions", reqBody)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parsing chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat response contained no choices")
	}

	content := stripCodeFence(parsed.Choices[0].Message.Content)
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("chat reply is not valid JSON")
	}
	return json.RawMessage(content), nil
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (c *client) GenerateImage(ctx context.Context, prompt, size string) (*ImageResult, error) {
	reqBody := imageRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   size,
	}

	respBody, err := c.post(ctx, "image", "/v1/images/generations", reqBody)
	if err != nil {
		return nil, err
	}

	var parsed imageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parsing image response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("image response contained no data")
	}
	first := parsed.Data[0]
	if first.URL == "" && first.B64JSON == "" {
		return nil, fmt.Errorf("image response had neither url nor b64_json")
	}
	return &ImageResult{URL: first.URL, B64: first.B64JSON}, nil
}

func (c *client) post(ctx context.Context, endpoint, path string, payload interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("calling provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		observability.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncate(respBody, 300))
	}

	observability.UpstreamRequests.WithLabelValues(endpoint, "ok").Inc()
	return respBody, nil
}

// stripCodeFence removes a markdown ```json fence if the model wrapped its
// reply in one despite the JSON response format.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
