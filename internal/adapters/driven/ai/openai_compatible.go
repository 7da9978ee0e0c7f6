package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// DefaultBaseURL is used when a provider has no base URL
const DefaultBaseURL = "https://api.openai.com/v1"

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 32 << 20

// Ensure OpenAICompatible implements LLMClient
var _ driven.LLMClient = (*OpenAICompatible)(nil)

// OpenAICompatible talks to any endpoint speaking the OpenAI chat completions
// and model listing API. It holds no state besides its credentials.
type OpenAICompatible struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAICompatible creates a client for baseURL. An empty apiKey sends no
// Authorization header, which local servers such as Ollama accept.
func NewOpenAICompatible(apiKey, baseURL string, client *http.Client) *OpenAICompatible {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAICompatible{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// chatRequest is the request body for the chat completions API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage carries either a plain string or a list of content parts
type chatMessage struct {
	Role    domain.ChatRole `json:"role"`
	Content interface{}     `json:"content"` // string or []domain.ContentPart
}

// chatResponse is the response from the chat completions API
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message *struct {
			Role    domain.ChatRole `json:"role"`
			Content *string         `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// apiError is the error envelope returned by OpenAI-compatible servers
type apiError struct {
	Error *struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error,omitempty"`
}

// Complete executes one chat completion call
func (c *OpenAICompatible) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResult, error) {
	body := chatRequest{
		Model:       req.Model,
		Messages:    make([]chatMessage, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for i, msg := range req.Messages {
		body.Messages[i] = toWireMessage(msg)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/chat/completions", payload)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse completion: %v", domain.ErrTransport, err)
	}

	result := &domain.CompletionResult{
		ID:      resp.ID,
		Model:   resp.Model,
		Choices: make([]domain.CompletionChoice, len(resp.Choices)),
	}
	for i, ch := range resp.Choices {
		choice := domain.CompletionChoice{Index: ch.Index, FinishReason: ch.FinishReason}
		if ch.Message != nil {
			choice.Message = &domain.CompletionMessage{Role: ch.Message.Role, Content: ch.Message.Content}
		}
		result.Choices[i] = choice
	}
	return result, nil
}

// ListModels lists the endpoint's models. Unrecognized listing shapes yield an empty list.
func (c *OpenAICompatible) ListModels(ctx context.Context) ([]domain.ModelDescriptor, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}
	return DecodeModelListing(respBody), nil
}

// Close releases idle connections
func (c *OpenAICompatible) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// toWireMessage sends a lone text part as a plain string
func toWireMessage(msg domain.ChatMessage) chatMessage {
	if len(msg.Content) == 1 && msg.Content[0].Type == domain.ContentPartText {
		return chatMessage{Role: msg.Role, Content: msg.Content[0].Text}
	}
	return chatMessage{Role: msg.Role, Content: msg.Content}
}

// do sends one request and returns the body of a 2xx response.
// Every failure wraps domain.ErrTransport.
func (c *OpenAICompatible) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrTransport, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s %s returned status %d: %s",
				domain.ErrTransport, method, path, resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: %s %s returned status %d", domain.ErrTransport, method, path, resp.StatusCode)
	}

	return respBody, nil
}
