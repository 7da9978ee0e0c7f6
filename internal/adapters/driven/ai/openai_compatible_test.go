package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAICompatible {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOpenAICompatible("sk-test", server.URL+"/v1/", server.Client())
}

func TestOpenAICompatible_Complete(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","model":"gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":"## Note"},"finish_reason":"stop"}]}`))
	})

	temp := 0.7
	result, err := client.Complete(context.Background(), &domain.CompletionRequest{
		Model: "gpt-4o",
		Messages: []domain.ChatMessage{{
			Role:    domain.ChatRoleUser,
			Content: []domain.ContentPart{domain.TextPart("hi"), domain.ImagePart("https://img/1.jpg")},
		}},
		Temperature: &temp,
	})
	require.NoError(t, err)

	require.Len(t, result.Choices, 1)
	require.NotNil(t, result.Choices[0].Message)
	assert.Equal(t, "## Note", *result.Choices[0].Message.Content)
	assert.Equal(t, "stop", result.Choices[0].FinishReason)

	assert.Equal(t, "gpt-4o", got["model"])
	assert.Equal(t, 0.7, got["temperature"])
	_, hasMax := got["max_tokens"]
	assert.False(t, hasMax)

	msgs := got["messages"].([]interface{})
	content := msgs[0].(map[string]interface{})["content"].([]interface{})
	require.Len(t, content, 2)
	image := content[1].(map[string]interface{})
	assert.Equal(t, "image_url", image["type"])
	assert.Equal(t, map[string]interface{}{"url": "https://img/1.jpg", "detail": "auto"}, image["image_url"])
}

func TestOpenAICompatible_Complete_SingleTextPartIsString(t *testing.T) {
	var got struct {
		Messages []struct {
			Content interface{} `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"p"}}]}`))
	})

	_, err := client.Complete(context.Background(), &domain.CompletionRequest{
		Model:     "m",
		Messages:  []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: []domain.ContentPart{domain.TextPart("ping")}}},
		MaxTokens: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "ping", got.Messages[0].Content)
	assert.Equal(t, 1, got.MaxTokens)
}

func TestOpenAICompatible_Complete_NullContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":null}}]}`))
	})

	result, err := client.Complete(context.Background(), &domain.CompletionRequest{Model: "m"})
	require.NoError(t, err)
	require.Len(t, result.Choices, 1)
	assert.Nil(t, result.Choices[0].Message.Content)
}

func TestOpenAICompatible_Complete_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := client.Complete(context.Background(), &domain.CompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestOpenAICompatible_Complete_Cancelled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, &domain.CompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpenAICompatible_ListModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"a"},{"id":"b"}]}`))
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.ModelDescriptor{{ID: "a"}, {ID: "b"}}, models)
}

func TestOpenAICompatible_ListModels_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.ListModels(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestOpenAICompatible_NoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3"}]}`))
	}))
	defer server.Close()

	client := NewOpenAICompatible("", server.URL, nil)
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.ModelDescriptor{{ID: "llama3"}}, models)
	assert.NoError(t, client.Close())
}

func TestOpenAICompatible_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewOpenAICompatible("sk", url, nil)
	_, err := client.ListModels(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}
