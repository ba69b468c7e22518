package orclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atomiclibrary/atom/src/aisdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest() *aisdk.ChatCompletionRequest {
	maxTokens := 1500
	return &aisdk.ChatCompletionRequest{
		Model: "mistralai/mistral-small-3.2-24b-instruct-2506:free",
		Messages: []*aisdk.Message{
			aisdk.NewTextMessage("user", "২+২ কত?"),
		},
		MaxTokens: &maxTokens,
	}
}

func TestCreateChatCompletion(t *testing.T) {
	var gotAuth, gotReferer, gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")

		var req aisdk.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistralai/mistral-small-3.2-24b-instruct-2506:free", req.Model)

		json.NewEncoder(w).Encode(map[string]any{
			"id": "gen-1",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "৪"}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{
		APIKey:   "sk-or-test",
		BaseURL:  server.URL,
		SiteURL:  "https://yolibrary.example",
		SiteName: "ATOM AI - YO Library",
	})

	resp, err := client.CreateChatCompletion(context.Background(), newTestRequest())
	require.NoError(t, err)

	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "৪", text)

	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Equal(t, "https://yolibrary.example", gotReferer)
	assert.Equal(t, "ATOM AI - YO Library", gotTitle)
}

func TestCreateChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-or-test", BaseURL: server.URL})

	_, err := client.CreateChatCompletion(context.Background(), newTestRequest())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.True(t, apiErr.IsRateLimit())
	assert.True(t, apiErr.IsRetryable())
}

func TestCreateChatCompletionMissingKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.CreateChatCompletion(context.Background(), newTestRequest())
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.False(t, called, "a keyless client must not reach the network")
}

func TestCreateChatCompletionAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-or-revoked", BaseURL: server.URL})
	_, err := client.CreateChatCompletion(context.Background(), newTestRequest())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.True(t, apiErr.IsAuthError())
	assert.False(t, apiErr.IsRetryable())
}

func TestCreateChatCompletionMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-or-test", BaseURL: server.URL})
	_, err := client.CreateChatCompletion(context.Background(), newTestRequest())
	assert.Error(t, err)
}

func TestCreateChatCompletionNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"gen-1","choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-or-test", BaseURL: server.URL})
	_, err := client.CreateChatCompletion(context.Background(), newTestRequest())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCreateChatCompletionDeadline(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewClient(Config{APIKey: "sk-or-test", BaseURL: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.CreateChatCompletion(ctx, newTestRequest())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second, "call must abort at the deadline")
}
