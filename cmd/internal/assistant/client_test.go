package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthgate/cmd/internal/config"
)

func testClient(baseURL string) *CompletionClient {
	return NewCompletionClient(config.AssistantConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.7,
		MaxTokens:   1024,
		Timeout:     2 * time.Second,
	}, zap.NewNop())
}

func TestCompleteReturnsCompletionText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Take with food."}}]}`))
	}))
	defer server.Close()

	reply := testClient(server.URL).Complete(context.Background(), []ChatMessage{
		{Role: "system", Content: "prompt"},
		{Role: "user", Content: "question"},
	})
	require.Equal(t, "Take with food.", reply)
}

func TestCompleteReportsUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusInternalServerError)
	}))
	defer server.Close()

	reply := testClient(server.URL).Complete(context.Background(), nil)
	require.Contains(t, reply, "API Error 500")
	require.Contains(t, reply, "rate limited")
}

func TestCompleteDegradesWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	reply := testClient(server.URL).Complete(context.Background(), nil)
	require.Equal(t, msgServiceUnavailable, reply)
}

func TestCompleteDegradesOnMissingChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	reply := testClient(server.URL).Complete(context.Background(), nil)
	require.Equal(t, msgUnexpectedFormat, reply)
}

func TestCompleteTruncatesLongErrorBodies(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(long)
	}))
	defer server.Close()

	reply := testClient(server.URL).Complete(context.Background(), nil)
	require.Contains(t, reply, "API Error 502")
	require.LessOrEqual(t, len(reply), len("API Error 502: ")+300)
}
