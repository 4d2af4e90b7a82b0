package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongtx/thuchi-bot/internal/common"
)

func TestIsQuotaSignature(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   bool
	}{
		{name: "429 status", status: http.StatusTooManyRequests, body: "", want: true},
		{name: "quota in body", status: http.StatusBadRequest, body: `{"error": "Quota exceeded for model"}`, want: true},
		{name: "resource exhausted", status: http.StatusServiceUnavailable, body: "RESOURCE_EXHAUSTED", want: true},
		{name: "rate limit text", status: http.StatusForbidden, body: "rate limit reached", want: true},
		{name: "auth failure", status: http.StatusUnauthorized, body: "invalid api key", want: false},
		{name: "server error", status: http.StatusInternalServerError, body: "internal", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isQuotaSignature(tt.status, tt.body))
		})
	}
}

func TestGeminiClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "{\"intent\": \"HELP_GUIDE\"}"}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{BaseURL: server.URL})
	raw, err := client.Complete(context.Background(), "test-key", "phân tích tin nhắn")
	require.NoError(t, err)
	assert.Equal(t, `{"intent": "HELP_GUIDE"}`, raw)
}

func TestGeminiClientQuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "quota exceeded"}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{BaseURL: server.URL})
	_, err := client.Complete(context.Background(), "test-key", "prompt")
	assert.ErrorIs(t, err, common.ErrQuotaExceeded)
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{BaseURL: server.URL})
	_, err := client.Complete(context.Background(), "test-key", "prompt")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrQuotaExceeded)
}
