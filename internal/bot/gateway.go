package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPGateway sends outbound messages through the chat platform's bot
// HTTP API.
type HTTPGateway struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	token      string
}

// NewHTTPGateway builds a gateway for the bot API at baseURL,
// authenticating with token.
func NewHTTPGateway(baseURL, token string, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		token:   token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// Reply sends a plain-text message to the chat.
func (g *HTTPGateway) Reply(ctx context.Context, chatID, text string) error {
	return g.post(ctx, "/sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

// SendTyping shows the typing indicator in the chat. Best effort;
// callers may ignore the error.
func (g *HTTPGateway) SendTyping(ctx context.Context, chatID string) error {
	return g.post(ctx, "/sendChatAction", map[string]any{
		"chat_id": chatID,
		"action":  "typing",
	})
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			g.logger.Debug("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}
