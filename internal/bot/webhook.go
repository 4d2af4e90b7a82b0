package bot

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vuongtx/thuchi-bot/internal/service"
)

// webhookUpdate is the inbound payload the chat platform delivers.
type webhookUpdate struct {
	Message struct {
		Chat struct {
			ID string `json:"id"`
		} `json:"chat"`
		From struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"from"`
		Text string `json:"text"`
	} `json:"message"`
}

// Webhook receives platform updates over HTTP and hands each message to
// the dispatcher. Each request is handled to completion before the
// response is written; the platform's delivery timeout bounds total
// work per message.
type Webhook struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
	secret     string
}

// NewWebhook builds the inbound webhook handler. secret, when
// non-empty, must match the X-Webhook-Secret header of every request.
func NewWebhook(dispatcher *Dispatcher, secret string, logger *slog.Logger) *Webhook {
	return &Webhook{dispatcher: dispatcher, secret: secret, logger: logger}
}

func (w *Webhook) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if w.secret != "" && req.Header.Get("X-Webhook-Secret") != w.secret {
		w.logger.Warn("webhook request with bad secret", "remote", req.RemoteAddr)
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	var update webhookUpdate
	if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
		w.logger.Warn("malformed webhook payload", "error", err)
		http.Error(rw, "bad request", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" || update.Message.Chat.ID == "" {
		// Non-text updates (stickers, joins) are acknowledged and dropped.
		rw.WriteHeader(http.StatusOK)
		return
	}

	msg := service.Message{
		ChatID:      update.Message.Chat.ID,
		UserID:      update.Message.From.ID,
		DisplayName: update.Message.From.DisplayName,
		Text:        text,
	}

	if err := w.dispatcher.Handle(req.Context(), msg); err != nil {
		// The dispatcher already replied or logged; the platform only
		// needs a 200 so it does not redeliver.
		w.logger.Error("message handling failed", "error", err, "chat", msg.ChatID)
	}

	rw.WriteHeader(http.StatusOK)
}

// HealthHandler answers liveness probes.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		if _, err := rw.Write([]byte("ok")); err != nil {
			slog.Debug("failed to write health response", "error", err)
		}
	})
}
