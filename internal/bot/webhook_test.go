package bot

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongtx/thuchi-bot/internal/model"
)

func newTestWebhook(secret string) (*Webhook, *mockGateway, *mockLedger) {
	gateway := &mockGateway{}
	ledger := &mockLedger{}
	result := &model.ClassificationResult{
		Intent:     model.IntentExpense,
		Confidence: 0.9,
		Data:       model.TransactionData{Amount: 500_000, Description: "trà sữa", Category: "Ăn uống"},
	}
	d := NewDispatcher(gateway, ledger, &fixedClassifier{result: result}, slog.Default())
	d.now = func() time.Time { return dispatcherNow }
	return NewWebhook(d, secret, slog.Default()), gateway, ledger
}

func TestWebhookRejectsNonPost(t *testing.T) {
	hook, _, _ := newTestWebhook("")

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	hook.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	hook, gateway, _ := newTestWebhook("s3cret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	req.Header.Set("X-Webhook-Secret", "wrong")
	rec := httptest.NewRecorder()
	hook.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, gateway.replies)
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	hook, _, _ := newTestWebhook("")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	hook.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookAcknowledgesNonTextUpdate(t *testing.T) {
	hook, gateway, ledger := newTestWebhook("")

	body := `{"message": {"chat": {"id": "chat-1"}, "from": {"id": "user-1"}, "text": "   "}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	hook.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gateway.replies)
	assert.Empty(t, ledger.appended)
}

func TestWebhookDispatchesTextMessage(t *testing.T) {
	hook, gateway, ledger := newTestWebhook("s3cret")

	body := `{"message": {"chat": {"id": "chat-1"}, "from": {"id": "user-1", "display_name": "Minh"}, "text": "500k trà sữa"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Webhook-Secret", "s3cret")
	rec := httptest.NewRecorder()
	hook.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ledger.appended, 1)
	assert.Equal(t, int64(500_000), ledger.appended[0].Amount)
	assert.Equal(t, "Minh", ledger.appended[0].User)
	require.NotEmpty(t, gateway.replies)
	assert.Contains(t, gateway.replies[0], "Đã ghi nhận khoản chi")
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	HealthHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
