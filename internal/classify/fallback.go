package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vuongtx/thuchi-bot/internal/model"
)

// financialKeywords is the small fixed vocabulary scanned in degraded
// mode to decide whether the user was trying to talk about money.
var financialKeywords = []string{
	"chi", "tiêu", "mua", "trả", "thu", "nhận", "lương", "thưởng",
	"thống kê", "báo cáo", "tổng kết", "danh mục", "help", "hướng dẫn",
}

// FallbackClassifier is the guaranteed-total terminal handler of the
// chain. It never declines and never fails: every message yields a
// well-formed HELP_GUIDE result.
type FallbackClassifier struct {
	logger *slog.Logger
}

// NewFallbackClassifier creates the degraded-mode classifier.
func NewFallbackClassifier(logger *slog.Logger) *FallbackClassifier {
	return &FallbackClassifier{logger: logger}
}

// Classify always returns a result. If the message looks financial (a
// known keyword or any digit) the result is marked degraded so the reply
// carries the "AI unavailable, use explicit syntax" notice; otherwise it
// is the plain non-financial guide.
func (f *FallbackClassifier) Classify(_ context.Context, message string) (*model.ClassificationResult, error) {
	lower := strings.ToLower(strings.TrimSpace(message))

	if containsAny(lower, financialKeywords) || containsDigit(lower) {
		f.logger.Info("degraded classification for financial-looking message")
		return &model.ClassificationResult{
			Intent:     model.IntentHelpGuide,
			Confidence: 0.9,
			Data:       model.FallbackData{Degraded: true},
		}, nil
	}

	return &model.ClassificationResult{
		Intent:     model.IntentHelpGuide,
		Confidence: 1.0,
		Data:       model.FallbackData{},
	}, nil
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
