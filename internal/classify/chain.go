package classify

import (
	"context"
	"log/slog"

	"github.com/vuongtx/thuchi-bot/internal/model"
	"github.com/vuongtx/thuchi-bot/internal/service"
)

// Chain runs classifiers in order and stops at the first one that
// produces a result. Handler errors are logged and treated as a decline,
// so a failing AI handler degrades instead of surfacing. The last handler
// is expected to be total (never decline); the trailing safety result
// covers a misconfigured chain.
type Chain struct {
	logger   *slog.Logger
	handlers []service.Classifier
}

// NewChain builds a classification chain from ordered handlers.
func NewChain(logger *slog.Logger, handlers ...service.Classifier) *Chain {
	return &Chain{logger: logger, handlers: handlers}
}

// Classify never returns an error and never returns nil.
func (c *Chain) Classify(ctx context.Context, message string) (*model.ClassificationResult, error) {
	for _, h := range c.handlers {
		result, err := h.Classify(ctx, message)
		if err != nil {
			c.logger.Warn("classifier failed, trying next handler", "error", err)
			continue
		}
		if result != nil {
			return result, nil
		}
	}

	return &model.ClassificationResult{
		Intent:     model.IntentHelpGuide,
		Confidence: 1.0,
		Data:       model.FallbackData{},
	}, nil
}
