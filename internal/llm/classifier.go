package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/vuongtx/thuchi-bot/internal/model"
)

const defaultClassifyTimeout = 30 * time.Second

// Classifier sends messages to the language engine for intent
// extraction. It implements service.Classifier and declines (nil, nil)
// whenever the engine cannot produce a usable answer, leaving the
// decision to whatever handler runs after it.
type Classifier struct {
	pool    *KeyPool
	client  Client
	cache   *resultCache
	logger  *slog.Logger
	timeout time.Duration
}

// NewClassifier builds an engine-backed classifier. The pool may be
// empty; in that case every Classify call declines immediately.
func NewClassifier(pool *KeyPool, client Client, logger *slog.Logger, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = defaultClassifyTimeout
	}
	return &Classifier{
		pool:    pool,
		client:  client,
		cache:   newResultCache(0),
		logger:  logger,
		timeout: timeout,
	}
}

// Close releases the classifier's cache resources.
func (c *Classifier) Close() {
	c.cache.Close()
}

func (c *Classifier) Classify(ctx context.Context, message string) (*model.ClassificationResult, error) {
	if c.pool.Size() == 0 {
		return nil, nil
	}

	key := strings.TrimSpace(message)
	if cached, ok := c.cache.get(key); ok {
		c.logger.Debug("classification cache hit")
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildPrompt(message)

	var raw string
	err := c.pool.Execute(ctx, func(apiKey string) error {
		var completeErr error
		raw, completeErr = c.client.Complete(ctx, apiKey, prompt)
		return completeErr
	})
	if err != nil {
		c.logger.Warn("language engine unavailable", "error", err)
		return nil, nil
	}

	result, err := parseResult(raw)
	if err != nil {
		c.logger.Warn("unparseable engine output", "error", err, "raw", truncate(raw, 200))
		return nil, nil
	}

	c.cache.set(key, result)
	return result, nil
}
