// Package llm integrates the completion engine: the Gemini REST client,
// the credential rotation pool, and the AI-assisted intent classifier
// built on top of them.
package llm

import "context"

// Client is the completion engine. Implementations must wrap quota-class
// failures (HTTP 429, quota, rate limit, resource exhausted) in
// common.ErrQuotaExceeded so the key pool can distinguish them from
// failures that rotation cannot fix.
type Client interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}
