// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/vuongtx/thuchi-bot/internal/model"
)

// Message is one inbound chat message from the messaging gateway.
type Message struct {
	ChatID      string
	UserID      string
	DisplayName string
	Text        string
}

// Gateway is the outbound side of the messaging transport. The core only
// needs plain-text replies; SendTyping is best-effort and its errors are
// ignored by callers.
type Gateway interface {
	Reply(ctx context.Context, chatID, text string) error
	SendTyping(ctx context.Context, chatID string) error
}

// Ledger is the durable per-user transaction store. Implementations must
// tolerate being called before any record exists (empty result, not an
// error).
type Ledger interface {
	Append(ctx context.Context, user string, record model.TransactionRecord) error
	List(ctx context.Context, user string, start, end time.Time) ([]model.TransactionRecord, error)
	Categories(ctx context.Context, user string) (CategorySet, error)
	SheetURL(user string) string
}

// CategorySet holds the distinct categories observed per direction.
type CategorySet struct {
	Income  []string
	Expense []string
}

// Classifier is one element of the classification chain. A nil result
// with a nil error means the classifier declines and the next handler in
// the chain runs. The final handler of a chain must never decline.
type Classifier interface {
	Classify(ctx context.Context, message string) (*model.ClassificationResult, error)
}

// Statistics aggregates ledger records over a resolved period.
type Statistics struct {
	IncomeByCategory  map[string]int64
	ExpenseByCategory map[string]int64
	Start             time.Time
	End               time.Time
	TotalIncome       int64
	TotalExpense      int64
	TransactionCount  int
}

// Balance is total income minus total expense over the period.
func (s *Statistics) Balance() int64 {
	return s.TotalIncome - s.TotalExpense
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
