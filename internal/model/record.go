package model

import "time"

// Direction is whether a record increases or decreases the user's
// recorded balance. The values are the literal store column values.
type Direction string

const (
	// DirectionIncome ("Thu") increases the balance.
	DirectionIncome Direction = "Thu"
	// DirectionExpense ("Chi") decreases the balance.
	DirectionExpense Direction = "Chi"
)

// TransactionRecord is one persisted ledger row. Records are immutable
// once appended; the core never mutates or deletes them.
type TransactionRecord struct {
	Timestamp time.Time
	Direction Direction
	Category  string
	Note      string
	User      string
	Amount    int64
}
