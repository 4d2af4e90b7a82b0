// Package model defines the core domain types shared across the application.
package model

// Intent identifies what the user wants from a single inbound message.
// Exactly one intent is assigned per message.
type Intent string

// The closed set of recognized intents.
const (
	IntentExpense          Intent = "EXPENSE"
	IntentIncome           Intent = "INCOME"
	IntentMultipleExpenses Intent = "MULTIPLE_EXPENSES"
	IntentLending          Intent = "LENDING"
	IntentBorrowing        Intent = "BORROWING"
	IntentStats            Intent = "STATS"
	IntentCategoryStats    Intent = "CATEGORY_STATS"
	IntentCategoryList     Intent = "CATEGORY_LIST"
	IntentHelp             Intent = "HELP"
	// IntentHelpGuide is the catch-all for non-financial input and for
	// degraded-mode responses.
	IntentHelpGuide Intent = "HELP_GUIDE"
)

// Valid reports whether the intent belongs to the closed enumeration.
func (i Intent) Valid() bool {
	switch i {
	case IntentExpense, IntentIncome, IntentMultipleExpenses,
		IntentLending, IntentBorrowing,
		IntentStats, IntentCategoryStats, IntentCategoryList,
		IntentHelp, IntentHelpGuide:
		return true
	}
	return false
}
