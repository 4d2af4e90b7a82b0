package model

// MinActionableConfidence is the gate below which a classification result
// must be ignored by the dispatcher regardless of its intent.
const MinActionableConfidence = 0.5

// ClassificationResult is the outcome of running a message through the
// classifier chain.
type ClassificationResult struct {
	Data       IntentData
	Intent     Intent
	Confidence float64
}

// Actionable reports whether the dispatcher may act on this result.
func (r *ClassificationResult) Actionable() bool {
	return r.Confidence >= MinActionableConfidence
}

// IntentData is the per-intent payload of a classification result. The
// concrete type is determined by the intent: TransactionData for
// EXPENSE/INCOME, MultiTransactionData for MULTIPLE_EXPENSES, LoanData
// for LENDING/BORROWING, StatsData for STATS/CATEGORY_STATS, and
// FallbackData for degraded HELP_GUIDE results. CATEGORY_LIST and HELP
// carry no data (nil).
type IntentData interface {
	intentData()
}

// TransactionData carries the fields of a single extracted transaction.
type TransactionData struct {
	Description string
	Category    string
	// CustomDate is the raw user-supplied date expression ("5/9",
	// "hôm qua", "thứ hai"). Empty means "now".
	CustomDate string
	Amount     int64
}

func (TransactionData) intentData() {}

// MultiTransactionData carries one entry per distinct category group
// extracted from a multi-item message, in extraction order.
type MultiTransactionData struct {
	Transactions []TransactionData
}

func (MultiTransactionData) intentData() {}

// LoanData extends a transaction with the counterparty for
// lending/borrowing intents.
type LoanData struct {
	TransactionData
	Person string
}

func (LoanData) intentData() {}

// Period granularities accepted in StatsData.
const (
	PeriodDay    = "ngay"
	PeriodWeek   = "tuan"
	PeriodMonth  = "thang"
	PeriodYear   = "nam"
	PeriodCustom = "custom"
)

// Relative period keywords accepted in StatsData.SpecificValue.
const (
	ValuePrevMonth = "thang_truoc"
	ValuePrevWeek  = "tuan_truoc"
)

// StatsData carries the resolved parameters of a statistics request.
type StatsData struct {
	// Period is one of the Period* constants; empty defaults to month.
	Period string
	// SpecificValue narrows the period: a day "D/M", a month number,
	// a relative keyword, or a "DD/MM-DD/MM" range for PeriodCustom.
	SpecificValue string
	// CategoryName is set only for CATEGORY_STATS.
	CategoryName string
}

func (StatsData) intentData() {}

// FallbackData marks a HELP_GUIDE result produced while the completion
// engine was unavailable.
type FallbackData struct {
	Degraded bool
}

func (FallbackData) intentData() {}
