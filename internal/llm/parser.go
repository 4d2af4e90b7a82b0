package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vuongtx/thuchi-bot/internal/common"
	"github.com/vuongtx/thuchi-bot/internal/model"
)

type wireResult struct {
	Data       wireData `json:"data"`
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
}

type wireData struct {
	Amount        *float64  `json:"amount"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	CustomDate    string    `json:"custom_date"`
	Person        string    `json:"person"`
	Transactions  []wireTxn `json:"transactions"`
	TimePeriod    string    `json:"time_period"`
	SpecificValue string    `json:"specific_value"`
	CategoryName  string    `json:"category_name"`
}

type wireTxn struct {
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	CustomDate  string   `json:"custom_date"`
}

// parseResult converts raw engine output into a classification result.
// The engine sometimes wraps JSON in markdown fences despite being told
// not to, so those are stripped before decoding.
func parseResult(raw string) (*model.ClassificationResult, error) {
	cleaned := cleanMarkdownWrapper(raw)

	var wire wireResult
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedOutput, err)
	}

	intent := model.Intent(strings.ToUpper(strings.TrimSpace(wire.Intent)))
	if !intent.Valid() {
		return nil, fmt.Errorf("%w: unknown intent %q", common.ErrMalformedOutput, wire.Intent)
	}

	result := &model.ClassificationResult{
		Intent:     intent,
		Confidence: wire.Confidence,
	}

	switch intent {
	case model.IntentExpense:
		result.Data = transactionData(wire.Data, model.DirectionExpense)
	case model.IntentIncome:
		result.Data = transactionData(wire.Data, model.DirectionIncome)
	case model.IntentMultipleExpenses:
		multi := model.MultiTransactionData{}
		for _, txn := range wire.Data.Transactions {
			multi.Transactions = append(multi.Transactions, model.TransactionData{
				Amount:      roundAmount(txn.Amount),
				Description: txn.Description,
				Category:    model.NormalizeCategory(txn.Category, model.DirectionExpense),
				CustomDate:  txn.CustomDate,
			})
		}
		result.Data = multi
	case model.IntentLending, model.IntentBorrowing:
		person := strings.TrimSpace(wire.Data.Person)
		if person == "" {
			person = "N/A"
		}
		result.Data = model.LoanData{
			TransactionData: model.TransactionData{
				Amount:      roundAmount(wire.Data.Amount),
				Description: wire.Data.Description,
				CustomDate:  wire.Data.CustomDate,
			},
			Person: person,
		}
	case model.IntentStats, model.IntentCategoryStats:
		result.Data = model.StatsData{
			Period:        wire.Data.TimePeriod,
			SpecificValue: wire.Data.SpecificValue,
			CategoryName:  wire.Data.CategoryName,
		}
	default:
		result.Data = model.FallbackData{}
	}

	return result, nil
}

func transactionData(d wireData, direction model.Direction) model.TransactionData {
	return model.TransactionData{
		Amount:      roundAmount(d.Amount),
		Description: d.Description,
		Category:    model.NormalizeCategory(d.Category, direction),
		CustomDate:  d.CustomDate,
	}
}

func roundAmount(amount *float64) int64 {
	if amount == nil {
		return 0
	}
	return int64(*amount + 0.5)
}

// cleanMarkdownWrapper strips ```json fences around a JSON payload.
func cleanMarkdownWrapper(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
