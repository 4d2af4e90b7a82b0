package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongtx/thuchi-bot/internal/common"
	"github.com/vuongtx/thuchi-bot/internal/model"
)

func TestParseResultExpense(t *testing.T) {
	raw := `{"intent": "EXPENSE", "confidence": 0.95, "data": {"amount": 500000, "description": "trà sữa", "category": "Ăn uống", "custom_date": null}}`

	result, err := parseResult(raw)
	require.NoError(t, err)
	assert.Equal(t, model.IntentExpense, result.Intent)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)

	data, ok := result.Data.(model.TransactionData)
	require.True(t, ok)
	assert.Equal(t, int64(500_000), data.Amount)
	assert.Equal(t, "Ăn uống", data.Category)
	assert.Empty(t, data.CustomDate)
}

func TestParseResultMarkdownFences(t *testing.T) {
	fenced := "```json\n{\"intent\": \"INCOME\", \"confidence\": 0.9, \"data\": {\"amount\": 5000000, \"description\": \"lương\", \"category\": \"Lương\"}}\n```"

	result, err := parseResult(fenced)
	require.NoError(t, err)
	assert.Equal(t, model.IntentIncome, result.Intent)

	data, ok := result.Data.(model.TransactionData)
	require.True(t, ok)
	assert.Equal(t, int64(5_000_000), data.Amount)
}

func TestParseResultMultipleExpenses(t *testing.T) {
	raw := `{"intent": "MULTIPLE_EXPENSES", "confidence": 0.9, "data": {"transactions": [
		{"amount": 480000, "description": "nướng", "category": "Ăn uống", "custom_date": "hôm qua"},
		{"amount": 575000, "description": "siêu thị", "category": "Mua sắm", "custom_date": "hôm qua"}
	]}}`

	result, err := parseResult(raw)
	require.NoError(t, err)
	assert.Equal(t, model.IntentMultipleExpenses, result.Intent)

	data, ok := result.Data.(model.MultiTransactionData)
	require.True(t, ok)
	require.Len(t, data.Transactions, 2)
	assert.Equal(t, int64(480_000), data.Transactions[0].Amount)
	assert.Equal(t, "Ăn uống", data.Transactions[0].Category)
	assert.Equal(t, "hôm qua", data.Transactions[0].CustomDate)
	assert.Equal(t, int64(575_000), data.Transactions[1].Amount)
	assert.Equal(t, "Mua sắm", data.Transactions[1].Category)
	assert.Equal(t, "hôm qua", data.Transactions[1].CustomDate)
}

func TestParseResultLoans(t *testing.T) {
	t.Run("lending with person", func(t *testing.T) {
		raw := `{"intent": "LENDING", "confidence": 0.92, "data": {"amount": 2000000, "description": "cho vay", "person": "An"}}`
		result, err := parseResult(raw)
		require.NoError(t, err)
		data, ok := result.Data.(model.LoanData)
		require.True(t, ok)
		assert.Equal(t, "An", data.Person)
		assert.Equal(t, int64(2_000_000), data.Amount)
	})

	t.Run("missing person defaults", func(t *testing.T) {
		raw := `{"intent": "BORROWING", "confidence": 0.9, "data": {"amount": 1000000, "description": "mượn tiền"}}`
		result, err := parseResult(raw)
		require.NoError(t, err)
		data, ok := result.Data.(model.LoanData)
		require.True(t, ok)
		assert.Equal(t, "N/A", data.Person)
	})
}

func TestParseResultStats(t *testing.T) {
	raw := `{"intent": "STATS", "confidence": 0.95, "data": {"time_period": "thang", "specific_value": "8"}}`

	result, err := parseResult(raw)
	require.NoError(t, err)
	data, ok := result.Data.(model.StatsData)
	require.True(t, ok)
	assert.Equal(t, model.PeriodMonth, data.Period)
	assert.Equal(t, "8", data.SpecificValue)
}

func TestParseResultCategoryCoercion(t *testing.T) {
	raw := `{"intent": "EXPENSE", "confidence": 0.9, "data": {"amount": 100000, "description": "gì đó", "category": "Danh Mục Tự Chế"}}`

	result, err := parseResult(raw)
	require.NoError(t, err)
	data, ok := result.Data.(model.TransactionData)
	require.True(t, ok)
	assert.Equal(t, model.CategoryOther, data.Category)
}

func TestParseResultFractionalAmountRounds(t *testing.T) {
	raw := `{"intent": "EXPENSE", "confidence": 0.9, "data": {"amount": 99999.6, "description": "x", "category": "Khác"}}`

	result, err := parseResult(raw)
	require.NoError(t, err)
	data, ok := result.Data.(model.TransactionData)
	require.True(t, ok)
	assert.Equal(t, int64(100_000), data.Amount)
}

func TestParseResultMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "xin lỗi, tôi không hiểu"},
		{name: "unknown intent", raw: `{"intent": "DANCE", "confidence": 0.9, "data": {}}`},
		{name: "empty", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseResult(tt.raw)
			assert.ErrorIs(t, err, common.ErrMalformedOutput)
		})
	}
}

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fences", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "  {\"a\":1}\n", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.in))
		})
	}
}
