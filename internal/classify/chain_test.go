package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongtx/thuchi-bot/internal/model"
)

type stubClassifier struct {
	result *model.ClassificationResult
	err    error
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (*model.ClassificationResult, error) {
	s.calls++
	return s.result, s.err
}

func TestChainStopsAtFirstResult(t *testing.T) {
	first := &stubClassifier{result: &model.ClassificationResult{Intent: model.IntentExpense, Confidence: 0.85}}
	second := &stubClassifier{result: &model.ClassificationResult{Intent: model.IntentHelpGuide, Confidence: 1.0}}

	chain := NewChain(testLogger(), first, second)
	result, err := chain.Classify(context.Background(), "500k trà sữa")

	require.NoError(t, err)
	assert.Equal(t, model.IntentExpense, result.Intent)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestChainSkipsDecliningHandlers(t *testing.T) {
	declining := &stubClassifier{}
	final := &stubClassifier{result: &model.ClassificationResult{Intent: model.IntentHelpGuide, Confidence: 1.0}}

	chain := NewChain(testLogger(), declining, final)
	result, err := chain.Classify(context.Background(), "xin chào")

	require.NoError(t, err)
	assert.Equal(t, model.IntentHelpGuide, result.Intent)
	assert.Equal(t, 1, declining.calls)
	assert.Equal(t, 1, final.calls)
}

func TestChainTreatsErrorsAsDecline(t *testing.T) {
	failing := &stubClassifier{err: errors.New("engine blew up")}
	final := &stubClassifier{result: &model.ClassificationResult{Intent: model.IntentHelpGuide, Confidence: 1.0}}

	chain := NewChain(testLogger(), failing, final)
	result, err := chain.Classify(context.Background(), "anything")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.IntentHelpGuide, result.Intent)
}

func TestChainNeverReturnsNil(t *testing.T) {
	// Even a chain of nothing but declines and failures must produce a
	// well-formed result.
	chain := NewChain(testLogger(), &stubClassifier{}, &stubClassifier{err: errors.New("boom")})

	result, err := chain.Classify(context.Background(), "anything")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.IntentHelpGuide, result.Intent)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestFullChainEngineDisabledScenario(t *testing.T) {
	// Rules first, no engine handler, fallback last: every message
	// still resolves.
	chain := NewChain(testLogger(), NewRuleClassifier(testLogger()), NewFallbackClassifier(testLogger()))

	t.Run("fast path still fires", func(t *testing.T) {
		result, err := chain.Classify(context.Background(), "500k trà sữa")
		require.NoError(t, err)
		assert.Equal(t, model.IntentExpense, result.Intent)
	})

	t.Run("ambiguous message lands in fallback", func(t *testing.T) {
		result, err := chain.Classify(context.Background(), "hôm qua 480k nướng, 575k siêu thị")
		require.NoError(t, err)
		assert.Equal(t, model.IntentHelpGuide, result.Intent)
		data, ok := result.Data.(model.FallbackData)
		require.True(t, ok)
		assert.True(t, data.Degraded)
	})
}
