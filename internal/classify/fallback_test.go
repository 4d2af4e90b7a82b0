package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongtx/thuchi-bot/internal/model"
)

func TestFallbackIsTotal(t *testing.T) {
	f := NewFallbackClassifier(testLogger())

	messages := []string{
		"",
		"xin chào",
		"500k trà sữa",
		"thời tiết hôm nay thế nào",
		"mua áo 300k",
		"thống kê tháng 8",
		"🎉🎉🎉",
	}

	for _, message := range messages {
		result, err := f.Classify(context.Background(), message)
		require.NoError(t, err, message)
		require.NotNil(t, result, message)
		assert.Equal(t, model.IntentHelpGuide, result.Intent)
	}
}

func TestFallbackDegradedMarking(t *testing.T) {
	f := NewFallbackClassifier(testLogger())

	t.Run("financial keyword marks degraded", func(t *testing.T) {
		result, err := f.Classify(context.Background(), "mua áo")
		require.NoError(t, err)
		assert.InDelta(t, 0.9, result.Confidence, 1e-9)
		data, ok := result.Data.(model.FallbackData)
		require.True(t, ok)
		assert.True(t, data.Degraded)
	})

	t.Run("digit marks degraded", func(t *testing.T) {
		result, err := f.Classify(context.Background(), "abc 500 xyz")
		require.NoError(t, err)
		data, ok := result.Data.(model.FallbackData)
		require.True(t, ok)
		assert.True(t, data.Degraded)
	})

	t.Run("non-financial is a plain guide", func(t *testing.T) {
		result, err := f.Classify(context.Background(), "xin chào")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, result.Confidence, 1e-9)
		data, ok := result.Data.(model.FallbackData)
		require.True(t, ok)
		assert.False(t, data.Degraded)
	})
}
