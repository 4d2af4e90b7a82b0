package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongtx/thuchi-bot/internal/common"
)

func quotaErr() error {
	return fmt.Errorf("%w: 429 resource_exhausted", common.ErrQuotaExceeded)
}

func testPool(t *testing.T, keys ...string) *KeyPool {
	t.Helper()
	return NewKeyPool(keys, slog.Default())
}

func TestKeyPoolCurrentSkipsCooling(t *testing.T) {
	pool := testPool(t, "key-one-aaaa", "key-two-bbbb", "key-three-cccc")

	key, err := pool.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-one-aaaa", key)

	pool.MarkFailed("key-one-aaaa", quotaErr())

	key, err = pool.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-two-bbbb", key)
}

func TestKeyPoolEmpty(t *testing.T) {
	pool := testPool(t)
	_, err := pool.Current()
	assert.ErrorIs(t, err, common.ErrEngineDisabled)

	err = pool.Execute(context.Background(), func(string) error { return nil })
	assert.ErrorIs(t, err, common.ErrEngineDisabled)
}

func TestKeyPoolNonQuotaFailureDoesNotRotate(t *testing.T) {
	pool := testPool(t, "key-one-aaaa", "key-two-bbbb")

	pool.MarkFailed("key-one-aaaa", errors.New("invalid request"))

	key, err := pool.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-one-aaaa", key)
	assert.True(t, pool.HasUsable())
}

func TestKeyPoolCooldownExpires(t *testing.T) {
	pool := testPool(t, "key-one-aaaa", "key-two-bbbb")

	clock := time.Date(2025, time.October, 15, 10, 0, 0, 0, time.UTC)
	pool.now = func() time.Time { return clock }

	pool.MarkFailed("key-one-aaaa", quotaErr())
	key, err := pool.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-two-bbbb", key)

	// 30 minutes later the first credential is usable again.
	clock = clock.Add(31 * time.Minute)
	pool.MarkFailed("key-two-bbbb", quotaErr())
	key, err = pool.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-one-aaaa", key)
}

func TestKeyPoolAllCoolingReturnsBestEffort(t *testing.T) {
	pool := testPool(t, "key-one-aaaa", "key-two-bbbb")

	pool.MarkFailed("key-one-aaaa", quotaErr())
	pool.MarkFailed("key-two-bbbb", quotaErr())

	assert.False(t, pool.HasUsable())

	// The pool never blocks and never returns empty.
	key, err := pool.Current()
	require.NoError(t, err)
	assert.NotEmpty(t, key)
}

func TestKeyPoolExecuteRotatesOnQuota(t *testing.T) {
	pool := testPool(t, "key-one-aaaa", "key-two-bbbb", "key-three-cccc")

	var used []string
	err := pool.Execute(context.Background(), func(key string) error {
		used = append(used, key)
		if len(used) < 3 {
			return quotaErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"key-one-aaaa", "key-two-bbbb", "key-three-cccc"}, used)
}

func TestKeyPoolExecuteExhaustion(t *testing.T) {
	pool := testPool(t, "key-one-aaaa", "key-two-bbbb")

	attempts := 0
	err := pool.Execute(context.Background(), func(string) error {
		attempts++
		return quotaErr()
	})

	assert.ErrorIs(t, err, common.ErrEngineExhausted)
	// Bounded to one attempt per configured credential.
	assert.Equal(t, 2, attempts)
}

func TestKeyPoolExecuteNonQuotaReturnsImmediately(t *testing.T) {
	pool := testPool(t, "key-one-aaaa", "key-two-bbbb")

	authErr := errors.New("401 unauthorized")
	attempts := 0
	err := pool.Execute(context.Background(), func(string) error {
		attempts++
		return authErr
	})

	assert.ErrorIs(t, err, authErr)
	assert.Equal(t, 1, attempts)
}

func TestKeyPoolExecuteHonorsContext(t *testing.T) {
	pool := testPool(t, "key-one-aaaa")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Execute(ctx, func(string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyPoolStatus(t *testing.T) {
	pool := testPool(t, "key-one-aaaa", "key-two-bbbb")
	pool.MarkFailed("key-one-aaaa", quotaErr())

	statuses := pool.Status()
	require.Len(t, statuses, 2)

	// Index is already 1-based so it lines up with GEMINI_API_KEY_N.
	assert.Equal(t, 1, statuses[0].Index)
	assert.Equal(t, 2, statuses[1].Index)

	assert.Equal(t, "key-one-...", statuses[0].Preview)
	assert.True(t, statuses[0].CoolingDown)
	assert.Greater(t, statuses[0].CooldownRemaining, time.Duration(0))
	assert.False(t, statuses[1].CoolingDown)
	assert.True(t, statuses[1].Current)
}
