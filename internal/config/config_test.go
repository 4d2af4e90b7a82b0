package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongtx/thuchi-bot/internal/common"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func clearGeminiEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	for i := 1; i <= 5; i++ {
		t.Setenv(fmt.Sprintf("GEMINI_API_KEY_%d", i), "")
	}
}

func TestLoadGeminiKeys(t *testing.T) {
	t.Run("viper list", func(t *testing.T) {
		resetViper(t)
		clearGeminiEnv(t)
		viper.Set("gemini.api_keys", []string{"key-a", "key-b"})

		assert.Equal(t, []string{"key-a", "key-b"}, LoadGeminiKeys())
	})

	t.Run("comma separated entry", func(t *testing.T) {
		resetViper(t)
		clearGeminiEnv(t)
		viper.Set("gemini.api_keys", []string{"key-a, key-b,key-c"})

		assert.Equal(t, []string{"key-a", "key-b", "key-c"}, LoadGeminiKeys())
	})

	t.Run("env list", func(t *testing.T) {
		resetViper(t)
		clearGeminiEnv(t)
		t.Setenv("GEMINI_API_KEYS", "key-a,key-b")

		assert.Equal(t, []string{"key-a", "key-b"}, LoadGeminiKeys())
	})

	t.Run("numbered env stops at gap", func(t *testing.T) {
		resetViper(t)
		clearGeminiEnv(t)
		t.Setenv("GEMINI_API_KEY_1", "key-1")
		t.Setenv("GEMINI_API_KEY_2", "key-2")
		t.Setenv("GEMINI_API_KEY_4", "key-4")

		assert.Equal(t, []string{"key-1", "key-2"}, LoadGeminiKeys())
	})

	t.Run("deduplicates across sources", func(t *testing.T) {
		resetViper(t)
		clearGeminiEnv(t)
		viper.Set("gemini.api_keys", []string{"key-a"})
		t.Setenv("GEMINI_API_KEY", "key-a")
		t.Setenv("GEMINI_API_KEY_1", "key-b")

		assert.Equal(t, []string{"key-a", "key-b"}, LoadGeminiKeys())
	})

	t.Run("no keys anywhere", func(t *testing.T) {
		resetViper(t)
		clearGeminiEnv(t)

		assert.Empty(t, LoadGeminiKeys())
	})
}

func TestLoadGeminiConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		resetViper(t)

		cfg := LoadGeminiConfig()
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("explicit timeout", func(t *testing.T) {
		resetViper(t)
		viper.Set("gemini.timeout", "10s")
		viper.Set("gemini.model", "gemini-1.5-pro")

		cfg := LoadGeminiConfig()
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	})
}

func TestLoadGatewayConfig(t *testing.T) {
	clearGatewayEnv := func(t *testing.T) {
		t.Helper()
		t.Setenv("BOT_API_BASE_URL", "")
		t.Setenv("BOT_API_TOKEN", "")
		t.Setenv("BOT_WEBHOOK_SECRET", "")
	}

	t.Run("from viper", func(t *testing.T) {
		resetViper(t)
		clearGatewayEnv(t)
		viper.Set("gateway.base_url", "https://bot.example.com")
		viper.Set("gateway.token", "tok-123")

		cfg, err := LoadGatewayConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://bot.example.com", cfg.BaseURL)
		assert.Equal(t, "tok-123", cfg.Token)
		assert.Equal(t, ":8080", cfg.ListenAddr)
	})

	t.Run("env fallback", func(t *testing.T) {
		resetViper(t)
		clearGatewayEnv(t)
		t.Setenv("BOT_API_BASE_URL", "https://bot.example.com")
		t.Setenv("BOT_API_TOKEN", "tok-456")
		t.Setenv("BOT_WEBHOOK_SECRET", "s3cret")

		cfg, err := LoadGatewayConfig()
		require.NoError(t, err)
		assert.Equal(t, "tok-456", cfg.Token)
		assert.Equal(t, "s3cret", cfg.WebhookSecret)
	})

	t.Run("missing base url", func(t *testing.T) {
		resetViper(t)
		clearGatewayEnv(t)
		viper.Set("gateway.token", "tok-123")

		_, err := LoadGatewayConfig()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("missing token", func(t *testing.T) {
		resetViper(t)
		clearGatewayEnv(t)
		viper.Set("gateway.base_url", "https://bot.example.com")

		_, err := LoadGatewayConfig()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})
}

func TestLedgerBackend(t *testing.T) {
	t.Run("defaults to sheets", func(t *testing.T) {
		resetViper(t)

		backend, err := LedgerBackend()
		require.NoError(t, err)
		assert.Equal(t, "sheets", backend)
	})

	t.Run("sqlite", func(t *testing.T) {
		resetViper(t)
		viper.Set("ledger.backend", "sqlite")

		backend, err := LedgerBackend()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", backend)
	})

	t.Run("unknown backend", func(t *testing.T) {
		resetViper(t)
		viper.Set("ledger.backend", "postgres")

		_, err := LedgerBackend()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("THUCHI_TEST_DIR", "/var/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "absolute untouched", in: "/etc/thuchi.yaml", want: "/etc/thuchi.yaml"},
		{name: "tilde prefix", in: "~/ledger.db", want: filepath.Join(home, "ledger.db")},
		{name: "bare tilde", in: "~", want: home},
		{name: "env var", in: "$THUCHI_TEST_DIR/ledger.db", want: "/var/data/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
