package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/vuongtx/thuchi-bot/internal/common"
)

// GatewayConfig holds the messaging transport settings.
type GatewayConfig struct {
	BaseURL       string
	Token         string
	WebhookSecret string
	ListenAddr    string
}

// LoadGatewayConfig loads the messaging gateway settings. The bot API
// base URL and token are required; the webhook secret is optional.
func LoadGatewayConfig() (*GatewayConfig, error) {
	cfg := &GatewayConfig{
		BaseURL:       viper.GetString("gateway.base_url"),
		Token:         viper.GetString("gateway.token"),
		WebhookSecret: viper.GetString("gateway.webhook_secret"),
		ListenAddr:    viper.GetString("gateway.listen_addr"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BOT_API_BASE_URL")
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("BOT_API_TOKEN")
	}
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = os.Getenv("BOT_WEBHOOK_SECRET")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: gateway.base_url (or BOT_API_BASE_URL) is required", common.ErrMissingConfig)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: gateway.token (or BOT_API_TOKEN) is required", common.ErrMissingConfig)
	}

	return cfg, nil
}

// LedgerBackend returns which ledger store to use: "sheets" (default)
// or "sqlite".
func LedgerBackend() (string, error) {
	backend := viper.GetString("ledger.backend")
	if backend == "" {
		backend = "sheets"
	}
	switch backend {
	case "sheets", "sqlite":
		return backend, nil
	}
	return "", fmt.Errorf("%w: ledger.backend must be \"sheets\" or \"sqlite\", got %q", common.ErrInvalidConfig, backend)
}

// SQLitePath returns the database path for the sqlite ledger backend.
func SQLitePath() string {
	if v := viper.GetString("ledger.sqlite_path"); v != "" {
		return ExpandPath(v)
	}
	return ExpandPath("~/.thuchi/ledger.db")
}
