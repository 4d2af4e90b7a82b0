package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vuongtx/thuchi-bot/internal/llm"
)

// LoadGeminiKeys collects completion-engine API keys from every
// supported source, in order:
//  1. gemini.api_keys from Viper (list or comma-separated string)
//  2. GEMINI_API_KEYS (comma-separated)
//  3. GEMINI_API_KEY (single key)
//  4. GEMINI_API_KEY_1 .. GEMINI_API_KEY_N (numbered, stops at the
//     first gap)
//
// An empty result is not an error: the classifier chain runs without
// the engine and degrades gracefully.
func LoadGeminiKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(raw string) {
		key := strings.TrimSpace(raw)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		keys = append(keys, key)
	}

	for _, key := range viper.GetStringSlice("gemini.api_keys") {
		for _, part := range strings.Split(key, ",") {
			add(part)
		}
	}

	if v := os.Getenv("GEMINI_API_KEYS"); v != "" {
		for _, part := range strings.Split(v, ",") {
			add(part)
		}
	}

	add(os.Getenv("GEMINI_API_KEY"))

	for i := 1; ; i++ {
		v := os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i))
		if v == "" {
			break
		}
		add(v)
	}

	return keys
}

// LoadGeminiConfig loads completion-engine client settings.
func LoadGeminiConfig() llm.GeminiConfig {
	cfg := llm.GeminiConfig{
		BaseURL:     viper.GetString("gemini.base_url"),
		Model:       viper.GetString("gemini.model"),
		Temperature: viper.GetFloat64("gemini.temperature"),
		MaxTokens:   viper.GetInt("gemini.max_tokens"),
	}
	if v := viper.GetDuration("gemini.timeout"); v > 0 {
		cfg.Timeout = v
	} else {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}
