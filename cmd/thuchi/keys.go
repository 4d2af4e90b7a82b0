package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vuongtx/thuchi-bot/internal/config"
	"github.com/vuongtx/thuchi-bot/internal/llm"
)

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage completion-engine API keys",
	}
	cmd.AddCommand(keysStatusCmd())
	return cmd
}

func keysStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configured API keys and their cooldown state",
		RunE: func(_ *cobra.Command, _ []string) error {
			keys := config.LoadGeminiKeys()
			if len(keys) == 0 {
				fmt.Println("No Gemini API keys configured.")
				fmt.Println("Set GEMINI_API_KEY, GEMINI_API_KEYS, or gemini.api_keys in the config file.")
				return nil
			}

			pool := llm.NewKeyPool(keys, slog.Default())
			fmt.Printf("Configured keys: %d\n\n", pool.Size())

			for _, status := range pool.Status() {
				marker := " "
				if status.Current {
					marker = "*"
				}
				state := "ready"
				if status.CoolingDown {
					state = fmt.Sprintf("cooling down (%s left)", status.CooldownRemaining.Round(time.Second))
				}
				fmt.Printf("%s %2d. %s  %s\n", marker, status.Index, status.Preview, state)
			}
			return nil
		},
	}
}
