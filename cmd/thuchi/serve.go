package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vuongtx/thuchi-bot/internal/bot"
	"github.com/vuongtx/thuchi-bot/internal/classify"
	"github.com/vuongtx/thuchi-bot/internal/config"
	"github.com/vuongtx/thuchi-bot/internal/llm"
	"github.com/vuongtx/thuchi-bot/internal/service"
	"github.com/vuongtx/thuchi-bot/internal/sheets"
	"github.com/vuongtx/thuchi-bot/internal/storage"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Long: `Starts the HTTP server that receives chat platform webhooks,
classifies each message, and records transactions to the ledger.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	gatewayCfg, err := config.LoadGatewayConfig()
	if err != nil {
		return err
	}

	ledger, cleanup, err := buildLedger(ctx, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	classifier, closeClassifier := buildClassifier(logger)
	defer closeClassifier()

	gateway := bot.NewHTTPGateway(gatewayCfg.BaseURL, gatewayCfg.Token, logger)
	dispatcher := bot.NewDispatcher(gateway, ledger, classifier, logger)

	mux := http.NewServeMux()
	mux.Handle("/webhook", bot.NewWebhook(dispatcher, gatewayCfg.WebhookSecret, logger))
	mux.Handle("/healthz", bot.HealthHandler())

	server := &http.Server{
		Addr:              gatewayCfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("webhook server listening", "addr", gatewayCfg.ListenAddr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown failed", "error", shutdownErr)
		}
		return nil
	case serveErr := <-errCh:
		return fmt.Errorf("server failed: %w", serveErr)
	}
}

// buildLedger constructs the configured ledger backend.
func buildLedger(ctx context.Context, logger *slog.Logger) (service.Ledger, func(), error) {
	backend, err := config.LedgerBackend()
	if err != nil {
		return nil, nil, err
	}

	switch backend {
	case "sqlite":
		ledger, sqliteErr := storage.NewSQLiteLedger(config.SQLitePath(), logger)
		if sqliteErr != nil {
			return nil, nil, sqliteErr
		}
		return ledger, func() {
			if closeErr := ledger.Close(); closeErr != nil {
				logger.Warn("failed to close ledger database", "error", closeErr)
			}
		}, nil
	default:
		sheetsCfg, cfgErr := config.LoadSheetsConfig()
		if cfgErr != nil {
			return nil, nil, cfgErr
		}
		ledger, ledgerErr := sheets.NewLedger(ctx, *sheetsCfg, logger)
		if ledgerErr != nil {
			return nil, nil, ledgerErr
		}
		return ledger, func() {}, nil
	}
}

// buildClassifier assembles the classification chain: rule-based fast
// path, then the language engine, then the always-answering fallback.
func buildClassifier(logger *slog.Logger) (service.Classifier, func()) {
	handlers := []service.Classifier{classify.NewRuleClassifier(logger)}
	closer := func() {}

	keys := config.LoadGeminiKeys()
	if len(keys) == 0 {
		logger.Warn("no Gemini API keys configured, running in degraded mode")
	} else {
		geminiCfg := config.LoadGeminiConfig()
		pool := llm.NewKeyPool(keys, logger)
		aiClassifier := llm.NewClassifier(pool, llm.NewGeminiClient(geminiCfg), logger, geminiCfg.Timeout)
		handlers = append(handlers, aiClassifier)
		closer = aiClassifier.Close
		logger.Info("language engine enabled", "keys", pool.Size(), "model", geminiCfg.Model)
	}

	handlers = append(handlers, classify.NewFallbackClassifier(logger))
	return classify.NewChain(logger, handlers...), closer
}
