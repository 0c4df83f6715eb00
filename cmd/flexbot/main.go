package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bert_flex/internal/app/bootstrap"
	"bert_flex/internal/infrastructure/telegram"
	"bert_flex/internal/pkg/logger"
	"bert_flex/internal/pkg/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, zapLogger, err := bootstrap.InitLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if err := cfg.RequireBotToken(); err != nil {
		logger.Fatal("Set TELEGRAM_BOT_TOKEN in the environment or telegram.botToken in the config", "error", err)
	}

	metrics.MustRegisterMetrics()

	app, err := bootstrap.New(cfg, zapLogger)
	if err != nil {
		logger.Fatal("Failed to initialize flex pipeline", "error", err)
	}
	defer app.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Fatal("Failed to authorize Telegram bot", "error", err)
	}
	api.Debug = cfg.Telegram.Debug
	zapLogger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := app.NewCooldown(ctx, zapLogger)
	bot := telegram.NewBot(api, app.Flex, tracker, cfg.Telegram.PollTimeoutSeconds, zapLogger)

	logger.Info("Flex bot is running. Press Ctrl+C to stop.", "token", cfg.Token.Ticker)
	if err := bot.Run(ctx); err != nil {
		logger.Error("Bot stopped with error", "error", err)
	}
}
