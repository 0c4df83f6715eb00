// Package telegram exposes the flex pipeline as a Telegram bot using long polling.
package telegram

import (
	"context"
	"math"
	"strings"
	"sync"

	"bert_flex/internal/app/port"
	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/metrics"
	"bert_flex/internal/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const surfaceTelegram = "telegram"

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot answers /start, /price and /flex.
type Bot struct {
	api         API
	flex        port.FlexService
	cooldown    port.CooldownTracker
	token       entity.TokenInfo
	pollTimeout int
	logger      *zap.Logger
	wg          sync.WaitGroup
}

// NewBot creates a new bot around an authenticated API client.
func NewBot(api API, flex port.FlexService, cooldown port.CooldownTracker, pollTimeoutSeconds int, logger *zap.Logger) *Bot {
	return &Bot{
		api:         api,
		flex:        flex,
		cooldown:    cooldown,
		token:       flex.Token(),
		pollTimeout: pollTimeoutSeconds,
		logger:      logger.Named("TelegramBot"),
	}
}

// Run polls for updates until ctx is cancelled. Each update is handled in its own
// goroutine; Run waits for in-flight handlers before returning.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot is polling for updates", zap.String("token", b.token.Ticker))
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate dispatches a single update. Non-command messages are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	log := b.logger.With(zap.Int64("chatId", msg.Chat.ID), zap.String("command", msg.Command()))
	log.Debug("Handling command")

	switch msg.Command() {
	case "start":
		b.reply(log, msg, welcomeText(b.token), true)
	case "price":
		b.handlePrice(ctx, log, msg)
	case "flex":
		b.handleFlex(ctx, log, msg)
	}
}

func (b *Bot) handlePrice(ctx context.Context, log *zap.Logger, msg *tgbotapi.Message) {
	b.reply(log, msg, fetchingPriceText(b.token), false)

	market := b.flex.Price(ctx)
	if market == nil {
		b.reply(log, msg, msgPriceFailed, false)
		return
	}
	b.reply(log, msg, priceText(b.token, market), true)
}

func (b *Bot) handleFlex(ctx context.Context, log *zap.Logger, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(log, msg, usageText(b.token), true)
		return
	}

	wallet := utils.NormalizeAddress(args[0])
	if err := utils.ValidateSolanaAddress(wallet); err != nil {
		metrics.RequestsTotal.WithLabelValues(surfaceTelegram, "invalid_address").Inc()
		b.reply(log, msg, msgInvalidAddr, false)
		return
	}
	log = log.With(zap.String("wallet", wallet))

	if b.cooldown != nil {
		ok, remaining, err := b.cooldown.Acquire(ctx, wallet)
		switch {
		case err != nil:
			log.Warn("Cooldown check failed, serving request", zap.Error(err))
		case !ok:
			metrics.RequestsTotal.WithLabelValues(surfaceTelegram, "cooldown").Inc()
			b.reply(log, msg, cooldownText(int(math.Ceil(remaining.Seconds()))), false)
			return
		}
	}

	status, sent := b.reply(log, msg, generatingText(b.token), true)
	if !sent {
		return
	}

	result, err := b.flex.Flex(ctx, wallet)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(surfaceTelegram, "error").Inc()
		log.Error("Flex card error", zap.Error(err))
		b.edit(log, status, msgUnexpected)
		return
	}
	metrics.RequestsTotal.WithLabelValues(surfaceTelegram, result.Outcome.String()).Inc()

	switch result.Outcome {
	case entity.OutcomeFetchFailed:
		b.edit(log, status, msgFetchFailed)
		return
	case entity.OutcomeNoHoldings:
		b.edit(log, status, noHoldingsText(b.token))
		return
	}

	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(status.Chat.ID, status.MessageID)); err != nil {
		log.Warn("Failed to delete status message", zap.Error(err))
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: cardFileName, Bytes: result.Card.Image})
	photo.Caption = cardCaption(b.token, result.Snapshot)
	photo.ParseMode = tgbotapi.ModeHTML
	photo.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(photo); err != nil {
		log.Error("Failed to send flex card", zap.Error(err))
		b.reply(log, msg, msgUnexpected, false)
		return
	}
	log.Info("Flex card sent", zap.String("requestId", result.Snapshot.RequestID))
}

func (b *Bot) reply(log *zap.Logger, msg *tgbotapi.Message, text string, html bool) (tgbotapi.Message, bool) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if html {
		out.ParseMode = tgbotapi.ModeHTML
	}
	sent, err := b.api.Send(out)
	if err != nil {
		log.Error("Failed to send message", zap.Error(err))
		return sent, false
	}
	return sent, true
}

func (b *Bot) edit(log *zap.Logger, status tgbotapi.Message, text string) {
	if status.Chat == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(status.Chat.ID, status.MessageID, text)
	if _, err := b.api.Send(edit); err != nil {
		log.Error("Failed to edit status message", zap.Error(err))
	}
}
