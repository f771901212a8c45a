package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/ashewa/campaignbot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// API is the part of the Telegram client the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
}

// Observer receives one event per handled command.
type Observer func(model.CommandEvent)

// Bot long-polls Telegram and answers command messages one at a time.
type Bot struct {
	api         API
	handler     *Handler
	log         *zap.Logger
	observe     Observer
	pollTimeout int
}

// BotOption configures a Bot.
type BotOption func(*Bot)

// WithObserver registers fn to receive handled-command events.
func WithObserver(fn Observer) BotOption {
	return func(b *Bot) { b.observe = fn }
}

// WithBotLogger sets the transport logger.
func WithBotLogger(l *zap.Logger) BotOption {
	return func(b *Bot) { b.log = l }
}

// WithPollTimeout sets the long-poll timeout in seconds.
func WithPollTimeout(sec int) BotOption {
	return func(b *Bot) { b.pollTimeout = sec }
}

// NewBot returns a Bot answering through api.
func NewBot(api API, h *Handler, opts ...BotOption) *Bot {
	b := &Bot{
		api:         api,
		handler:     h,
		log:         zap.NewNop(),
		pollTimeout: 60,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dial connects to the Telegram Bot API with token and routes the client's
// own log output through log.
func Dial(token string, debug bool, log *zap.Logger) (*tgbotapi.BotAPI, error) {
	if err := tgbotapi.SetLogger(zap.NewStdLog(log)); err != nil {
		return nil, fmt.Errorf("set telegram logger: %w", err)
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	api.Debug = debug
	log.Info("authorized", zap.String("account", api.Self.UserName))
	return api, nil
}

// Run consumes updates until ctx is canceled or the update channel closes.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	u.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.log.Info("polling for updates", zap.Int("timeout_sec", b.pollTimeout))
	for {
		select {
		case <-ctx.Done():
			b.log.Info("stopping update polling")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	start := time.Now()
	ev := model.CommandEvent{
		RequestID: uuid.NewString(),
		ChatID:    msg.Chat.ID,
		Command:   NormalizeCommand(msg.Command()),
		Timestamp: start,
	}
	log := b.log.With(
		zap.String("request_id", ev.RequestID),
		zap.Int64("chat_id", ev.ChatID),
		zap.String("command", ev.Command),
	)

	text, err := b.handler.Handle(ctx, ev.Command)
	if err != nil {
		log.Error("handle command", zap.Error(err))
		ev.Error = err.Error()
		text = unavailableResponse
	}

	reply := tgbotapi.NewMessage(ev.ChatID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(reply); err != nil {
		log.Error("send reply", zap.Error(err))
		if ev.Error == "" {
			ev.Error = err.Error()
		}
	}

	ev.LatencyMS = time.Since(start).Milliseconds()
	log.Debug("command handled", zap.Int64("latency_ms", ev.LatencyMS))
	if b.observe != nil {
		b.observe(ev)
	}
}
