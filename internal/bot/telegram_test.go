package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ashewa/campaignbot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAPI struct {
	updates chan tgbotapi.Update

	mu      sync.Mutex
	sent    []tgbotapi.MessageConfig
	sendErr error
	stopped bool
	timeout int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update)}
}

func (f *fakeAPI) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	f.mu.Lock()
	f.timeout = cfg.Timeout
	f.mu.Unlock()
	return f.updates
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) sentMessages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tgbotapi.MessageConfig, len(f.sent))
	copy(out, f.sent)
	return out
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: chatID},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	}
}

func plainUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID}},
	}
}

type runningBot struct {
	api    *fakeAPI
	cancel context.CancelFunc
	done   chan error
}

func startBot(t *testing.T, st *fakeStore, opts ...BotOption) *runningBot {
	t.Helper()
	api := newFakeAPI()
	b := NewBot(api, newTestHandler(t, st), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	rb := &runningBot{api: api, cancel: cancel, done: make(chan error, 1)}
	go func() { rb.done <- b.Run(ctx) }()
	return rb
}

func (rb *runningBot) stop(t *testing.T) {
	t.Helper()
	rb.cancel()
	select {
	case err := <-rb.done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not stop after cancel")
	}
}

func TestBotRepliesToCommands(t *testing.T) {
	var (
		mu     sync.Mutex
		events []model.CommandEvent
	)
	rb := startBot(t, &fakeStore{rec: recordDaysAgo(45, 65_500_000)},
		WithPollTimeout(30),
		WithObserver(func(ev model.CommandEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		}),
	)

	rb.api.updates <- commandUpdate(42, "/progress")
	rb.api.updates <- plainUpdate(42, "hello there")
	rb.api.updates <- commandUpdate(7, "/milestone@AshewaBot")
	rb.stop(t)

	sent := rb.api.sentMessages()
	require.Len(t, sent, 2)
	assert.Equal(t, int64(42), sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, sent[0].ParseMode)
	assert.Contains(t, sent[0].Text, "45/90 days (50.0%)")
	assert.Equal(t, int64(7), sent[1].ChatID)
	assert.Contains(t, sent[1].Text, "*Day 60:*")

	rb.api.mu.Lock()
	assert.True(t, rb.api.stopped)
	assert.Equal(t, 30, rb.api.timeout)
	rb.api.mu.Unlock()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, "progress", events[0].Command)
	assert.Equal(t, "milestone", events[1].Command)
	assert.NotEmpty(t, events[0].RequestID)
	assert.NotEqual(t, events[0].RequestID, events[1].RequestID)
	assert.Empty(t, events[0].Error)
}

func TestBotReportsStoreFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	var got model.CommandEvent
	rb := startBot(t, &fakeStore{err: errors.New("database is locked")},
		WithBotLogger(zap.New(core)),
		WithObserver(func(ev model.CommandEvent) { got = ev }),
	)

	rb.api.updates <- commandUpdate(42, "/revenue")
	rb.stop(t)

	sent := rb.api.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, unavailableResponse, sent[0].Text)
	assert.Equal(t, "database is locked", got.Error)

	entries := logs.FilterMessage("handle command").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "revenue", entries[0].ContextMap()["command"])
}

func TestBotLogsSendFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rb := startBot(t, &fakeStore{}, WithBotLogger(zap.New(core)))
	rb.api.mu.Lock()
	rb.api.sendErr = errors.New("Bad Request: can't parse entities")
	rb.api.mu.Unlock()

	rb.api.updates <- commandUpdate(1, "/targets")
	rb.stop(t)

	assert.Equal(t, 1, logs.FilterMessage("send reply").Len())
}

func TestBotStopsWhenUpdatesClose(t *testing.T) {
	rb := startBot(t, &fakeStore{})
	close(rb.api.updates)

	select {
	case err := <-rb.done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not stop when updates closed")
	}
	rb.cancel()
}
