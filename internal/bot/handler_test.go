package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ashewa/campaignbot/internal/config"
	"github.com/ashewa/campaignbot/internal/model"
	"github.com/ashewa/campaignbot/internal/progress"
	"github.com/ashewa/campaignbot/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	rec     *model.CampaignProgress
	err     error
	inits   int
	creates int
}

func (f *fakeStore) EnsureInitialized(_ context.Context, today time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	if f.err != nil {
		return false, f.err
	}
	if f.rec != nil {
		return false, nil
	}
	f.rec = &model.CampaignProgress{StartDate: today, CurrentRevenue: decimal.Zero, UpdatedAt: today}
	f.creates++
	return true, nil
}

func (f *fakeStore) Progress(context.Context) (model.CampaignProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.CampaignProgress{}, f.err
	}
	if f.rec == nil {
		return model.CampaignProgress{}, store.ErrNotInitialized
	}
	return *f.rec, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.err }
func (f *fakeStore) Close() error               { return nil }

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestHandler(t *testing.T, st store.Store) *Handler {
	t.Helper()
	camp := config.DefaultCampaign()
	calc, err := progress.New(progress.Settings{
		DurationDays:  camp.DurationDays,
		RevenueTarget: camp.Target(),
		BarWidth:      camp.BarWidth,
		Milestones:    camp.Milestones,
		Location:      time.UTC,
	})
	require.NoError(t, err)
	return NewHandler(st, calc, camp,
		WithClock(func() time.Time { return testNow }),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
}

func recordDaysAgo(days int, revenue int64) *model.CampaignProgress {
	start := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	return &model.CampaignProgress{StartDate: start, CurrentRevenue: decimal.NewFromInt(revenue), UpdatedAt: start}
}

func TestProgressHalfway(t *testing.T) {
	h := newTestHandler(t, &fakeStore{rec: recordDaysAgo(45, 65_500_000)})

	out, err := h.Handle(context.Background(), "/progress")
	require.NoError(t, err)

	assert.Contains(t, out, "45/90 days (50.0%)")
	assert.Contains(t, out, "65,500,000 Br / 131,000,000 Br (50.0%)")
	assert.Contains(t, out, "*Days Remaining:* 45")
	assert.Contains(t, out, strings.Repeat(progress.FilledGlyph, 10)+strings.Repeat(progress.EmptyGlyph, 10)+" 50.0%")
	assert.Contains(t, out, "Daily Revenue Target: 1,455,556 Br/day")
	assert.Contains(t, out, "Revenue Needed: 65,500,000 Br")
	assert.NotContains(t, out, "Campaign period has ended")
}

func TestFreshRecordMilestone(t *testing.T) {
	h := newTestHandler(t, &fakeStore{rec: recordDaysAgo(0, 0)})

	out, err := h.Handle(context.Background(), "milestone")
	require.NoError(t, err)
	assert.Contains(t, out, "*Day 7:* 🎊 Complete Week 1")
	assert.Contains(t, out, "*Days to go:* 7")
}

func TestMissingRecordReadsAsDayZero(t *testing.T) {
	h := newTestHandler(t, &fakeStore{})

	out, err := h.Handle(context.Background(), "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "0/90 days (0.0%)")
	assert.Contains(t, out, "0 Br / 131,000,000 Br (0.0%)")

	out, err = h.Handle(context.Background(), "milestone")
	require.NoError(t, err)
	assert.Contains(t, out, "*Days to go:* 7")
}

func TestPastCampaignEnd(t *testing.T) {
	h := newTestHandler(t, &fakeStore{rec: recordDaysAgo(91, 140_000_000)})

	out, err := h.Handle(context.Background(), "milestone")
	require.NoError(t, err)
	assert.Equal(t, allMilestonesDone, out)

	out, err = h.Handle(context.Background(), "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "90/90 days (100.0%)")
	assert.Contains(t, out, "*Days Remaining:* 0")
	assert.Contains(t, out, "Campaign period has ended")
	assert.Contains(t, out, "Revenue Needed: 0 Br")
	assert.Contains(t, out, "(106.9%)")
}

func TestStoreErrorFailsClosed(t *testing.T) {
	boom := errors.New("disk I/O error")
	h := newTestHandler(t, &fakeStore{err: boom})

	for _, cmd := range []string{"progress", "revenue", "milestone", "start"} {
		_, err := h.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, boom, cmd)
	}

	// static replies do not touch the store
	out, err := h.Handle(context.Background(), "campaign")
	require.NoError(t, err)
	assert.Contains(t, out, "Bundled Packages")
}

func TestStartInitializesOnce(t *testing.T) {
	st := &fakeStore{}
	h := newTestHandler(t, st)

	for range 3 {
		out, err := h.Handle(context.Background(), "/start")
		require.NoError(t, err)
		assert.Contains(t, out, "ASHEWA 90-DAY MARKETING CAMPAIGN TRACKER")
		assert.Contains(t, out, "131M Br Revenue in 90 Days")
		assert.Contains(t, out, "/milestone - Next milestones")
	}
	assert.Equal(t, 3, st.inits)
	assert.Equal(t, 1, st.creates)

	rec, err := st.Progress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", rec.StartDate.Format("2006-01-02"))
}

func TestRevenue(t *testing.T) {
	h := newTestHandler(t, &fakeStore{rec: recordDaysAgo(10, 32_750_000)})

	out, err := h.Handle(context.Background(), "revenue")
	require.NoError(t, err)
	assert.Contains(t, out, "*Overall Target:* 131,000,000 Br")
	assert.Contains(t, out, "*Current Revenue:* 32,750,000 Br")
	assert.Contains(t, out, "*Remaining:* 98,250,000 Br")
	assert.Contains(t, out, "*Completion:* 25.0%")
	assert.Contains(t, out, "*Daily Target:* 1,455,556 Br/day")
}

func TestCampaignAndTargets(t *testing.T) {
	h := newTestHandler(t, &fakeStore{})

	out, err := h.Handle(context.Background(), "campaign")
	require.NoError(t, err)
	assert.Contains(t, out, "ASHEWA 90-DAY MARKETING CAMPAIGNS")
	assert.Contains(t, out, "*1. Bundled Packages*")
	assert.Contains(t, out, "💰 Budget: 2,500,000 Br")
	assert.Contains(t, out, "*3. ABM Top 100 Enterprises*")

	out, err = h.Handle(context.Background(), "targets")
	require.NoError(t, err)
	assert.Contains(t, out, "*Account Managers:*")
	assert.Contains(t, out, "🎯 Weekly: Close 2-3 ERP deals")
	assert.Contains(t, out, "Push for 131M Br target!")
}

func TestUnknownCommandGetsHelp(t *testing.T) {
	h := newTestHandler(t, &fakeStore{})

	out, err := h.Handle(context.Background(), "/dance")
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown command /dance")
	assert.Contains(t, out, "/progress - Overall progress")
}

func TestUnknownCommandEscapesMarkdown(t *testing.T) {
	h := newTestHandler(t, &fakeStore{})

	for _, cmd := range []string{"/foo_bar", "/daily_report@AshewaBot", "/a*b", "/x`y", "/[link"} {
		out, err := h.Handle(context.Background(), cmd)
		require.NoError(t, err)
		assertBalancedMarkdown(t, out)
	}

	out, err := h.Handle(context.Background(), "/foo_bar")
	require.NoError(t, err)
	assert.Contains(t, out, `Unknown command /foo\_bar`)
}

// assertBalancedMarkdown fails when a legacy Markdown entity in s is left open.
func assertBalancedMarkdown(t *testing.T, s string) {
	t.Helper()
	counts := map[rune]int{}
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*' || r == '_' || r == '`':
			counts[r]++
		case r == '[':
			t.Errorf("unescaped [ in %q", s)
		}
	}
	for r, n := range counts {
		assert.Zerof(t, n%2, "unbalanced %q in %q", r, s)
	}
}

func TestMotivateUsesConfiguredMessages(t *testing.T) {
	h := newTestHandler(t, &fakeStore{})
	msgs := config.DefaultCampaign().Motivations

	for range 20 {
		out, err := h.Handle(context.Background(), "motivate")
		require.NoError(t, err)
		assert.Contains(t, msgs, out)
	}
}

func TestPickMotivation(t *testing.T) {
	msgs := []string{"a", "b", "c"}

	r1 := rand.New(rand.NewPCG(7, 7))
	r2 := rand.New(rand.NewPCG(7, 7))
	for range 10 {
		got1, ok := PickMotivation(msgs, r1)
		require.True(t, ok)
		got2, _ := PickMotivation(msgs, r2)
		assert.Equal(t, got1, got2, "same seed must pick the same message")
	}

	seen := map[string]bool{}
	r := rand.New(rand.NewPCG(1, 1))
	for range 200 {
		m, _ := PickMotivation(msgs, r)
		seen[m] = true
	}
	assert.Len(t, seen, 3)

	_, ok := PickMotivation(nil, r)
	assert.False(t, ok)
}

func TestNormalizeCommand(t *testing.T) {
	tests := map[string]string{
		"/progress":             "progress",
		"/Progress@AshewaBot":   "progress",
		"milestone":             "milestone",
		"  /revenue extra args": "revenue",
		"":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeCommand(in), in)
	}
}
