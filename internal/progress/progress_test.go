package progress

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ashewa/campaignbot/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var testMilestones = []model.Milestone{
	{Day: 7, Description: "Week 1"},
	{Day: 30, Description: "One Month"},
	{Day: 45, Description: "Halfway Point"},
	{Day: 60, Description: "Two Months"},
	{Day: 90, Description: "Campaign Complete"},
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	c, err := New(Settings{
		DurationDays:  90,
		RevenueTarget: decimal.NewFromInt(131_000_000),
		BarWidth:      20,
		Milestones:    testMilestones,
		Location:      time.UTC,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestElapsedDays(t *testing.T) {
	start := mustDate(t, "2026-01-01")
	tests := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 1, 1, 23, 59, 0, 0, time.UTC), 0},
		{time.Date(2026, 1, 2, 0, 0, 1, 0, time.UTC), 1},
		{time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), 60},
		{time.Date(2025, 12, 30, 8, 0, 0, 0, time.UTC), -2},
	}
	for _, tt := range tests {
		if got := ElapsedDays(start, tt.now); got != tt.want {
			t.Errorf("ElapsedDays(%s) = %d, want %d", tt.now.Format(time.RFC3339), got, tt.want)
		}
	}
}

func TestElapsedDays_UsesLocalCalendarDate(t *testing.T) {
	addis := time.FixedZone("EAT", 3*60*60)
	start := mustDate(t, "2026-05-10")
	// 22:30 UTC on the 10th is already the 11th in Addis Ababa.
	now := time.Date(2026, 5, 10, 22, 30, 0, 0, time.UTC).In(addis)
	if got := ElapsedDays(start, now); got != 1 {
		t.Fatalf("ElapsedDays = %d, want 1", got)
	}
}

func TestTimeProgressPercentWithinRange(t *testing.T) {
	for d := 0; d <= 90; d++ {
		p := TimeProgressPercent(d, 90)
		if p < 0 || p > 100 {
			t.Fatalf("TimeProgressPercent(%d, 90) = %.2f, outside [0, 100]", d, p)
		}
	}
	if p := TimeProgressPercent(45, 90); p != 50 {
		t.Fatalf("TimeProgressPercent(45, 90) = %.2f, want 50", p)
	}
}

func TestRevenueProgressPercent(t *testing.T) {
	got := RevenueProgressPercent(decimal.NewFromInt(65_500_000), decimal.NewFromInt(131_000_000))
	if got != 50.0 {
		t.Fatalf("RevenueProgressPercent = %v, want 50.0", got)
	}
}

func TestRenderBarAlwaysWidthGlyphs(t *testing.T) {
	for _, pct := range []float64{-250, -1, 0, 4.9, 5, 33.3, 50, 99.9, 100, 101, 1e6} {
		bar := RenderBar(pct, 20)
		glyphs, _, _ := strings.Cut(bar, " ")
		if n := utf8.RuneCountInString(glyphs); n != 20 {
			t.Errorf("RenderBar(%v) has %d glyphs, want 20: %q", pct, n, bar)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		pct    float64
		filled int
		suffix string
	}{
		{0, 0, " 0.0%"},
		{50, 10, " 50.0%"},
		{32.2, 6, " 32.2%"},
		{100, 20, " 100.0%"},
		{140, 20, " 140.0%"},
		{-10, 0, " -10.0%"},
	}
	for _, tt := range tests {
		bar := RenderBar(tt.pct, 20)
		if got := strings.Count(bar, FilledGlyph); got != tt.filled {
			t.Errorf("RenderBar(%v) filled = %d, want %d", tt.pct, got, tt.filled)
		}
		if got := strings.Count(bar, EmptyGlyph); got != 20-tt.filled {
			t.Errorf("RenderBar(%v) empty = %d, want %d", tt.pct, got, 20-tt.filled)
		}
		if !strings.HasSuffix(bar, tt.suffix) {
			t.Errorf("RenderBar(%v) = %q, want suffix %q", tt.pct, bar, tt.suffix)
		}
	}
}

func TestNextMilestone(t *testing.T) {
	m, ok := NextMilestone(29, testMilestones)
	if !ok {
		t.Fatal("NextMilestone(29) returned none")
	}
	if diff := cmp.Diff(model.Milestone{Day: 30, Description: "One Month"}, m); diff != "" {
		t.Fatalf("NextMilestone(29) mismatch (-want +got):\n%s", diff)
	}

	if m, ok := NextMilestone(30, testMilestones); !ok || m.Day != 45 {
		t.Fatalf("NextMilestone(30) = %+v, %v; want day 45", m, ok)
	}

	if m, ok := NextMilestone(90, testMilestones); ok {
		t.Fatalf("NextMilestone(90) = %+v, want none", m)
	}
	if _, ok := NextMilestone(0, nil); ok {
		t.Fatal("NextMilestone with no milestones returned a value")
	}
}

func TestNextMilestoneUnsortedInput(t *testing.T) {
	unsorted := []model.Milestone{{Day: 60}, {Day: 7}, {Day: 30}}
	m, ok := NextMilestone(10, unsorted)
	if !ok || m.Day != 30 {
		t.Fatalf("NextMilestone(10) = %+v, %v; want day 30", m, ok)
	}
	if got := DaysToMilestone(10, m); got != 20 {
		t.Fatalf("DaysToMilestone = %d, want 20", got)
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	base := Settings{
		DurationDays:  90,
		RevenueTarget: decimal.NewFromInt(100),
		BarWidth:      20,
	}
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"zero duration", func(s *Settings) { s.DurationDays = 0 }, ErrInvalidDuration},
		{"negative duration", func(s *Settings) { s.DurationDays = -5 }, ErrInvalidDuration},
		{"zero target", func(s *Settings) { s.RevenueTarget = decimal.Zero }, ErrInvalidTarget},
		{"negative target", func(s *Settings) { s.RevenueTarget = decimal.NewFromInt(-1) }, ErrInvalidTarget},
		{"zero width", func(s *Settings) { s.BarWidth = 0 }, ErrInvalidBarWidth},
		{"zero milestone day", func(s *Settings) { s.Milestones = []model.Milestone{{Day: 0}} }, ErrInvalidMilestone},
		{"duplicate milestone", func(s *Settings) { s.Milestones = []model.Milestone{{Day: 7}, {Day: 7}} }, ErrInvalidMilestone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			if _, err := New(s); !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestComputeHalfway(t *testing.T) {
	c := newTestCalculator(t)
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	rec := model.CampaignProgress{
		StartDate:      now.AddDate(0, 0, -45),
		CurrentRevenue: decimal.NewFromInt(65_500_000),
	}

	s := c.Compute(rec, now)

	if s.ElapsedDays != 45 || s.DaysRemaining != 45 {
		t.Fatalf("elapsed/remaining = %d/%d, want 45/45", s.ElapsedDays, s.DaysRemaining)
	}
	if s.TimePercent != 50 || s.RevenuePercent != 50 {
		t.Fatalf("percent time/revenue = %.1f/%.1f, want 50/50", s.TimePercent, s.RevenuePercent)
	}
	if got := strings.Count(s.Bar, FilledGlyph); got != 10 {
		t.Fatalf("bar filled = %d, want 10 (%q)", got, s.Bar)
	}
	if !s.RevenueRemaining.Equal(decimal.NewFromInt(65_500_000)) {
		t.Fatalf("remaining = %s, want 65500000", s.RevenueRemaining)
	}
	if s.NextMilestone == nil || s.NextMilestone.Day != 60 || s.DaysToMilestone != 15 {
		t.Fatalf("next milestone = %+v in %d days, want day 60 in 15", s.NextMilestone, s.DaysToMilestone)
	}
	if s.Finished {
		t.Fatal("campaign reported finished at day 45")
	}
}

func TestComputeFreshRecord(t *testing.T) {
	c := newTestCalculator(t)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	s := c.Compute(c.Fresh(now), now)

	if s.ElapsedDays != 0 || s.TimePercent != 0 {
		t.Fatalf("elapsed = %d (%.1f%%), want 0", s.ElapsedDays, s.TimePercent)
	}
	if s.NextMilestone == nil || s.NextMilestone.Day != 7 || s.DaysToMilestone != 7 {
		t.Fatalf("next milestone = %+v in %d days, want day 7 in 7", s.NextMilestone, s.DaysToMilestone)
	}
	if !s.CurrentRevenue.IsZero() {
		t.Fatalf("revenue = %s, want 0", s.CurrentRevenue)
	}
}

func TestComputePastEndIsClamped(t *testing.T) {
	c := newTestCalculator(t)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	rec := model.CampaignProgress{StartDate: now.AddDate(0, 0, -91), CurrentRevenue: decimal.NewFromInt(140_000_000)}

	s := c.Compute(rec, now)

	if s.RawElapsed != 91 {
		t.Fatalf("raw elapsed = %d, want 91", s.RawElapsed)
	}
	if s.ElapsedDays != 90 || s.DaysRemaining != 0 || s.TimePercent != 100 {
		t.Fatalf("clamped view = %d days, %d remaining, %.1f%%; want 90, 0, 100",
			s.ElapsedDays, s.DaysRemaining, s.TimePercent)
	}
	if !s.Finished {
		t.Fatal("campaign not reported finished at day 91")
	}
	if s.NextMilestone != nil {
		t.Fatalf("next milestone = %+v, want none", s.NextMilestone)
	}
	if !s.RevenueRemaining.IsZero() {
		t.Fatalf("remaining = %s, want 0 after exceeding target", s.RevenueRemaining)
	}
	if s.RevenuePercent <= 100 {
		t.Fatalf("revenue percent = %.1f, want > 100 (unclamped)", s.RevenuePercent)
	}
}

func TestComputeBeforeStart(t *testing.T) {
	c := newTestCalculator(t)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	rec := model.CampaignProgress{StartDate: now.AddDate(0, 0, 3)}

	s := c.Compute(rec, now)

	if s.RawElapsed != -3 || s.ElapsedDays != 0 || s.DaysRemaining != 90 {
		t.Fatalf("raw/elapsed/remaining = %d/%d/%d, want -3/0/90", s.RawElapsed, s.ElapsedDays, s.DaysRemaining)
	}
	if s.NextMilestone == nil || s.DaysToMilestone != 7 {
		t.Fatalf("next milestone = %+v in %d days, want day 7 in 7", s.NextMilestone, s.DaysToMilestone)
	}
}

func TestDailyTarget(t *testing.T) {
	c := newTestCalculator(t)
	now := time.Now()
	s := c.Compute(c.Fresh(now), now)
	if got := s.DailyTarget.Round(0).IntPart(); got != 1_455_556 {
		t.Fatalf("daily target = %d, want 1455556", got)
	}
}
