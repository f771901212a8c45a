package progress

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ashewa/campaignbot/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDuration  = errors.New("campaign duration must be positive")
	ErrInvalidTarget    = errors.New("revenue target must be positive")
	ErrInvalidBarWidth  = errors.New("bar width must be positive")
	ErrInvalidMilestone = errors.New("invalid milestone")
)

// Settings holds the static campaign parameters a Calculator works from.
type Settings struct {
	DurationDays  int
	RevenueTarget decimal.Decimal
	BarWidth      int
	Milestones    []model.Milestone
	Location      *time.Location
}

// Calculator computes ProgressStats from a progress record and the current time.
type Calculator struct {
	duration   int
	target     decimal.Decimal
	width      int
	milestones []model.Milestone
	loc        *time.Location
}

// New validates s and returns a Calculator. Zero or negative duration, target
// or width are rejected here so they never reach a division.
func New(s Settings) (*Calculator, error) {
	if s.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, s.DurationDays)
	}
	if !s.RevenueTarget.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, s.RevenueTarget)
	}
	if s.BarWidth <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBarWidth, s.BarWidth)
	}

	seen := make(map[int]bool, len(s.Milestones))
	for _, m := range s.Milestones {
		if m.Day <= 0 {
			return nil, fmt.Errorf("%w: day %d must be positive", ErrInvalidMilestone, m.Day)
		}
		if seen[m.Day] {
			return nil, fmt.Errorf("%w: duplicate day %d", ErrInvalidMilestone, m.Day)
		}
		seen[m.Day] = true
	}

	ms := slices.Clone(s.Milestones)
	slices.SortFunc(ms, func(a, b model.Milestone) int { return a.Day - b.Day })

	loc := s.Location
	if loc == nil {
		loc = time.Local
	}

	return &Calculator{
		duration:   s.DurationDays,
		target:     s.RevenueTarget,
		width:      s.BarWidth,
		milestones: ms,
		loc:        loc,
	}, nil
}

// DurationDays returns the campaign length.
func (c *Calculator) DurationDays() int { return c.duration }

// RevenueTarget returns the campaign revenue goal.
func (c *Calculator) RevenueTarget() decimal.Decimal { return c.target }

// Milestones returns the milestones in ascending day order.
func (c *Calculator) Milestones() []model.Milestone { return slices.Clone(c.milestones) }

// Today returns the current calendar date in the campaign's location.
func (c *Calculator) Today(now time.Time) time.Time { return DateOf(now, c.loc) }

// Fresh returns the record a first-run campaign starts from.
func (c *Calculator) Fresh(now time.Time) model.CampaignProgress {
	today := c.Today(now)
	return model.CampaignProgress{StartDate: today, CurrentRevenue: decimal.Zero, UpdatedAt: today}
}

// Compute derives the progress view of rec at now.
//
// Elapsed days are clamped to [0, duration] for the time percentage, the bar and
// the remaining days. The milestone lookup only clamps at zero so that a finished
// campaign reports no next milestone. Revenue percentage is left unclamped.
func (c *Calculator) Compute(rec model.CampaignProgress, now time.Time) model.ProgressStats {
	raw := ElapsedDays(rec.StartDate, now.In(c.loc))
	elapsed := min(max(raw, 0), c.duration)

	remaining := c.target.Sub(rec.CurrentRevenue)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	stats := model.ProgressStats{
		At:               now,
		StartDate:        rec.StartDate,
		DurationDays:     c.duration,
		RawElapsed:       raw,
		ElapsedDays:      elapsed,
		DaysRemaining:    c.duration - elapsed,
		Finished:         raw >= c.duration,
		TimePercent:      TimeProgressPercent(elapsed, c.duration),
		RevenuePercent:   RevenueProgressPercent(rec.CurrentRevenue, c.target),
		CurrentRevenue:   rec.CurrentRevenue,
		RevenueTarget:    c.target,
		RevenueRemaining: remaining,
		DailyTarget:      c.target.Div(decimal.NewFromInt(int64(c.duration))),
	}
	stats.Bar = RenderBar(stats.TimePercent, c.width)

	day := max(raw, 0)
	if m, ok := NextMilestone(day, c.milestones); ok {
		stats.NextMilestone = &m
		stats.DaysToMilestone = DaysToMilestone(day, m)
	}

	return stats
}

// RevenueBar renders the revenue percentage with the configured width.
func (c *Calculator) RevenueBar(stats model.ProgressStats) string {
	return RenderBar(stats.RevenuePercent, c.width)
}
