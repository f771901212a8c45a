// Package progress derives campaign progress views from the persisted record and the clock.
package progress

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bar glyphs.
const (
	FilledGlyph = "▓"
	EmptyGlyph  = "░"
)

var hundred = decimal.NewFromInt(100)

// DateOf returns the calendar date of t in loc, normalized to midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ElapsedDays returns the whole calendar days from start to now.
// The result is negative when now precedes start; callers decide how to clamp.
func ElapsedDays(start, now time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(n.Sub(s) / (24 * time.Hour))
}

// TimeProgressPercent returns elapsed as a percentage of duration.
func TimeProgressPercent(elapsed, duration int) float64 {
	return 100 * float64(elapsed) / float64(duration)
}

// RevenueProgressPercent returns revenue as a percentage of target.
func RevenueProgressPercent(revenue, target decimal.Decimal) float64 {
	return revenue.Mul(hundred).Div(target).InexactFloat64()
}

// RenderBar renders a fixed-width bar followed by the percentage, e.g. "▓▓▓░░░ 50.0%".
// The filled count is clamped to [0, width] so out-of-range percentages still
// produce exactly width glyphs.
func RenderBar(percent float64, width int) string {
	if width < 0 {
		width = 0
	}

	filled := 0
	if !math.IsNaN(percent) {
		f := math.Floor(percent / 100 * float64(width))
		switch {
		case f > float64(width):
			filled = width
		case f > 0:
			filled = int(f)
		}
	}

	return strings.Repeat(FilledGlyph, filled) +
		strings.Repeat(EmptyGlyph, width-filled) +
		fmt.Sprintf(" %.1f%%", percent)
}
