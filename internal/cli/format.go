// Package cli provides formatting and rendering utilities for terminal and chat output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatAmount rounds a money amount to whole units and groups the digits.
func FormatAmount(d decimal.Decimal) string {
	return FormatNumber(d.Round(0).IntPart())
}

// FormatMoney formats an amount followed by its currency suffix.
// e.g., (65500000, "Br") -> "65,500,000 Br"
func FormatMoney(d decimal.Decimal, currency string) string {
	if currency == "" {
		return FormatAmount(d)
	}
	return FormatAmount(d) + " " + currency
}

// FormatCompact shortens large amounts with a suffix.
// e.g., 131000000 -> "131M", 32750000 -> "32.75M", 2500 -> "2.5K"
func FormatCompact(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return d.Shift(-9).Round(2).String() + "B"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return d.Shift(-6).Round(2).String() + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return d.Shift(-3).Round(2).String() + "K"
	default:
		return d.Round(0).String()
	}
}

// FormatPercent formats a 0-100 value with one decimal.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatDays formats a day count with the right plural.
func FormatDays(n int) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d day", n)
	}
	return fmt.Sprintf("%d days", n)
}

// FormatDate formats a calendar date as ISO.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// FormatSince describes how long ago t was relative to now.
func FormatSince(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
