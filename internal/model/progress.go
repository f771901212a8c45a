package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProgressStats holds the derived view of the campaign at a point in time.
type ProgressStats struct {
	At        time.Time `json:"at"`
	StartDate time.Time `json:"start_date"`

	DurationDays  int  `json:"duration_days"`
	RawElapsed    int  `json:"raw_elapsed_days"` // unclamped, may be negative or past the end
	ElapsedDays   int  `json:"elapsed_days"`     // clamped to [0, DurationDays]
	DaysRemaining int  `json:"days_remaining"`
	Finished      bool `json:"finished"`

	TimePercent    float64 `json:"time_percent"`
	RevenuePercent float64 `json:"revenue_percent"`

	CurrentRevenue   decimal.Decimal `json:"current_revenue"`
	RevenueTarget    decimal.Decimal `json:"revenue_target"`
	RevenueRemaining decimal.Decimal `json:"revenue_remaining"`
	DailyTarget      decimal.Decimal `json:"daily_target"`

	Bar string `json:"bar"`

	NextMilestone   *Milestone `json:"next_milestone,omitempty"`
	DaysToMilestone int        `json:"days_to_milestone,omitempty"`
}
