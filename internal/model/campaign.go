// Package model defines domain types for the campaign tracker.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignProgress is the single persisted progress record.
type CampaignProgress struct {
	StartDate      time.Time
	CurrentRevenue decimal.Decimal
	UpdatedAt      time.Time
}

// CampaignDefinition describes one marketing initiative within the campaign.
type CampaignDefinition struct {
	Name     string `toml:"name"`
	Budget   int64  `toml:"budget"`
	KPI      string `toml:"kpi"`
	Timeline string `toml:"timeline"`
	Team     string `toml:"team"`
}

// Milestone is a named checkpoint at a day offset from campaign start.
type Milestone struct {
	Day         int    `toml:"day" json:"day"`
	Description string `toml:"description" json:"description"`
}

// TeamTarget holds the daily and weekly goals of one team.
type TeamTarget struct {
	Team   string `toml:"team"`
	Daily  string `toml:"daily"`
	Weekly string `toml:"weekly"`
}
