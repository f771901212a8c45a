package config

import (
	"github.com/ashewa/campaignbot/internal/model"

	"github.com/shopspring/decimal"
)

// CampaignConfig holds the campaign parameters and its static reference data.
type CampaignConfig struct {
	Name          string `toml:"name"`
	Tagline       string `toml:"tagline"`
	Theme         string `toml:"theme"`
	DurationDays  int    `toml:"duration_days" env:"ASHEWA_CAMPAIGN_DAYS"`
	RevenueTarget int64  `toml:"revenue_target" env:"ASHEWA_REVENUE_TARGET"`
	Currency      string `toml:"currency"`
	BarWidth      int    `toml:"bar_width"`
	Timezone      string `toml:"timezone" env:"ASHEWA_TIMEZONE"`

	Milestones  []model.Milestone          `toml:"milestones"`
	Campaigns   []model.CampaignDefinition `toml:"campaigns"`
	Teams       []model.TeamTarget         `toml:"teams"`
	Motivations []string                   `toml:"motivations"`
}

// Target returns the revenue target as a decimal amount.
func (c CampaignConfig) Target() decimal.Decimal {
	return decimal.NewFromInt(c.RevenueTarget)
}

// DefaultCampaign returns the Ashewa 90-day campaign.
func DefaultCampaign() CampaignConfig {
	return CampaignConfig{
		Name:          "Ashewa 90-Day Marketing Campaign",
		Tagline:       "Built Here, By Ethiopians, For Ethiopia's Digital Future",
		Theme:         "One Platform. Endless Possibilities. Made for Ethiopia.",
		DurationDays:  90,
		RevenueTarget: 131_000_000,
		Currency:      "Br",
		BarWidth:      20,
		Timezone:      "Africa/Addis_Ababa",
		Milestones: []model.Milestone{
			{Day: 7, Description: "🎊 Complete Week 1 - Initial campaign results"},
			{Day: 30, Description: "🚀 One Month - 25% revenue target (32.75M Br)"},
			{Day: 45, Description: "⚡ Halfway Point - 50% revenue target (65.5M Br)"},
			{Day: 60, Description: "🎯 Two Months - ABM campaign completion"},
			{Day: 90, Description: "🏆 Campaign Complete - 131M Br Target!"},
		},
		Campaigns: []model.CampaignDefinition{
			{Name: "Bundled Packages", Budget: 2_500_000, KPI: "20 ERP deals = 40M Br", Timeline: "2 weeks", Team: "Sales Team"},
			{Name: "Brand Campaign", Budget: 4_000_000, KPI: "1M reach, 2K MQLs, 15K calls", Timeline: "2 weeks", Team: "Marketing Team"},
			{Name: "ABM Top 100 Enterprises", Budget: 3_000_000, KPI: "20 enterprise + 8 govt contracts = 80M Br", Timeline: "60 days", Team: "BD Team"},
		},
		Teams: []model.TeamTarget{
			{Team: "Sales Team", Daily: "Follow up 20-25 hot leads", Weekly: "Close 2-3 ERP deals"},
			{Team: "Marketing Team", Daily: "Launch 3-5 social ads", Weekly: "Generate 200-300 MQLs"},
			{Team: "BD Team", Daily: "Schedule 5-10 C-level demos", Weekly: "Close 1-2 enterprise deals"},
			{Team: "Account Managers", Daily: "Call 15-20 existing clients", Weekly: "5 client upsells"},
		},
		Motivations: []string{
			"🚀 *Together, we build our future!* Keep pushing for Ethiopia's digital transformation!",
			"💫 *One Platform, All Your Needs* - Remember why we're doing this!",
			"🏆 *Built Here, By Ethiopians, For Ethiopia* - You're making history!",
			"🎯 *131M Br target is within reach!* Every call, every demo, every deal matters!",
			"⚡ *Digitize, Simplify, Empower with Ashewa* - We're changing how Ethiopia does business!",
		},
	}
}
