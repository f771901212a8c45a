package bot

import (
	"fmt"
	"strings"

	"github.com/ashewa/campaignbot/internal/cli"
	"github.com/ashewa/campaignbot/internal/config"
	"github.com/ashewa/campaignbot/internal/model"

	"github.com/shopspring/decimal"
)

const (
	defaultMotivation   = "💪 *Keep pushing!* Every deal counts!"
	allMilestonesDone   = "🎉 All milestones completed! Campaign finished!"
	unavailableResponse = "⚠️ Campaign data is temporarily unavailable. Please try again shortly."
)

var commandHelp = []struct{ name, desc string }{
	{CmdCampaign, "Show all campaigns"},
	{CmdProgress, "Overall progress"},
	{CmdTargets, "Team daily/weekly targets"},
	{CmdRevenue, "Revenue tracking"},
	{CmdMilestone, "Next milestones"},
	{CmdMotivate, "Team motivation"},
}

func commandList() string {
	var b strings.Builder
	for _, c := range commandHelp {
		fmt.Fprintf(&b, "/%s - %s\n", c.name, c.desc)
	}
	return b.String()
}

func money(c config.CampaignConfig, d decimal.Decimal) string {
	return cli.FormatMoney(d, c.Currency)
}

func compactMoney(c config.CampaignConfig, d decimal.Decimal) string {
	if c.Currency == "" {
		return cli.FormatCompact(d)
	}
	return cli.FormatCompact(d) + " " + c.Currency
}

func welcomeMessage(c config.CampaignConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 *%s TRACKER* 🏁\n\n", strings.ToUpper(c.Name))
	if c.Tagline != "" {
		fmt.Fprintf(&b, "_\"%s\"_\n\n", c.Tagline)
	}
	fmt.Fprintf(&b, "🎯 *Campaign Goal:* %s Revenue in %d Days\n", compactMoney(c, c.Target()), c.DurationDays)
	if c.Theme != "" {
		fmt.Fprintf(&b, "📅 *Theme:* \"%s\"\n", c.Theme)
	}
	b.WriteString("\n*Available Commands:*\n")
	b.WriteString(commandList())
	b.WriteString("\n*Let's build Ethiopia's digital future together!* 🇪🇹")
	return b.String()
}

func helpMessage() string {
	return "*Available Commands:*\n" + commandList() + "/start - Welcome and campaign goal"
}

func unknownMessage(cmd string) string {
	if cmd == "" {
		return helpMessage()
	}
	return fmt.Sprintf("🤔 Unknown command /%s\n\n%s", escapeMarkdown(cmd), helpMessage())
}

var markdownEscaper = strings.NewReplacer(`_`, `\_`, `*`, `\*`, "`", "\\`", `[`, `\[`)

// escapeMarkdown escapes user text for Telegram's legacy Markdown mode.
func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }

func campaignMessage(c config.CampaignConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 *%s*\n\n", strings.ToUpper(strings.TrimSuffix(c.Name, " Campaign")+" Campaigns"))
	if len(c.Campaigns) == 0 {
		b.WriteString("No campaigns configured.")
		return b.String()
	}
	for i, def := range c.Campaigns {
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, def.Name)
		fmt.Fprintf(&b, "   💰 Budget: %s\n", money(c, decimal.NewFromInt(def.Budget)))
		fmt.Fprintf(&b, "   🎯 KPI: %s\n", def.KPI)
		fmt.Fprintf(&b, "   ⏰ Timeline: %s\n", def.Timeline)
		fmt.Fprintf(&b, "   👥 Team: %s\n\n", def.Team)
	}
	return strings.TrimRight(b.String(), "\n")
}

func progressMessage(c config.CampaignConfig, s model.ProgressStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ *%d-DAY CAMPAIGN PROGRESS*\n\n", s.DurationDays)
	fmt.Fprintf(&b, "📅 *Time Progress:* %d/%d days (%s)\n", s.ElapsedDays, s.DurationDays, cli.FormatPercent(s.TimePercent))
	fmt.Fprintf(&b, "💰 *Revenue Progress:* %s / %s (%s)\n",
		money(c, s.CurrentRevenue), money(c, s.RevenueTarget), cli.FormatPercent(s.RevenuePercent))
	fmt.Fprintf(&b, "⏳ *Days Remaining:* %d\n", s.DaysRemaining)
	if s.Finished {
		b.WriteString("🏁 *Campaign period has ended.*\n")
	}
	fmt.Fprintf(&b, "\n%s\n\n", s.Bar)
	b.WriteString("*Quick Stats:*\n")
	fmt.Fprintf(&b, "• Daily Revenue Target: %s/day\n", money(c, s.DailyTarget))
	fmt.Fprintf(&b, "• Revenue Needed: %s", money(c, s.RevenueRemaining))
	return b.String()
}

func targetsMessage(c config.CampaignConfig) string {
	var b strings.Builder
	b.WriteString("👥 *TEAM DAILY TARGETS*\n\n")
	for _, t := range c.Teams {
		fmt.Fprintf(&b, "*%s:*\n", t.Team)
		fmt.Fprintf(&b, "📋 %s\n", t.Daily)
		fmt.Fprintf(&b, "🎯 Weekly: %s\n\n", t.Weekly)
	}
	fmt.Fprintf(&b, "*All Teams: Push for %s target! 💪*", compactMoney(c, c.Target()))
	return b.String()
}

func revenueMessage(c config.CampaignConfig, s model.ProgressStats) string {
	var b strings.Builder
	b.WriteString("💰 *REVENUE TRACKING*\n\n")
	fmt.Fprintf(&b, "*Overall Target:* %s\n", money(c, s.RevenueTarget))
	fmt.Fprintf(&b, "*Current Revenue:* %s\n", money(c, s.CurrentRevenue))
	fmt.Fprintf(&b, "*Remaining:* %s\n", money(c, s.RevenueRemaining))
	fmt.Fprintf(&b, "*Completion:* %s\n\n", cli.FormatPercent(s.RevenuePercent))
	fmt.Fprintf(&b, "*Daily Target:* %s/day\n\n", money(c, s.DailyTarget))
	b.WriteString("_Keep pushing! Every deal counts!_ 🚀")
	return b.String()
}

func milestoneMessage(s model.ProgressStats) string {
	if s.NextMilestone == nil {
		return allMilestonesDone
	}
	var b strings.Builder
	b.WriteString("🎯 *NEXT MILESTONE*\n\n")
	fmt.Fprintf(&b, "*Day %d:* %s\n", s.NextMilestone.Day, s.NextMilestone.Description)
	fmt.Fprintf(&b, "*Days to go:* %d\n\n", s.DaysToMilestone)
	b.WriteString("_Stay focused! We're building Ethiopia's digital future!_ 🇪🇹")
	return b.String()
}
