package progress

import "github.com/ashewa/campaignbot/internal/model"

// NextMilestone returns the milestone with the smallest day strictly greater
// than elapsed. It reports false once every milestone day has been reached.
func NextMilestone(elapsed int, milestones []model.Milestone) (model.Milestone, bool) {
	var (
		next  model.Milestone
		found bool
	)
	for _, m := range milestones {
		if m.Day <= elapsed {
			continue
		}
		if !found || m.Day < next.Day {
			next = m
			found = true
		}
	}
	return next, found
}

// DaysToMilestone returns how many days remain until m.
func DaysToMilestone(elapsed int, m model.Milestone) int {
	return m.Day - elapsed
}
