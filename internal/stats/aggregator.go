// Package stats builds per-team performance summaries from played-match
// history.
package stats

import (
	"github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/models"
)

// Window names as they appear in processed output.
const (
	windowAll      = "all-matches"
	windowAllHome  = "all-home-matches"
	windowAllAway  = "all-away-matches"
	windowLast     = "last-matches"
	windowLastHome = "last-home-matches"
	windowLastAway = "last-away-matches"
)

// Build summarizes a team's history into the six standard windows. The input
// must be sorted most-recent-first; the "last" windows filter by side first
// and only then take the most recent N, so a last-home window always holds up
// to N home matches regardless of how the recent mixed run went.
func Build(teamID int, matches []models.PlayedMatch, cfg config.StatsConfig) models.TeamStats {
	home := filterBySide(teamID, matches, "HOME")
	away := filterBySide(teamID, matches, "AWAY")

	return models.TeamStats{
		AllMatches:      window(windowAll, teamID, matches),
		AllHomeMatches:  window(windowAllHome, teamID, home),
		AllAwayMatches:  window(windowAllAway, teamID, away),
		LastMatches:     window(windowLast, teamID, mostRecent(matches, cfg.LastMatches)),
		LastHomeMatches: window(windowLastHome, teamID, mostRecent(home, cfg.LastHomeMatches)),
		LastAwayMatches: window(windowLastAway, teamID, mostRecent(away, cfg.LastAwayMatches)),
	}
}

func filterBySide(teamID int, matches []models.PlayedMatch, side string) []models.PlayedMatch {
	out := make([]models.PlayedMatch, 0, len(matches))
	for _, m := range matches {
		if m.Side(teamID) == side {
			out = append(out, m)
		}
	}
	return out
}

func mostRecent(matches []models.PlayedMatch, n int) []models.PlayedMatch {
	if n <= 0 || len(matches) <= n {
		return matches
	}
	return matches[:n]
}

func window(name string, teamID int, matches []models.PlayedMatch) models.StatsWindow {
	var items models.StatsItems
	for _, m := range matches {
		team, opponent := sides(teamID, &m)
		if team == nil {
			continue
		}
		accumulate(&items, team, opponent)
	}
	finalize(&items)
	return models.StatsWindow{Name: name, Items: items}
}

func sides(teamID int, m *models.PlayedMatch) (team, opponent *models.PlayedMatchTeam) {
	switch m.Side(teamID) {
	case "HOME":
		return &m.Home, &m.Away
	case "AWAY":
		return &m.Away, &m.Home
	}
	return nil, nil
}

func accumulate(items *models.StatsItems, team, opponent *models.PlayedMatchTeam) {
	items.MatchesPlayed++

	items.GoalsFor += team.Score.FullTime
	items.GoalsAgainst += opponent.Score.FullTime
	if team.Score.FullTime > 0 {
		items.MatchesScored++
	}
	if opponent.Score.FullTime > 0 {
		items.MatchesConceded++
	}

	switch team.Result {
	case models.ResultWin:
		items.Wins++
		items.PointsWon += 3
	case models.ResultDraw:
		items.Draws++
		items.PointsWon++
	case models.ResultLose:
		items.Losses++
	}

	items.FirstHalfGoalsFor += team.Score.FirstHalf.For
	items.FirstHalfGoalsAgainst += team.Score.FirstHalf.Against
	if team.Score.FirstHalf.For > 0 {
		items.MatchesScoredFirstHalf++
	}
	if team.Score.FirstHalf.Against > 0 {
		items.MatchesConcededFirstHalf++
	}

	items.SecondHalfGoalsFor += team.Score.SecondHalf.For
	items.SecondHalfGoalsAgainst += team.Score.SecondHalf.Against
	if team.Score.SecondHalf.For > 0 {
		items.MatchesScoredSecondHalf++
	}
	if team.Score.SecondHalf.Against > 0 {
		items.MatchesConcededSecondHalf++
	}
}

func finalize(items *models.StatsItems) {
	played := float64(items.MatchesPlayed)
	items.GoalsForAvg = models.Round1(models.Ratio(float64(items.GoalsFor), played))
	items.GoalsAgainstAvg = models.Round1(models.Ratio(float64(items.GoalsAgainst), played))
	items.PointsWonPct = models.Round1(models.Ratio(float64(items.PointsWon)*100, played*3))
	items.ScoredFirstHalfAvg = models.Round1(models.Ratio(float64(items.FirstHalfGoalsFor), played))
	items.ConcededFirstHalfAvg = models.Round1(models.Ratio(float64(items.FirstHalfGoalsAgainst), played))
	items.ScoredSecondHalfAvg = models.Round1(models.Ratio(float64(items.SecondHalfGoalsFor), played))
	items.ConcededSecondHalfAvg = models.Round1(models.Ratio(float64(items.SecondHalfGoalsAgainst), played))
}
