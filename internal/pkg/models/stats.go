package models

import "math"

// Round1 rounds to one decimal place, the precision every derived average in
// the model uses. A zero denominator upstream must be mapped to 0 before
// calling; NaN and infinities are normalized to 0 here as a second guard.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}

// Ratio divides a by b, returning 0 for an empty denominator. Early-season
// teams commonly have empty windows, so this must never panic.
func Ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// StatsItems is the fixed statistics record of one team-stats window.
// Averages are rounded to 1 decimal; zero-match windows yield zero values.
type StatsItems struct {
	MatchesPlayed int `json:"matches_played"`

	GoalsFor        int     `json:"goals_for"`
	GoalsAgainst    int     `json:"goals_against"`
	GoalsForAvg     float64 `json:"goals_for_avg"`
	GoalsAgainstAvg float64 `json:"goals_against_avg"`

	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`

	MatchesScored   int `json:"matches_scored"`
	MatchesConceded int `json:"matches_conceded"`

	PointsWon    int     `json:"points_won"`
	PointsWonPct float64 `json:"points_won_pct"`

	FirstHalfGoalsFor        int     `json:"first_half_goals_for"`
	FirstHalfGoalsAgainst    int     `json:"first_half_goals_against"`
	MatchesScoredFirstHalf   int     `json:"matches_scored_first_half"`
	MatchesConcededFirstHalf int     `json:"matches_conceded_first_half"`
	ScoredFirstHalfAvg       float64 `json:"scored_first_half_avg"`
	ConcededFirstHalfAvg     float64 `json:"conceded_first_half_avg"`

	SecondHalfGoalsFor        int     `json:"second_half_goals_for"`
	SecondHalfGoalsAgainst    int     `json:"second_half_goals_against"`
	MatchesScoredSecondHalf   int     `json:"matches_scored_second_half"`
	MatchesConcededSecondHalf int     `json:"matches_conceded_second_half"`
	ScoredSecondHalfAvg       float64 `json:"scored_second_half_avg"`
	ConcededSecondHalfAvg     float64 `json:"conceded_second_half_avg"`
}

// StatsWindow is one named window of a team's performance summary
type StatsWindow struct {
	Name  string     `json:"name"`
	Items StatsItems `json:"items"`
}

// TeamStats holds the six windows derived from a team's played-match list:
// all/home/away, each over the whole history and over the last N matches.
type TeamStats struct {
	AllMatches      StatsWindow `json:"all-matches"`
	AllHomeMatches  StatsWindow `json:"all-home-matches"`
	AllAwayMatches  StatsWindow `json:"all-away-matches"`
	LastMatches     StatsWindow `json:"last-matches"`
	LastHomeMatches StatsWindow `json:"last-home-matches"`
	LastAwayMatches StatsWindow `json:"last-away-matches"`
}
