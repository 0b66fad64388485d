package markets

import "fmt"

// Rounds every team must have completed before scoring averages are trusted.
const bothScoreMinRounds = 3

// bothScore predicts that both sides score. Only defined for league matches
// past the opening rounds, where the scoring averages have settled.
func bothScore() Market {
	return Market{
		ID:            "ambos-marcan",
		Name:          "Ambos marcan",
		ShortName:     "AM",
		TrackOutcomes: true,
		Groups: func(in Input) []CriteriaGroup {
			if !isLeagueMatch(in) {
				return nil
			}
			if in.Standings.Stats == nil || in.Standings.Stats.MatchesPlayed < bothScoreMinRounds {
				return nil
			}
			return []CriteriaGroup{
				{
					Description: "Strongest criteria for both sides scoring",
					TrustWeight: 100,
					Items: []Criterion{
						sideScoringAverage("home side", func(in Input) float64 {
							return in.Home.Stats.AllHomeMatches.Items.GoalsForAvg
						}),
						sideScoringAverage("away side", func(in Input) float64 {
							return in.Away.Stats.AllAwayMatches.Items.GoalsForAvg
						}),
					},
				},
			}
		},
		Hit: func(in Input) bool {
			return in.Home.Score != nil && in.Away.Score != nil &&
				in.Home.Score.FullTime > 0 && in.Away.Score.FullTime > 0
		},
	}
}

func sideScoringAverage(side string, avg func(in Input) float64) Criterion {
	return Criterion{
		Description: side + " must average at least 1.5 goals scored on its side",
		Evaluate: func(in Input) CriterionResult {
			value := avg(in)
			return CriterionResult{
				Fulfilled:          value >= 1.5,
				SuccessExplanation: fmt.Sprintf("%s scores %.1f per match on its side", side, value),
				FailExplanation:    fmt.Sprintf("%s scores %.1f per match on its side", side, value),
			}
		},
	}
}
