package markets

import "fmt"

// goalByHomeTeam predicts the home side scores at least once: the home side
// scores freely at home and the away side concedes freely away.
func goalByHomeTeam() Market {
	return Market{
		ID:            "gol-local",
		Name:          "Gol del equipo local",
		ShortName:     "GL",
		TrackOutcomes: true,
		Groups: func(in Input) []CriteriaGroup {
			return []CriteriaGroup{
				{
					Description: "Strongest criteria for a home goal",
					TrustWeight: 100,
					Items: []Criterion{
						{
							Description: "Home side must average more than one goal scored per home match",
							Evaluate: func(in Input) CriterionResult {
								avg := in.Home.Stats.AllHomeMatches.Items.GoalsForAvg
								return CriterionResult{
									Fulfilled:          avg > 1.0,
									SuccessExplanation: fmt.Sprintf("home side scores %.1f per home match", avg),
									FailExplanation:    fmt.Sprintf("home side scores %.1f per home match", avg),
								}
							},
						},
						{
							Description: "Away side must average more than one goal conceded per away match",
							Evaluate: func(in Input) CriterionResult {
								avg := in.Away.Stats.AllAwayMatches.Items.GoalsAgainstAvg
								return CriterionResult{
									Fulfilled:          avg > 1.0,
									SuccessExplanation: fmt.Sprintf("away side concedes %.1f per away match", avg),
									FailExplanation:    fmt.Sprintf("away side concedes %.1f per away match", avg),
								}
							},
						},
					},
				},
			}
		},
		Hit: func(in Input) bool {
			return in.Home.Score != nil && in.Home.Score.FullTime >= 1
		},
	}
}
