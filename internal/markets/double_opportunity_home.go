package markets

import "github.com/tmejia/predibet/internal/pkg/models"

// doubleOpportunityHome predicts the home side wins or draws. Only defined
// for genuine league matches: its criteria lean entirely on table positions.
func doubleOpportunityHome() Market {
	return Market{
		ID:            "doble-oportunidad-local",
		Name:          "Doble oportunidad (Local)",
		ShortName:     "DOL",
		TrackOutcomes: true,
		Groups: func(in Input) []CriteriaGroup {
			if !isLeagueMatch(in) {
				return nil
			}
			return []CriteriaGroup{
				{
					Description: "Strongest criteria for the home side as favourite",
					TrustWeight: 100,
					Items: []Criterion{
						homeInTopPositions(5),
						awayBelowPosition(10),
						homePointsAtLeast(10),
						awayPointsAtMost(10),
					},
				},
			}
		},
		Hit: func(in Input) bool {
			return in.Home.Result == models.ResultWin || in.Home.Result == models.ResultDraw
		},
	}
}

func homeInTopPositions(limit int) Criterion {
	return Criterion{
		Description: "Home side must sit in the top positions of the table",
		Evaluate: func(in Input) CriterionResult {
			position := teamPosition(in, in.Home.ID)
			return CriterionResult{
				Fulfilled:          position >= 1 && position <= limit,
				SuccessExplanation: positionExplanation("home side", position, tableSize(in)),
				FailExplanation:    positionExplanation("home side", position, tableSize(in)),
			}
		},
	}
}

func awayBelowPosition(limit int) Criterion {
	return Criterion{
		Description: "Away side must sit below the top half of the table",
		Evaluate: func(in Input) CriterionResult {
			position := teamPosition(in, in.Away.ID)
			return CriterionResult{
				Fulfilled:          position > limit,
				SuccessExplanation: positionExplanation("away side", position, tableSize(in)),
				FailExplanation:    positionExplanation("away side", position, tableSize(in)),
			}
		},
	}
}

func homePointsAtLeast(min int) Criterion {
	return Criterion{
		Description: "Home side must be in form over its last matches",
		Evaluate: func(in Input) CriterionResult {
			points := lastMatchesPoints(in.Home)
			return CriterionResult{
				Fulfilled:          points >= min,
				SuccessExplanation: pointsExplanation("home side", points),
				FailExplanation:    pointsExplanation("home side", points),
			}
		},
	}
}

func awayPointsAtMost(max int) Criterion {
	return Criterion{
		Description: "Away side must be out of form over its last matches",
		Evaluate: func(in Input) CriterionResult {
			points := lastMatchesPoints(in.Away)
			return CriterionResult{
				Fulfilled:          points <= max,
				SuccessExplanation: pointsExplanation("away side", points),
				FailExplanation:    pointsExplanation("away side", points),
			}
		},
	}
}
