package markets

import "github.com/tmejia/predibet/internal/pkg/models"

// matchWinnerHome predicts a home win in regular time. League matches add a
// table-position requirement on top of the form criteria; cup and
// international fixtures use form only, since their standings carry no signal.
func matchWinnerHome() Market {
	return Market{
		ID:            "tr-local",
		Name:          "Tiempo reglamentario (Local)",
		ShortName:     "TRL",
		TrackOutcomes: true,
		Groups: func(in Input) []CriteriaGroup {
			if isLeagueMatch(in) {
				return []CriteriaGroup{
					{
						Description: "Strongest criteria for the home side as favourite in a league match",
						TrustWeight: 100,
						Items: []Criterion{
							homeInTopPositions(5),
							homePointsAtLeast(10),
							awayPointsAtMost(4),
						},
					},
				}
			}
			return []CriteriaGroup{
				{
					Description: "Strongest criteria for the home side as favourite in a cup or international match",
					TrustWeight: 100,
					Items: []Criterion{
						homePointsAtLeast(10),
						awayPointsAtMost(4),
					},
				},
			}
		},
		Hit: func(in Input) bool {
			return in.Home.Result == models.ResultWin
		},
	}
}
