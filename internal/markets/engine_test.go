package markets

import (
	"testing"

	"github.com/tmejia/predibet/internal/pkg/models"
)

func leagueInput(played bool) Input {
	match := &models.FixtureMatch{
		ID:     "1000",
		Played: played,
		League: models.League{ID: 1, Name: "Premier League", Type: "League"},
		Home:   models.FixtureMatchTeam{MatchTeam: models.MatchTeam{ID: 10, Name: "Home FC"}},
		Away:   models.FixtureMatchTeam{MatchTeam: models.MatchTeam{ID: 20, Name: "Away FC"}},
	}
	standings := &models.LeagueStandings{
		Type: models.StandingsRegular,
		Tables: [][]models.StandingRow{
			regularTable(20, 10, 2, 20, 15),
		},
		Stats: &models.LeagueAggregates{MatchesPlayed: 10},
	}
	return NewInput(match, standings)
}

// regularTable builds a table of the given size placing homeID and awayID at
// the given 1-based positions.
func regularTable(size, homeID, homePos, awayID, awayPos int) []models.StandingRow {
	table := make([]models.StandingRow, size)
	for i := range table {
		table[i] = models.StandingRow{TeamID: 1000 + i, All: models.StandingRecord{Played: 10}}
	}
	table[homePos-1].TeamID = homeID
	table[awayPos-1].TeamID = awayID
	return table
}

func staticCriterion(fulfilled bool) Criterion {
	return Criterion{
		Description: "static",
		Evaluate: func(Input) CriterionResult {
			return CriterionResult{Fulfilled: fulfilled, SuccessExplanation: "yes", FailExplanation: "no"}
		},
	}
}

func staticMarket(groups []CriteriaGroup, hit bool) Market {
	return Market{
		ID:        "static",
		Name:      "Static",
		ShortName: "ST",
		Groups:    func(Input) []CriteriaGroup { return groups },
		Hit:       func(Input) bool { return hit },
	}
}

func TestPredictNoGroups(t *testing.T) {
	m := staticMarket(nil, false)
	if got := m.Predict(leagueInput(false)); got != nil {
		t.Fatalf("market without groups produced a prediction: %+v", got)
	}
}

func TestGroupFulfilledIsANDOfItems(t *testing.T) {
	tests := []struct {
		name  string
		items []Criterion
		want  bool
	}{
		{"all fulfilled", []Criterion{staticCriterion(true), staticCriterion(true)}, true},
		{"first unfulfilled", []Criterion{staticCriterion(false), staticCriterion(true)}, false},
		{"last unfulfilled", []Criterion{staticCriterion(true), staticCriterion(false)}, false},
		{"none fulfilled", []Criterion{staticCriterion(false), staticCriterion(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := staticMarket([]CriteriaGroup{{Description: "g", TrustWeight: 100, Items: tt.items}}, false)
			got := m.Predict(leagueInput(false))
			if got.Criteria[0].Fulfilled != tt.want {
				t.Errorf("group fulfilled = %v, want %v", got.Criteria[0].Fulfilled, tt.want)
			}
		})
	}
}

func TestTrustLevelFromFirstGroup(t *testing.T) {
	tests := []struct {
		name      string
		groups    []CriteriaGroup
		wantLevel int
		wantLabel models.TrustLabel
	}{
		{
			name:      "single fulfilled group",
			groups:    []CriteriaGroup{{TrustWeight: 100, Items: []Criterion{staticCriterion(true)}}},
			wantLevel: 100,
			wantLabel: models.TrustHigh,
		},
		{
			name:      "single unfulfilled group",
			groups:    []CriteriaGroup{{TrustWeight: 100, Items: []Criterion{staticCriterion(false)}}},
			wantLevel: 0,
			wantLabel: models.TrustLow,
		},
		{
			name: "fulfilled lower-weight group sorts first",
			groups: []CriteriaGroup{
				{TrustWeight: 100, Items: []Criterion{staticCriterion(false)}},
				{TrustWeight: 60, Items: []Criterion{staticCriterion(true)}},
			},
			wantLevel: 60,
			wantLabel: models.TrustMedium,
		},
		{
			name: "heaviest fulfilled group wins",
			groups: []CriteriaGroup{
				{TrustWeight: 60, Items: []Criterion{staticCriterion(true)}},
				{TrustWeight: 100, Items: []Criterion{staticCriterion(true)}},
			},
			wantLevel: 100,
			wantLabel: models.TrustHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := staticMarket(tt.groups, false)
			got := m.Predict(leagueInput(false))
			if got.TrustLevel != tt.wantLevel {
				t.Errorf("trust level = %d, want %d", got.TrustLevel, tt.wantLevel)
			}
			if got.TrustLevelLabel != tt.wantLabel {
				t.Errorf("trust label = %q, want %q", got.TrustLevelLabel, tt.wantLabel)
			}
		})
	}
}

func TestOutcomePartition(t *testing.T) {
	tests := []struct {
		name        string
		fulfilled   bool
		hit         bool
		wantOutcome string
	}{
		{"high trust and hit", true, true, "winning"},
		{"high trust and miss", true, false, "lost"},
		{"low trust and hit", false, true, "lostWinning"},
		{"low trust and miss", false, false, "skippedLost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := []CriteriaGroup{{TrustWeight: 100, Items: []Criterion{staticCriterion(tt.fulfilled)}}}
			m := staticMarket(groups, tt.hit)
			got := m.Predict(leagueInput(true))
			if got.Results == nil {
				t.Fatal("played match produced no results")
			}
			set := 0
			for _, flag := range []bool{got.Results.Winning, got.Results.Lost, got.Results.LostWinning, got.Results.SkippedLost} {
				if flag {
					set++
				}
			}
			if set != 1 {
				t.Fatalf("results set %d flags, want exactly 1: %+v", set, got.Results)
			}
			if outcome := got.Results.Outcome(); outcome != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", outcome, tt.wantOutcome)
			}
		})
	}
}

func TestPredictResultsOnlyForPlayed(t *testing.T) {
	groups := []CriteriaGroup{{TrustWeight: 100, Items: []Criterion{staticCriterion(true)}}}
	got := staticMarket(groups, true).Predict(leagueInput(false))
	if got.Results != nil {
		t.Fatalf("upcoming match carries results: %+v", got.Results)
	}
}

func TestPredictSortsByTrustLevel(t *testing.T) {
	in := leagueInput(false)

	// Home scores freely at home, away concedes freely away: the home-goal
	// market grades HIGH while the table-driven markets stay at 0.
	in.Home.Stats.AllHomeMatches.Items.GoalsForAvg = 1.2
	in.Away.Stats.AllAwayMatches.Items.GoalsAgainstAvg = 1.3

	predictions := Predict(in)
	if len(predictions) == 0 {
		t.Fatal("no predictions produced")
	}
	for i := 1; i < len(predictions); i++ {
		if predictions[i].TrustLevel > predictions[i-1].TrustLevel {
			t.Fatalf("predictions not sorted by trust level: %d before %d",
				predictions[i-1].TrustLevel, predictions[i].TrustLevel)
		}
	}
	if predictions[0].ID != "gol-local" || predictions[0].TrustLevel != 100 {
		t.Errorf("top prediction = %s/%d, want gol-local/100", predictions[0].ID, predictions[0].TrustLevel)
	}
}
