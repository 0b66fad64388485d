// Package markets holds the bank of heuristic market strategies and the
// engine that grades them into trust-labelled predictions.
package markets

import (
	"fmt"
	"sort"

	"github.com/tmejia/predibet/internal/pkg/models"
)

// Input is the full context a market sees: the fixture under analysis, both
// sides with their stats and history, and the league table. Criteria take it
// explicitly so every predicate is unit-testable on its own.
type Input struct {
	Match     *models.FixtureMatch
	Home      *models.FixtureMatchTeam
	Away      *models.FixtureMatchTeam
	League    models.League
	Standings *models.LeagueStandings
}

// NewInput builds the evaluation context for one fixture.
func NewInput(match *models.FixtureMatch, standings *models.LeagueStandings) Input {
	return Input{
		Match:     match,
		Home:      &match.Home,
		Away:      &match.Away,
		League:    match.League,
		Standings: standings,
	}
}

// CriterionResult carries both explanation variants; the engine keeps the one
// matching the fulfilled flag.
type CriterionResult struct {
	Fulfilled          bool
	SuccessExplanation string
	FailExplanation    string
}

// Criterion is one boolean sub-rule of a criteria group.
type Criterion struct {
	Description string
	Evaluate    func(in Input) CriterionResult
}

// CriteriaGroup is an all-or-nothing bundle of criteria with a trust weight.
type CriteriaGroup struct {
	Description string
	TrustWeight int
	Items       []Criterion
}

// Market is one named strategy. Groups depends on context (league matches
// get different rule sets than cup or international fixtures) and may return
// nothing, in which case the market produces no prediction. Hit decides,
// for a played match, whether the predicted outcome actually happened.
type Market struct {
	ID            string
	Name          string
	ShortName     string
	TrackOutcomes bool
	Groups        func(in Input) []CriteriaGroup
	Hit           func(in Input) bool
}

// Predict grades the market against the input. Returns nil when the market
// defines no criteria groups for this context.
func (m Market) Predict(in Input) *models.MarketPrediction {
	groups := m.Groups(in)
	if len(groups) == 0 {
		return nil
	}

	outcomes := make([]models.CriteriaGroupOutcome, 0, len(groups))
	for _, g := range groups {
		out := models.CriteriaGroupOutcome{
			Description: g.Description,
			TrustWeight: g.TrustWeight,
			Fulfilled:   true,
			Items:       make([]models.CriterionOutcome, 0, len(g.Items)),
		}
		for _, item := range g.Items {
			r := item.Evaluate(in)
			explanation := r.SuccessExplanation
			if !r.Fulfilled {
				explanation = r.FailExplanation
				out.Fulfilled = false
			}
			out.Items = append(out.Items, models.CriterionOutcome{
				Description: item.Description,
				Fulfilled:   r.Fulfilled,
				Explanation: explanation,
			})
		}
		outcomes = append(outcomes, out)
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].Fulfilled != outcomes[j].Fulfilled {
			return outcomes[i].Fulfilled
		}
		return outcomes[i].TrustWeight > outcomes[j].TrustWeight
	})

	trustLevel := 0
	if outcomes[0].Fulfilled {
		trustLevel = outcomes[0].TrustWeight
	}
	label := models.TrustLabelFor(trustLevel)

	prediction := &models.MarketPrediction{
		ID:              m.ID,
		Name:            m.Name,
		ShortName:       m.ShortName,
		TrustLevel:      trustLevel,
		TrustLevelLabel: label,
		Criteria:        outcomes,
	}
	if in.Match.Played {
		prediction.Results = classifyOutcome(label, m.Hit(in))
	}
	return prediction
}

// classifyOutcome partitions (trust HIGH or not) x (hit or not) into the four
// exclusive outcome flags.
func classifyOutcome(label models.TrustLabel, hit bool) *models.PredictionResults {
	high := label == models.TrustHigh
	return &models.PredictionResults{
		Winning:     high && hit,
		Lost:        high && !hit,
		LostWinning: !high && hit,
		SkippedLost: !high && !hit,
	}
}

// AllMarkets is the shipped strategy bank.
func AllMarkets() []Market {
	return []Market{
		doubleOpportunityHome(),
		matchWinnerHome(),
		goalByHomeTeam(),
		bothScore(),
	}
}

// Predict runs the whole bank against one fixture, dropping markets without
// applicable criteria and sorting by trust level descending.
func Predict(in Input) []models.MarketPrediction {
	markets := AllMarkets()
	out := make([]models.MarketPrediction, 0, len(markets))
	for _, m := range markets {
		if p := m.Predict(in); p != nil {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TrustLevel > out[j].TrustLevel })
	return out
}

// TrackedMarkets maps market id to its outcome-tracking flag, for the ledger.
func TrackedMarkets() map[string]bool {
	tracked := make(map[string]bool)
	for _, m := range AllMarkets() {
		tracked[m.ID] = m.TrackOutcomes
	}
	return tracked
}

// isLeagueMatch reports whether the fixture belongs to a genuine domestic
// league with a single table, where positions and points are meaningful.
func isLeagueMatch(in Input) bool {
	return in.League.Type == "League" && in.Standings != nil && in.Standings.Type == models.StandingsRegular
}

// teamPosition resolves a team's table position, 0 when unknown.
func teamPosition(in Input, teamID int) int {
	if pos := in.Standings.TeamPosition(teamID); pos != nil {
		return *pos
	}
	return 0
}

func tableSize(in Input) int {
	return in.Standings.Size()
}

// lastMatchesPoints is the points sum over the team's last-matches window.
func lastMatchesPoints(team *models.FixtureMatchTeam) int {
	return team.Stats.LastMatches.Items.PointsWon
}

func positionExplanation(side string, position, size int) string {
	return fmt.Sprintf("%s is placed %d of %d", side, position, size)
}

func pointsExplanation(side string, points int) string {
	return fmt.Sprintf("%s took %d of the last 15 points", side, points)
}
