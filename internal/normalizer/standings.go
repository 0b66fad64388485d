package normalizer

import (
	"log/slog"

	"github.com/tmejia/predibet/internal/pkg/models"
)

// Leagues whose raw standings carry several concurrent tables for the same
// competition (split Apertura/Clausura style seasons). Only one canonical
// sub-table is meaningful for predictions.
const colombianPrimeraAID = 239

const colombianClausuraGroup = "Primera A: Clausura"

// ParseStandingsResponse normalizes a raw standings payload. One table makes
// a REGULAR standings with league-wide aggregates; several tables make a
// GROUPS standings without them.
func ParseStandingsResponse(data RawStandingsResponse) models.LeagueStandings {
	if len(data.Response) == 0 {
		return models.LeagueStandings{Type: models.StandingsGroups, Tables: [][]models.StandingRow{}}
	}

	rawLeague := data.Response[0].League
	tables := make([][]models.StandingRow, 0, len(rawLeague.Standings))
	for _, rawTable := range selectCanonicalTables(rawLeague.ID, rawLeague.Country, rawLeague.Standings) {
		table := make([]models.StandingRow, 0, len(rawTable))
		for _, raw := range rawTable {
			table = append(table, parseStandingRow(raw))
		}
		tables = append(tables, table)
	}

	if len(tables) == 1 {
		return models.LeagueStandings{
			Type:   models.StandingsRegular,
			Tables: tables,
			Stats:  leagueAggregates(tables[0]),
		}
	}

	return models.LeagueStandings{Type: models.StandingsGroups, Tables: tables}
}

// selectCanonicalTables picks which raw tables survive normalization:
// the Colombian league keeps only the Clausura table, international ("World")
// competitions keep every group, everything else keeps the first table.
func selectCanonicalTables(leagueID int, country string, rawTables [][]RawStandingRow) [][]RawStandingRow {
	if leagueID == colombianPrimeraAID {
		for _, table := range rawTables {
			for _, row := range table {
				if row.Group == colombianClausuraGroup {
					return [][]RawStandingRow{table}
				}
			}
		}
		return [][]RawStandingRow{{}}
	}

	if country == "World" {
		return rawTables
	}

	if len(rawTables) == 0 {
		return [][]RawStandingRow{{}}
	}
	return [][]RawStandingRow{rawTables[0]}
}

func parseStandingRow(raw RawStandingRow) models.StandingRow {
	row := models.StandingRow{
		TeamID:    raw.Team.ID,
		TeamName:  raw.Team.Name,
		Points:    raw.Points,
		GoalsDiff: raw.GoalsDiff,
		All:       parseStandingRecord(raw.All),
		Home:      parseStandingRecord(raw.Home),
		Away:      parseStandingRecord(raw.Away),
	}
	row.Averages = models.StandingAverages{
		ScoredPerMatch:     models.Round1(models.Ratio(float64(row.All.Goals.For), float64(row.All.Played))),
		ScoredHomePerMatch: models.Round1(models.Ratio(float64(row.Home.Goals.For), float64(row.Home.Played))),
		ScoredAwayPerMatch: models.Round1(models.Ratio(float64(row.Away.Goals.For), float64(row.Away.Played))),
	}
	return row
}

func parseStandingRecord(raw RawStandingRecord) models.StandingRecord {
	return models.StandingRecord{
		Played: raw.Played,
		Win:    raw.Win,
		Draw:   raw.Draw,
		Lose:   raw.Lose,
		Goals:  models.StandingGoals{For: raw.Goals.For, Against: raw.Goals.Against},
	}
}

// leagueAggregates derives league-wide averages from a regular table.
// MatchesPlayed is the minimum across teams: the number of rounds every team
// has completed.
func leagueAggregates(table []models.StandingRow) *models.LeagueAggregates {
	if len(table) == 0 {
		return &models.LeagueAggregates{}
	}

	agg := &models.LeagueAggregates{MatchesPlayed: table[0].All.Played}
	var scored, scoredHome, scoredAway float64
	for _, row := range table {
		if row.All.Played < agg.MatchesPlayed {
			agg.MatchesPlayed = row.All.Played
		}
		scored += row.Averages.ScoredPerMatch
		scoredHome += row.Averages.ScoredHomePerMatch
		scoredAway += row.Averages.ScoredAwayPerMatch
	}

	teams := float64(len(table))
	agg.ScoredPerMatch = models.Round1(scored / teams)
	agg.ScoredHomePerMatch = models.Round1(scoredHome / teams)
	agg.ScoredAwayPerMatch = models.Round1(scoredAway / teams)
	return agg
}

// standingsLimits are the tag thresholds derived from the table size:
// positions <= Featured are FEATURED, positions >= Poor are POOR.
type standingsLimits struct {
	Featured int
	Poor     int
}

// limitsForSize is the documented threshold table by league size.
func limitsForSize(size int) (standingsLimits, bool) {
	switch size {
	case 20, 19:
		return standingsLimits{Featured: 6, Poor: size - 3}, true
	case 18, 16, 15:
		return standingsLimits{Featured: 5, Poor: size - 2}, true
	case 12:
		return standingsLimits{Featured: 4, Poor: size - 1}, true
	}
	return standingsLimits{}, false
}

// teamTag classifies a team by table position. Group-shaped standings, empty
// tables and league sizes outside the documented threshold table yield
// REGULAR; the unknown-size case logs a warning for league-type matches so
// new league shapes get noticed.
func teamTag(teamID int, standings *models.LeagueStandings, warnOnUnknownSize bool) models.TeamTag {
	position := standings.TeamPosition(teamID)
	if position == nil || standings.Type != models.StandingsRegular {
		return models.TagRegular
	}
	// A table nobody has played on yet is usually alphabetical; its
	// positions carry no signal.
	if standings.Stats == nil || standings.Stats.MatchesPlayed == 0 {
		return models.TagRegular
	}

	limits, ok := limitsForSize(standings.Size())
	if !ok {
		if warnOnUnknownSize {
			slog.Warn("No tag thresholds for league size", "size", standings.Size())
		}
		return models.TagRegular
	}

	switch {
	case *position <= limits.Featured:
		return models.TagFeatured
	case *position >= limits.Poor:
		return models.TagPoor
	default:
		return models.TagRegular
	}
}
