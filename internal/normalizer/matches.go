package normalizer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tmejia/predibet/internal/pkg/models"
)

// DataIntegrityError marks a source payload the pipeline refuses to trust:
// a played match without both full-time scores, or half-time arithmetic that
// implies negative second-half goals. Fatal for the affected match only.
type DataIntegrityError struct {
	MatchID string
	Reason  string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("match %s: %s", e.MatchID, e.Reason)
}

// Resolver supplies league/team reference metadata during normalization.
type Resolver interface {
	LeagueByID(id int) (models.League, bool)
	TeamRefByID(id int) (models.TeamRef, bool)
	CountryByName(name string) (models.Country, bool)
}

// ParseFixtureMatches normalizes a fixtures-of-the-day payload. Postponed
// matches are dropped; a finished match with missing scores fails the whole
// payload (callers treat that as a per-league failure).
func ParseFixtureMatches(data RawMatchesResponse, standings *models.LeagueStandings, res Resolver) ([]models.FixtureMatch, error) {
	matches := make([]models.FixtureMatch, 0, len(data.Response))
	for _, item := range data.Response {
		if item.Fixture.Status.Long == statusPostponed {
			continue
		}
		match, err := parseFixtureItem(item, standings, res)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].FullDate < matches[j].FullDate
	})
	return matches, nil
}

// ParsePlayedMatches normalizes a team-history payload into played matches,
// keeping only finished matches inside the season and strictly before the
// reference date. The before filter is the anti-leakage invariant: a team's
// history must never include knowledge from the fixture date onward.
func ParsePlayedMatches(data RawMatchesResponse, standings *models.LeagueStandings, league models.League, beforeDate string, res Resolver) ([]models.PlayedMatch, error) {
	matches := make([]models.PlayedMatch, 0, len(data.Response))
	for _, item := range data.Response {
		if item.Fixture.Status.Long != statusFinished {
			continue
		}
		if item.Fixture.Date < league.Season.StartDate {
			continue
		}
		_, date, _ := splitFixtureDate(item.Fixture.Date)
		if date >= beforeDate {
			continue
		}

		match, err := parsePlayedItem(item, standings, league, res)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].FullDate > matches[j].FullDate
	})
	return matches, nil
}

func parseFixtureItem(item RawMatch, standings *models.LeagueStandings, res Resolver) (models.FixtureMatch, error) {
	fullDate, date, hour := splitFixtureDate(item.Fixture.Date)
	league := resolveLeague(item, res)
	played := item.Fixture.Status.Long == statusFinished

	match := models.FixtureMatch{
		ID:          strconv.FormatInt(item.Fixture.ID, 10),
		FullDate:    fullDate,
		Date:        date,
		Hour:        hour,
		Played:      played,
		League:      league,
		Predictions: []models.MarketPrediction{},
	}
	warnOnUnknownSize := league.Type == "League"
	match.Home = models.FixtureMatchTeam{
		MatchTeam: parseMatchTeam(item, item.Teams.Home, standings, league, warnOnUnknownSize, res),
		Matches:   []models.PlayedMatch{},
	}
	match.Away = models.FixtureMatchTeam{
		MatchTeam: parseMatchTeam(item, item.Teams.Away, standings, league, warnOnUnknownSize, res),
		Matches:   []models.PlayedMatch{},
	}

	if played {
		homeScore, awayScore, homeResult, awayResult, err := parseScores(match.ID, item)
		if err != nil {
			return models.FixtureMatch{}, err
		}
		match.Home.Score, match.Home.Result = &homeScore, homeResult
		match.Away.Score, match.Away.Result = &awayScore, awayResult
	}

	return match, nil
}

func parsePlayedItem(item RawMatch, standings *models.LeagueStandings, league models.League, res Resolver) (models.PlayedMatch, error) {
	fullDate, date, hour := splitFixtureDate(item.Fixture.Date)
	id := strconv.FormatInt(item.Fixture.ID, 10)

	homeScore, awayScore, homeResult, awayResult, err := parseScores(id, item)
	if err != nil {
		return models.PlayedMatch{}, err
	}

	return models.PlayedMatch{
		ID:       id,
		FullDate: fullDate,
		Date:     date,
		Hour:     hour,
		Played:   true,
		League:   models.LeagueSummary{ID: item.League.ID, Name: item.League.Name},
		Home: models.PlayedMatchTeam{
			MatchTeam: parseMatchTeam(item, item.Teams.Home, standings, league, false, res),
			Score:     homeScore,
			Result:    homeResult,
		},
		Away: models.PlayedMatchTeam{
			MatchTeam: parseMatchTeam(item, item.Teams.Away, standings, league, false, res),
			Score:     awayScore,
			Result:    awayResult,
		},
	}, nil
}

func parseMatchTeam(item RawMatch, raw RawMatchTeam, standings *models.LeagueStandings, league models.League, warnOnUnknownSize bool, res Resolver) models.MatchTeam {
	team := models.MatchTeam{
		ID:       raw.ID,
		Name:     raw.Name,
		Position: standings.TeamPosition(raw.ID),
		Tag:      teamTag(raw.ID, standings, warnOnUnknownSize),
	}

	if known, ok := res.TeamRefByID(raw.ID); ok {
		team.Historic = known.Historic
		if known.Country != nil {
			country := *known.Country
			team.Country = &country
			return team
		}
	}
	if item.League.Country != "World" {
		if country, ok := resolveCountry(item.League.ID, item.League.Country, res); ok {
			team.Country = &country
		}
	}
	return team
}

// resolveLeague returns the configured league record, or a synthesized
// "Unknown" one for leagues outside the directory (cup qualifiers and such).
func resolveLeague(item RawMatch, res Resolver) models.League {
	if league, ok := res.LeagueByID(item.League.ID); ok {
		return league
	}

	league := models.League{
		ID:   item.League.ID,
		Name: item.League.Name,
		Type: "Unknown",
	}
	switch {
	case item.League.Name == "World":
		league.Country = models.Country{Name: "World", Code: "World", Flag: "🌎"}
	default:
		if country, ok := res.CountryByName(item.League.Name); ok {
			league.Country = country
		} else if country, ok := res.CountryByName(item.League.Country); ok {
			league.Country = country
		} else {
			league.Country = models.Country{Name: "Unknown", Code: "Unknown", Flag: "❓"}
		}
	}
	return league
}

func resolveCountry(leagueID int, countryName string, res Resolver) (models.Country, bool) {
	if league, ok := res.LeagueByID(leagueID); ok {
		return league.Country, true
	}
	return res.CountryByName(countryName)
}

// parseScores derives both sides' score breakdowns and results. A finished
// match must have both full-time scores; second-half goals are derived from
// the half-time score and must not be negative.
func parseScores(matchID string, item RawMatch) (home, away models.Score, homeResult, awayResult models.MatchResult, err error) {
	full := item.Score.Fulltime
	if full.Home == nil || full.Away == nil {
		err = &DataIntegrityError{MatchID: matchID, Reason: "missing full-time score on a finished match"}
		return
	}

	homeFT, awayFT := *full.Home, *full.Away
	switch {
	case homeFT == awayFT:
		homeResult, awayResult = models.ResultDraw, models.ResultDraw
	case homeFT > awayFT:
		homeResult, awayResult = models.ResultWin, models.ResultLose
	default:
		homeResult, awayResult = models.ResultLose, models.ResultWin
	}

	halfHome, halfAway := 0, 0
	if item.Score.Halftime.Home != nil {
		halfHome = *item.Score.Halftime.Home
	}
	if item.Score.Halftime.Away != nil {
		halfAway = *item.Score.Halftime.Away
	}

	secondHome := homeFT - halfHome
	secondAway := awayFT - halfAway
	if secondHome < 0 || secondAway < 0 {
		err = &DataIntegrityError{MatchID: matchID, Reason: "half-time score exceeds full-time score"}
		return
	}

	home = models.Score{
		FullTime:   homeFT,
		FirstHalf:  models.HalfGoals{For: halfHome, Against: halfAway},
		SecondHalf: models.HalfGoals{For: secondHome, Against: secondAway},
	}
	away = models.Score{
		FullTime:   awayFT,
		FirstHalf:  models.HalfGoals{For: halfAway, Against: halfHome},
		SecondHalf: models.HalfGoals{For: secondAway, Against: secondHome},
	}

	extra := item.Score.Extratime
	if extra.Home != nil && extra.Away != nil {
		home.ExtraTime = &models.HalfGoals{For: homeFT + *extra.Home, Against: awayFT + *extra.Away}
		away.ExtraTime = &models.HalfGoals{For: awayFT + *extra.Away, Against: homeFT + *extra.Home}
	}

	return
}

// splitFixtureDate trims an ISO timestamp down to minute precision and
// splits out date and hour. String comparisons on these values preserve
// chronological order.
func splitFixtureDate(isoDate string) (fullDate, date, hour string) {
	fullDate = isoDate
	if len(fullDate) > 16 {
		fullDate = fullDate[:16]
	}
	date, hour, _ = strings.Cut(fullDate, "T")
	return fullDate, date, hour
}
