// Package repository is the cache-first data access layer: every read tries
// the raw snapshot on disk, falls back to the API when remote fetching is
// enabled for the run, and degrades to an empty result otherwise.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tmejia/predibet/internal/api"
	"github.com/tmejia/predibet/internal/normalizer"
	"github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/models"
	"github.com/tmejia/predibet/internal/pkg/storage"
)

var (
	ErrLeagueNotFound    = errors.New("league not found")
	ErrNoFixturesForDate = errors.New("no fixtures index for date")
)

const (
	leaguesFileName = "leagues.json"
	teamsFileName   = "teams.json"
)

// Repository owns the league/team reference directories and the raw and
// processed cache trees. It assumes single-process access.
type Repository struct {
	cfg    *config.Config
	client *api.Client
	store  *storage.FileStore
	logger *slog.Logger

	leagues    models.LeaguesFile
	teams      models.TeamsFile
	teamsDirty bool
	indexDirty bool
}

func New(cfg *config.Config, client *api.Client, store *storage.FileStore, logger *slog.Logger) (*Repository, error) {
	r := &Repository{
		cfg:    cfg,
		client: client,
		store:  store,
		logger: logger,
		teams:  models.TeamsFile{},
	}

	if err := store.ReadJSON(&r.leagues, "util", leaguesFileName); err != nil {
		return nil, fmt.Errorf("loading leagues directory: %w", err)
	}
	if r.leagues.Fixtures == nil {
		r.leagues.Fixtures = map[string][]string{}
	}
	if store.Exists("util", teamsFileName) {
		if err := store.ReadJSON(&r.teams, "util", teamsFileName); err != nil {
			return nil, fmt.Errorf("loading teams directory: %w", err)
		}
	}
	return r, nil
}

// LeagueByID implements normalizer.Resolver.
func (r *Repository) LeagueByID(id int) (models.League, bool) {
	for _, league := range r.leagues.Items {
		if league.ID == id {
			return league, true
		}
	}
	return models.League{}, false
}

// TeamRefByID implements normalizer.Resolver.
func (r *Repository) TeamRefByID(id int) (models.TeamRef, bool) {
	ref, ok := r.teams[strconv.Itoa(id)]
	return ref, ok
}

// CountryByName implements normalizer.Resolver, scanning the countries of the
// known leagues.
func (r *Repository) CountryByName(name string) (models.Country, bool) {
	for _, league := range r.leagues.Items {
		if league.Country.Name == name {
			return league.Country, true
		}
	}
	return models.Country{}, false
}

// EnabledLeagues returns the enabled leagues sorted by priority.
func (r *Repository) EnabledLeagues() []models.League {
	out := make([]models.League, 0, len(r.leagues.Items))
	for _, league := range r.leagues.Items {
		if league.Enabled {
			out = append(out, league)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// LeaguesByDate resolves the fixture index entry for a date into leagues.
func (r *Repository) LeaguesByDate(date string) ([]models.League, error) {
	slugs, ok := r.leagues.Fixtures[date]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFixturesForDate, date)
	}

	bySlug := make(map[string]models.League, len(r.leagues.Items))
	for _, league := range r.leagues.Items {
		bySlug[leagueSlug(league)] = league
	}

	out := make([]models.League, 0, len(slugs))
	for _, slug := range slugs {
		league, ok := bySlug[slug]
		if !ok {
			return nil, fmt.Errorf("%w: fixture index references %q", ErrLeagueNotFound, slug)
		}
		out = append(out, league)
	}
	return out, nil
}

// FetchFixtureMatches returns the fixtures of one league on one date,
// normalized; cache-first, then API when fetching is enabled, else empty.
func (r *Repository) FetchFixtureMatches(league models.League, date string, fetchRemote bool, standings *models.LeagueStandings) ([]models.FixtureMatch, error) {
	rawPath := []string{"raw", "fixtures", league.Country.Name, leagueDir(league), date + ".json"}

	data, found, err := r.rawPayload(rawPath, fetchRemote, "/fixtures", url.Values{
		"league":   {strconv.Itoa(league.ID)},
		"season":   {strconv.Itoa(league.Season.Year)},
		"date":     {date},
		"timezone": {r.cfg.API.Timezone},
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.FixtureMatch{}, nil
	}

	var raw normalizer.RawMatchesResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding fixtures payload: %w", err)
	}
	matches, err := normalizer.ParseFixtureMatches(raw, standings, r)
	if err != nil {
		return nil, err
	}

	if len(matches) > 0 {
		processed := append([]string{"output"}, rawPath[1:]...)
		if err := r.store.WriteJSON(matches, processed...); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// FetchPlayedMatches returns a team's played history strictly before the
// given date, so predictions never see future knowledge.
func (r *Repository) FetchPlayedMatches(team models.MatchTeam, league models.League, beforeDate string, fetchRemote bool, standings *models.LeagueStandings) ([]models.PlayedMatch, error) {
	country := league.Country.Name
	if team.Country != nil {
		country = team.Country.Name
	}
	rawPath := []string{"raw", "teams", country, teamFileName(team)}

	data, found, err := r.rawPayload(rawPath, fetchRemote, "/fixtures", url.Values{
		"team":     {strconv.Itoa(team.ID)},
		"season":   {strconv.Itoa(league.Season.Year)},
		"timezone": {r.cfg.API.Timezone},
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.PlayedMatch{}, nil
	}

	var raw normalizer.RawMatchesResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding team history payload: %w", err)
	}
	matches, err := normalizer.ParsePlayedMatches(raw, standings, league, beforeDate, r)
	if err != nil {
		return nil, err
	}

	if len(matches) > 0 {
		processed := append([]string{"output"}, rawPath[1:]...)
		if err := r.store.WriteJSON(matches, processed...); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// FetchLeagueStandings returns the league table as of one date. Standings are
// rebuilt fully on every fetch, never merged.
func (r *Repository) FetchLeagueStandings(league models.League, date string, fetchRemote bool) (*models.LeagueStandings, error) {
	rawPath := []string{"raw", "standings", league.Country.Name, date + "-" + leagueDir(league) + ".json"}

	data, found, err := r.rawPayload(rawPath, fetchRemote, "/standings", url.Values{
		"league": {strconv.Itoa(league.ID)},
		"season": {strconv.Itoa(league.Season.Year)},
	})
	if err != nil {
		return nil, err
	}
	if !found {
		empty := normalizer.ParseStandingsResponse(normalizer.RawStandingsResponse{})
		return &empty, nil
	}

	var raw normalizer.RawStandingsResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding standings payload: %w", err)
	}
	standings := normalizer.ParseStandingsResponse(raw)

	if !standings.IsEmpty() {
		processed := append([]string{"output"}, rawPath[1:]...)
		if err := r.store.WriteJSON(standings, processed...); err != nil {
			return nil, err
		}
	}
	return &standings, nil
}

// rawPayload resolves one raw snapshot. The bool result reports whether any
// payload exists; offline runs over dates with no snapshot degrade to empty
// rather than failing.
func (r *Repository) rawPayload(rawPath []string, fetchRemote bool, apiPath string, query url.Values) ([]byte, bool, error) {
	if fetchRemote {
		data, err := r.client.Get(apiPath, query)
		if err != nil {
			return nil, false, err
		}
		if err := r.store.WriteRaw(data, rawPath...); err != nil {
			return nil, false, err
		}
		return data, true, nil
	}

	if !r.store.Exists(rawPath...) {
		r.logger.Debug("No cached snapshot", "path", r.store.Path(rawPath...))
		return nil, false, nil
	}
	data, err := r.store.ReadRaw(rawPath...)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// UpdateTeamsDirectory merges the teams of the given fixtures into the team
// directory. Country and historic are first-write-wins: once known they are
// never overwritten.
func (r *Repository) UpdateTeamsDirectory(matches []models.FixtureMatch) {
	for i := range matches {
		r.mergeTeam(matches[i].Home.MatchTeam)
		r.mergeTeam(matches[i].Away.MatchTeam)
	}
}

func (r *Repository) mergeTeam(team models.MatchTeam) {
	key := strconv.Itoa(team.ID)
	existing, known := r.teams[key]
	if !known {
		r.teams[key] = models.TeamRef{Name: team.Name, Country: team.Country, Historic: team.Historic}
		r.teamsDirty = true
		return
	}
	if existing.Country == nil && team.Country != nil {
		existing.Country = team.Country
		r.teams[key] = existing
		r.teamsDirty = true
	}
}

// UpdateLeagueFixturesIndex merges the given leagues into the fixture index
// entry for one date, deduplicated and sorted.
func (r *Repository) UpdateLeagueFixturesIndex(date string, leagues []models.League) {
	seen := make(map[string]bool, len(r.leagues.Fixtures[date]))
	for _, slug := range r.leagues.Fixtures[date] {
		seen[slug] = true
	}
	for _, league := range leagues {
		seen[leagueSlug(league)] = true
	}

	slugs := make([]string, 0, len(seen))
	for slug := range seen {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	r.leagues.Fixtures[date] = slugs
	r.indexDirty = true
}

// FetchFixtureDates fetches one league's fixtures over a date range and
// returns the distinct dates on which it plays, for the fixture index.
func (r *Repository) FetchFixtureDates(league models.League, from, to string) ([]string, error) {
	fileName := from + ".json"
	query := url.Values{
		"league":   {strconv.Itoa(league.ID)},
		"season":   {strconv.Itoa(league.Season.Year)},
		"timezone": {r.cfg.API.Timezone},
	}
	if to != "" && to != from {
		fileName = from + "--" + to + ".json"
		query.Set("from", from)
		query.Set("to", to)
	} else {
		query.Set("date", from)
	}
	rawPath := []string{"raw", "fixtures", league.Country.Name, leagueDir(league), fileName}

	// Range snapshots are reused when present: the index refresh is often
	// re-run after fixing the league directory.
	fetchRemote := !r.store.Exists(rawPath...)
	data, found, err := r.rawPayload(rawPath, fetchRemote, "/fixtures", query)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var raw normalizer.RawMatchesResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding fixtures range payload: %w", err)
	}

	seen := map[string]bool{}
	dates := make([]string, 0, len(raw.Response))
	for _, match := range raw.Response {
		date, _, _ := strings.Cut(match.Fixture.Date, "T")
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// Flush persists the mutated directories at the end of a run.
func (r *Repository) Flush() error {
	if r.teamsDirty {
		if err := r.store.WriteJSON(r.teams, "util", teamsFileName); err != nil {
			return fmt.Errorf("flushing teams directory: %w", err)
		}
		r.teamsDirty = false
	}
	if r.indexDirty {
		if err := r.store.WriteJSON(r.leagues, "util", leaguesFileName); err != nil {
			return fmt.Errorf("flushing leagues directory: %w", err)
		}
		r.indexDirty = false
	}
	return nil
}

// leagueDir is the per-league cache directory name, e.g. "Premier League (39)".
func leagueDir(league models.League) string {
	return fmt.Sprintf("%s (%d)", league.Name, league.ID)
}

func leagueSlug(league models.League) string {
	return fmt.Sprintf("%s-%d", models.Slugify(league.Name), league.ID)
}

// teamFileName keys a team's history snapshot by name and id: two clubs in
// one country can share a name.
func teamFileName(team models.MatchTeam) string {
	return fmt.Sprintf("%s-%d.json", models.Slugify(team.Name), team.ID)
}
