package repository

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/models"
	"github.com/tmejia/predibet/internal/pkg/storage"
)

func testLeagues() models.LeaguesFile {
	return models.LeaguesFile{
		Items: []models.League{
			{
				ID:       39,
				Name:     "Premier League",
				Type:     "League",
				Country:  models.Country{Name: "England", Code: "GB"},
				Season:   models.Season{Year: 2026, StartDate: "2026-08-01"},
				Enabled:  true,
				Priority: 1,
			},
			{
				ID:      2,
				Name:    "Champions League",
				Type:    "Cup",
				Country: models.Country{Name: "World"},
				Season:  models.Season{Year: 2026, StartDate: "2026-07-01"},
			},
		},
		Fixtures: map[string][]string{
			"2026-08-29": {"premier-league-39"},
		},
	}
}

func newTestRepository(t *testing.T) (*Repository, *storage.FileStore) {
	t.Helper()
	store := storage.NewFileStore(t.TempDir())
	if err := store.WriteJSON(testLeagues(), "util", "leagues.json"); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.API.Timezone = "America/Bogota"
	repo, err := New(cfg, nil, store, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	return repo, store
}

func TestLeagueByID(t *testing.T) {
	repo, _ := newTestRepository(t)

	league, ok := repo.LeagueByID(39)
	if !ok || league.Name != "Premier League" {
		t.Fatalf("LeagueByID(39) = %+v, %v", league, ok)
	}
	if _, ok := repo.LeagueByID(999); ok {
		t.Error("unknown league id resolved")
	}
}

func TestCountryByName(t *testing.T) {
	repo, _ := newTestRepository(t)

	country, ok := repo.CountryByName("England")
	if !ok || country.Code != "GB" {
		t.Fatalf("CountryByName = %+v, %v", country, ok)
	}
	if _, ok := repo.CountryByName("Atlantis"); ok {
		t.Error("unknown country resolved")
	}
}

func TestLeaguesByDate(t *testing.T) {
	repo, _ := newTestRepository(t)

	leagues, err := repo.LeaguesByDate("2026-08-29")
	if err != nil {
		t.Fatal(err)
	}
	if len(leagues) != 1 || leagues[0].ID != 39 {
		t.Fatalf("leagues = %+v, want Premier League only", leagues)
	}

	if _, err := repo.LeaguesByDate("2026-01-01"); !errors.Is(err, ErrNoFixturesForDate) {
		t.Errorf("missing index entry: err = %v, want ErrNoFixturesForDate", err)
	}
}

func TestFetchFixtureMatchesOfflineMissing(t *testing.T) {
	repo, _ := newTestRepository(t)
	league, _ := repo.LeagueByID(39)

	matches, err := repo.FetchFixtureMatches(league, "2026-08-29", false, &models.LeagueStandings{})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("offline run with no snapshot returned %d matches, want 0", len(matches))
	}
}

func TestFetchFixtureMatchesFromCache(t *testing.T) {
	repo, store := newTestRepository(t)
	league, _ := repo.LeagueByID(39)

	payload := `{
		"response": [
			{
				"fixture": {"id": 1000, "date": "2026-08-29T15:00:00-05:00", "status": {"long": "Not Started"}},
				"league": {"id": 39, "name": "Premier League", "country": "England"},
				"teams": {"home": {"id": 10, "name": "Home FC"}, "away": {"id": 20, "name": "Away FC"}},
				"goals": {"home": null, "away": null},
				"score": {}
			}
		]
	}`
	rawPath := []string{"raw", "fixtures", "England", "Premier League (39)", "2026-08-29.json"}
	if err := store.WriteRaw([]byte(payload), rawPath...); err != nil {
		t.Fatal(err)
	}

	matches, err := repo.FetchFixtureMatches(league, "2026-08-29", false, &models.LeagueStandings{})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].ID != "1000" || matches[0].Played {
		t.Errorf("match = %+v, want upcoming fixture 1000", matches[0])
	}
	if !store.Exists("output", "fixtures", "England", "Premier League (39)", "2026-08-29.json") {
		t.Error("processed mirror not written")
	}
}

func TestFetchPlayedMatchesSnapshotKeyedByID(t *testing.T) {
	repo, store := newTestRepository(t)
	league, _ := repo.LeagueByID(39)

	payload := `{
		"response": [
			{
				"fixture": {"id": 500, "date": "2026-08-20T15:00:00-05:00", "status": {"long": "Match Finished"}},
				"league": {"id": 39, "name": "Premier League", "country": "England"},
				"teams": {"home": {"id": 10, "name": "United FC"}, "away": {"id": 20, "name": "Away FC"}},
				"goals": {"home": 2, "away": 0},
				"score": {"halftime": {"home": 1, "away": 0}, "fulltime": {"home": 2, "away": 0}}
			}
		]
	}`
	if err := store.WriteRaw([]byte(payload), "raw", "teams", "England", "united-fc-10.json"); err != nil {
		t.Fatal(err)
	}

	team := models.MatchTeam{ID: 10, Name: "United FC"}
	matches, err := repo.FetchPlayedMatches(team, league, "2026-08-29", false, &models.LeagueStandings{})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ID != "500" {
		t.Fatalf("got %+v, want the cached match 500", matches)
	}

	// A different club with the same name must not share the snapshot.
	twin := models.MatchTeam{ID: 11, Name: "United FC"}
	matches, err = repo.FetchPlayedMatches(twin, league, "2026-08-29", false, &models.LeagueStandings{})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("team 11 read team 10's snapshot: %+v", matches)
	}
}

func TestUpdateTeamsDirectoryFirstWriteWins(t *testing.T) {
	repo, store := newTestRepository(t)

	england := &models.Country{Name: "England", Code: "GB"}
	match := models.FixtureMatch{
		Home: models.FixtureMatchTeam{MatchTeam: models.MatchTeam{ID: 10, Name: "Home FC", Country: england}},
		Away: models.FixtureMatchTeam{MatchTeam: models.MatchTeam{ID: 20, Name: "Away FC"}},
	}
	repo.UpdateTeamsDirectory([]models.FixtureMatch{match})

	// A later merge without country must not erase the known one, and a
	// later merge with a country must fill a missing one.
	match.Home.Country = nil
	spain := &models.Country{Name: "Spain", Code: "ES"}
	match.Away.Country = spain
	repo.UpdateTeamsDirectory([]models.FixtureMatch{match})

	home, _ := repo.TeamRefByID(10)
	if home.Country == nil || home.Country.Name != "England" {
		t.Errorf("home country = %+v, want England preserved", home.Country)
	}
	away, _ := repo.TeamRefByID(20)
	if away.Country == nil || away.Country.Name != "Spain" {
		t.Errorf("away country = %+v, want Spain filled in", away.Country)
	}

	if err := repo.Flush(); err != nil {
		t.Fatal(err)
	}
	if !store.Exists("util", "teams.json") {
		t.Error("teams directory not flushed")
	}
}

func TestUpdateLeagueFixturesIndex(t *testing.T) {
	repo, store := newTestRepository(t)
	league, _ := repo.LeagueByID(2)

	repo.UpdateLeagueFixturesIndex("2026-09-01", []models.League{league})
	if err := repo.Flush(); err != nil {
		t.Fatal(err)
	}

	var persisted models.LeaguesFile
	if err := store.ReadJSON(&persisted, "util", "leagues.json"); err != nil {
		t.Fatal(err)
	}
	got := persisted.Fixtures["2026-09-01"]
	if len(got) != 1 || got[0] != "champions-league-2" {
		t.Errorf("index entry = %v, want [champions-league-2]", got)
	}

	leagues, err := repo.LeaguesByDate("2026-09-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(leagues) != 1 || leagues[0].ID != 2 {
		t.Errorf("round trip = %+v, want Champions League", leagues)
	}
}

func TestEnabledLeagues(t *testing.T) {
	repo, _ := newTestRepository(t)

	leagues := repo.EnabledLeagues()
	if len(leagues) != 1 || leagues[0].ID != 39 {
		t.Errorf("enabled leagues = %+v, want Premier League only", leagues)
	}
}
