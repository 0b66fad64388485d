package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/tmejia/predibet/internal/api"
	"github.com/tmejia/predibet/internal/ledger"
	"github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/models"
	"github.com/tmejia/predibet/internal/pkg/storage"
	"github.com/tmejia/predibet/internal/repository"
)

const reportDate = "2026-08-29"

func pipelineConfig() *config.Config {
	cfg := &config.Config{}
	cfg.API.Timezone = "America/Bogota"
	cfg.Stats = config.StatsConfig{LastMatches: 5, LastHomeMatches: 2, LastAwayMatches: 2}
	return cfg
}

func pipelineLeagues(date string) models.LeaguesFile {
	return models.LeaguesFile{
		Items: []models.League{
			{
				ID:       1,
				Name:     "Alpha",
				Type:     "League",
				Country:  models.Country{Name: "Alphaland"},
				Season:   models.Season{Year: 2026, StartDate: "2026-08-01"},
				Enabled:  true,
				Priority: 1,
			},
			{
				ID:       2,
				Name:     "Beta",
				Type:     "League",
				Country:  models.Country{Name: "Betaland"},
				Season:   models.Season{Year: 2026, StartDate: "2026-08-01"},
				Enabled:  true,
				Priority: 2,
			},
		},
		Fixtures: map[string][]string{date: {"alpha-1", "beta-2"}},
	}
}

func newPipelineStore(t *testing.T, date string) *storage.FileStore {
	t.Helper()
	store := storage.NewFileStore(t.TempDir())
	if err := store.WriteJSON(pipelineLeagues(date), "util", "leagues.json"); err != nil {
		t.Fatal(err)
	}
	return store
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, store *storage.FileStore, client *api.Client) *Orchestrator {
	t.Helper()
	repo, err := repository.New(cfg, client, store, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	return New(cfg, repo, ledger.New(store), store, slog.Default())
}

func upcomingFixturePayload(fixtureID, leagueID int, leagueName, country, date string) string {
	return fmt.Sprintf(`{
		"response": [
			{
				"fixture": {"id": %d, "date": "%sT15:00:00-05:00", "status": {"long": "Not Started"}},
				"league": {"id": %d, "name": %q, "country": %q},
				"teams": {"home": {"id": 10, "name": "Home FC"}, "away": {"id": 20, "name": "Away FC"}},
				"goals": {"home": null, "away": null},
				"score": {}
			}
		]
	}`, fixtureID, date, leagueID, leagueName, country)
}

func TestRunContinuesPastFailingLeague(t *testing.T) {
	store := newPipelineStore(t, reportDate)

	// Alpha's snapshot is corrupt; Beta's is healthy. The run must log
	// Alpha's failure and still report Beta.
	if err := store.WriteRaw([]byte("not json"), "raw", "fixtures", "Alphaland", "Alpha (1)", reportDate+".json"); err != nil {
		t.Fatal(err)
	}
	payload := upcomingFixturePayload(2000, 2, "Beta", "Betaland", reportDate)
	if err := store.WriteRaw([]byte(payload), "raw", "fixtures", "Betaland", "Beta (2)", reportDate+".json"); err != nil {
		t.Fatal(err)
	}

	orch := newTestOrchestrator(t, pipelineConfig(), store, nil)
	if err := orch.Run(RunConfig{Mode: ModeAnalyze, Date: reportDate}); err != nil {
		t.Fatalf("run failed instead of skipping the broken league: %v", err)
	}

	var report []LeagueReport
	if err := store.ReadJSON(&report, "output", "reports", reportDate+".json"); err != nil {
		t.Fatal(err)
	}
	if len(report) != 1 || report[0].ID != 2 {
		t.Fatalf("report = %+v, want only league 2", report)
	}
	if len(report[0].Matches) != 1 || report[0].Matches[0].ID != "2000" {
		t.Errorf("matches = %+v, want fixture 2000", report[0].Matches)
	}
}

func TestRunAbortsOnQuotaExceeded(t *testing.T) {
	today := time.Now().Format(dateLayout)
	store := newPipelineStore(t, today)

	// Midnight cutoff keeps the accounting-day key independent of the
	// wall-clock hour the test runs at.
	cfg := pipelineConfig()
	cfg.API.BaseURL = "http://127.0.0.1:0"
	cfg.API.DayCutoff = "00:00"
	cfg.API.DailyLimit = 1
	cfg.API.PerMinuteLimit = 30

	usage := fmt.Sprintf(`{"daily-requests": {"%sT00:00": 1}}`, today)
	if err := store.WriteRaw([]byte(usage), "util", "api-limits.json"); err != nil {
		t.Fatal(err)
	}
	client, err := api.NewClient(&cfg.API, store)
	if err != nil {
		t.Fatal(err)
	}

	orch := newTestOrchestrator(t, cfg, store, client)
	err = orch.Run(RunConfig{Mode: ModeAnalyze, Date: "today", Remote: true})
	if !errors.Is(err, api.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded to abort the run", err)
	}
	if store.Exists("output", "reports", today+".json") {
		t.Error("aborted run still wrote a report")
	}
}

func TestRunOutputIsDeterministic(t *testing.T) {
	store := newPipelineStore(t, reportDate)
	payload := upcomingFixturePayload(2000, 2, "Beta", "Betaland", reportDate)
	if err := store.WriteRaw([]byte(payload), "raw", "fixtures", "Betaland", "Beta (2)", reportDate+".json"); err != nil {
		t.Fatal(err)
	}

	orch := newTestOrchestrator(t, pipelineConfig(), store, nil)
	if err := orch.Run(RunConfig{Mode: ModeAnalyze, Date: reportDate}); err != nil {
		t.Fatal(err)
	}
	first, err := store.ReadRaw("output", "reports", reportDate+".json")
	if err != nil {
		t.Fatal(err)
	}

	if err := orch.Run(RunConfig{Mode: ModeAnalyze, Date: reportDate}); err != nil {
		t.Fatal(err)
	}
	second, err := store.ReadRaw("output", "reports", reportDate+".json")
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("two offline runs over the same snapshots produced different reports")
	}
}
