// Package analysis wires the pipeline together: it iterates dates, leagues
// and matches, feeding fetched data through normalization, stats and the
// strategy engine into per-date reports and the outcome ledger.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmejia/predibet/internal/api"
	"github.com/tmejia/predibet/internal/ledger"
	"github.com/tmejia/predibet/internal/markets"
	"github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/models"
	"github.com/tmejia/predibet/internal/pkg/storage"
	"github.com/tmejia/predibet/internal/repository"
	"github.com/tmejia/predibet/internal/stats"
)

// LeagueReport is one league's slice of a per-date report.
type LeagueReport struct {
	ID        int                     `json:"id"`
	Name      string                  `json:"name"`
	Type      string                  `json:"type"`
	Country   models.Country          `json:"country"`
	Priority  int                     `json:"priority"`
	Standings *models.LeagueStandings `json:"standings"`
	Matches   []models.FixtureMatch   `json:"matches"`
}

// Orchestrator drives one run. It owns the single-worker scheduler; every
// component below it is synchronous.
type Orchestrator struct {
	cfg       *config.Config
	repo      *repository.Repository
	ledger    *ledger.Ledger
	store     *storage.FileStore
	scheduler *Scheduler
	notifier  *Notifier
	mirror    *storage.PostgresMirror
	logger    *slog.Logger
	now       func() time.Time
}

func New(cfg *config.Config, repo *repository.Repository, led *ledger.Ledger, store *storage.FileStore, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		repo:      repo,
		ledger:    led,
		store:     store,
		scheduler: NewScheduler(logger),
		logger:    logger,
		now:       time.Now,
	}
}

// WithNotifier enables Telegram pick summaries at the end of analyze runs.
func (o *Orchestrator) WithNotifier(n *Notifier) *Orchestrator {
	o.notifier = n
	return o
}

// WithMirror enables the PostgreSQL report mirror.
func (o *Orchestrator) WithMirror(m *storage.PostgresMirror) *Orchestrator {
	o.mirror = m
	return o
}

// Run executes one resolved run configuration.
func (o *Orchestrator) Run(runCfg RunConfig) error {
	if err := runCfg.Validate(); err != nil {
		return err
	}

	switch runCfg.Mode {
	case ModeFixturesIndex:
		return o.refreshFixturesIndex(runCfg)
	case ModeStandings:
		return o.refreshStandings(runCfg)
	case ModeBackfill:
		if runCfg.RebuildLedger {
			if err := o.ledger.CreateEmpty(); err != nil {
				return err
			}
		}
	}
	return o.analyzeDates(runCfg)
}

func (o *Orchestrator) analyzeDates(runCfg RunConfig) error {
	flags := runCfg.ResolveFetchFlags(o.now())
	record := runCfg.RecordOutcomes()

	for _, date := range runCfg.Dates(o.now()) {
		o.logger.Info("Analyzing date", "date", date)
		if err := o.analyzeDate(date, flags, record); err != nil {
			return err
		}
	}
	if err := o.repo.Flush(); err != nil {
		return err
	}

	if record && o.mirror != nil {
		if err := o.mirrorLedger(); err != nil {
			o.logger.Error("Failed to mirror ledger snapshot", "error", err)
		}
	}
	return nil
}

func (o *Orchestrator) mirrorLedger() error {
	stats, err := o.ledger.Stats()
	if err != nil {
		return err
	}
	rows := make(map[string]storage.LedgerSnapshotRow, len(stats))
	for id, s := range stats {
		rows[id] = storage.LedgerSnapshotRow{
			Winning:           s.Winning,
			Lost:              s.Lost,
			LostWinning:       s.LostWinning,
			SkippedLost:       s.SkippedLost,
			Total:             s.Total,
			SuccessPercentage: s.SuccessPercentage,
			PicksPercentage:   s.PicksPercentage,
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return o.mirror.SaveLedgerSnapshot(ctx, rows)
}

// analyzeDate runs the pipeline for one date: per enabled league with
// fixtures that day, fetch standings and fixtures, grade every match, and
// write the report. League and match failures are logged and siblings
// continue; a quota error aborts the run since no further progress is
// possible.
func (o *Orchestrator) analyzeDate(date string, flags FetchFlags, record bool) error {
	leagues, err := o.repo.LeaguesByDate(date)
	if err != nil {
		return err
	}

	report := make([]LeagueReport, 0, len(leagues))
	for _, league := range leagues {
		if !league.Enabled {
			continue
		}

		var leagueReport *LeagueReport
		err := o.scheduler.Do(fmt.Sprintf("league %s (%d)", league.Name, league.ID), func() error {
			var err error
			leagueReport, err = o.analyzeLeague(league, date, flags, record)
			return err
		})
		if err != nil {
			if errors.Is(err, api.ErrQuotaExceeded) {
				return err
			}
			o.logger.Error("League analysis failed", "league", league.Name, "error", err)
			continue
		}
		if leagueReport != nil && len(leagueReport.Matches) > 0 {
			report = append(report, *leagueReport)
		}
	}

	if err := o.writeReport(date, report); err != nil {
		return err
	}
	if o.notifier != nil {
		if err := o.notifier.SendHighPicks(date, report); err != nil {
			o.logger.Error("Failed to send pick summary", "error", err)
		}
	}
	return nil
}

func (o *Orchestrator) analyzeLeague(league models.League, date string, flags FetchFlags, record bool) (*LeagueReport, error) {
	o.logger.Info("Fetching league data", "league", league.Name, "country", league.Country.Name)

	standings, err := o.repo.FetchLeagueStandings(league, date, flags.Standings)
	if err != nil {
		return nil, err
	}
	fixtures, err := o.repo.FetchFixtureMatches(league, date, flags.FixtureMatches, standings)
	if err != nil {
		return nil, err
	}
	o.repo.UpdateTeamsDirectory(fixtures)

	report := &LeagueReport{
		ID:        league.ID,
		Name:      league.Name,
		Type:      league.Type,
		Country:   league.Country,
		Priority:  league.Priority,
		Standings: standings,
		Matches:   make([]models.FixtureMatch, 0, len(fixtures)),
	}

	for i := range fixtures {
		match := fixtures[i]
		if err := o.analyzeMatch(&match, league, standings, flags, record); err != nil {
			if errors.Is(err, api.ErrQuotaExceeded) {
				return nil, err
			}
			o.logger.Error("Match analysis failed", "match", match.ID, "error", err)
			continue
		}
		report.Matches = append(report.Matches, match)
	}
	return report, nil
}

func (o *Orchestrator) analyzeMatch(match *models.FixtureMatch, league models.League, standings *models.LeagueStandings, flags FetchFlags, record bool) error {
	homeHistory, err := o.repo.FetchPlayedMatches(match.Home.MatchTeam, league, match.Date, flags.PlayedMatches, standings)
	if err != nil {
		return err
	}
	awayHistory, err := o.repo.FetchPlayedMatches(match.Away.MatchTeam, league, match.Date, flags.PlayedMatches, standings)
	if err != nil {
		return err
	}

	match.Home.Stats = stats.Build(match.Home.ID, homeHistory, o.cfg.Stats)
	match.Home.Matches = homeHistory
	match.Away.Stats = stats.Build(match.Away.ID, awayHistory, o.cfg.Stats)
	match.Away.Matches = awayHistory

	match.Predictions = markets.Predict(markets.NewInput(match, standings))

	if record && match.Played {
		tracked := markets.TrackedMarkets()
		slug := models.MatchSlug(match.ID, league)
		for _, prediction := range match.Predictions {
			if prediction.Results == nil || !tracked[prediction.ID] {
				continue
			}
			if err := o.ledger.RecordOutcome(match.Date, slug, prediction.ID, prediction.Results.Outcome()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Orchestrator) writeReport(date string, report []LeagueReport) error {
	if err := o.store.WriteJSON(report, "output", "reports", date+".json"); err != nil {
		return fmt.Errorf("writing report for %s: %w", date, err)
	}

	if o.mirror != nil {
		payload, err := json.Marshal(report)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := o.mirror.SaveReport(ctx, date, payload); err != nil {
			o.logger.Error("Failed to mirror report", "date", date, "error", err)
		}
	}
	return nil
}

// refreshFixturesIndex fetches each league's fixtures over the configured
// range and merges the dates it plays on into the fixture index.
func (o *Orchestrator) refreshFixturesIndex(runCfg RunConfig) error {
	wanted := map[int]bool{}
	for _, id := range runCfg.LeagueIDs {
		wanted[id] = true
	}

	for _, league := range o.repo.EnabledLeagues() {
		if len(wanted) > 0 && !wanted[league.ID] {
			continue
		}
		league := league
		err := o.scheduler.Do(fmt.Sprintf("fixture index %s (%d)", league.Name, league.ID), func() error {
			dates, err := o.repo.FetchFixtureDates(league, runCfg.From, runCfg.To)
			if err != nil {
				return err
			}
			for _, date := range dates {
				o.repo.UpdateLeagueFixturesIndex(date, []models.League{league})
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, api.ErrQuotaExceeded) {
				return err
			}
			o.logger.Error("Fixture index refresh failed", "league", league.Name, "error", err)
		}
	}
	return o.repo.Flush()
}

// refreshStandings re-fetches the standings of the selected leagues. Offline
// it re-normalizes the cached snapshots of the last ten days instead.
func (o *Orchestrator) refreshStandings(runCfg RunConfig) error {
	leagues := o.repo.EnabledLeagues()
	if len(runCfg.LeagueIDs) > 0 {
		leagues = leagues[:0]
		for _, id := range runCfg.LeagueIDs {
			league, ok := o.repo.LeagueByID(id)
			if !ok {
				return fmt.Errorf("%w: id %d", repository.ErrLeagueNotFound, id)
			}
			leagues = append(leagues, league)
		}
	}

	days := 1
	if !runCfg.Remote {
		days = 10
	}

	for _, league := range leagues {
		league := league
		err := o.scheduler.Do(fmt.Sprintf("standings %s (%d)", league.Name, league.ID), func() error {
			for day := 0; day < days; day++ {
				date := o.now().AddDate(0, 0, -day).Format(dateLayout)
				if _, err := o.repo.FetchLeagueStandings(league, date, runCfg.Remote); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, api.ErrQuotaExceeded) {
				return err
			}
			o.logger.Error("Standings refresh failed", "league", league.Name, "error", err)
		}
	}
	return nil
}
