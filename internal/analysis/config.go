package analysis

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Mode selects what a run does.
type Mode string

const (
	// ModeAnalyze runs the full pipeline for a single date.
	ModeAnalyze Mode = "analyze"
	// ModeBackfill re-runs the pipeline offline over a date plus the
	// preceding days, optionally rebuilding the outcome ledger.
	ModeBackfill Mode = "backfill"
	// ModeFixturesIndex refreshes the league -> date fixture index.
	ModeFixturesIndex Mode = "fixtures-index"
	// ModeStandings refreshes the cached standings of a set of leagues.
	ModeStandings Mode = "standings"
)

// FetchFlags enables remote fetching per data kind for one run.
type FetchFlags struct {
	FixtureMatches bool
	PlayedMatches  bool
	Standings      bool
}

// RunConfig is the resolved, validated run configuration the CLI hands to
// the orchestrator.
type RunConfig struct {
	Mode Mode

	// Date is an explicit YYYY-MM-DD date or one of the keywords "today",
	// "tomorrow", "yesterday" (analyze), or the base date of a backfill.
	Date   string
	Remote bool

	// Backfill.
	PreviousDays  int
	RebuildLedger bool

	// Fixture index refresh.
	From string
	To   string

	// League id filter for the fixture index and standings refresh modes;
	// empty means all enabled leagues.
	LeagueIDs []int
}

// Validate checks the fields the selected mode requires.
func (c RunConfig) Validate() error {
	switch c.Mode {
	case ModeAnalyze:
		return validateDateSelector(c.Date)
	case ModeBackfill:
		if _, err := time.Parse(dateLayout, c.Date); err != nil {
			return fmt.Errorf("backfill date must be YYYY-MM-DD: %q", c.Date)
		}
		if c.PreviousDays < 0 {
			return fmt.Errorf("previous days must not be negative: %d", c.PreviousDays)
		}
		return nil
	case ModeFixturesIndex:
		if _, err := time.Parse(dateLayout, c.From); err != nil {
			return fmt.Errorf("range start must be YYYY-MM-DD: %q", c.From)
		}
		if c.To != "" {
			if _, err := time.Parse(dateLayout, c.To); err != nil {
				return fmt.Errorf("range end must be YYYY-MM-DD: %q", c.To)
			}
		}
		return nil
	case ModeStandings:
		return nil
	}
	return fmt.Errorf("unknown mode %q", c.Mode)
}

func validateDateSelector(selector string) error {
	switch selector {
	case "today", "tomorrow", "yesterday":
		return nil
	}
	if _, err := time.Parse(dateLayout, selector); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD or today/tomorrow/yesterday: %q", selector)
	}
	return nil
}

// Dates resolves the run's date list, oldest first.
func (c RunConfig) Dates(now time.Time) []string {
	switch c.Mode {
	case ModeAnalyze:
		switch c.Date {
		case "today":
			return []string{now.Format(dateLayout)}
		case "tomorrow":
			return []string{now.AddDate(0, 0, 1).Format(dateLayout)}
		case "yesterday":
			return []string{now.AddDate(0, 0, -1).Format(dateLayout)}
		}
		return []string{c.Date}
	case ModeBackfill:
		base, err := time.Parse(dateLayout, c.Date)
		if err != nil {
			return nil
		}
		dates := make([]string, 0, c.PreviousDays+1)
		for day := c.PreviousDays; day >= 0; day-- {
			dates = append(dates, base.AddDate(0, 0, -day).Format(dateLayout))
		}
		return dates
	}
	return nil
}

// ResolveFetchFlags derives the per-kind remote toggles. Yesterday only
// refreshes the fixtures themselves (to pick up final scores); today and
// tomorrow fetch everything; explicit dates fetch standings only when the
// date is not in the past. Backfills never fetch.
func (c RunConfig) ResolveFetchFlags(now time.Time) FetchFlags {
	if c.Mode != ModeAnalyze || !c.Remote {
		return FetchFlags{}
	}
	switch c.Date {
	case "yesterday":
		return FetchFlags{FixtureMatches: true}
	case "today", "tomorrow":
		return FetchFlags{FixtureMatches: true, PlayedMatches: true, Standings: true}
	}
	return FetchFlags{
		FixtureMatches: true,
		PlayedMatches:  true,
		Standings:      c.Date >= now.Format(dateLayout),
	}
}

// RecordOutcomes reports whether this run should fold played-match
// predictions into the outcome ledger: backfills always do, single-date
// analysis only when grading yesterday's results.
func (c RunConfig) RecordOutcomes() bool {
	return c.Mode == ModeBackfill || (c.Mode == ModeAnalyze && c.Date == "yesterday")
}
