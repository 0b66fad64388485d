// Package ledger accumulates per-strategy prediction outcomes across runs.
package ledger

import (
	"fmt"

	"github.com/tmejia/predibet/internal/pkg/models"
	"github.com/tmejia/predibet/internal/pkg/storage"
)

const fileName = "predictions-stats.json"

// StrategyStats is the cumulative accuracy record of one strategy.
type StrategyStats struct {
	Winning           int     `json:"winning"`
	Lost              int     `json:"lost"`
	LostWinning       int     `json:"lostWinning"`
	SkippedLost       int     `json:"skippedLost"`
	Total             int     `json:"total"`
	SuccessPercentage float64 `json:"successPercentage"`
	PicksPercentage   float64 `json:"picksPercentage"`
}

// File is the persisted ledger: per-strategy counters plus the append-only
// audit trail of match slugs keyed by outcome and date.
type File struct {
	Stats   map[string]StrategyStats                  `json:"stats"`
	Records map[string]map[string]map[string][]string `json:"records"`
}

// Ledger reads and writes the predictions-stats file. It assumes
// single-process access: every record is a full read-modify-write cycle.
type Ledger struct {
	store *storage.FileStore
}

func New(store *storage.FileStore) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) load() (File, error) {
	file := File{
		Stats:   map[string]StrategyStats{},
		Records: map[string]map[string]map[string][]string{},
	}
	if !l.store.Exists("util", fileName) {
		return file, nil
	}
	if err := l.store.ReadJSON(&file, "util", fileName); err != nil {
		return File{}, fmt.Errorf("reading ledger: %w", err)
	}
	if file.Stats == nil {
		file.Stats = map[string]StrategyStats{}
	}
	if file.Records == nil {
		file.Records = map[string]map[string]map[string][]string{}
	}
	return file, nil
}

// RecordOutcome folds one played-match outcome into the ledger and persists
// the whole file back.
func (l *Ledger) RecordOutcome(matchDate, matchSlug, strategyID, outcome string) error {
	file, err := l.load()
	if err != nil {
		return err
	}

	stats := file.Stats[strategyID]
	stats.Total++
	switch outcome {
	case "winning":
		stats.Winning++
	case "lost":
		stats.Lost++
	case "lostWinning":
		stats.LostWinning++
	case "skippedLost":
		stats.SkippedLost++
	default:
		return fmt.Errorf("recording outcome: unknown outcome %q", outcome)
	}
	decided := stats.Winning + stats.Lost
	stats.SuccessPercentage = models.Round1(models.Ratio(float64(stats.Winning)*100, float64(decided)))
	stats.PicksPercentage = models.Round1(models.Ratio(float64(decided)*100, float64(stats.Total)))
	file.Stats[strategyID] = stats

	if file.Records[strategyID] == nil {
		file.Records[strategyID] = map[string]map[string][]string{}
	}
	if file.Records[strategyID][outcome] == nil {
		file.Records[strategyID][outcome] = map[string][]string{}
	}
	file.Records[strategyID][outcome][matchDate] = append(file.Records[strategyID][outcome][matchDate], matchSlug)

	if err := l.store.WriteJSON(file, "util", fileName); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

// CreateEmpty resets the persisted ledger, used at the start of backfill runs
// that rebuild historical accuracy from scratch.
func (l *Ledger) CreateEmpty() error {
	empty := File{
		Stats:   map[string]StrategyStats{},
		Records: map[string]map[string]map[string][]string{},
	}
	if err := l.store.WriteJSON(empty, "util", fileName); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	return nil
}

// Stats returns the current per-strategy counters, for reporting.
func (l *Ledger) Stats() (map[string]StrategyStats, error) {
	file, err := l.load()
	if err != nil {
		return nil, err
	}
	return file.Stats, nil
}
