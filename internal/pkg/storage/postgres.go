package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/tmejia/predibet/internal/pkg/config"
)

// PostgresMirror keeps an optional copy of run reports and ledger snapshots
// in PostgreSQL for ad-hoc querying. The JSON files stay authoritative.
type PostgresMirror struct {
	db *sql.DB
}

func NewPostgresMirror(cfg *config.PostgresConfig) (*PostgresMirror, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	mirror := &PostgresMirror{db: db}
	if err := mirror.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL mirror initialized")
	return mirror, nil
}

func (m *PostgresMirror) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS analysis_reports (
		report_date DATE PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS ledger_snapshots (
		strategy_id VARCHAR(100) NOT NULL,
		winning INTEGER NOT NULL,
		lost INTEGER NOT NULL,
		lost_winning INTEGER NOT NULL,
		skipped_lost INTEGER NOT NULL,
		total INTEGER NOT NULL,
		success_percentage DECIMAL(5, 1) NOT NULL,
		picks_percentage DECIMAL(5, 1) NOT NULL,
		recorded_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (strategy_id, recorded_at)
	);
	`

	_, err := m.db.ExecContext(ctx, query)
	return err
}

// SaveReport upserts the full JSON report of one analysis date.
func (m *PostgresMirror) SaveReport(ctx context.Context, date string, payload []byte) error {
	query := `
	INSERT INTO analysis_reports (report_date, payload, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (report_date) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := m.db.ExecContext(ctx, query, date, payload); err != nil {
		return fmt.Errorf("failed to save report for %s: %w", date, err)
	}
	return nil
}

// SaveLedgerSnapshot appends the current per-strategy counters.
func (m *PostgresMirror) SaveLedgerSnapshot(ctx context.Context, stats map[string]LedgerSnapshotRow) error {
	query := `
	INSERT INTO ledger_snapshots
		(strategy_id, winning, lost, lost_winning, skipped_lost, total, success_percentage, picks_percentage)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for strategyID, row := range stats {
		_, err := m.db.ExecContext(ctx, query,
			strategyID, row.Winning, row.Lost, row.LostWinning, row.SkippedLost,
			row.Total, row.SuccessPercentage, row.PicksPercentage)
		if err != nil {
			return fmt.Errorf("failed to save ledger snapshot for %s: %w", strategyID, err)
		}
	}
	return nil
}

// LedgerSnapshotRow mirrors one strategy's cumulative ledger counters.
type LedgerSnapshotRow struct {
	Winning           int
	Lost              int
	LostWinning       int
	SkippedLost       int
	Total             int
	SuccessPercentage float64
	PicksPercentage   float64
}

func (m *PostgresMirror) Close() error {
	return m.db.Close()
}
