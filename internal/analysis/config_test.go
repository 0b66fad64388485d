package analysis

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestDates(t *testing.T) {
	tests := []struct {
		name string
		cfg  RunConfig
		want []string
	}{
		{"today", RunConfig{Mode: ModeAnalyze, Date: "today"}, []string{"2026-08-30"}},
		{"tomorrow", RunConfig{Mode: ModeAnalyze, Date: "tomorrow"}, []string{"2026-08-31"}},
		{"yesterday", RunConfig{Mode: ModeAnalyze, Date: "yesterday"}, []string{"2026-08-29"}},
		{"explicit", RunConfig{Mode: ModeAnalyze, Date: "2026-07-15"}, []string{"2026-07-15"}},
		{
			"backfill oldest first",
			RunConfig{Mode: ModeBackfill, Date: "2026-08-29", PreviousDays: 2},
			[]string{"2026-08-27", "2026-08-28", "2026-08-29"},
		},
		{"refresh modes have no dates", RunConfig{Mode: ModeStandings}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Dates(testNow); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveFetchFlags(t *testing.T) {
	tests := []struct {
		name string
		cfg  RunConfig
		want FetchFlags
	}{
		{
			"yesterday fetches fixtures only",
			RunConfig{Mode: ModeAnalyze, Date: "yesterday", Remote: true},
			FetchFlags{FixtureMatches: true},
		},
		{
			"today fetches everything",
			RunConfig{Mode: ModeAnalyze, Date: "today", Remote: true},
			FetchFlags{FixtureMatches: true, PlayedMatches: true, Standings: true},
		},
		{
			"tomorrow fetches everything",
			RunConfig{Mode: ModeAnalyze, Date: "tomorrow", Remote: true},
			FetchFlags{FixtureMatches: true, PlayedMatches: true, Standings: true},
		},
		{
			"future explicit date fetches standings",
			RunConfig{Mode: ModeAnalyze, Date: "2026-09-05", Remote: true},
			FetchFlags{FixtureMatches: true, PlayedMatches: true, Standings: true},
		},
		{
			"past explicit date skips standings",
			RunConfig{Mode: ModeAnalyze, Date: "2026-08-01", Remote: true},
			FetchFlags{FixtureMatches: true, PlayedMatches: true},
		},
		{
			"offline fetches nothing",
			RunConfig{Mode: ModeAnalyze, Date: "today", Remote: false},
			FetchFlags{},
		},
		{
			"backfill fetches nothing",
			RunConfig{Mode: ModeBackfill, Date: "2026-08-29", Remote: true},
			FetchFlags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveFetchFlags(testNow); got != tt.want {
				t.Errorf("ResolveFetchFlags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecordOutcomes(t *testing.T) {
	tests := []struct {
		name string
		cfg  RunConfig
		want bool
	}{
		{"backfill records", RunConfig{Mode: ModeBackfill}, true},
		{"yesterday records", RunConfig{Mode: ModeAnalyze, Date: "yesterday"}, true},
		{"today does not", RunConfig{Mode: ModeAnalyze, Date: "today"}, false},
		{"explicit date does not", RunConfig{Mode: ModeAnalyze, Date: "2026-08-01"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.RecordOutcomes(); got != tt.want {
				t.Errorf("RecordOutcomes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RunConfig
		wantErr bool
	}{
		{"analyze keyword", RunConfig{Mode: ModeAnalyze, Date: "today"}, false},
		{"analyze explicit date", RunConfig{Mode: ModeAnalyze, Date: "2026-08-29"}, false},
		{"analyze garbage date", RunConfig{Mode: ModeAnalyze, Date: "soon"}, true},
		{"backfill valid", RunConfig{Mode: ModeBackfill, Date: "2026-08-29", PreviousDays: 3}, false},
		{"backfill keyword rejected", RunConfig{Mode: ModeBackfill, Date: "today"}, true},
		{"backfill negative days", RunConfig{Mode: ModeBackfill, Date: "2026-08-29", PreviousDays: -1}, true},
		{"fixtures index range", RunConfig{Mode: ModeFixturesIndex, From: "2026-08-29", To: "2026-09-05"}, false},
		{"fixtures index open end", RunConfig{Mode: ModeFixturesIndex, From: "2026-08-29"}, false},
		{"fixtures index bad start", RunConfig{Mode: ModeFixturesIndex, From: "next week"}, true},
		{"standings", RunConfig{Mode: ModeStandings}, false},
		{"unknown mode", RunConfig{Mode: "replay"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
