package models

// StandingsType distinguishes a single regular table from a set of group tables
type StandingsType string

const (
	StandingsRegular StandingsType = "REGULAR"
	StandingsGroups  StandingsType = "GROUPS"
)

// StandingGoals holds scored/conceded totals for one side of a standings row
type StandingGoals struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

// StandingRecord is the W-D-L breakdown of a standings row for one venue
type StandingRecord struct {
	Played int           `json:"played"`
	Win    int           `json:"win"`
	Draw   int           `json:"draw"`
	Lose   int           `json:"lose"`
	Goals  StandingGoals `json:"goals"`
}

// StandingAverages are the per-team derived goal averages of a regular table
type StandingAverages struct {
	ScoredPerMatch     float64 `json:"scored_per_match"`
	ScoredHomePerMatch float64 `json:"scored_home_per_match"`
	ScoredAwayPerMatch float64 `json:"scored_away_per_match"`
}

// StandingRow is one team's row in a league table
type StandingRow struct {
	TeamID    int              `json:"team_id"`
	TeamName  string           `json:"team_name"`
	Points    int              `json:"points"`
	GoalsDiff int              `json:"goals_diff"`
	All       StandingRecord   `json:"all"`
	Home      StandingRecord   `json:"home"`
	Away      StandingRecord   `json:"away"`
	Averages  StandingAverages `json:"averages"`
}

// LeagueAggregates are league-wide averages, only defined for regular tables
type LeagueAggregates struct {
	MatchesPlayed      int     `json:"matches_played"`
	ScoredPerMatch     float64 `json:"scored_per_match"`
	ScoredHomePerMatch float64 `json:"scored_home_per_match"`
	ScoredAwayPerMatch float64 `json:"scored_away_per_match"`
}

// LeagueStandings is rebuilt fully on every fetch, never merged incrementally.
// Type REGULAR carries exactly one table in Tables plus league-wide Stats;
// GROUPS carries several concurrent tables and no aggregates.
type LeagueStandings struct {
	Type   StandingsType     `json:"type"`
	Tables [][]StandingRow   `json:"tables"`
	Stats  *LeagueAggregates `json:"stats,omitempty"`
}

// TeamPosition returns the 1-based table position of a team, or nil when the
// standings are group-shaped (position is only well-defined for one table)
// or the team is not listed.
func (s *LeagueStandings) TeamPosition(teamID int) *int {
	if s == nil || s.Type != StandingsRegular {
		return nil
	}
	for _, table := range s.Tables {
		for i, row := range table {
			if row.TeamID == teamID {
				pos := i + 1
				return &pos
			}
		}
	}
	return nil
}

// Size returns the number of teams in the first table.
func (s *LeagueStandings) Size() int {
	if s == nil || len(s.Tables) == 0 {
		return 0
	}
	return len(s.Tables[0])
}

// IsEmpty reports whether the standings contain no rows at all.
func (s *LeagueStandings) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, table := range s.Tables {
		if len(table) > 0 {
			return false
		}
	}
	return true
}
