package models

// MatchResult is the outcome of a played match from one team's perspective
type MatchResult string

const (
	ResultWin  MatchResult = "WIN"
	ResultLose MatchResult = "LOSE"
	ResultDraw MatchResult = "DRAW"
)

// TeamTag classifies a team by its table position within its league
type TeamTag string

const (
	TagFeatured TeamTag = "FEATURED"
	TagRegular  TeamTag = "REGULAR"
	TagPoor     TeamTag = "POOR"
)

// HalfGoals holds scored/conceded goals for one period of a match
type HalfGoals struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

// Score is a per-side score breakdown of a played match. ExtraTime is nil
// when the match ended in regular time; when present its values are the
// cumulative totals including the regular-time goals, as the source reports.
type Score struct {
	FullTime   int        `json:"full_time"`
	FirstHalf  HalfGoals  `json:"first_half"`
	SecondHalf HalfGoals  `json:"second_half"`
	ExtraTime  *HalfGoals `json:"extra_time,omitempty"`
}

// MatchTeam is the data shared by all match team variants
type MatchTeam struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Country  *Country `json:"country,omitempty"`
	Position *int     `json:"position"`
	Tag      TeamTag  `json:"tag"`
	Historic bool     `json:"historic"`
}

// PlayedMatchTeam is one side of a historical played match
type PlayedMatchTeam struct {
	MatchTeam
	Score  Score       `json:"score"`
	Result MatchResult `json:"result"`
}

// PlayedMatch is an entry of a team's match history
type PlayedMatch struct {
	ID       string          `json:"id"`
	FullDate string          `json:"full_date"` // YYYY-MM-DDTHH:MM
	Date     string          `json:"date"`      // YYYY-MM-DD
	Hour     string          `json:"hour"`      // HH:MM
	Played   bool            `json:"played"`
	Home     PlayedMatchTeam `json:"home"`
	Away     PlayedMatchTeam `json:"away"`
	League   LeagueSummary   `json:"league"`
}

// FixtureMatchTeam is one side of a fixture of the day. Score and Result are
// set iff the parent match is played; Stats and Matches are filled by the
// orchestrator once the team's history has been fetched.
type FixtureMatchTeam struct {
	MatchTeam
	Score   *Score        `json:"score,omitempty"`
	Result  MatchResult   `json:"result,omitempty"`
	Stats   TeamStats     `json:"stats"`
	Matches []PlayedMatch `json:"matches"`
}

// FixtureMatch is a fixture of the requested analysis date. Played tags the
// temporal variant: a played fixture carries scores and results, an upcoming
// one does not.
type FixtureMatch struct {
	ID          string             `json:"id"`
	FullDate    string             `json:"full_date"`
	Date        string             `json:"date"`
	Hour        string             `json:"hour"`
	Played      bool               `json:"played"`
	League      League             `json:"league"`
	Home        FixtureMatchTeam   `json:"home"`
	Away        FixtureMatchTeam   `json:"away"`
	Predictions []MarketPrediction `json:"predictions"`
}

// Side returns "HOME"/"AWAY" depending on which side the team played on,
// or "" when the team did not take part in the match.
func (m *PlayedMatch) Side(teamID int) string {
	switch teamID {
	case m.Home.ID:
		return "HOME"
	case m.Away.ID:
		return "AWAY"
	}
	return ""
}
