package normalizer

// Raw payload shapes of the upstream football API. Only the fields the
// pipeline consumes are declared.

type RawScorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type RawMatch struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Long string `json:"long"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"league"`
	Teams struct {
		Home RawMatchTeam `json:"home"`
		Away RawMatchTeam `json:"away"`
	} `json:"teams"`
	Goals RawScorePair `json:"goals"`
	Score struct {
		Halftime  RawScorePair `json:"halftime"`
		Fulltime  RawScorePair `json:"fulltime"`
		Extratime RawScorePair `json:"extratime"`
		Penalty   RawScorePair `json:"penalty"`
	} `json:"score"`
}

type RawMatchTeam struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Winner *bool  `json:"winner"`
}

type RawMatchesResponse struct {
	Response []RawMatch `json:"response"`
}

type RawStandingRow struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Points    int               `json:"points"`
	GoalsDiff int               `json:"goalsDiff"`
	Group     string            `json:"group"`
	All       RawStandingRecord `json:"all"`
	Home      RawStandingRecord `json:"home"`
	Away      RawStandingRecord `json:"away"`
}

type RawStandingRecord struct {
	Played int `json:"played"`
	Win    int `json:"win"`
	Draw   int `json:"draw"`
	Lose   int `json:"lose"`
	Goals  struct {
		For     int `json:"for"`
		Against int `json:"against"`
	} `json:"goals"`
}

type RawStandingsItem struct {
	League struct {
		ID        int                `json:"id"`
		Name      string             `json:"name"`
		Country   string             `json:"country"`
		Standings [][]RawStandingRow `json:"standings"`
	} `json:"league"`
}

type RawStandingsResponse struct {
	Response []RawStandingsItem `json:"response"`
}

const (
	statusFinished  = "Match Finished"
	statusPostponed = "Match Postponed"
)
