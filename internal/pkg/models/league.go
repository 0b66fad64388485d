package models

// Country identifies the country a league or team belongs to
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

// Season describes the season a league is currently playing
type Season struct {
	Year      int    `json:"year"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

// League is immutable reference data loaded once per run
type League struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"` // "League", "Cup" or "Unknown"
	Country  Country `json:"country"`
	Season   Season  `json:"season"`
	Enabled  bool    `json:"enabled"`
	Priority int     `json:"priority"`
}

// LeagueSummary is the slice of league data embedded into played matches
type LeagueSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LeaguesFile mirrors data/util/leagues.json: the league directory plus
// the date -> league slugs index maintained by the fixtures refresh mode
type LeaguesFile struct {
	Items    []League            `json:"items"`
	Fixtures map[string][]string `json:"fixtures"`
}

// TeamRef is an entry of the persisted team directory. Country and Historic
// are first-write-wins: once known they are never overwritten by a merge.
type TeamRef struct {
	Name     string   `json:"name"`
	Country  *Country `json:"country,omitempty"`
	Historic bool     `json:"historic"`
}

// TeamsFile mirrors data/util/teams.json, keyed by team id
type TeamsFile map[string]TeamRef
