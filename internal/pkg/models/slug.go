package models

import (
	"strings"
	"unicode"
)

// Slugify lowercases the input and collapses every non-alphanumeric run into
// a single dash. Used for cache file names and ledger match identifiers.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// MatchSlug builds the ledger identifier of a match: its id plus the
// league's country, or the league name for international ("World") leagues.
func MatchSlug(matchID string, league League) string {
	scope := league.Country.Name
	if scope == "World" {
		scope = league.Name
	}
	return Slugify(matchID + "-" + scope)
}
