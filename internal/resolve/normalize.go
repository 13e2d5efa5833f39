// Package resolve matches player and team identities across the naming
// schemes used by game logs, bookmaker feeds, and roster snapshots.
package resolve

import "strings"

// suffixTokens are generational suffixes stripped from player names. The
// longer "iii" must precede "ii" or the replacement leaves a stray "i".
var suffixTokens = []string{" jr.", " sr.", " iii", " ii", " iv"}

// NormalizePlayer canonicalizes a free-text player name: lower-case, trimmed,
// internal whitespace collapsed, periods and apostrophes stripped, and
// generational suffixes removed. Applied identically to both sides of every
// join so matching stays symmetric.
func NormalizePlayer(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, tok := range suffixTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeTeamName canonicalizes a free-text team name for table lookups:
// lower-case, trimmed, periods stripped, whitespace collapsed.
func NormalizeTeamName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}
