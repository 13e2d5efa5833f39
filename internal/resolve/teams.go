package resolve

import "strings"

// franchiseAbbr maps normalized full franchise names, as bookmaker feeds
// quote them, to league abbreviations.
var franchiseAbbr = map[string]string{
	"atlanta hawks":          "ATL",
	"boston celtics":         "BOS",
	"brooklyn nets":          "BKN",
	"charlotte hornets":      "CHA",
	"chicago bulls":          "CHI",
	"cleveland cavaliers":    "CLE",
	"dallas mavericks":       "DAL",
	"denver nuggets":         "DEN",
	"detroit pistons":        "DET",
	"golden state warriors":  "GSW",
	"houston rockets":        "HOU",
	"indiana pacers":         "IND",
	"los angeles clippers":   "LAC",
	"la clippers":            "LAC",
	"los angeles lakers":     "LAL",
	"la lakers":              "LAL",
	"memphis grizzlies":      "MEM",
	"miami heat":             "MIA",
	"milwaukee bucks":        "MIL",
	"minnesota timberwolves": "MIN",
	"new orleans pelicans":   "NOP",
	"new york knicks":        "NYK",
	"oklahoma city thunder":  "OKC",
	"orlando magic":          "ORL",
	"philadelphia 76ers":     "PHI",
	"phoenix suns":           "PHX",
	"portland trail blazers": "POR",
	"sacramento kings":       "SAC",
	"san antonio spurs":      "SAS",
	"toronto raptors":        "TOR",
	"utah jazz":              "UTA",
	"washington wizards":     "WAS",
}

// TeamAbbr converts a team name to its league abbreviation. Strings that
// already look like abbreviations (four characters or fewer, alphabetic)
// pass through upper-cased. The boolean is false for names the table does
// not know.
func TeamAbbr(team string) (string, bool) {
	t := strings.TrimSpace(team)
	if t == "" {
		return "", false
	}
	if len(t) <= 4 && isAlpha(t) {
		return strings.ToUpper(t), true
	}
	abbr, ok := franchiseAbbr[NormalizeTeamName(t)]
	return abbr, ok
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
