package features

import (
	"sort"
	"time"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

// defenseWindow is the trailing team-game window behind every "allowed"
// defensive feature.
const defenseWindow = 10

// AllowedFeatureNames lists the defensive context features produced per
// team, in the order they appear in model vectors.
var AllowedFeatureNames = []string{
	"opp_pts_allowed_last10",
	"opp_ast_allowed_last10",
	"opp_reb_allowed_last10",
	"opp_fga_allowed_last10",
	"opp_fta_allowed_last10",
	"opp_fg3a_allowed_last10",
}

// allowedStats maps each defensive feature to the opponent total it tracks.
var allowedStats = map[string]string{
	"opp_pts_allowed_last10":  "PTS",
	"opp_ast_allowed_last10":  "AST",
	"opp_reb_allowed_last10":  "REB",
	"opp_fga_allowed_last10":  "FGA",
	"opp_fta_allowed_last10":  "FTA",
	"opp_fg3a_allowed_last10": "FG3A",
}

// teamGame is one team's aggregate totals for one game, paired with the
// opposing team's totals for the same game id.
type teamGame struct {
	TeamID   int64
	TeamName string
	GameID   string
	Date     time.Time
	Totals   map[string]float64
	Allowed  map[string]float64
}

// DefenseBuilder derives trailing "allowed" aggregates per team: how much of
// each stat a team has conceded over its last ten games, with the same
// one-game backward shift as the player features.
type DefenseBuilder struct{}

// NewDefenseBuilder returns a defense builder.
func NewDefenseBuilder() *DefenseBuilder {
	return &DefenseBuilder{}
}

// BuildHistory produces one defense row per team-game, representing the
// team's defensive state entering that game.
func (d *DefenseBuilder) BuildHistory(events []models.GameEvent) []models.TeamDefenseRow {
	byTeam := d.pairedTeamGames(events)

	var rows []models.TeamDefenseRow
	for _, games := range byTeam {
		for k := range games {
			if row, ok := defenseRowAt(games, k); ok {
				rows = append(rows, row)
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TeamID != rows[j].TeamID {
			return rows[i].TeamID < rows[j].TeamID
		}
		return rows[i].AsOf.Before(rows[j].AsOf)
	})
	return rows
}

// BuildLatest produces the defensive state each team carries into its next
// game: the trailing window over all logged team-games. Teams with fewer
// than the full window are omitted rather than padded.
func (d *DefenseBuilder) BuildLatest(events []models.GameEvent, asOf time.Time) []models.TeamDefenseRow {
	byTeam := d.pairedTeamGames(events)

	var rows []models.TeamDefenseRow
	for _, games := range byTeam {
		feats := trailingAllowed(games, len(games))
		if len(feats) == 0 {
			continue
		}
		last := games[len(games)-1]
		rows = append(rows, models.TeamDefenseRow{
			TeamID:   last.TeamID,
			TeamName: last.TeamName,
			AsOf:     asOf,
			Features: feats,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TeamID < rows[j].TeamID })
	return rows
}

// pairedTeamGames aggregates player events into team-game totals, attaches
// each game's opposing totals, and returns per-team date-ordered slices.
// Games that do not resolve to exactly two teams are dropped.
func (d *DefenseBuilder) pairedTeamGames(events []models.GameEvent) map[int64][]teamGame {
	type key struct {
		GameID string
		TeamID int64
	}
	totals := make(map[key]*teamGame)
	teamsInGame := make(map[string][]int64)

	for i := range events {
		e := &events[i]
		k := key{GameID: e.GameID, TeamID: e.TeamID}
		tg, ok := totals[k]
		if !ok {
			tg = &teamGame{
				TeamID:   e.TeamID,
				TeamName: e.TeamName,
				GameID:   e.GameID,
				Date:     e.Date,
				Totals:   make(map[string]float64, len(allowedStats)),
			}
			totals[k] = tg
			teamsInGame[e.GameID] = append(teamsInGame[e.GameID], e.TeamID)
		}
		for _, stat := range allowedStats {
			v, _ := e.Stat(stat)
			tg.Totals[stat] += v
		}
	}

	byTeam := make(map[int64][]teamGame)
	for gameID, teams := range teamsInGame {
		if len(teams) != 2 {
			continue
		}
		a := totals[key{GameID: gameID, TeamID: teams[0]}]
		b := totals[key{GameID: gameID, TeamID: teams[1]}]
		a.Allowed, b.Allowed = b.Totals, a.Totals
		byTeam[a.TeamID] = append(byTeam[a.TeamID], *a)
		byTeam[b.TeamID] = append(byTeam[b.TeamID], *b)
	}
	for id := range byTeam {
		games := byTeam[id]
		sort.SliceStable(games, func(i, j int) bool { return games[i].Date.Before(games[j].Date) })
	}
	return byTeam
}

// defenseRowAt computes the allowed features entering games[k] from games
// strictly before k.
func defenseRowAt(games []teamGame, k int) (models.TeamDefenseRow, bool) {
	feats := trailingAllowed(games, k)
	if len(feats) == 0 {
		return models.TeamDefenseRow{}, false
	}
	return models.TeamDefenseRow{
		TeamID:   games[k].TeamID,
		TeamName: games[k].TeamName,
		AsOf:     games[k].Date,
		Features: feats,
	}, true
}

// trailingAllowed averages opponent totals over the window ending just
// before index end. Returns nil when the window is unsatisfied.
func trailingAllowed(games []teamGame, end int) map[string]float64 {
	if end < defenseWindow {
		return nil
	}
	feats := make(map[string]float64, len(allowedStats))
	for name, stat := range allowedStats {
		sum := 0.0
		for _, g := range games[end-defenseWindow : end] {
			sum += g.Allowed[stat]
		}
		feats[name] = sum / float64(defenseWindow)
	}
	return feats
}
