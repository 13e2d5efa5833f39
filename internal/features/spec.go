// Package features derives leakage-safe trailing features from historical
// game events. Every trailing aggregate is shifted one event back so the
// value attributed to a game never includes that game's own statistics.
package features

import (
	"fmt"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

// AggregateKind selects the trailing aggregate applied over a window.
type AggregateKind string

const (
	// TrailingMean is the arithmetic mean of the last N prior values.
	TrailingMean AggregateKind = "mean"
	// TrailingStdDev is the sample standard deviation of the last N prior
	// values. Undefined below two observations.
	TrailingStdDev AggregateKind = "std"
	// TrailingRatePerMinute is the ratio of summed stat to summed minutes
	// over the window. A mean of per-game ratios is a different quantity and
	// must not be substituted.
	TrailingRatePerMinute AggregateKind = "rate_per_min"
)

// FeatureSpec declares one trailing-window feature: which stat, how far back,
// and which aggregate. The same spec list drives every category, so a
// leakage fix in the window engine applies uniformly.
type FeatureSpec struct {
	Name   string
	Stat   string
	Window int
	Kind   AggregateKind
}

// Validate checks a spec is well formed against the event schema.
func (s FeatureSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("feature spec has empty name")
	}
	if s.Window < 1 {
		return fmt.Errorf("feature %q: window must be >= 1, got %d", s.Name, s.Window)
	}
	if s.Kind == TrailingStdDev && s.Window < 2 {
		return fmt.Errorf("feature %q: std dev needs a window of at least 2", s.Name)
	}
	probe := models.GameEvent{}
	if _, ok := probe.Stat(s.Stat); !ok {
		return fmt.Errorf("feature %q: unknown stat %q", s.Name, s.Stat)
	}
	switch s.Kind {
	case TrailingMean, TrailingStdDev, TrailingRatePerMinute:
		return nil
	}
	return fmt.Errorf("feature %q: unknown aggregate kind %q", s.Name, s.Kind)
}

// Context feature names shared by every category. These are not
// window-driven; the builder derives them from event metadata.
const (
	FeatureRestDays  = "rest_days"
	FeatureIsB2B     = "is_b2b"
	FeatureIsHome    = "is_home"
	FeatureIsStarter = "is_starter"
)

// DefaultSpecs is the unified trailing-window feature set covering the
// points, assists, and rebounds pipelines. Windows are 5 and 10 games.
func DefaultSpecs() []FeatureSpec {
	return []FeatureSpec{
		{Name: "min_last5", Stat: "MIN", Window: 5, Kind: TrailingMean},
		{Name: "min_last10", Stat: "MIN", Window: 10, Kind: TrailingMean},
		{Name: "min_std_last10", Stat: "MIN", Window: 10, Kind: TrailingStdDev},

		{Name: "pts_last5", Stat: "PTS", Window: 5, Kind: TrailingMean},
		{Name: "pts_last10", Stat: "PTS", Window: 10, Kind: TrailingMean},
		{Name: "pts_std_last10", Stat: "PTS", Window: 10, Kind: TrailingStdDev},
		{Name: "pts_per_min_last10", Stat: "PTS", Window: 10, Kind: TrailingRatePerMinute},

		{Name: "ast_last10", Stat: "AST", Window: 10, Kind: TrailingMean},
		{Name: "ast_std_last10", Stat: "AST", Window: 10, Kind: TrailingStdDev},
		{Name: "ast_per_min_last10", Stat: "AST", Window: 10, Kind: TrailingRatePerMinute},

		{Name: "reb_last10", Stat: "REB", Window: 10, Kind: TrailingMean},
		{Name: "reb_std_last10", Stat: "REB", Window: 10, Kind: TrailingStdDev},
		{Name: "reb_per_min_last10", Stat: "REB", Window: 10, Kind: TrailingRatePerMinute},

		{Name: "fga_last5", Stat: "FGA", Window: 5, Kind: TrailingMean},
		{Name: "fga_last10", Stat: "FGA", Window: 10, Kind: TrailingMean},
		{Name: "fga_per_min_last10", Stat: "FGA", Window: 10, Kind: TrailingRatePerMinute},

		{Name: "fta_last10", Stat: "FTA", Window: 10, Kind: TrailingMean},
		{Name: "fta_per_min_last10", Stat: "FTA", Window: 10, Kind: TrailingRatePerMinute},

		{Name: "fg3a_last10", Stat: "FG3A", Window: 10, Kind: TrailingMean},
		{Name: "fg3a_per_min_last10", Stat: "FG3A", Window: 10, Kind: TrailingRatePerMinute},

		{Name: "tov_last10", Stat: "TOV", Window: 10, Kind: TrailingMean},
	}
}

// MinutesModelInputs is the served minutes model's input vector, in the
// order the model was trained on. Reordering this list silently corrupts
// predictions; extend only in lockstep with a retrained model.
func MinutesModelInputs() []string {
	return []string{
		"min_last5",
		"min_last10",
		"min_std_last10",
		"pts_last10",
		"fga_last10",
		"fta_last10",
		"fg3a_last10",
		"tov_last10",
		"reb_last10",
		FeatureRestDays,
		FeatureIsB2B,
		FeatureIsHome,
		FeatureIsStarter,
	}
}

// StarterMode selects how the starter flag is derived. The choice is made
// once when the event table is ingested, not re-decided per row.
type StarterMode string

const (
	// StarterExplicitFlag reads the started-game indicator off the event.
	StarterExplicitFlag StarterMode = "explicit"
	// StarterMinutesProxy flags a player as starter when their previous
	// game's minutes met the threshold. The prior game is used so the proxy
	// stays computable before tip-off.
	StarterMinutesProxy StarterMode = "minutes_proxy"
)

// StarterSignal is the capability-negotiated starter derivation.
type StarterSignal struct {
	Mode             StarterMode
	MinutesThreshold float64
}

// ExplicitFlag returns a starter signal backed by the log's own indicator.
func ExplicitFlag() StarterSignal {
	return StarterSignal{Mode: StarterExplicitFlag}
}

// MinutesThresholdProxy returns a starter signal inferred from prior-game
// minutes when the log carries no indicator.
func MinutesThresholdProxy(threshold float64) StarterSignal {
	return StarterSignal{Mode: StarterMinutesProxy, MinutesThreshold: threshold}
}

// DetectStarterSignal negotiates the starter capability for an event table:
// the explicit indicator when any event carries one, else the minutes proxy.
func DetectStarterSignal(events []models.GameEvent, proxyThreshold float64) StarterSignal {
	for i := range events {
		if events[i].StartPosition != nil {
			return ExplicitFlag()
		}
	}
	return MinutesThresholdProxy(proxyThreshold)
}
