package features

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

// Config configures the temporal feature builder.
type Config struct {
	Specs   []FeatureSpec
	Starter StarterSignal
	// Workers bounds the number of player partitions processed concurrently.
	// Zero means one worker per CPU.
	Workers int
}

// Builder converts a historical event log into per-player feature rows using
// only strictly prior events. Partitions are independent per player and are
// processed in parallel; ordering within a partition is always
// date-ascending with original log order breaking ties.
type Builder struct {
	specs   []FeatureSpec
	starter StarterSignal
	workers int
}

// NewBuilder validates the feature specification and returns a builder.
func NewBuilder(cfg Config) (*Builder, error) {
	if len(cfg.Specs) == 0 {
		return nil, fmt.Errorf("feature builder requires at least one feature spec")
	}
	seen := make(map[string]struct{}, len(cfg.Specs))
	for _, spec := range cfg.Specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate feature spec %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Builder{specs: cfg.Specs, starter: cfg.Starter, workers: workers}, nil
}

// BuildHistory produces one feature row per historical event, representing
// the player's state entering that event. Rows are ordered by player id then
// date. Used for training and back-testing.
func (b *Builder) BuildHistory(ctx context.Context, events []models.GameEvent) ([]models.PlayerFeatureRow, error) {
	return b.build(ctx, events, func(partition []models.GameEvent) ([]models.PlayerFeatureRow, error) {
		rows := make([]models.PlayerFeatureRow, 0, len(partition))
		for k := range partition {
			row, err := b.rowAt(partition, k)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
}

// BuildLatest produces one feature row per player representing their state
// entering the next, not-yet-logged game as of asOf. Rest days are measured
// from the most recent logged event to asOf; the home flag is not derivable
// from the log and is left for the matchup join to fill.
func (b *Builder) BuildLatest(ctx context.Context, events []models.GameEvent, asOf time.Time) ([]models.PlayerFeatureRow, error) {
	return b.build(ctx, events, func(partition []models.GameEvent) ([]models.PlayerFeatureRow, error) {
		row, err := b.latestRow(partition, asOf)
		if err != nil {
			return nil, err
		}
		return []models.PlayerFeatureRow{row}, nil
	})
}

func (b *Builder) build(ctx context.Context, events []models.GameEvent, fn func([]models.GameEvent) ([]models.PlayerFeatureRow, error)) ([]models.PlayerFeatureRow, error) {
	partitions, order := partitionByPlayer(events)

	results := make([][]models.PlayerFeatureRow, len(order))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, playerID := range order {
		i, partition := i, partitions[playerID]
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rows, err := fn(partition)
			if err != nil {
				return fmt.Errorf("player %d: %w", partition[0].PlayerID, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.PlayerFeatureRow, 0, len(events))
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// rowAt computes the feature row for partition[k] from events strictly
// before k.
func (b *Builder) rowAt(partition []models.GameEvent, k int) (models.PlayerFeatureRow, error) {
	event := partition[k]
	feats := b.windowFeatures(partition[:k])

	if k > 0 {
		rest := daysBetween(partition[k-1].Date, event.Date)
		feats[FeatureRestDays] = float64(rest)
		feats[FeatureIsB2B] = boolFeature(rest == 1)
	}

	home, err := event.IsHome()
	if err != nil {
		return models.PlayerFeatureRow{}, fmt.Errorf("game %s on %s: %w", event.GameID, event.Date.Format("2006-01-02"), err)
	}
	feats[FeatureIsHome] = boolFeature(home)

	if started, ok := b.starterAt(partition, k); ok {
		feats[FeatureIsStarter] = boolFeature(started)
	}

	return models.PlayerFeatureRow{
		PlayerID:   event.PlayerID,
		PlayerName: event.PlayerName,
		TeamID:     event.TeamID,
		TeamName:   event.TeamName,
		AsOf:       event.Date,
		Features:   feats,
	}, nil
}

// latestRow computes the state entering the next game: every logged event is
// prior, so windows run over the tail of the partition with no exclusion.
func (b *Builder) latestRow(partition []models.GameEvent, asOf time.Time) (models.PlayerFeatureRow, error) {
	last := partition[len(partition)-1]
	feats := b.windowFeatures(partition)

	rest := daysBetween(last.Date, asOf)
	feats[FeatureRestDays] = float64(rest)
	feats[FeatureIsB2B] = boolFeature(rest == 1)

	if started, ok := b.starterLatest(partition); ok {
		feats[FeatureIsStarter] = boolFeature(started)
	}

	return models.PlayerFeatureRow{
		PlayerID:   last.PlayerID,
		PlayerName: last.PlayerName,
		TeamID:     last.TeamID,
		TeamName:   last.TeamName,
		AsOf:       asOf,
		Features:   feats,
	}, nil
}

// windowFeatures evaluates every spec over the prior events. Specs whose
// window is not yet satisfied are simply absent from the map.
func (b *Builder) windowFeatures(prior []models.GameEvent) map[string]float64 {
	feats := make(map[string]float64, len(b.specs)+4)
	series := make(map[string][]float64)
	statValues := func(stat string) []float64 {
		if vals, ok := series[stat]; ok {
			return vals
		}
		vals := make([]float64, len(prior))
		for i := range prior {
			vals[i], _ = prior[i].Stat(stat)
		}
		series[stat] = vals
		return vals
	}

	for _, spec := range b.specs {
		var (
			value float64
			ok    bool
		)
		switch spec.Kind {
		case TrailingMean:
			value, ok = trailingMean(statValues(spec.Stat), spec.Window)
		case TrailingStdDev:
			value, ok = trailingStdDev(statValues(spec.Stat), spec.Window)
		case TrailingRatePerMinute:
			value, ok = trailingRatioOfSums(statValues(spec.Stat), statValues("MIN"), spec.Window)
		}
		if ok {
			feats[spec.Name] = value
		}
	}
	return feats
}

// starterAt derives the starter flag entering partition[k]. The explicit
// indicator is pre-game information and may be read from the event itself;
// the minutes proxy only ever looks at the previous game.
func (b *Builder) starterAt(partition []models.GameEvent, k int) (bool, bool) {
	switch b.starter.Mode {
	case StarterExplicitFlag:
		started, ok := partition[k].Started()
		return started, ok
	case StarterMinutesProxy:
		if k == 0 {
			return false, false
		}
		return partition[k-1].Minutes >= b.starter.MinutesThreshold, true
	}
	return false, false
}

func (b *Builder) starterLatest(partition []models.GameEvent) (bool, bool) {
	last := partition[len(partition)-1]
	switch b.starter.Mode {
	case StarterExplicitFlag:
		started, ok := last.Started()
		return started, ok
	case StarterMinutesProxy:
		return last.Minutes >= b.starter.MinutesThreshold, true
	}
	return false, false
}

// partitionByPlayer groups events by player id, each partition sorted
// date-ascending with original log order breaking ties. The returned order
// lists player ids ascending so output is deterministic.
func partitionByPlayer(events []models.GameEvent) (map[int64][]models.GameEvent, []int64) {
	partitions := make(map[int64][]models.GameEvent)
	for i := range events {
		id := events[i].PlayerID
		partitions[id] = append(partitions[id], events[i])
	}

	order := make([]int64, 0, len(partitions))
	for id := range partitions {
		order = append(order, id)
		partition := partitions[id]
		sort.SliceStable(partition, func(a, b int) bool {
			return partition[a].Date.Before(partition[b].Date)
		})
	}
	sort.Slice(order, func(a, b int) bool { return order[a] < order[b] })
	return partitions, order
}

// daysBetween is the whole-day calendar difference from a to b, ignoring
// time-of-day components.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

func boolFeature(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
