// Package service wires the datasource, feature builders, resolver, scorer,
// and selector into the slate pipeline, and owns the ingestion workflow that
// feeds it.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/IsaJohn05/nba-player-props-model/internal/config"
	"github.com/IsaJohn05/nba-player-props-model/internal/datasource"
	"github.com/IsaJohn05/nba-player-props-model/internal/edge"
	"github.com/IsaJohn05/nba-player-props-model/internal/features"
	"github.com/IsaJohn05/nba-player-props-model/internal/logger"
	"github.com/IsaJohn05/nba-player-props-model/internal/metrics"
	"github.com/IsaJohn05/nba-player-props-model/internal/ml"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
	"github.com/IsaJohn05/nba-player-props-model/internal/repository"
	"github.com/IsaJohn05/nba-player-props-model/internal/resolve"
	"github.com/IsaJohn05/nba-player-props-model/internal/selection"
)

// Exclusion reasons counted per run. Row-level defects are excluded and
// tallied, never raised; the labels double as metric label values.
const (
	ReasonMissingHistory     = "missing_history"
	ReasonUnresolvedOpponent = "unresolved_opponent"
	ReasonIncompleteQuote    = "incomplete_quote"
	ReasonPredictionFailed   = "prediction_failed"
	ReasonMalformedMatchup   = "malformed_matchup"
)

// categoryStatPrefix maps a prop category to the stat prefix of its trailing
// rate and dispersion features.
var categoryStatPrefix = map[models.StatCategory]string{
	models.CategoryPoints:   "pts",
	models.CategoryAssists:  "ast",
	models.CategoryRebounds: "reb",
}

// Pipeline runs one slate: fetch quotes, build features, score candidates,
// select picks, persist the slate.
type Pipeline struct {
	cfg       *config.Config
	source    datasource.OddsSource
	repos     *repository.Repositories
	predictor ml.Predictor
	defense   *features.DefenseBuilder
	scorer    *edge.Scorer
	selector  *selection.Selector
	plog      *logger.PipelineLogger
	audit     *logger.AuditLogger
	mlog      *logger.ModelLogger
}

// cacheStats is satisfied by predictors that track cache hit rates.
type cacheStats interface {
	Stats() (hits, misses uint64)
}

// NewPipeline constructs the slate pipeline from its collaborators. The
// builders, scorer, and selector are created here from configuration so a
// config change cannot leave the pipeline half-updated.
func NewPipeline(
	cfg *config.Config,
	source datasource.OddsSource,
	repos *repository.Repositories,
	predictor ml.Predictor,
	baseLogger *logrus.Logger,
) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if source == nil {
		return nil, fmt.Errorf("odds source is required")
	}
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}

	scorer, err := edge.NewScorer(edge.ScorerConfig{
		DispersionFloor:    cfg.Edge.DispersionFloor,
		FallbackDispersion: cfg.Edge.FallbackDispersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create edge scorer: %w", err)
	}

	selector, err := selection.NewSelector(selection.Config{
		MaxPicks:  cfg.Selection.MaxPicks,
		MaxUnders: cfg.Selection.MaxUnders,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create selector: %w", err)
	}

	return &Pipeline{
		cfg:       cfg,
		source:    source,
		repos:     repos,
		predictor: predictor,
		defense:   features.NewDefenseBuilder(),
		scorer:    scorer,
		selector:  selector,
		plog:      logger.NewPipelineLogger(baseLogger),
		audit:     logger.NewAuditLogger(baseLogger),
		mlog:      logger.NewModelLogger(baseLogger),
	}, nil
}

// SlateResult summarizes one completed slate run.
type SlateResult struct {
	RunID            uuid.UUID
	Category         models.StatCategory
	AsOf             time.Time
	QuotesFetched    int
	CandidatesScored int
	Exclusions       map[string]int
	Picks            []*models.SelectedPick
	Duration         time.Duration
}

// RunSlate executes the full pipeline for one category as of a point in
// time. Row-level defects (missing history, unresolved opponents, one-sided
// quotes, prediction failures) exclude the row and are counted; run-level
// defects (source failure, storage failure, zero eligible candidates) abort
// the run with an error.
func (p *Pipeline) RunSlate(ctx context.Context, category models.StatCategory, asOf time.Time) (*SlateResult, error) {
	prefix, ok := categoryStatPrefix[category]
	if !ok {
		return nil, fmt.Errorf("unsupported category %q", category)
	}

	runID := uuid.New()
	started := time.Now()

	quotes, err := p.source.FetchPropQuotes(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s quotes: %w", category, err)
	}
	if p.cfg.Pipeline.ArchiveQuotes {
		if err := p.repos.Quote.InsertBatch(ctx, quotes); err != nil {
			return nil, fmt.Errorf("failed to archive quotes: %w", err)
		}
	}

	entries, err := p.repos.Roster.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster snapshot: %w", err)
	}
	roster := resolve.NewRoster(entries)
	metrics.UpdateRosterSize(roster.Size())

	p.plog.LogSlateRunStarted(runID.String(), string(category), len(quotes), roster.Size())

	deduped := edge.DedupeByBookPriority(quotes, p.cfg.OddsAPI.BookPriority)

	events, err := p.repos.GameEvent.GetThrough(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load game events: %w", err)
	}
	history := make([]models.GameEvent, len(events))
	for i, e := range events {
		history[i] = *e
	}

	// The starter signal is negotiated once per loaded event table: the
	// explicit indicator when the log carries one, else the minutes proxy.
	builder, err := features.NewBuilder(features.Config{
		Specs:   features.DefaultSpecs(),
		Starter: features.DetectStarterSignal(history, p.cfg.Features.StarterMinutesThreshold),
		Workers: p.cfg.Features.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create feature builder: %w", err)
	}

	buildStart := time.Now()
	rows, err := builder.BuildLatest(ctx, history, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature rows: %w", err)
	}
	metrics.RecordFeatureBuild(len(rows), time.Since(buildStart).Seconds())

	rowsByPlayer := make(map[string]*models.PlayerFeatureRow, len(rows))
	for i := range rows {
		rowsByPlayer[resolve.NormalizePlayer(rows[i].PlayerName)] = &rows[i]
	}

	defenseRows := p.defense.BuildLatest(history, asOf)
	defenseByTeam := make(map[string]*models.TeamDefenseRow, len(defenseRows))
	for i := range defenseRows {
		if abbr, ok := resolve.TeamAbbr(defenseRows[i].TeamName); ok {
			defenseByTeam[abbr] = &defenseRows[i]
		}
	}

	exclusions := make(map[string]int)
	exclude := func(player, reason string) {
		exclusions[reason]++
		metrics.RecordCandidateExcluded(string(category), reason)
		p.plog.LogCandidateExcluded(string(category), player, reason)
	}

	inputNames := features.MinutesModelInputs()
	rateFeature := prefix + "_per_min_last10"
	stdFeature := prefix + "_std_last10"

	var candidates []models.EdgeCandidate
	for i := range deduped {
		quote := &deduped[i]
		if !quote.IsComplete() {
			exclude(quote.Player, ReasonIncompleteQuote)
			continue
		}

		matchup, err := resolve.ResolveMatchup(roster, quote)
		if err != nil {
			exclude(quote.Player, ReasonUnresolvedOpponent)
			continue
		}

		row, ok := rowsByPlayer[resolve.NormalizePlayer(quote.Player)]
		if !ok {
			exclude(quote.Player, ReasonMissingHistory)
			continue
		}
		rate, ok := row.Feature(rateFeature)
		if !ok {
			exclude(quote.Player, ReasonMissingHistory)
			continue
		}

		// The latest row predates the quoted game, so the home flag comes
		// from the resolved matchup rather than event history.
		row.Features[features.FeatureIsHome] = boolFeature(matchup.IsHome)
		vector, err := row.Vector(inputNames)
		if err != nil {
			exclude(quote.Player, classifyExclusion(err))
			continue
		}

		estimate, err := p.predictor.Predict(ctx, ml.MinutesModel, vector)
		if err != nil {
			exclude(quote.Player, ReasonPredictionFailed)
			continue
		}

		trailingStd, hasStd := row.Feature(stdFeature)
		candidate := models.EdgeCandidate{
			Quote:           *quote,
			PlayerNorm:      resolve.NormalizePlayer(quote.Player),
			PlayerTeam:      matchup.PlayerTeam,
			OpponentTeam:    matchup.Opponent,
			OpponentDefense: defenseByTeam[matchup.Opponent],
			Estimate:        estimate.Value * rate,
			Dispersion:      p.scorer.Dispersion(trailingStd, hasStd),
		}
		if err := p.scorer.Score(&candidate); err != nil {
			exclude(quote.Player, classifyExclusion(err))
			continue
		}

		metrics.RecordCandidateScored()
		p.plog.LogCandidateScored(string(category), quote.Player, quote.Line, candidate.Estimate, candidate.EdgeOver, candidate.EdgeUnder)
		candidates = append(candidates, candidate)
	}

	result := &SlateResult{
		RunID:            runID,
		Category:         category,
		AsOf:             asOf,
		QuotesFetched:    len(quotes),
		CandidatesScored: len(candidates),
		Exclusions:       exclusions,
	}

	if len(candidates) == 0 {
		result.Duration = time.Since(started)
		p.plog.LogSlateEmpty(runID.String(), string(category), exclusions)
		return result, fmt.Errorf("slate run %s for %s: %w", runID, category, models.ErrNoEligibleCandidates)
	}

	slate := p.selector.Select(candidates)

	now := time.Now().UTC()
	unders := 0
	topEdge := 0.0
	picks := make([]*models.SelectedPick, 0, len(slate))
	for _, pick := range slate {
		if pick.Side == models.SideUnder {
			unders++
		}
		if pick.Edge > topEdge {
			topEdge = pick.Edge
		}
		picks = append(picks, &models.SelectedPick{
			ID:           uuid.New(),
			RunID:        runID,
			Category:     category,
			Player:       pick.Candidate.Quote.Player,
			PlayerTeam:   pick.Candidate.PlayerTeam,
			OpponentTeam: pick.Candidate.OpponentTeam,
			Side:         pick.Side,
			Line:         pick.Candidate.Quote.Line,
			Odds:         pick.Odds,
			Edge:         pick.Edge,
			Rating:       pick.Edge * 100,
			BookKey:      pick.Candidate.Quote.BookKey,
			CommenceTime: pick.Candidate.Quote.CommenceTime,
			CreatedAt:    now,
		})
		metrics.RecordPickSelected(string(category), string(pick.Side), pick.Edge)
	}

	if p.cfg.Pipeline.ArchivePicks {
		if err := p.repos.Pick.CreateBatch(ctx, picks); err != nil {
			return nil, fmt.Errorf("failed to persist slate %s: %w", runID, err)
		}
		p.audit.LogSlatePersisted(runID.String(), string(category), len(picks))
	}
	for _, pk := range picks {
		p.audit.LogPickRecorded(pk.ID.String(), runID.String(), string(pk.Category), pk.Player, string(pk.Side), pk.Line, pk.Odds, pk.Edge, pk.BookKey, pk.CommenceTime)
	}

	result.Picks = picks
	result.Duration = time.Since(started)

	metrics.UpdateSlateGauges(len(picks), unders, topEdge)
	metrics.RecordSlateRun(result.Duration.Seconds())
	p.plog.LogSlateSelected(runID.String(), string(category), len(candidates), len(picks), unders, topEdge, float64(result.Duration.Milliseconds()))
	if stats, ok := p.predictor.(cacheStats); ok {
		hits, misses := stats.Stats()
		p.mlog.LogCacheStats(int64(hits), int64(misses))
	}

	return result, nil
}

// classifyExclusion maps a row-level error onto its exclusion reason.
func classifyExclusion(err error) string {
	switch {
	case errors.Is(err, models.ErrMissingHistory):
		return ReasonMissingHistory
	case errors.Is(err, models.ErrUnresolvedOpponent):
		return ReasonUnresolvedOpponent
	case errors.Is(err, models.ErrIncompleteQuote):
		return ReasonIncompleteQuote
	case errors.Is(err, models.ErrMalformedMatchup):
		return ReasonMalformedMatchup
	default:
		return ReasonPredictionFailed
	}
}

func boolFeature(v bool) float64 {
	if v {
		return 1.0
	}
	return 0.0
}
