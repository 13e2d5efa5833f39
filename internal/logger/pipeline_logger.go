// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for slate pipeline runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogSlateRunStarted logs the start of a slate run.
func (pl *PipelineLogger) LogSlateRunStarted(runID, category string, quotesFetched, rosterSize int) {
	pl.WithFields(logrus.Fields{
		"run_id":         runID,
		"category":       category,
		"quotes_fetched": quotesFetched,
		"roster_size":    rosterSize,
	}).Info("Slate run started")
}

// LogCandidateExcluded logs a quote dropped before scoring.
func (pl *PipelineLogger) LogCandidateExcluded(category, player, reason string) {
	pl.WithFields(logrus.Fields{
		"category": category,
		"player":   player,
		"reason":   reason,
	}).Debug("Candidate excluded from slate")
}

// LogCandidateScored logs a scored candidate.
func (pl *PipelineLogger) LogCandidateScored(category, player string, line, estimate, edgeOver, edgeUnder float64) {
	pl.WithFields(logrus.Fields{
		"category":   category,
		"player":     player,
		"line":       line,
		"estimate":   estimate,
		"edge_over":  edgeOver,
		"edge_under": edgeUnder,
	}).Debug("Candidate scored")
}

// LogSlateSelected logs a completed slate selection.
func (pl *PipelineLogger) LogSlateSelected(runID, category string, candidatesScored, picksSelected, unders int, topEdge float64, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"run_id":            runID,
		"category":          category,
		"candidates_scored": candidatesScored,
		"picks_selected":    picksSelected,
		"unders":            unders,
		"top_edge":          topEdge,
		"duration_ms":       durationMs,
	}).Info("Slate selection completed")
}

// LogSlateEmpty logs a run that produced no eligible candidates.
func (pl *PipelineLogger) LogSlateEmpty(runID, category string, exclusions map[string]int) {
	pl.WithFields(logrus.Fields{
		"run_id":     runID,
		"category":   category,
		"exclusions": exclusions,
	}).Warn("Slate run produced no eligible candidates")
}
