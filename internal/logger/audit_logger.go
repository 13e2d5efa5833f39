// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for recorded picks.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPickRecorded logs a pick added to the slate.
func (al *AuditLogger) LogPickRecorded(pickID, runID, category, player, side string, line float64, odds int, edge float64, bookKey string, commenceTime time.Time) {
	al.WithFields(logrus.Fields{
		"pick_id":       pickID,
		"run_id":        runID,
		"category":      category,
		"player":        player,
		"side":          side,
		"line":          line,
		"odds":          odds,
		"edge":          edge,
		"book":          bookKey,
		"commence_time": commenceTime.Unix(),
	}).Info("Pick recorded")
}

// LogSlatePersisted logs a slate write to storage.
func (al *AuditLogger) LogSlatePersisted(runID string, category string, picksWritten int) {
	al.WithFields(logrus.Fields{
		"run_id":        runID,
		"category":      category,
		"picks_written": picksWritten,
	}).Info("Slate persisted")
}

// LogConfigOverride logs secret-overlay and environment overrides applied at startup.
func (al *AuditLogger) LogConfigOverride(source, field string) {
	al.WithFields(logrus.Fields{
		"source": source,
		"field":  field,
	}).Info("Configuration override applied")
}
