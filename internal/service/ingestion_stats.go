package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionStats tracks statistics about one ingestion run.
type IngestionStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	RowsRead         int
	EventsIngested   int
	ValidationErrors int
	ParseErrors      int
}

// NewIngestionStats creates a new stats tracker.
func NewIngestionStats() *IngestionStats {
	return &IngestionStats{StartTime: time.Now()}
}

// Reset resets all counters.
func (s *IngestionStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.StartTime = time.Now()
	s.Duration = 0
	s.RowsRead = 0
	s.EventsIngested = 0
	s.ValidationErrors = 0
	s.ParseErrors = 0
}

// RecordRow increments the read-row count.
func (s *IngestionStats) RecordRow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RowsRead++
}

// RecordEvents adds to the ingested-event count.
func (s *IngestionStats) RecordEvents(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EventsIngested += n
}

// RecordValidationError increments the validation error count.
func (s *IngestionStats) RecordValidationError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ValidationErrors++
}

// RecordParseError increments the parse error count.
func (s *IngestionStats) RecordParseError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ParseErrors++
}

// String returns a formatted representation of the stats.
func (s *IngestionStats) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fmt.Sprintf(
		"IngestionStats{Rows=%d, Ingested=%d, ParseErrors=%d, ValidationErrors=%d, Duration=%v}",
		s.RowsRead,
		s.EventsIngested,
		s.ParseErrors,
		s.ValidationErrors,
		s.Duration,
	)
}
