package scheduler

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func allCategories() []models.StatCategory {
	return []models.StatCategory{models.CategoryPoints, models.CategoryAssists, models.CategoryRebounds}
}

func TestScheduleDailySlates(t *testing.T) {
	s := NewScheduler(nil, time.UTC, testLogger())

	err := s.ScheduleDailySlates("0 10 * * *", allCategories())
	require.NoError(t, err)
	assert.False(t, s.IsRunning())

	require.NoError(t, s.Start())
	defer func() { require.NoError(t, s.Stop()) }()

	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.Len(t, s.Entries(), 1)
}

func TestScheduleDailySlatesInvalidCron(t *testing.T) {
	s := NewScheduler(nil, time.UTC, testLogger())

	err := s.ScheduleDailySlates("not a cron expression", allCategories())
	assert.Error(t, err)
}

func TestScheduleDailySlatesRequiresCategories(t *testing.T) {
	s := NewScheduler(nil, time.UTC, testLogger())

	err := s.ScheduleDailySlates("0 10 * * *", nil)
	assert.Error(t, err)
}

func TestScheduleWhileRunningFails(t *testing.T) {
	s := NewScheduler(nil, time.UTC, testLogger())

	require.NoError(t, s.ScheduleDailySlates("0 10 * * *", allCategories()))
	require.NoError(t, s.Start())
	defer func() { require.NoError(t, s.Stop()) }()

	err := s.ScheduleDailySlates("0 11 * * *", allCategories())
	assert.Error(t, err)
}

func TestStartWithoutJobsFails(t *testing.T) {
	s := NewScheduler(nil, time.UTC, testLogger())
	assert.Error(t, s.Start())
}

func TestStopIdempotent(t *testing.T) {
	s := NewScheduler(nil, time.UTC, testLogger())

	require.NoError(t, s.ScheduleDailySlates("0 10 * * *", allCategories()))
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}

func TestNilLocationDefaultsToUTC(t *testing.T) {
	s := NewScheduler(nil, nil, testLogger())
	assert.Equal(t, time.UTC, s.location)
}
