package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/taxonomy"
)

// setupTestDB installs a fresh database in a temp dir as DB.
func setupTestDB(t *testing.T) {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), "logbook.db"), Options{})
	require.NoError(t, err)

	prev := DB
	DB = conn
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
		DB = prev
	})
}

// seedSession creates a session with one category per label.
func seedSession(t *testing.T, year int, season string, labels ...string) (*models.Session, []*models.Category) {
	t.Helper()
	ctx := context.Background()

	session, err := CreateSession(ctx, CreateSessionRequest{Year: year, Season: season})
	require.NoError(t, err)

	tax := taxonomy.Default()
	categories := make([]*models.Category, 0, len(labels))
	for _, label := range labels {
		c, err := CreateCategory(ctx, tax, CreateCategoryRequest{SessionID: session.ID, Label: label})
		require.NoError(t, err)
		categories = append(categories, c)
	}
	return session, categories
}

// fakeClock returns a controllable clock starting at start.
func fakeClock(t *testing.T, start time.Time) *time.Time {
	t.Helper()
	now := start
	restore := SetClock(func() time.Time { return now })
	t.Cleanup(restore)
	return &now
}

// requireConsistent checks that the day's cached total equals its observations.
func requireConsistent(t *testing.T, sessionID uint, date string) int {
	t.Helper()

	var record models.DailyRecord
	err := DB.Where("session_id = ? AND date = ?", sessionID, date).First(&record).Error
	require.NoError(t, err)

	var sum int
	require.NoError(t, DB.Model(&models.Observation{}).
		Where("daily_record_id = ?", record.ID).
		Select("COALESCE(SUM(minutes), 0)").
		Scan(&sum).Error)
	require.Equal(t, sum, record.TotalMinutes, "cached total drifted from observations")
	return record.TotalMinutes
}

func countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, DB.Model(model).Count(&n).Error)
	return n
}
