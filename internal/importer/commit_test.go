package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/models"
)

func TestCommit_WritesLedger(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 9, 27, 12, 0, 0, 0, time.Local)
	s := newTestStager(t, 0, &now)

	preview, err := s.Stage(ctx, studySource(), textSource())
	require.NoError(t, err)

	res, err := s.Commit(ctx, preview.Token)
	require.NoError(t, err)
	assert.Equal(t, "Fall 2024", res.SessionLabel)
	assert.True(t, res.Active, "today is inside the imported range")
	assert.Equal(t, 3, res.CategoriesCreated)
	assert.Equal(t, 3, res.DailyRecordsCreated)
	assert.Equal(t, 6, res.ObservationsCreated)
	assert.Equal(t, 2, res.TextEntriesCreated)
	assert.Equal(t, 215, res.TotalMinutes)
	assert.Len(t, res.Warnings, 3)

	var session models.Session
	require.NoError(t, db.DB.First(&session, res.SessionID).Error)
	assert.Equal(t, "2024_fall_study.csv", session.SourceFile)
	require.NotNil(t, session.StartDate)
	assert.Equal(t, "2024-09-26", *session.StartDate)
	assert.Equal(t, "2024-09-28", *session.EndDate)

	var records []models.DailyRecord
	require.NoError(t, db.DB.Preload("Observations").Order("date").Find(&records).Error)
	require.Len(t, records, 3)
	for _, r := range records {
		sum := 0
		for _, o := range r.Observations {
			sum += o.Minutes
			assert.Equal(t, models.SourceImport, o.Source)
		}
		assert.Equal(t, sum, r.TotalMinutes, r.Date)
	}
	assert.Equal(t, 80, records[1].TotalMinutes)
	assert.Equal(t, "Fri", records[1].DayOfWeek)

	var cogs models.Category
	require.NoError(t, db.DB.Preload("Family").Where("name = ?", "cogs118c").First(&cogs).Error)
	assert.Equal(t, "COGS 118C", cogs.DisplayName)
	assert.Equal(t, []string{"COGS 118C", "cogs118c"}, []string(cogs.SourceLabels))
	require.NotNil(t, cogs.Family)
	assert.Equal(t, "cogs", cogs.Family.Name)
	assert.Equal(t, "course", cogs.Family.FamilyType)
	assert.EqualValues(t, 3, countRows(t, &models.CategoryFamily{}))

	// Token is single use.
	_, err = s.Commit(ctx, preview.Token)
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestCommit_InactiveOutsideRange(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	s := newTestStager(t, 0, &now)

	preview, err := s.Stage(ctx, studySource(), nil)
	require.NoError(t, err)
	res, err := s.Commit(ctx, preview.Token)
	require.NoError(t, err)
	assert.False(t, res.Active)
}

func TestCommit_ExistingSessionConflicts(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 9, 27, 12, 0, 0, 0, time.Local)
	s := newTestStager(t, 0, &now)

	first, err := s.Stage(ctx, studySource(), textSource())
	require.NoError(t, err)
	_, err = s.Commit(ctx, first.Token)
	require.NoError(t, err)

	before := ledgerCounts(t)

	again, err := s.Stage(ctx, studySource(), textSource())
	require.NoError(t, err)
	for _, c := range again.Categories {
		assert.False(t, c.IsNewFamily, "%s: families exist after the first import", c.Name)
	}

	_, err = s.Commit(ctx, again.Token)
	require.ErrorIs(t, err, db.ErrConflict)
	assert.Equal(t, before, ledgerCounts(t), "failed commit writes nothing")

	_, err = s.Commit(ctx, again.Token)
	assert.ErrorIs(t, err, ErrUnknownToken, "a failed commit still consumes the token")
}

func TestCommit_AfterDeletingSession(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 9, 27, 12, 0, 0, 0, time.Local)
	s := newTestStager(t, 0, &now)

	p, err := s.Stage(ctx, studySource(), nil)
	require.NoError(t, err)
	res, err := s.Commit(ctx, p.Token)
	require.NoError(t, err)

	require.NoError(t, db.DeleteSession(ctx, res.SessionID))

	p, err = s.Stage(ctx, studySource(), nil)
	require.NoError(t, err)
	res, err = s.Commit(ctx, p.Token)
	require.NoError(t, err)
	assert.Equal(t, 6, res.ObservationsCreated)
	assert.EqualValues(t, 3, countRows(t, &models.CategoryFamily{}), "families are reused, not duplicated")
}
