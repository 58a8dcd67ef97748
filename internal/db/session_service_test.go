package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
)

func TestCreateSession(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	s, err := CreateSession(ctx, CreateSessionRequest{Year: 2024, Season: "Fall", StartDate: "2024-09-26", EndDate: "2024-12-14"})
	require.NoError(t, err)
	assert.Equal(t, "fall", s.Season)
	assert.Equal(t, "Fall 2024", s.Label)
	require.NotNil(t, s.StartDate)
	assert.Equal(t, "2024-09-26", *s.StartDate)
	assert.False(t, s.IsActive)

	_, err = CreateSession(ctx, CreateSessionRequest{Year: 2024, Season: "fall"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = CreateSession(ctx, CreateSessionRequest{Year: 2024, Season: "autumn"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = CreateSession(ctx, CreateSessionRequest{Year: 2025, Season: "winter", StartDate: "1/6/25"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreateSession_ContinueFrom(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	prev, _ := seedSession(t, 2024, "fall", "COGS 118C", "Training", "Reading")

	next, err := CreateSession(ctx, CreateSessionRequest{Year: 2025, Season: "winter", ContinueFrom: &prev.ID})
	require.NoError(t, err)

	cats, err := ListCategories(ctx, next.ID)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "cogs118c", cats[0].Name)
	assert.Equal(t, "training", cats[1].Name)
	assert.Equal(t, "reading", cats[2].Name)
	require.NotNil(t, cats[0].FamilyID, "family link is copied")

	missing := uint(9999)
	_, err = CreateSession(ctx, CreateSessionRequest{Year: 2025, Season: "spring", ContinueFrom: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 2, countRows(t, &models.Session{}), "failed create rolls back")
}

func TestCreateSession_ContinueFromEmptySession(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	empty, _ := seedSession(t, 2024, "fall")

	next, err := CreateSession(ctx, CreateSessionRequest{Year: 2025, Season: "winter", ContinueFrom: &empty.ID})
	require.NoError(t, err)
	cats, err := ListCategories(ctx, next.ID)
	require.NoError(t, err)
	assert.Empty(t, cats)

	// Fail the second sessions query in the transaction: the existence check.
	queries := 0
	require.NoError(t, DB.Callback().Query().Before("gorm:query").Register("test:fail_exists", func(tx *gorm.DB) {
		if tx.Statement.Table != "sessions" {
			return
		}
		queries++
		if queries == 2 {
			tx.AddError(errors.New("disk I/O error"))
		}
	}))

	_, err = CreateSession(ctx, CreateSessionRequest{Year: 2025, Season: "spring", ContinueFrom: &empty.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check session to copy")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestActivateSession_SingleActive(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	a, _ := seedSession(t, 2024, "fall")
	b, _ := seedSession(t, 2025, "winter")
	c, _ := seedSession(t, 2025, "spring")

	none, err := GetActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	for _, s := range []*models.Session{a, b, c, a} {
		_, err := ActivateSession(ctx, s.ID)
		require.NoError(t, err)

		var active []models.Session
		require.NoError(t, DB.Where("is_active = ?", true).Find(&active).Error)
		require.Len(t, active, 1)
		assert.Equal(t, s.ID, active[0].ID)
	}

	got, err := GetActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = DeactivateSession(ctx, a.ID)
	require.NoError(t, err)
	got, err = GetActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ActivateSession(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSessions_Order(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	seedSession(t, 2024, "winter")
	seedSession(t, 2024, "fall")
	seedSession(t, 2025, "spring")
	seedSession(t, 2024, "summer")

	list, err := ListSessions(ctx)
	require.NoError(t, err)
	var labels []string
	for _, s := range list {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"Spring 2025", "Fall 2024", "Summer 2024", "Winter 2024"}, labels)
}

func TestDeleteSession_Cascades(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	doomed, cats := seedSession(t, 2024, "fall", "Reading", "Training")
	kept, keptCats := seedSession(t, 2025, "winter", "Reading")

	_, err := CreateManualEntry(ctx, CreateManualEntryRequest{SessionID: doomed.ID, CategoryID: cats[0].ID, Date: "2024-10-01", DurationMinutes: 30, Description: "notes"})
	require.NoError(t, err)
	_, err = StartTimer(ctx, doomed.ID, cats[1].ID)
	require.NoError(t, err)
	_, err = CreateManualEntry(ctx, CreateManualEntryRequest{SessionID: kept.ID, CategoryID: keptCats[0].ID, Date: "2025-01-10", DurationMinutes: 20})
	require.NoError(t, err)

	require.NoError(t, DeleteSession(ctx, doomed.ID))

	assert.EqualValues(t, 1, countRows(t, &models.Session{}))
	assert.EqualValues(t, 1, countRows(t, &models.Category{}))
	assert.EqualValues(t, 1, countRows(t, &models.DailyRecord{}))
	assert.EqualValues(t, 1, countRows(t, &models.Observation{}))
	assert.EqualValues(t, 1, countRows(t, &models.ManualEntry{}))
	assert.Zero(t, countRows(t, &models.TimerEntry{}))
	assert.Zero(t, countRows(t, &models.TextEntry{}))

	assert.ErrorIs(t, DeleteSession(ctx, doomed.ID), ErrNotFound)
}
