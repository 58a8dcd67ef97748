package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/logbook/internal/models"
)

func TestManualEntry_DeleteReversesOwnContribution(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	session, cats := seedSession(t, 2024, "fall", "Reading", "Training")
	date := "2024-10-07"

	_, err := UpsertObservation(ctx, LedgerWrite{SessionID: session.ID, CategoryID: cats[0].ID, Date: date, Minutes: 45, Source: models.SourceImport})
	require.NoError(t, err)
	assert.Equal(t, 45, requireConsistent(t, session.ID, date))

	entry, err := CreateManualEntry(ctx, CreateManualEntryRequest{SessionID: session.ID, CategoryID: cats[0].ID, Date: date, DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 75, entry.Ledger.DayTotal)
	assert.Equal(t, models.SourceManual, entry.Ledger.Source)
	assert.Equal(t, "Reading", entry.CategoryName)

	ledger, err := DeleteManualEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, ledger.DayTotal)
	assert.Equal(t, 45, requireConsistent(t, session.ID, date))
	assert.Zero(t, countRows(t, &models.ManualEntry{}))

	_, err = DeleteManualEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManualEntry_Validation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	session, cats := seedSession(t, 2024, "fall", "Reading")
	other, _ := seedSession(t, 2025, "winter")

	_, err := CreateManualEntry(ctx, CreateManualEntryRequest{SessionID: session.ID, CategoryID: cats[0].ID, Date: "2024-10-01", DurationMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = CreateManualEntry(ctx, CreateManualEntryRequest{SessionID: session.ID, CategoryID: cats[0].ID, Date: "yesterday", DurationMinutes: 5})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = CreateManualEntry(ctx, CreateManualEntryRequest{SessionID: other.ID, CategoryID: cats[0].ID, Date: "2024-10-01", DurationMinutes: 5})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Zero(t, countRows(t, &models.ManualEntry{}))
	assert.Zero(t, countRows(t, &models.DailyRecord{}))
}

func TestListManualEntries(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	session, cats := seedSession(t, 2024, "fall", "Reading")

	for _, date := range []string{"2024-10-01", "2024-10-01", "2024-10-02"} {
		_, err := CreateManualEntry(ctx, CreateManualEntryRequest{SessionID: session.ID, CategoryID: cats[0].ID, Date: date, DurationMinutes: 10, Location: "home"})
		require.NoError(t, err)
	}

	all, err := ListManualEntries(ctx, session.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	day, err := ListManualEntries(ctx, session.ID, "2024-10-01")
	require.NoError(t, err)
	assert.Len(t, day, 2)

	view, err := GetDay(ctx, session.ID, "2024-10-01")
	require.NoError(t, err)
	assert.Equal(t, 20, view.TotalMinutes)
	require.Len(t, view.Observations, 1)
	assert.Equal(t, "Reading", view.Observations[0].CategoryName)
	require.NotNil(t, view.Text)
	assert.Equal(t, "home", view.Text.Location)
	assert.Len(t, view.ManualEntries, 2)

	empty, err := GetDay(ctx, session.ID, "2024-12-25")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalMinutes)
	assert.Empty(t, empty.Observations)
	assert.Nil(t, empty.Text)
}
