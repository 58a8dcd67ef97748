package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/taxonomy"
)

func TestCreateCategory(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	tax := taxonomy.Default()
	session, _ := seedSession(t, 2024, "fall")

	c, err := CreateCategory(ctx, tax, CreateCategoryRequest{SessionID: session.ID, Label: "cogs118c"})
	require.NoError(t, err)
	assert.Equal(t, "cogs118c", c.Name)
	assert.Equal(t, "COGS 118C", c.DisplayName)
	assert.Equal(t, 0, c.Position)
	require.NotNil(t, c.Family)
	assert.Equal(t, "cogs", c.Family.Name)

	_, err = CreateCategory(ctx, tax, CreateCategoryRequest{SessionID: session.ID, Label: "COGS  118C"})
	assert.ErrorIs(t, err, ErrConflict, "same merge key")

	c2, err := CreateCategory(ctx, tax, CreateCategoryRequest{SessionID: session.ID, Label: "Side Quest"})
	require.NoError(t, err)
	assert.Equal(t, "side_quest", c2.Name)
	assert.Equal(t, 1, c2.Position)
	assert.Nil(t, c2.FamilyID, "unclassified labels get no family")

	c3, err := CreateCategory(ctx, tax, CreateCategoryRequest{SessionID: session.ID, Label: "Pottery", FamilyKey: "hobbies"})
	require.NoError(t, err)
	require.NotNil(t, c3.Family)
	assert.Equal(t, taxonomy.TypeOther, c3.Family.FamilyType)
	assert.Equal(t, "Hobbies", c3.Family.DisplayName)

	c4, err := CreateCategory(ctx, tax, CreateCategoryRequest{SessionID: session.ID, Label: "Training", NoFamily: true})
	require.NoError(t, err)
	assert.Nil(t, c4.FamilyID)

	_, err = CreateCategory(ctx, tax, CreateCategoryRequest{SessionID: 9999, Label: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = CreateCategory(ctx, tax, CreateCategoryRequest{SessionID: session.ID, Label: "   "})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFindCategory(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	session, cats := seedSession(t, 2024, "fall", "COGS 118C")
	other, _ := seedSession(t, 2025, "winter")

	byLabel, err := FindCategory(ctx, session.ID, "cogs 118c")
	require.NoError(t, err)
	assert.Equal(t, cats[0].ID, byLabel.ID)

	byID, err := FindCategory(ctx, session.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, cats[0].ID, byID.ID)

	_, err = FindCategory(ctx, other.ID, "cogs118c")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = FindCategory(ctx, other.ID, "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategory_GuardedByObservations(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	session, cats := seedSession(t, 2024, "fall", "Reading", "Training")

	entry, err := CreateManualEntry(ctx, CreateManualEntryRequest{SessionID: session.ID, CategoryID: cats[0].ID, Date: "2024-10-01", DurationMinutes: 10})
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteCategory(ctx, cats[0].ID), ErrConflict)
	assert.EqualValues(t, 2, countRows(t, &models.Category{}))

	require.NoError(t, DeleteCategory(ctx, cats[1].ID))

	_, err = DeleteManualEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.NoError(t, DeleteCategory(ctx, cats[0].ID), "deletable once observations are gone")
	assert.Zero(t, countRows(t, &models.Category{}))

	assert.ErrorIs(t, DeleteCategory(ctx, cats[0].ID), ErrNotFound)
}

func TestListCategories_Totals(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	session, cats := seedSession(t, 2024, "fall", "Reading", "Training")

	for _, date := range []string{"2024-10-01", "2024-10-02"} {
		_, err := UpsertObservation(ctx, LedgerWrite{SessionID: session.ID, CategoryID: cats[0].ID, Date: date, Minutes: 30, Source: models.SourceManual})
		require.NoError(t, err)
	}

	list, err := ListCategories(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 60, list[0].TotalMinutes)
	assert.Equal(t, 2, list[0].ObservationCount)
	assert.Equal(t, 0, list[1].TotalMinutes)
}
