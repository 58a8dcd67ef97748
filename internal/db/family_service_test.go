package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/taxonomy"
)

func TestGetOrCreateFamily_Idempotent(t *testing.T) {
	setupTestDB(t)
	tax := taxonomy.Default()

	var first, second *models.CategoryFamily
	err := DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if first, err = GetOrCreateFamily(tx, tax, "salk"); err != nil {
			return err
		}
		second, err = GetOrCreateFamily(tx, tax, "SALK")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Salk Research", first.DisplayName)
	assert.Equal(t, taxonomy.TypeResearch, first.FamilyType)
	assert.Equal(t, "#3B82F6", first.Color)
	assert.EqualValues(t, 1, countRows(t, &models.CategoryFamily{}))

	exists, err := FamilyExists(context.Background(), "salk")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = FamilyExists(context.Background(), "mpi")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetOrCreateFamily_SubstitutedTaxonomy(t *testing.T) {
	setupTestDB(t)
	tax, err := taxonomy.New([]taxonomy.Family{{Key: "salk", DisplayName: "The Lab", Type: taxonomy.TypePersonal}}, nil)
	require.NoError(t, err)

	f, err := GetOrCreateFamily(DB, tax, "salk")
	require.NoError(t, err)
	assert.Equal(t, "The Lab", f.DisplayName)
	assert.Equal(t, taxonomy.TypePersonal, f.FamilyType)
	assert.Empty(t, f.Color)
}

func TestCreateFamily(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	f, err := CreateFamily(ctx, CreateFamilyRequest{Name: "Music", Color: "#FF0000"})
	require.NoError(t, err)
	assert.Equal(t, "music", f.Name)
	assert.Equal(t, "Music", f.DisplayName)
	assert.Equal(t, taxonomy.TypeOther, f.FamilyType)

	_, err = CreateFamily(ctx, CreateFamilyRequest{Name: "music"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = CreateFamily(ctx, CreateFamilyRequest{Name: "x", FamilyType: "hobby"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDeleteFamily_UnlinksCategories(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	session, cats := seedSession(t, 2024, "fall", "COGS 118C", "COGS 101A", "Reading")
	_, err := UpsertObservation(ctx, LedgerWrite{SessionID: session.ID, CategoryID: cats[0].ID, Date: "2024-10-01", Minutes: 40, Source: models.SourceManual})
	require.NoError(t, err)

	families, err := ListFamilies(ctx)
	require.NoError(t, err)
	require.Len(t, families, 2)
	assert.Equal(t, "cogs", families[0].Name)
	assert.Equal(t, 2, families[0].CategoryCount)
	assert.Equal(t, 40, families[0].TotalMinutes)

	unlinked, err := DeleteFamily(ctx, families[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unlinked)

	var cat models.Category
	require.NoError(t, DB.First(&cat, cats[0].ID).Error)
	assert.Nil(t, cat.FamilyID)
	assert.EqualValues(t, 3, countRows(t, &models.Category{}), "categories survive")

	_, err = DeleteFamily(ctx, families[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
