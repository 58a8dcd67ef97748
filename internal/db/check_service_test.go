package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/logbook/internal/models"
)

func TestCheckLedger(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	session, cats := seedSession(t, 2024, "fall", "Reading")

	res, err := UpsertObservation(ctx, LedgerWrite{SessionID: session.ID, CategoryID: cats[0].ID, Date: "2024-10-01", Minutes: 30, Source: models.SourceManual})
	require.NoError(t, err)
	_, err = UpsertObservation(ctx, LedgerWrite{SessionID: session.ID, CategoryID: cats[0].ID, Date: "2024-10-02", Minutes: 10, Source: models.SourceManual})
	require.NoError(t, err)

	report, err := CheckLedger(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.RecordsChecked)
	assert.Empty(t, report.Drift)

	// Corrupt one total behind the ledger's back.
	require.NoError(t, DB.Model(&models.DailyRecord{}).
		Where("session_id = ? AND date = ?", res.SessionID, res.Date).
		Update("total_minutes", 99).Error)

	report, err = CheckLedger(ctx, false)
	require.NoError(t, err)
	require.Len(t, report.Drift, 1)
	assert.Equal(t, 99, report.Drift[0].Stored)
	assert.Equal(t, 30, report.Drift[0].Actual)
	assert.False(t, report.Drift[0].Fixed)

	report, err = CheckLedger(ctx, true)
	require.NoError(t, err)
	require.Len(t, report.Drift, 1)
	assert.True(t, report.Drift[0].Fixed)
	assert.Equal(t, 30, requireConsistent(t, session.ID, "2024-10-01"))

	report, err = CheckLedger(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drift)
}
