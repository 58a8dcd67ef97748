package importer

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/taxonomy"
)

const studyCSV = "\ufeffWeek,Date,Day,COGS 118C,cogs118c,Training,Reading,Total\n" +
	"1,9/26/24,Thurs,30,15,60,,105\n" +
	"1,9/27/24,Fri,45,,,20,65\n" +
	"1,9/27/24,Fri,10,,5,,15\n" +
	",bad,Sat,10,,,,\n" +
	"1,9/28/24,Sat,abc,,30,,30\n"

const textCSV = "Time,Location,Notes,Study Materials\n" +
	"9/26/24,Library,N/A,Chapter 1\n" +
	"9/27/2024,N/A,good focus,n/a\n" +
	",Home,,\n" +
	"notadate,Home,x,y\n"

func setupTestDB(t *testing.T) {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "logbook.db"), db.Options{})
	require.NoError(t, err)

	prev := db.DB
	db.DB = conn
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
		db.DB = prev
	})
}

// newTestStager returns a stager with a settable clock.
func newTestStager(t *testing.T, ttl time.Duration, now *time.Time) *Stager {
	t.Helper()
	return NewStager(taxonomy.Default(), Options{
		TTL:          ttl,
		FamilyLookup: db.FamilyExists,
		Logger:       log.New(io.Discard),
		Now:          func() time.Time { return *now },
	})
}

func countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(model).Count(&n).Error)
	return n
}

func ledgerCounts(t *testing.T) map[string]int64 {
	t.Helper()
	return map[string]int64{
		"sessions":     countRows(t, &models.Session{}),
		"categories":   countRows(t, &models.Category{}),
		"families":     countRows(t, &models.CategoryFamily{}),
		"records":      countRows(t, &models.DailyRecord{}),
		"observations": countRows(t, &models.Observation{}),
		"text":         countRows(t, &models.TextEntry{}),
	}
}
