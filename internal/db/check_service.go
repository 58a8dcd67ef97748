package db

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
)

// LedgerDrift is a daily record whose cached total disagrees with its observations
type LedgerDrift struct {
	RecordID  uint   `json:"record_id"`
	SessionID uint   `json:"session_id"`
	Date      string `json:"date"`
	Stored    int    `json:"stored"`
	Actual    int    `json:"actual"`
	Fixed     bool   `json:"fixed"`
}

// LedgerReport summarizes a ledger check
type LedgerReport struct {
	RecordsChecked int           `json:"records_checked"`
	Drift          []LedgerDrift `json:"drift"`
	ActiveSessions int           `json:"active_sessions"`
}

// CheckLedger compares every daily total with the sum of its observations.
// With fix, drifted totals are rewritten from the observations.
func CheckLedger(ctx context.Context, fix bool) (*LedgerReport, error) {
	report := &LedgerReport{}

	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []struct {
			ID           uint
			SessionID    uint
			Date         string
			TotalMinutes int
			Actual       int
		}
		err := tx.Model(&models.DailyRecord{}).
			Select("daily_records.id, daily_records.session_id, daily_records.date, daily_records.total_minutes, " +
				"COALESCE((SELECT SUM(minutes) FROM observations WHERE observations.daily_record_id = daily_records.id), 0) AS actual").
			Order("daily_records.session_id, daily_records.date").
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("scan daily records: %w", err)
		}
		report.RecordsChecked = len(rows)

		for _, r := range rows {
			if r.TotalMinutes == r.Actual {
				continue
			}
			drift := LedgerDrift{
				RecordID:  r.ID,
				SessionID: r.SessionID,
				Date:      r.Date,
				Stored:    r.TotalMinutes,
				Actual:    r.Actual,
			}
			if fix {
				record := models.DailyRecord{ID: r.ID}
				if _, err := recomputeTotal(tx, &record); err != nil {
					return err
				}
				drift.Fixed = true
			}
			log.Warn("ledger drift", "session", r.SessionID, "date", r.Date, "stored", r.TotalMinutes, "actual", r.Actual, "fixed", drift.Fixed)
			report.Drift = append(report.Drift, drift)
		}

		var active int64
		if err := tx.Model(&models.Session{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
			return fmt.Errorf("count active sessions: %w", err)
		}
		report.ActiveSessions = int(active)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
