package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/parser"
)

// LedgerWrite describes one contribution to (or withdrawal from) the ledger.
type LedgerWrite struct {
	SessionID  uint
	CategoryID uint
	Date       string // YYYY-MM-DD
	Minutes    int
	Source     string // import, timer, manual; ignored by subtract

	// Optional text contribution for the same date.
	Description string
	Location    string
}

// LedgerResult is the ledger state after a write.
type LedgerResult struct {
	SessionID     uint   `json:"session_id"`
	CategoryID    uint   `json:"category_id"`
	Date          string `json:"date"`
	ObservationID uint   `json:"observation_id,omitempty"`
	Minutes       int    `json:"minutes"` // observation minutes after the write
	Source        string `json:"source,omitempty"`
	Removed       bool   `json:"removed"` // observation deleted by subtract
	Noop          bool   `json:"noop"`    // nothing to subtract from
	DayTotal      int    `json:"day_total"`
}

// UpsertObservation adds minutes for (session, category, date) in one transaction.
func UpsertObservation(ctx context.Context, w LedgerWrite) (*LedgerResult, error) {
	var res *LedgerResult
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = upsertObservation(tx, w)
		if err != nil {
			return err
		}
		_, err = upsertTextEntry(tx, w.SessionID, w.Date, w.Description, w.Location)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SubtractObservation withdraws minutes for (session, category, date) in one transaction.
func SubtractObservation(ctx context.Context, w LedgerWrite) (*LedgerResult, error) {
	var res *LedgerResult
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = subtractObservation(tx, w)
		if err != nil {
			return err
		}
		_, err = upsertTextEntry(tx, w.SessionID, w.Date, w.Description, w.Location)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// upsertObservation gets or creates the day's record and the category's
// observation, adds minutes, and re-derives the day total from all observations.
// An existing observation keeps its source when the new source is "import".
func upsertObservation(tx *gorm.DB, w LedgerWrite) (*LedgerResult, error) {
	if w.Minutes <= 0 {
		return nil, fmt.Errorf("minutes must be positive, got %d: %w", w.Minutes, ErrInvalid)
	}
	if err := checkCategory(tx, w.SessionID, w.CategoryID); err != nil {
		return nil, err
	}

	record, err := getOrCreateDailyRecord(tx, w.SessionID, w.Date)
	if err != nil {
		return nil, err
	}

	var obs models.Observation
	err = tx.Where("daily_record_id = ? AND category_id = ?", record.ID, w.CategoryID).First(&obs).Error
	switch {
	case err == nil:
		obs.Minutes += w.Minutes
		if w.Source != models.SourceImport {
			obs.Source = w.Source
		}
		if err := tx.Save(&obs).Error; err != nil {
			return nil, translate(err, "update observation")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		obs = models.Observation{
			DailyRecordID: record.ID,
			CategoryID:    w.CategoryID,
			Minutes:       w.Minutes,
			Source:        w.Source,
		}
		if err := tx.Create(&obs).Error; err != nil {
			return nil, translate(err, "create observation")
		}
	default:
		return nil, fmt.Errorf("find observation: %w", err)
	}

	total, err := recomputeTotal(tx, record)
	if err != nil {
		return nil, err
	}

	log.Debug("ledger upsert", "session", w.SessionID, "category", w.CategoryID,
		"date", w.Date, "added", w.Minutes, "minutes", obs.Minutes, "day_total", total)

	return &LedgerResult{
		SessionID:     w.SessionID,
		CategoryID:    w.CategoryID,
		Date:          w.Date,
		ObservationID: obs.ID,
		Minutes:       obs.Minutes,
		Source:        obs.Source,
		DayTotal:      total,
	}, nil
}

// subtractObservation removes minutes from an observation, deleting it once it
// reaches zero. A missing record or observation is a no-op.
func subtractObservation(tx *gorm.DB, w LedgerWrite) (*LedgerResult, error) {
	if w.Minutes <= 0 {
		return nil, fmt.Errorf("minutes must be positive, got %d: %w", w.Minutes, ErrInvalid)
	}
	res := &LedgerResult{SessionID: w.SessionID, CategoryID: w.CategoryID, Date: w.Date}

	var record models.DailyRecord
	err := tx.Where("session_id = ? AND date = ?", w.SessionID, w.Date).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		res.Noop = true
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find daily record: %w", err)
	}

	var obs models.Observation
	err = tx.Where("daily_record_id = ? AND category_id = ?", record.ID, w.CategoryID).First(&obs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("ledger subtract found no observation", "session", w.SessionID,
			"category", w.CategoryID, "date", w.Date)
		res.Noop = true
		res.DayTotal = record.TotalMinutes
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find observation: %w", err)
	}

	obs.Minutes -= w.Minutes
	res.ObservationID = obs.ID
	res.Source = obs.Source
	if obs.Minutes <= 0 {
		if err := tx.Delete(&obs).Error; err != nil {
			return nil, fmt.Errorf("delete observation: %w", err)
		}
		res.Removed = true
	} else {
		if err := tx.Save(&obs).Error; err != nil {
			return nil, fmt.Errorf("update observation: %w", err)
		}
		res.Minutes = obs.Minutes
	}

	total, err := recomputeTotal(tx, &record)
	if err != nil {
		return nil, err
	}
	res.DayTotal = total

	log.Debug("ledger subtract", "session", w.SessionID, "category", w.CategoryID,
		"date", w.Date, "removed_minutes", w.Minutes, "day_total", total)

	return res, nil
}

func getOrCreateDailyRecord(tx *gorm.DB, sessionID uint, date string) (*models.DailyRecord, error) {
	var record models.DailyRecord
	err := tx.Where("session_id = ? AND date = ?", sessionID, date).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find daily record: %w", err)
	}

	day, week, err := parser.Weekday(date)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalid)
	}
	record = models.DailyRecord{
		SessionID:  sessionID,
		Date:       date,
		DayOfWeek:  day,
		WeekNumber: &week,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, translate(err, "create daily record")
	}
	return &record, nil
}

// recomputeTotal stores the fresh sum of the record's observations.
func recomputeTotal(tx *gorm.DB, record *models.DailyRecord) (int, error) {
	var total int
	err := tx.Model(&models.Observation{}).
		Where("daily_record_id = ?", record.ID).
		Select("COALESCE(SUM(minutes), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum observations: %w", err)
	}

	if err := tx.Model(record).Update("total_minutes", total).Error; err != nil {
		return 0, fmt.Errorf("update daily total: %w", err)
	}
	record.TotalMinutes = total
	return total, nil
}

// upsertTextEntry appends a description to the date's text entry and fills
// the location only if it was unset. Nothing happens without text.
func upsertTextEntry(tx *gorm.DB, sessionID uint, date, description, location string) (*models.TextEntry, error) {
	if description == "" && location == "" {
		return nil, nil
	}

	var entry models.TextEntry
	err := tx.Where("session_id = ? AND date = ?", sessionID, date).Order("id").First(&entry).Error
	switch {
	case err == nil:
		if description != "" {
			if entry.StudyMaterials != "" {
				entry.StudyMaterials += ", " + description
			} else {
				entry.StudyMaterials = description
			}
		}
		if location != "" && entry.Location == "" {
			entry.Location = location
		}
		if err := tx.Save(&entry).Error; err != nil {
			return nil, fmt.Errorf("update text entry: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.TextEntry{
			SessionID:      sessionID,
			Date:           date,
			Location:       location,
			StudyMaterials: description,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return nil, fmt.Errorf("create text entry: %w", err)
		}
	default:
		return nil, fmt.Errorf("find text entry: %w", err)
	}
	return &entry, nil
}

// checkCategory verifies the category exists and belongs to the session.
func checkCategory(tx *gorm.DB, sessionID, categoryID uint) error {
	var cat models.Category
	if err := tx.Select("id", "session_id").First(&cat, categoryID).Error; err != nil {
		return translate(err, fmt.Sprintf("category #%d", categoryID))
	}
	if cat.SessionID != sessionID {
		return fmt.Errorf("category #%d in session #%d: %w", categoryID, sessionID, ErrNotFound)
	}
	return nil
}
