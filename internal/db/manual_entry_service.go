package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/parser"
)

// CreateManualEntryRequest holds a backfilled block of time
type CreateManualEntryRequest struct {
	SessionID       uint
	CategoryID      uint
	Date            string // any format parser.ParseDate accepts
	DurationMinutes int
	Description     string
	Location        string
}

// ManualEntryResult is a manual entry as seen by callers
type ManualEntryResult struct {
	ID              uint      `json:"id"`
	SessionID       uint      `json:"session_id"`
	CategoryID      uint      `json:"category_id"`
	CategoryName    string    `json:"category_name"`
	Date            string    `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	Ledger *LedgerResult `json:"ledger,omitempty"`
}

// CreateManualEntry records the entry and adds its minutes to the ledger with
// source "manual", in one transaction.
func CreateManualEntry(ctx context.Context, req CreateManualEntryRequest) (*ManualEntryResult, error) {
	if req.DurationMinutes < 1 {
		return nil, fmt.Errorf("duration must be at least 1 minute: %w", ErrInvalid)
	}
	date, err := parser.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalid)
	}

	entry := models.ManualEntry{
		SessionID:       req.SessionID,
		CategoryID:      req.CategoryID,
		Date:            parser.FormatDate(date),
		DurationMinutes: req.DurationMinutes,
		Description:     strings.TrimSpace(req.Description),
		Location:        strings.TrimSpace(req.Location),
		CreatedAt:       Now(),
	}

	var ledger *LedgerResult
	err = DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, req.SessionID, req.CategoryID); err != nil {
			return err
		}
		if err := tx.Omit("Category").Create(&entry).Error; err != nil {
			return fmt.Errorf("create manual entry: %w", err)
		}

		var err error
		ledger, err = upsertObservation(tx, LedgerWrite{
			SessionID:  entry.SessionID,
			CategoryID: entry.CategoryID,
			Date:       entry.Date,
			Minutes:    entry.DurationMinutes,
			Source:     models.SourceManual,
		})
		if err != nil {
			return err
		}
		_, err = upsertTextEntry(tx, entry.SessionID, entry.Date, entry.Description, entry.Location)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Debug("manual entry created", "id", entry.ID, "minutes", entry.DurationMinutes, "date", entry.Date)
	return manualEntryResult(ctx, entry, ledger)
}

// DeleteManualEntry removes the entry and subtracts exactly its minutes
func DeleteManualEntry(ctx context.Context, id uint) (*LedgerResult, error) {
	var ledger *LedgerResult
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.ManualEntry
		if err := tx.First(&entry, id).Error; err != nil {
			return translate(err, fmt.Sprintf("manual entry #%d", id))
		}

		var err error
		ledger, err = subtractObservation(tx, LedgerWrite{
			SessionID:  entry.SessionID,
			CategoryID: entry.CategoryID,
			Date:       entry.Date,
			Minutes:    entry.DurationMinutes,
		})
		if err != nil {
			return err
		}
		return tx.Delete(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	log.Debug("manual entry deleted", "id", id, "day_total", ledger.DayTotal)
	return ledger, nil
}

// ListManualEntries returns a session's manual entries, newest first.
// An empty date lists every date.
func ListManualEntries(ctx context.Context, sessionID uint, date string) ([]ManualEntryResult, error) {
	query := DB.WithContext(ctx).Preload("Category").Where("session_id = ?", sessionID)
	if date != "" {
		query = query.Where("date = ?", date)
	}

	var entries []models.ManualEntry
	if err := query.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list manual entries: %w", err)
	}

	results := make([]ManualEntryResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, toManualEntryResult(e, nil))
	}
	return results, nil
}

func manualEntryResult(ctx context.Context, entry models.ManualEntry, ledger *LedgerResult) (*ManualEntryResult, error) {
	var category models.Category
	if err := DB.WithContext(ctx).First(&category, entry.CategoryID).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("category #%d", entry.CategoryID))
	}
	entry.Category = category
	res := toManualEntryResult(entry, ledger)
	return &res, nil
}

func toManualEntryResult(e models.ManualEntry, ledger *LedgerResult) ManualEntryResult {
	return ManualEntryResult{
		ID:              e.ID,
		SessionID:       e.SessionID,
		CategoryID:      e.CategoryID,
		CategoryName:    e.Category.Label(),
		Date:            e.Date,
		DurationMinutes: e.DurationMinutes,
		Description:     e.Description,
		Location:        e.Location,
		CreatedAt:       e.CreatedAt,
		Ledger:          ledger,
	}
}
