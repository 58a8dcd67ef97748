package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
)

// ObservationView is one category's minutes on a day
type ObservationView struct {
	ID           uint   `json:"id"`
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Minutes      int    `json:"minutes"`
	Source       string `json:"source"`
}

// DayView is the ledger state of one (session, date)
type DayView struct {
	SessionID     uint                `json:"session_id"`
	Date          string              `json:"date"`
	DayOfWeek     string              `json:"day_of_week,omitempty"`
	WeekNumber    *int                `json:"week_number,omitempty"`
	TotalMinutes  int                 `json:"total_minutes"`
	Observations  []ObservationView   `json:"observations"`
	Text          *models.TextEntry   `json:"text,omitempty"`
	Timers        []TimerResult       `json:"timers"`
	ManualEntries []ManualEntryResult `json:"manual_entries"`
}

// GetDay collects the record, observations, text, finished timers and manual
// entries for a date. A date with nothing logged returns an empty view.
func GetDay(ctx context.Context, sessionID uint, date string) (*DayView, error) {
	view := &DayView{SessionID: sessionID, Date: date}

	var record models.DailyRecord
	err := DB.WithContext(ctx).Where("session_id = ? AND date = ?", sessionID, date).First(&record).Error
	switch {
	case err == nil:
		view.DayOfWeek = record.DayOfWeek
		view.WeekNumber = record.WeekNumber
		view.TotalMinutes = record.TotalMinutes

		var rows []struct {
			ID          uint
			CategoryID  uint
			Name        string
			DisplayName string
			Minutes     int
			Source      string
		}
		err := DB.WithContext(ctx).Model(&models.Observation{}).
			Joins("LEFT JOIN categories ON categories.id = observations.category_id").
			Where("observations.daily_record_id = ?", record.ID).
			Select("observations.id, observations.category_id, categories.name, categories.display_name, observations.minutes, observations.source").
			Order("categories.position ASC, observations.id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("load observations: %w", err)
		}
		for _, r := range rows {
			name := r.DisplayName
			if name == "" {
				name = r.Name
			}
			view.Observations = append(view.Observations, ObservationView{
				ID:           r.ID,
				CategoryID:   r.CategoryID,
				CategoryName: name,
				Minutes:      r.Minutes,
				Source:       r.Source,
			})
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("find daily record: %w", err)
	}

	var text []models.TextEntry
	if err := DB.WithContext(ctx).Where("session_id = ? AND date = ?", sessionID, date).Order("id").Limit(1).Find(&text).Error; err != nil {
		return nil, fmt.Errorf("load text entry: %w", err)
	}
	if len(text) > 0 {
		view.Text = &text[0]
	}

	if view.Timers, err = TimersForDate(ctx, sessionID, date); err != nil {
		return nil, err
	}
	if view.ManualEntries, err = ListManualEntries(ctx, sessionID, date); err != nil {
		return nil, err
	}
	return view, nil
}
