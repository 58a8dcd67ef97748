package db

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/parser"
)

// TimerResult is a timer as seen by callers after a transition
type TimerResult struct {
	ID                 uint       `json:"id"`
	SessionID          uint       `json:"session_id"`
	CategoryID         uint       `json:"category_id"`
	CategoryName       string     `json:"category_name"`
	Date               string     `json:"date"`
	State              string     `json:"state"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	PauseStart         *time.Time `json:"pause_start,omitempty"`
	TotalPausedSeconds int        `json:"total_paused_seconds"`
	DurationMinutes    *int       `json:"duration_minutes,omitempty"`
	Description        string     `json:"description,omitempty"`
	Location           string     `json:"location,omitempty"`

	// Ledger is set when the transition wrote to the ledger (stop).
	Ledger *LedgerResult `json:"ledger,omitempty"`
}

// Elapsed returns the worked time at now, excluding pauses.
func (r TimerResult) Elapsed(now time.Time) time.Duration {
	end := now
	if r.EndTime != nil {
		end = *r.EndTime
	}
	paused := time.Duration(r.TotalPausedSeconds) * time.Second
	if r.PauseStart != nil {
		paused += end.Sub(*r.PauseStart)
	}
	if d := end.Sub(r.StartTime) - paused; d > 0 {
		return d
	}
	return 0
}

// StopOptions carries the optional text recorded when a timer stops
type StopOptions struct {
	Description string
	Location    string
}

// StartTimer starts a running timer for a category of the session, dated today
func StartTimer(ctx context.Context, sessionID, categoryID uint) (*TimerResult, error) {
	now := Now()
	timer := models.TimerEntry{
		SessionID:  sessionID,
		CategoryID: categoryID,
		Date:       parser.FormatDate(now),
		State:      models.TimerRunning,
		StartTime:  now,
	}

	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, sessionID, categoryID); err != nil {
			return err
		}
		return tx.Omit("Category").Create(&timer).Error
	})
	if err != nil {
		return nil, err
	}

	log.Debug("timer started", "id", timer.ID, "category", categoryID)
	return timerResult(ctx, &timer, nil)
}

// PauseTimer moves a running timer to paused
func PauseTimer(ctx context.Context, id uint) (*TimerResult, error) {
	return transition(ctx, id, func(tx *gorm.DB, timer *models.TimerEntry, now time.Time) (*LedgerResult, error) {
		if !timer.Active() {
			return nil, fmt.Errorf("timer #%d is %s: %w", id, timer.State, ErrInvalidTransition)
		}
		if timer.State == models.TimerPaused {
			return nil, fmt.Errorf("timer #%d already paused: %w", id, ErrInvalidTransition)
		}
		timer.State = models.TimerPaused
		timer.PauseStart = &now
		return nil, nil
	})
}

// ResumeTimer moves a paused timer back to running, banking the pause
func ResumeTimer(ctx context.Context, id uint) (*TimerResult, error) {
	return transition(ctx, id, func(tx *gorm.DB, timer *models.TimerEntry, now time.Time) (*LedgerResult, error) {
		if timer.State != models.TimerPaused || timer.PauseStart == nil {
			return nil, fmt.Errorf("timer #%d is not paused: %w", id, ErrInvalidTransition)
		}
		timer.TotalPausedSeconds += pausedSeconds(*timer.PauseStart, now)
		timer.State = models.TimerRunning
		timer.PauseStart = nil
		return nil, nil
	})
}

// StopTimer finishes a running or paused timer and logs its duration to the
// ledger with source "timer".
func StopTimer(ctx context.Context, id uint, opts StopOptions) (*TimerResult, error) {
	return transition(ctx, id, func(tx *gorm.DB, timer *models.TimerEntry, now time.Time) (*LedgerResult, error) {
		if !timer.Active() {
			return nil, fmt.Errorf("timer #%d is %s: %w", id, timer.State, ErrInvalidTransition)
		}

		paused := timer.TotalPausedSeconds
		if timer.State == models.TimerPaused && timer.PauseStart != nil {
			paused += pausedSeconds(*timer.PauseStart, now)
		}
		minutes := timerMinutes(timer.StartTime, now, paused)

		timer.State = models.TimerStopped
		timer.EndTime = &now
		timer.PauseStart = nil
		timer.TotalPausedSeconds = paused
		timer.DurationMinutes = &minutes
		timer.Description = opts.Description
		timer.Location = opts.Location

		res, err := upsertObservation(tx, LedgerWrite{
			SessionID:  timer.SessionID,
			CategoryID: timer.CategoryID,
			Date:       timer.Date,
			Minutes:    minutes,
			Source:     models.SourceTimer,
		})
		if err != nil {
			return nil, err
		}
		if _, err := upsertTextEntry(tx, timer.SessionID, timer.Date, opts.Description, opts.Location); err != nil {
			return nil, err
		}
		return res, nil
	})
}

// DiscardTimer deletes a timer without touching the ledger
func DiscardTimer(ctx context.Context, id uint) error {
	res := DB.WithContext(ctx).Delete(&models.TimerEntry{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete timer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("timer #%d: %w", id, ErrNotFound)
	}
	log.Debug("timer discarded", "id", id)
	return nil
}

// GetTimer returns a timer by id
func GetTimer(ctx context.Context, id uint) (*TimerResult, error) {
	var timer models.TimerEntry
	if err := DB.WithContext(ctx).Preload("Category").First(&timer, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("timer #%d", id))
	}
	return toTimerResult(&timer, nil), nil
}

// ActiveTimers returns the session's running and paused timers, newest first
func ActiveTimers(ctx context.Context, sessionID uint) ([]TimerResult, error) {
	var timers []models.TimerEntry
	err := DB.WithContext(ctx).Preload("Category").
		Where("session_id = ? AND state IN ?", sessionID, []string{models.TimerRunning, models.TimerPaused}).
		Order("start_time DESC").
		Find(&timers).Error
	if err != nil {
		return nil, fmt.Errorf("list active timers: %w", err)
	}
	return toTimerResults(timers), nil
}

// TimersForDate returns the session's stopped timers for a date, latest first
func TimersForDate(ctx context.Context, sessionID uint, date string) ([]TimerResult, error) {
	var timers []models.TimerEntry
	err := DB.WithContext(ctx).Preload("Category").
		Where("session_id = ? AND date = ? AND state = ?", sessionID, date, models.TimerStopped).
		Order("end_time DESC").
		Find(&timers).Error
	if err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}
	return toTimerResults(timers), nil
}

// transition loads a timer, applies fn and saves it in one transaction.
// A missing timer is ErrNotFound.
func transition(ctx context.Context, id uint, fn func(tx *gorm.DB, timer *models.TimerEntry, now time.Time) (*LedgerResult, error)) (*TimerResult, error) {
	now := Now()
	var (
		timer  models.TimerEntry
		ledger *LedgerResult
	)
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&timer, id).Error; err != nil {
			return translate(err, fmt.Sprintf("timer #%d", id))
		}

		var err error
		ledger, err = fn(tx, &timer, now)
		if err != nil {
			return err
		}
		return tx.Omit("Category").Save(&timer).Error
	})
	if err != nil {
		return nil, err
	}

	log.Debug("timer transition", "id", id, "state", timer.State)
	return timerResult(ctx, &timer, ledger)
}

// pausedSeconds truncates a pause to whole seconds.
func pausedSeconds(from, to time.Time) int {
	return int(to.Sub(from).Seconds())
}

// timerMinutes rounds worked time to the nearest minute, half to even, and
// never returns less than one.
func timerMinutes(start, end time.Time, pausedSeconds int) int {
	elapsed := end.Sub(start).Seconds() - float64(pausedSeconds)
	minutes := int(math.RoundToEven(elapsed / 60))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func timerResult(ctx context.Context, timer *models.TimerEntry, ledger *LedgerResult) (*TimerResult, error) {
	var category models.Category
	err := DB.WithContext(ctx).Select("id", "name", "display_name").First(&category, timer.CategoryID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load timer category: %w", err)
	}
	timer.Category = category
	return toTimerResult(timer, ledger), nil
}

func toTimerResult(timer *models.TimerEntry, ledger *LedgerResult) *TimerResult {
	return &TimerResult{
		ID:                 timer.ID,
		SessionID:          timer.SessionID,
		CategoryID:         timer.CategoryID,
		CategoryName:       timer.Category.Label(),
		Date:               timer.Date,
		State:              timer.State,
		StartTime:          timer.StartTime,
		EndTime:            timer.EndTime,
		PauseStart:         timer.PauseStart,
		TotalPausedSeconds: timer.TotalPausedSeconds,
		DurationMinutes:    timer.DurationMinutes,
		Description:        timer.Description,
		Location:           timer.Location,
		Ledger:             ledger,
	}
}

func toTimerResults(timers []models.TimerEntry) []TimerResult {
	results := make([]TimerResult, 0, len(timers))
	for i := range timers {
		results = append(results, *toTimerResult(&timers[i], nil))
	}
	return results
}
