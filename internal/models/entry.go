package models

import (
	"time"
)

// Timer states.
const (
	TimerRunning = "running"
	TimerPaused  = "paused"
	TimerStopped = "stopped"
)

// TimerEntry is a live work session that produces one observation on stop.
// Discarded timers are deleted outright.
type TimerEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SessionID          uint       `gorm:"not null;index" json:"session_id"`
	CategoryID         uint       `gorm:"not null;index" json:"category_id"`
	Date               string     `gorm:"not null;index" json:"date"`
	State              string     `gorm:"not null;index;default:running" json:"state"`
	StartTime          time.Time  `gorm:"not null" json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	PauseStart         *time.Time `json:"pause_start"`
	TotalPausedSeconds int        `gorm:"default:0" json:"total_paused_seconds"`
	DurationMinutes    *int       `json:"duration_minutes"`
	Description        string     `json:"description"`
	Location           string     `json:"location"`

	// Relationships
	Category Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category"`
}

// Active reports whether the timer can still transition.
func (t TimerEntry) Active() bool {
	return t.State == TimerRunning || t.State == TimerPaused
}

// ManualEntry is a backfilled block of time. It owns exactly one ledger
// contribution, reversed when the entry is deleted.
type ManualEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID       uint   `gorm:"not null;index" json:"session_id"`
	CategoryID      uint   `gorm:"not null;index" json:"category_id"`
	Date            string `gorm:"not null;index" json:"date"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`
	Description     string `json:"description"`
	Location        string `json:"location"`

	// Relationships
	Category Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category"`
}
