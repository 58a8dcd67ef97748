package models

import (
	"time"
)

// Observation sources.
const (
	SourceImport = "import"
	SourceTimer  = "timer"
	SourceManual = "manual"
)

// DailyRecord aggregates one (session, date). TotalMinutes always equals the
// sum of its observations' minutes.
type DailyRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID    uint   `gorm:"not null;uniqueIndex:idx_daily_session_date;index" json:"session_id"`
	Date         string `gorm:"not null;uniqueIndex:idx_daily_session_date;index" json:"date"` // YYYY-MM-DD
	DayOfWeek    string `json:"day_of_week"`
	WeekNumber   *int   `json:"week_number"`
	TotalMinutes int    `gorm:"not null;default:0" json:"total_minutes"`

	// Relationships
	Observations []Observation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"observations,omitempty"`
}

// Observation is the minutes logged for one category on one day.
type Observation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	DailyRecordID uint   `gorm:"not null;uniqueIndex:idx_observation_record_category;index" json:"daily_record_id"`
	CategoryID    uint   `gorm:"not null;uniqueIndex:idx_observation_record_category;index" json:"category_id"`
	Minutes       int    `gorm:"not null;default:0" json:"minutes"`
	Source        string `gorm:"default:import" json:"source"` // import, timer, manual
}

// TextEntry holds free-text notes for one (session, date).
type TextEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID      uint   `gorm:"not null;index" json:"session_id"`
	Date           string `gorm:"not null;index" json:"date"`
	Location       string `json:"location"`
	Notes          string `json:"notes"`
	StudyMaterials string `json:"study_materials"`
}
