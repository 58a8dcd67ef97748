package models

import (
	"time"
)

// Session is one tracked period, identified by (year, season).
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Year       int     `gorm:"not null;uniqueIndex:idx_session_period" json:"year"`
	Season     string  `gorm:"not null;uniqueIndex:idx_session_period" json:"season"` // winter, spring, summer, fall
	Label      string  `json:"label"`
	StartDate  *string `json:"start_date"` // YYYY-MM-DD
	EndDate    *string `json:"end_date"`
	IsActive   bool    `gorm:"default:false;index" json:"is_active"`
	SourceFile string  `json:"source_file"`

	// Relationships
	Categories   []Category    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"categories,omitempty"`
	DailyRecords []DailyRecord `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TextEntries  []TextEntry   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
