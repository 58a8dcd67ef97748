package models

import (
	"time"

	"gorm.io/datatypes"
)

// CategoryFamily groups categories across sessions (a project or a department).
type CategoryFamily struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	FamilyType  string `gorm:"default:other" json:"family_type"` // course, research, personal, other
}

// Category is a named activity within one session.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID   uint   `gorm:"not null;uniqueIndex:idx_category_session_name;index" json:"session_id"`
	Name        string `gorm:"not null;uniqueIndex:idx_category_session_name" json:"name"` // merge key
	DisplayName string `json:"display_name"`
	FamilyID    *uint  `gorm:"index" json:"family_id"`
	Position    int    `gorm:"default:0" json:"position"`

	// Raw sheet labels that were merged into this category on import.
	SourceLabels datatypes.JSONSlice[string] `json:"source_labels,omitempty"`

	// Relationships
	Family *CategoryFamily `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"family,omitempty"`
}

// Label returns the display name, falling back to the merge key.
func (c Category) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}
