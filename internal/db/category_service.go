package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/normalize"
	"github.com/balkashynov/logbook/internal/taxonomy"
)

// CreateCategoryRequest holds the parameters for a user-created category
type CreateCategoryRequest struct {
	SessionID uint
	Label     string
	// FamilyKey overrides classification. Empty means classify the display name.
	FamilyKey string
	// NoFamily leaves the category untagged even if the classifier matches.
	NoFamily bool
}

// CategorySummary is a category with its total logged minutes
type CategorySummary struct {
	models.Category
	TotalMinutes     int `json:"total_minutes"`
	ObservationCount int `json:"observation_count"`
}

// CreateCategory adds a category to a session. The name is the label's merge
// key, so "COGS 118C" and "cogs118c" cannot coexist in one session.
func CreateCategory(ctx context.Context, tax *taxonomy.Taxonomy, req CreateCategoryRequest) (*models.Category, error) {
	key, display := normalize.Normalize(req.Label)
	if key == "" {
		return nil, fmt.Errorf("category label is required: %w", ErrInvalid)
	}

	category := models.Category{
		SessionID:    req.SessionID,
		Name:         key,
		DisplayName:  display,
		SourceLabels: []string{strings.TrimSpace(req.Label)},
	}

	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, req.SessionID).Error; err != nil {
			return translate(err, fmt.Sprintf("session #%d", req.SessionID))
		}

		var count int64
		if err := tx.Model(&models.Category{}).
			Where("session_id = ? AND name = ?", req.SessionID, key).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("category %q already exists in %s: %w", display, session.Label, ErrConflict)
		}

		familyKey := req.FamilyKey
		if familyKey == "" && !req.NoFamily {
			familyKey, _ = tax.Classify(display)
		}
		if familyKey != "" {
			family, err := GetOrCreateFamily(tx, tax, familyKey)
			if err != nil {
				return err
			}
			category.FamilyID = &family.ID
			category.Family = family
		}

		var maxPos struct{ Max *int }
		if err := tx.Model(&models.Category{}).
			Where("session_id = ?", req.SessionID).
			Select("MAX(position) AS max").
			Scan(&maxPos).Error; err != nil {
			return fmt.Errorf("find last position: %w", err)
		}
		if maxPos.Max != nil {
			category.Position = *maxPos.Max + 1
		}

		// Family is already stored; don't let gorm upsert it again.
		return translate(tx.Omit("Family").Create(&category).Error, "create category")
	})
	if err != nil {
		return nil, err
	}

	log.Info("category created", "id", category.ID, "name", category.Name, "session", category.SessionID)
	return &category, nil
}

// GetCategory returns a category by id with its family
func GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := DB.WithContext(ctx).Preload("Family").First(&category, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("category #%d", id))
	}
	return &category, nil
}

// FindCategory resolves ref within a session: a numeric id, or any label
// whose merge key matches a category name.
func FindCategory(ctx context.Context, sessionID uint, ref string) (*models.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("category reference is required: %w", ErrInvalid)
	}

	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		category, err := GetCategory(ctx, uint(id))
		if err != nil {
			return nil, err
		}
		if category.SessionID != sessionID {
			return nil, fmt.Errorf("category #%d in session #%d: %w", id, sessionID, ErrNotFound)
		}
		return category, nil
	}

	var category models.Category
	err := DB.WithContext(ctx).Preload("Family").
		Where("session_id = ? AND name = ?", sessionID, normalize.Key(ref)).
		First(&category).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("category %q", ref))
	}
	return &category, nil
}

// ListCategories returns a session's categories in display order with totals
func ListCategories(ctx context.Context, sessionID uint) ([]CategorySummary, error) {
	var categories []models.Category
	err := DB.WithContext(ctx).Preload("Family").
		Where("session_id = ?", sessionID).
		Order("position ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	type total struct {
		CategoryID uint
		Minutes    int
		Count      int
	}
	var totals []total
	err = DB.WithContext(ctx).Model(&models.Observation{}).
		Joins("JOIN daily_records ON daily_records.id = observations.daily_record_id").
		Where("daily_records.session_id = ?", sessionID).
		Select("observations.category_id AS category_id, SUM(observations.minutes) AS minutes, COUNT(*) AS count").
		Group("observations.category_id").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("sum category minutes: %w", err)
	}
	byID := make(map[uint]total, len(totals))
	for _, t := range totals {
		byID[t.CategoryID] = t
	}

	summaries := make([]CategorySummary, 0, len(categories))
	for _, c := range categories {
		t := byID[c.ID]
		summaries = append(summaries, CategorySummary{
			Category:         c,
			TotalMinutes:     t.Minutes,
			ObservationCount: t.Count,
		})
	}
	return summaries, nil
}

// DeleteCategory removes a category that has no observations.
func DeleteCategory(ctx context.Context, id uint) error {
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return translate(err, fmt.Sprintf("category #%d", id))
		}

		var count int64
		if err := tx.Model(&models.Observation{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count observations: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("category %q has %d observations: %w", category.Label(), count, ErrConflict)
		}

		var active int64
		if err := tx.Model(&models.TimerEntry{}).
			Where("category_id = ? AND state IN ?", id, []string{models.TimerRunning, models.TimerPaused}).
			Count(&active).Error; err != nil {
			return fmt.Errorf("count timers: %w", err)
		}
		if active > 0 {
			return fmt.Errorf("category %q has an active timer: %w", category.Label(), ErrConflict)
		}

		if err := tx.Where("category_id = ?", id).Delete(&models.TimerEntry{}).Error; err != nil {
			return fmt.Errorf("delete timers: %w", err)
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.ManualEntry{}).Error; err != nil {
			return fmt.Errorf("delete manual entries: %w", err)
		}
		return tx.Delete(&category).Error
	})
	if errors.Is(err, ErrConflict) {
		log.Warn("category delete refused", "id", id, "err", err)
	}
	return err
}
