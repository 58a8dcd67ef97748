package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/taxonomy"
)

// FamilySummary is a family with its usage across all sessions.
type FamilySummary struct {
	models.CategoryFamily
	CategoryCount int `json:"category_count"`
	TotalMinutes  int `json:"total_minutes"`
}

// GetOrCreateFamily returns the family named key, creating it from the
// taxonomy's curated attributes on first use. The insert ignores a name
// conflict and re-reads, so two first uses in one transaction (or racing
// transactions) end up with a single row.
func GetOrCreateFamily(tx *gorm.DB, tax *taxonomy.Taxonomy, key string) (*models.CategoryFamily, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, fmt.Errorf("empty family key: %w", ErrInvalid)
	}

	var family models.CategoryFamily
	err := tx.Where("name = ?", key).First(&family).Error
	if err == nil {
		return &family, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find family: %w", err)
	}

	def := tax.Resolve(key)
	family = models.CategoryFamily{
		Name:        key,
		DisplayName: def.DisplayName,
		FamilyType:  def.Type,
		Color:       def.Color,
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&family).Error
	if err != nil {
		return nil, translate(err, "create family")
	}

	// Re-read: on conflict the row belongs to whoever inserted first.
	var stored models.CategoryFamily
	if err := tx.Where("name = ?", key).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("reload family: %w", err)
	}

	log.Debug("family created", "name", stored.Name, "type", stored.FamilyType)
	return &stored, nil
}

// FamilyExists reports whether a family named key is stored.
func FamilyExists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := DB.WithContext(ctx).Model(&models.CategoryFamily{}).
		Where("name = ?", strings.ToLower(strings.TrimSpace(key))).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count families: %w", err)
	}
	return count > 0, nil
}

// CreateFamilyRequest holds an explicit family definition.
type CreateFamilyRequest struct {
	Name        string
	DisplayName string
	FamilyType  string
	Color       string
	Description string
}

// CreateFamily stores a family defined by the user.
func CreateFamily(ctx context.Context, req CreateFamilyRequest) (*models.CategoryFamily, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		return nil, fmt.Errorf("family name is required: %w", ErrInvalid)
	}
	familyType := req.FamilyType
	if familyType == "" {
		familyType = taxonomy.TypeOther
	}
	if !taxonomy.ValidType(familyType) {
		return nil, fmt.Errorf("unknown family type %q: %w", familyType, ErrInvalid)
	}

	family := models.CategoryFamily{
		Name:        name,
		DisplayName: req.DisplayName,
		FamilyType:  familyType,
		Color:       req.Color,
		Description: req.Description,
	}
	if family.DisplayName == "" {
		family.DisplayName = req.Name
	}

	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CategoryFamily{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("family %q already exists: %w", name, ErrConflict)
		}
		return translate(tx.Create(&family).Error, "create family")
	})
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// ListFamilies returns all families ordered by name, with usage totals.
func ListFamilies(ctx context.Context) ([]FamilySummary, error) {
	var families []models.CategoryFamily
	if err := DB.WithContext(ctx).Order("name ASC").Find(&families).Error; err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}

	summaries := make([]FamilySummary, 0, len(families))
	for _, f := range families {
		s := FamilySummary{CategoryFamily: f}

		var count int64
		if err := DB.WithContext(ctx).Model(&models.Category{}).Where("family_id = ?", f.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count categories: %w", err)
		}
		s.CategoryCount = int(count)

		err := DB.WithContext(ctx).Model(&models.Observation{}).
			Joins("JOIN categories ON categories.id = observations.category_id").
			Where("categories.family_id = ?", f.ID).
			Select("COALESCE(SUM(observations.minutes), 0)").
			Scan(&s.TotalMinutes).Error
		if err != nil {
			return nil, fmt.Errorf("sum family minutes: %w", err)
		}

		summaries = append(summaries, s)
	}
	return summaries, nil
}

// DeleteFamily removes a family, unlinking its categories first.
// It returns how many categories were unlinked.
func DeleteFamily(ctx context.Context, id uint) (int, error) {
	var unlinked int64
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var family models.CategoryFamily
		if err := tx.First(&family, id).Error; err != nil {
			return translate(err, fmt.Sprintf("family #%d", id))
		}

		res := tx.Model(&models.Category{}).Where("family_id = ?", id).Update("family_id", nil)
		if res.Error != nil {
			return fmt.Errorf("unlink categories: %w", res.Error)
		}
		unlinked = res.RowsAffected

		if err := tx.Delete(&family).Error; err != nil {
			return fmt.Errorf("delete family: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("family deleted", "id", id, "categories_unlinked", unlinked)
	return int(unlinked), nil
}
