package importer

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/parser"
)

// CommitResult summarizes what an import wrote.
type CommitResult struct {
	SessionID           uint     `json:"session_id"`
	SessionLabel        string   `json:"session_label"`
	Active              bool     `json:"active"`
	CategoriesCreated   int      `json:"categories_created"`
	DailyRecordsCreated int      `json:"daily_records_created"`
	ObservationsCreated int      `json:"observations_created"`
	TextEntriesCreated  int      `json:"text_entries_created"`
	TotalMinutes        int      `json:"total_minutes"`
	Warnings            []string `json:"warnings,omitempty"`
}

const batchSize = 200

// Commit writes a staged import in one transaction. The token is consumed
// whether or not the write succeeds; a failed commit must be staged again.
//
// It fails with db.ErrConflict when a session for the same year and season
// already exists. The new session is marked active when today falls within
// its date range; other sessions are left as they are.
func (s *Stager) Commit(ctx context.Context, token string) (*CommitResult, error) {
	staged, ok := s.take(token)
	if !ok {
		return nil, fmt.Errorf("token %s: %w", token, ErrUnknownToken)
	}

	res := &CommitResult{SessionLabel: staged.Label, Warnings: staged.Warnings}
	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.write(tx, staged, res)
	})
	if err != nil {
		s.opts.Logger.Error("import failed", "session", staged.Label, "file", staged.SourceFile, "err", err)
		return nil, err
	}

	s.opts.Logger.Info("import committed", "session", res.SessionLabel, "id", res.SessionID,
		"categories", res.CategoriesCreated, "days", res.DailyRecordsCreated,
		"observations", res.ObservationsCreated, "text", res.TextEntriesCreated)
	return res, nil
}

func (s *Stager) write(tx *gorm.DB, staged *Staged, res *CommitResult) error {
	var existing int64
	if err := tx.Model(&models.Session{}).
		Where("year = ? AND season = ?", staged.Year, staged.Season).
		Count(&existing).Error; err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("session %s already exists: %w", staged.Label, db.ErrConflict)
	}

	session := models.Session{
		Year:       staged.Year,
		Season:     staged.Season,
		Label:      staged.Label,
		SourceFile: staged.SourceFile,
	}
	if start, end := staged.DateRange(); start != "" {
		session.StartDate = &start
		session.EndDate = &end
		today := parser.FormatDate(s.opts.Now())
		session.IsActive = start <= today && today <= end
	}
	if err := tx.Create(&session).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	res.SessionID = session.ID
	res.Active = session.IsActive

	categoryIDs := make(map[string]uint, len(staged.Categories))
	for _, c := range staged.Categories {
		category := models.Category{
			SessionID:    session.ID,
			Name:         c.Name,
			DisplayName:  c.DisplayName,
			Position:     c.Position,
			SourceLabels: c.SourceLabels,
		}
		if c.FamilyKey != "" {
			family, err := db.GetOrCreateFamily(tx, s.tax, c.FamilyKey)
			if err != nil {
				return err
			}
			category.FamilyID = &family.ID
		}
		if err := tx.Omit("Family").Create(&category).Error; err != nil {
			return fmt.Errorf("create category %q: %w", c.Name, err)
		}
		categoryIDs[c.Name] = category.ID
	}
	res.CategoriesCreated = len(categoryIDs)

	if len(staged.Days) > 0 {
		records := make([]models.DailyRecord, 0, len(staged.Days))
		for _, d := range staged.Days {
			records = append(records, models.DailyRecord{
				SessionID:    session.ID,
				Date:         d.Date,
				DayOfWeek:    d.DayOfWeek,
				WeekNumber:   d.WeekNumber,
				TotalMinutes: d.Total(),
			})
		}
		if err := tx.CreateInBatches(&records, batchSize).Error; err != nil {
			return fmt.Errorf("create daily records: %w", err)
		}
		res.DailyRecordsCreated = len(records)

		var observations []models.Observation
		for i, d := range staged.Days {
			res.TotalMinutes += records[i].TotalMinutes
			for key, minutes := range d.Minutes {
				id, ok := categoryIDs[key]
				if !ok || minutes <= 0 {
					continue
				}
				observations = append(observations, models.Observation{
					DailyRecordID: records[i].ID,
					CategoryID:    id,
					Minutes:       minutes,
					Source:        models.SourceImport,
				})
			}
		}
		if len(observations) > 0 {
			if err := tx.CreateInBatches(&observations, batchSize).Error; err != nil {
				return fmt.Errorf("create observations: %w", err)
			}
		}
		res.ObservationsCreated = len(observations)
	}

	if len(staged.Text) > 0 {
		entries := make([]models.TextEntry, 0, len(staged.Text))
		for _, t := range staged.Text {
			entries = append(entries, models.TextEntry{
				SessionID:      session.ID,
				Date:           t.Date,
				Location:       t.Location,
				Notes:          t.Notes,
				StudyMaterials: t.StudyMaterials,
			})
		}
		if err := tx.CreateInBatches(&entries, batchSize).Error; err != nil {
			return fmt.Errorf("create text entries: %w", err)
		}
		res.TextEntriesCreated = len(entries)
	}

	return nil
}
