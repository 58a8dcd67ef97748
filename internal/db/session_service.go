package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/parser"
)

// CreateSessionRequest holds the parameters for a new session
type CreateSessionRequest struct {
	Year      int
	Season    string
	Label     string
	StartDate string
	EndDate   string

	// ContinueFrom copies the categories of an existing session.
	ContinueFrom *uint
}

// SessionSummary is a session with its ledger size
type SessionSummary struct {
	models.Session
	CategoryCount int `json:"category_count"`
	DayCount      int `json:"day_count"`
	TotalMinutes  int `json:"total_minutes"`
}

// CreateSession creates an empty session, optionally seeded with the categories of another
func CreateSession(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	season := strings.ToLower(strings.TrimSpace(req.Season))
	if !parser.IsValidSeason(season) {
		return nil, fmt.Errorf("unknown season %q: %w", req.Season, ErrInvalid)
	}
	if req.Year <= 0 {
		return nil, fmt.Errorf("year must be positive: %w", ErrInvalid)
	}

	session := models.Session{
		Year:   req.Year,
		Season: season,
		Label:  req.Label,
	}
	if session.Label == "" {
		session.Label = parser.SessionLabel(req.Year, season)
	}
	for _, d := range []struct {
		raw string
		dst **string
	}{{req.StartDate, &session.StartDate}, {req.EndDate, &session.EndDate}} {
		if d.raw == "" {
			continue
		}
		t, err := parser.ParseDate(d.raw)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrInvalid)
		}
		s := parser.FormatDate(t)
		*d.dst = &s
	}

	var copied int
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Session{}).
			Where("year = ? AND season = ?", session.Year, session.Season).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("session %s already exists: %w", session.Label, ErrConflict)
		}

		if err := tx.Create(&session).Error; err != nil {
			return translate(err, "create session")
		}

		if req.ContinueFrom == nil {
			return nil
		}

		var source []models.Category
		if err := tx.Where("session_id = ?", *req.ContinueFrom).Order("position ASC, id ASC").Find(&source).Error; err != nil {
			return fmt.Errorf("load categories to copy: %w", err)
		}
		if len(source) == 0 {
			var exists int64
			if err := tx.Model(&models.Session{}).Where("id = ?", *req.ContinueFrom).Count(&exists).Error; err != nil {
				return fmt.Errorf("check session to copy: %w", err)
			}
			if exists == 0 {
				return fmt.Errorf("session #%d: %w", *req.ContinueFrom, ErrNotFound)
			}
			return nil
		}

		categories := make([]models.Category, 0, len(source))
		for _, c := range source {
			categories = append(categories, models.Category{
				SessionID:   session.ID,
				Name:        c.Name,
				DisplayName: c.DisplayName,
				FamilyID:    c.FamilyID,
				Position:    c.Position,
			})
		}
		if err := tx.Create(&categories).Error; err != nil {
			return translate(err, "copy categories")
		}
		copied = len(categories)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("session created", "id", session.ID, "label", session.Label, "categories_copied", copied)
	return &session, nil
}

// GetSession returns a session by id
func GetSession(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := DB.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("session #%d", id))
	}
	return &session, nil
}

// GetActiveSession returns the active session, if any
func GetActiveSession(ctx context.Context) (*models.Session, error) {
	var sessions []models.Session
	if err := DB.WithContext(ctx).Where("is_active = ?", true).Limit(1).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("find active session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil // No active session is not an error
	}
	return &sessions[0], nil
}

// ActivateSession makes id the only active session
func ActivateSession(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, id).Error; err != nil {
			return translate(err, fmt.Sprintf("session #%d", id))
		}
		if err := tx.Model(&models.Session{}).
			Where("is_active = ? AND id <> ?", true, id).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("clear active sessions: %w", err)
		}
		session.IsActive = true
		return tx.Model(&session).Update("is_active", true).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info("session activated", "id", session.ID, "label", session.Label)
	return &session, nil
}

// DeactivateSession clears the active flag of one session
func DeactivateSession(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, id).Error; err != nil {
			return translate(err, fmt.Sprintf("session #%d", id))
		}
		session.IsActive = false
		return tx.Model(&session).Update("is_active", false).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session and everything it owns
func DeleteSession(ctx context.Context, id uint) error {
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, id).Error; err != nil {
			return translate(err, fmt.Sprintf("session #%d", id))
		}

		records := tx.Model(&models.DailyRecord{}).Select("id").Where("session_id = ?", id)
		categories := tx.Model(&models.Category{}).Select("id").Where("session_id = ?", id)

		steps := []struct {
			what  string
			model any
			query string
			args  []any
		}{
			{"observations", &models.Observation{}, "daily_record_id IN (?)", []any{records}},
			{"timers", &models.TimerEntry{}, "session_id = ? OR category_id IN (?)", []any{id, categories}},
			{"manual entries", &models.ManualEntry{}, "session_id = ? OR category_id IN (?)", []any{id, categories}},
			{"text entries", &models.TextEntry{}, "session_id = ?", []any{id}},
			{"daily records", &models.DailyRecord{}, "session_id = ?", []any{id}},
			{"categories", &models.Category{}, "session_id = ?", []any{id}},
		}
		for _, s := range steps {
			if err := tx.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
				return fmt.Errorf("delete %s: %w", s.what, err)
			}
		}

		return tx.Delete(&session).Error
	})
	if err != nil {
		return err
	}

	log.Info("session deleted", "id", id)
	return nil
}

// ListSessions returns all sessions, newest period first
func ListSessions(ctx context.Context) ([]SessionSummary, error) {
	var sessions []models.Session
	if err := DB.WithContext(ctx).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].Year != sessions[j].Year {
			return sessions[i].Year > sessions[j].Year
		}
		return parser.SeasonRank(sessions[i].Season) > parser.SeasonRank(sessions[j].Season)
	})

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summary := SessionSummary{Session: s}

		var categories, days int64
		if err := DB.WithContext(ctx).Model(&models.Category{}).Where("session_id = ?", s.ID).Count(&categories).Error; err != nil {
			return nil, fmt.Errorf("count categories: %w", err)
		}
		if err := DB.WithContext(ctx).Model(&models.DailyRecord{}).Where("session_id = ?", s.ID).Count(&days).Error; err != nil {
			return nil, fmt.Errorf("count days: %w", err)
		}
		if err := DB.WithContext(ctx).Model(&models.DailyRecord{}).
			Where("session_id = ?", s.ID).
			Select("COALESCE(SUM(total_minutes), 0)").
			Scan(&summary.TotalMinutes).Error; err != nil {
			return nil, fmt.Errorf("sum minutes: %w", err)
		}
		summary.CategoryCount = int(categories)
		summary.DayCount = int(days)

		summaries = append(summaries, summary)
	}
	return summaries, nil
}
