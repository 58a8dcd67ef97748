package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/importer"
	"github.com/balkashynov/logbook/internal/models"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func samplePreview(n int) *importer.Preview {
	p := &importer.Preview{
		Token:        "tok",
		SourceFile:   "winter_2025.csv",
		Year:         2025,
		Season:       "winter",
		RowCount:     3,
		DateRange:    []string{"2025-01-06", "2025-01-08"},
		TotalMinutes: 135,
		Warnings:     []string{"merged 1 duplicate date rows"},
	}
	for i := 0; i < n; i++ {
		p.Categories = append(p.Categories, importer.CategoryPreview{
			Name:         "cat_" + string(rune('a'+i)),
			DisplayName:  "Cat " + string(rune('A'+i)),
			Position:     i,
			SourceLabels: []string{"Cat " + string(rune('A'+i))},
		})
	}
	return p
}

func TestPreviewModel_Confirm(t *testing.T) {
	m := NewPreviewModel(samplePreview(2))

	next, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	assert.True(t, next.(PreviewModel).confirmed)

	next, _ = m.Update(key("esc"))
	assert.False(t, next.(PreviewModel).confirmed)
	assert.True(t, next.(PreviewModel).cancelled)
}

func TestPreviewModel_SelectionPaging(t *testing.T) {
	m := NewPreviewModel(samplePreview(5))
	m.rowsPerPage = 2

	for i := 0; i < 3; i++ {
		next, _ := m.Update(key("down"))
		m = next.(PreviewModel)
	}
	assert.Equal(t, 3, m.selected)
	assert.Equal(t, 1, m.currentPage)

	// stops at the last row
	for i := 0; i < 5; i++ {
		next, _ := m.Update(key("down"))
		m = next.(PreviewModel)
	}
	assert.Equal(t, 4, m.selected)
	assert.Equal(t, 2, m.currentPage)

	next, _ := m.Update(key("h"))
	m = next.(PreviewModel)
	assert.Equal(t, 1, m.currentPage)
	assert.Equal(t, 2, m.selected)
}

func TestPreviewModel_View(t *testing.T) {
	m := NewPreviewModel(samplePreview(2))
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := next.(PreviewModel).View()
	assert.Contains(t, view, "winter_2025.csv")
	assert.Contains(t, view, "merged 1 duplicate date rows")
	assert.Contains(t, view, "2h 15m")
}

func runningTimer() *db.TimerResult {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	return &db.TimerResult{
		ID:           7,
		SessionID:    1,
		CategoryID:   2,
		CategoryName: "Reading",
		Date:         "2025-01-06",
		State:        models.TimerRunning,
		StartTime:    start,
	}
}

func TestTimerModel_StopPrompt(t *testing.T) {
	m := NewTimerModel(context.Background(), runningTimer())

	next, _ := m.Update(key("s"))
	m = next.(TimerModel)
	require.True(t, m.prompting)

	for _, r := range "chapter 3" {
		next, _ = m.Update(key(string(r)))
		m = next.(TimerModel)
	}
	next, cmd := m.Update(key("enter"))
	m = next.(TimerModel)
	require.NotNil(t, cmd)
	assert.Equal(t, actionStop, m.action)
	assert.Equal(t, "chapter 3", m.description.Value())
}

func TestTimerModel_PromptEscReturns(t *testing.T) {
	m := NewTimerModel(context.Background(), runningTimer())

	next, _ := m.Update(key("s"))
	next, _ = next.(TimerModel).Update(key("esc"))
	m = next.(TimerModel)
	assert.False(t, m.prompting)
	assert.False(t, m.done)
}

func TestTimerModel_DiscardNeedsConfirmation(t *testing.T) {
	m := NewTimerModel(context.Background(), runningTimer())

	next, _ := m.Update(key("d"))
	next, _ = next.(TimerModel).Update(key("n"))
	m = next.(TimerModel)
	assert.False(t, m.done)
	assert.Equal(t, actionDetach, m.action)

	next, _ = m.Update(key("d"))
	next, _ = next.(TimerModel).Update(key("y"))
	m = next.(TimerModel)
	assert.True(t, m.done)
	assert.Equal(t, actionDiscard, m.action)
}

func TestTimerModel_PausedView(t *testing.T) {
	timer := runningTimer()
	pauseStart := timer.StartTime.Add(10 * time.Minute)
	timer.State = models.TimerPaused
	timer.PauseStart = &pauseStart

	m := NewTimerModel(context.Background(), timer)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := next.(TimerModel).View()
	assert.Contains(t, view, "PAUSED")
	assert.Contains(t, view, "Reading")
	assert.Equal(t, 10*time.Minute, m.elapsedTime)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "1h 00m", FormatMinutes(60))
	assert.Equal(t, "2h 15m", FormatMinutes(135))
}

func TestShimmer_StaticWhenReduced(t *testing.T) {
	cfg := DefaultShimmerConfig()
	cfg.ReduceMotion = true
	s := NewShimmerState(cfg)

	assert.False(t, s.ShouldTick())
	out := s.RenderShimmerText("a very long category name", 10)
	assert.True(t, strings.Contains(out, "a very ..."))
}
