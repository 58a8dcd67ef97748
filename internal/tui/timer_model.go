package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/models"
)

// timerAction is what the user chose before leaving the timer screen
type timerAction int

const (
	actionDetach timerAction = iota // leave the timer as it is
	actionStop
	actionDiscard
)

// TimerModel represents the TUI model for a live timer
type TimerModel struct {
	ctx    context.Context
	width  int
	height int
	timer  *db.TimerResult

	elapsedTime time.Duration

	// Animation state
	timerAnimation int

	// Stop prompt
	prompting   bool
	description textinput.Model

	confirmDiscard bool
	action         timerAction
	done           bool
	err            error
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

// timerChangedMsg carries the result of a pause or resume
type timerChangedMsg struct {
	timer *db.TimerResult
	err   error
}

// NewTimerModel creates a new timer TUI model
func NewTimerModel(ctx context.Context, timer *db.TimerResult) TimerModel {
	input := textinput.New()
	input.Placeholder = "What did you work on? (Enter to skip)"
	input.CharLimit = 500
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))

	return TimerModel{
		ctx:         ctx,
		timer:       timer,
		elapsedTime: timer.Elapsed(db.Now()),
		description: input,
	}
}

// Init initializes the timer model
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsedTime = m.timer.Elapsed(db.Now())
		if m.done {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		// The hourglass only turns while the clock runs.
		if m.timer.State == models.TimerRunning {
			m.timerAnimation = (m.timerAnimation + 1) % 4
		}
		if m.done {
			return m, nil
		}
		return m, animationTick()

	case timerChangedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.timer = msg.timer
		m.elapsedTime = m.timer.Elapsed(db.Now())
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		if m.confirmDiscard {
			m.confirmDiscard = false
			if msg.String() == "y" || msg.String() == "Y" {
				m.action = actionDiscard
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "p", "P", " ":
			return m, m.togglePause()
		case "s", "S":
			m.prompting = true
			cmd := m.description.Focus()
			return m, cmd
		case "d", "D":
			m.confirmDiscard = true
			return m, nil
		case "ctrl+c", "esc", "q":
			m.action = actionDetach
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// updatePrompt handles keys while the stop description is being typed
func (m TimerModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.action = actionStop
		m.done = true
		return m, tea.Quit
	case "esc":
		m.prompting = false
		m.description.Blur()
		return m, nil
	case "ctrl+c":
		m.action = actionDetach
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.description, cmd = m.description.Update(msg)
	return m, cmd
}

// togglePause pauses a running timer or resumes a paused one
func (m TimerModel) togglePause() tea.Cmd {
	ctx, id, state := m.ctx, m.timer.ID, m.timer.State
	return func() tea.Msg {
		var (
			timer *db.TimerResult
			err   error
		)
		if state == models.TimerPaused {
			timer, err = db.ResumeTimer(ctx, id)
		} else {
			timer, err = db.PauseTimer(ctx, id)
		}
		return timerChangedMsg{timer: timer, err: err}
	}
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderTimerPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderDetailsPanel(rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		helpBar,
	)
}

// renderTimerPanel renders the clock panel
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	centered := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	var headerText string
	headerColor := ColorAccentBright
	if m.timer.State == models.TimerPaused {
		headerText = "⏸  PAUSED  ⏸"
		headerColor = ColorWarning
	} else {
		animChars := []string{"⏳", "⌛", "⏳", "⌛"}
		animChar := animChars[m.timerAnimation]
		headerText = fmt.Sprintf("%s  TRACKING TIME  %s", animChar, animChar)
	}
	components = append(components, centered.
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Render(headerText))

	categoryText := m.timer.CategoryName
	if len(categoryText) > width-4 && width > 7 {
		categoryText = categoryText[:width-7] + "..."
	}
	components = append(components, centered.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(categoryText))

	clockLines := strings.Split(m.renderBigClock(), "\n")
	for i, line := range clockLines {
		clockLines[i] = centered.Render(line)
	}
	components = append(components, strings.Join(clockLines, "\n"))

	info := fmt.Sprintf("Started at %s", m.timer.StartTime.Local().Format("15:04:05"))
	if m.timer.TotalPausedSeconds > 0 {
		info += fmt.Sprintf(" · paused %s", formatDuration(time.Duration(m.timer.TotalPausedSeconds)*time.Second))
	}
	components = append(components, centered.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render(info))

	if m.prompting {
		promptStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Padding(0, 1).
			Width(min(width-4, 60))
		components = append(components, centered.Render(promptStyle.Render(m.description.View())))
	}
	if m.confirmDiscard {
		components = append(components, centered.
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			Render("Discard this timer without logging time? y/N"))
	}
	if m.err != nil {
		components = append(components, centered.
			Foreground(lipgloss.Color(ColorError)).
			Render("❌ "+m.err.Error()))
	}

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(strings.Join(components, "\n\n"))
}

// bigDigits is a 5-row block font for the clock
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders the elapsed time in block digits
func (m TimerModel) renderBigClock() string {
	duration := m.elapsedTime
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	timeStr := fmt.Sprintf("%02d:%02d", minutes, seconds)
	if hours > 0 {
		timeStr = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	var lines [5]strings.Builder
	for _, char := range timeStr {
		art, ok := bigDigits[char]
		if !ok {
			continue
		}
		for i := range art {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	color := ColorAccentBright
	if m.timer.State == models.TimerPaused {
		color = ColorDisabledText
	}
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

// renderDetailsPanel renders the right panel with the timer's ledger context
func (m TimerModel) renderDetailsPanel(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")

	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width - 8)
	b.WriteString(logoStyle.Render(strings.Join(logo, "\n")))
	b.WriteString("\n\n")

	separatorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBorder)).
		Align(lipgloss.Center).
		Width(width - 8)
	b.WriteString(separatorStyle.Render(strings.Repeat("─", min(width-12, 40))))
	b.WriteString("\n\n")

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-12).
		Padding(0, 1)
	b.WriteString(titleStyle.Render(m.timer.CategoryName))
	b.WriteString("\n\n")

	stateColor := ColorSuccess
	stateIcon := "●"
	if m.timer.State == models.TimerPaused {
		stateColor = ColorWarning
		stateIcon = "⏸"
	}

	rows := []struct {
		icon, label, value, color string
	}{
		{stateIcon, "State", m.timer.State, stateColor},
		{"📅", "Date", m.timer.Date, ColorSecondaryText},
		{"🗂", "Session", fmt.Sprintf("#%d", m.timer.SessionID), ColorAccentBright},
		{"⏱", "Timer", fmt.Sprintf("#%d", m.timer.ID), ColorAccentMain},
	}
	lineStyle := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width - 8)
	for _, r := range rows {
		line := fmt.Sprintf("%s %s: %s", r.icon, r.label,
			lipgloss.NewStyle().Foreground(lipgloss.Color(r.color)).Render(r.value))
		b.WriteString(lineStyle.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

// renderHelpBar renders the help bar at the bottom
func (m TimerModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "p pause/resume · s stop & log · d discard · esc/q exit (keep running)"
	if m.prompting {
		helpText = "enter save · esc back"
	}

	return helpStyle.Render(helpText)
}

// RunTimerTUI shows a live timer and applies the action chosen on exit
func RunTimerTUI(ctx context.Context, timer *db.TimerResult) error {
	model := NewTimerModel(ctx, timer)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(TimerModel)
	if !ok {
		return errors.New("unexpected timer model")
	}

	switch m.action {
	case actionStop:
		stopped, err := db.StopTimer(ctx, m.timer.ID, db.StopOptions{
			Description: strings.TrimSpace(m.description.Value()),
		})
		if err != nil {
			return fmt.Errorf("failed to stop timer: %w", err)
		}
		PrintStopped(stopped)
	case actionDiscard:
		if err := db.DiscardTimer(ctx, m.timer.ID); err != nil {
			return fmt.Errorf("failed to discard timer: %w", err)
		}
		fmt.Printf("🗑️  Discarded timer #%d for %s. Nothing was logged.\n", m.timer.ID, m.timer.CategoryName)
	default:
		fmt.Printf("\n💡 Timer #%d is still %s for %s.\n", m.timer.ID, m.timer.State, m.timer.CategoryName)
		fmt.Printf("   Use 'logbook timer status' to check it or 'logbook timer stop' to log it.\n")
	}

	return nil
}

// PrintStopped reports a stopped timer and the ledger it wrote to
func PrintStopped(t *db.TimerResult) {
	minutes := 0
	if t.DurationMinutes != nil {
		minutes = *t.DurationMinutes
	}
	fmt.Printf("⏹️  Stopped timer #%d for %s\n", t.ID, t.CategoryName)
	fmt.Printf("📊 Logged %s on %s\n", FormatMinutes(minutes), t.Date)
	if t.Ledger != nil {
		fmt.Printf("   %s now %s · day total %s\n",
			t.CategoryName, FormatMinutes(t.Ledger.Minutes), FormatMinutes(t.Ledger.DayTotal))
	}
}

// FormatMinutes renders whole minutes as 1h 05m or 45m
func FormatMinutes(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
