package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/logbook/internal/importer"
)

// PreviewModel shows a staged import and asks for confirmation
type PreviewModel struct {
	width  int
	height int

	preview  *importer.Preview
	selected int

	// Shimmer effect for the selected category name
	shimmer *ShimmerState

	// Pagination
	currentPage int
	rowsPerPage int

	confirmed bool
	cancelled bool
}

// shimmerTickMsg is sent when shimmer should update
type shimmerTickMsg struct{}

// NewPreviewModel creates a new import preview model
func NewPreviewModel(preview *importer.Preview) PreviewModel {
	return PreviewModel{
		preview:     preview,
		shimmer:     NewShimmerState(DefaultShimmerConfig()),
		rowsPerPage: 10,
	}
}

// Init initializes the model
func (m PreviewModel) Init() tea.Cmd {
	if m.shimmer.ShouldTick() {
		return tea.Tick(m.shimmer.GetTickInterval(), func(time.Time) tea.Msg {
			return shimmerTickMsg{}
		})
	}
	return nil
}

// Update handles messages
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		if m.shimmer.ShouldTick() {
			return m, tea.Tick(m.shimmer.GetTickInterval(), func(time.Time) tea.Msg {
				return shimmerTickMsg{}
			})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// header, summary, pagination, help and borders
		m.rowsPerPage = max(m.height-14, 3)
		m.currentPage = m.selected / m.rowsPerPage
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirmed = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "up", "k":
			return m.moveSelection(-1), nil
		case "down", "j":
			return m.moveSelection(1), nil
		case "left", "h":
			return m.movePage(-1), nil
		case "right", "l":
			return m.movePage(1), nil
		}
	}

	return m, nil
}

// moveSelection moves the selection by delta and follows it across pages
func (m PreviewModel) moveSelection(delta int) PreviewModel {
	next := m.selected + delta
	if next < 0 || next >= len(m.preview.Categories) {
		return m
	}
	m.selected = next
	m.currentPage = m.selected / m.rowsPerPage
	m.shimmer.Reset()
	return m
}

// movePage flips a page and keeps the selection on it
func (m PreviewModel) movePage(delta int) PreviewModel {
	next := m.currentPage + delta
	if next < 0 || next >= m.pageCount() {
		return m
	}
	m.currentPage = next
	m.selected = min(m.currentPage*m.rowsPerPage, len(m.preview.Categories)-1)
	m.shimmer.Reset()
	return m
}

func (m PreviewModel) pageCount() int {
	return (len(m.preview.Categories) + m.rowsPerPage - 1) / m.rowsPerPage
}

// View renders the TUI
func (m PreviewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderCategoryTable(leftWidth),
		" ",
		m.renderSummary(rightWidth),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		"",
		m.renderHelpBar(),
	)
}

// renderCategoryTable renders the categories the import would create
func (m PreviewModel) renderCategoryTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render(fmt.Sprintf("📋 Categories (%d)", len(m.preview.Categories))))
	b.WriteString("\n\n")

	if len(m.preview.Categories) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("No activity columns found"))
		return m.framed(b.String(), width)
	}

	posWidth := 4
	familyWidth := 14
	nameWidth := max(width-4-posWidth-familyWidth-4, 16)

	columnHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Padding(0, 1)
	b.WriteString(columnHeaderStyle.Render(fmt.Sprintf("%-*s %-*s %-*s",
		posWidth, "#",
		nameWidth, "CATEGORY",
		familyWidth, "FAMILY")))
	b.WriteString("\n\n")

	start := m.currentPage * m.rowsPerPage
	end := min(start+m.rowsPerPage, len(m.preview.Categories))

	for i := start; i < end; i++ {
		c := m.preview.Categories[i]
		isSelected := i == m.selected

		name := truncate(c.DisplayName, nameWidth-1)
		if isSelected {
			name = m.shimmer.RenderShimmerText(name, nameWidth)
		}

		family := truncate(orDash(c.FamilyKey), familyWidth)
		familyColor := ColorSecondaryText
		switch {
		case c.FamilyKey == "":
			familyColor = ColorDisabledText
		case c.IsNewFamily:
			familyColor = ColorSuccess
		}

		row := fmt.Sprintf("%-*d %-*s %s",
			posWidth, c.Position,
			nameWidth, name,
			lipgloss.NewStyle().Foreground(lipgloss.Color(familyColor)).Render(family))

		if isSelected {
			b.WriteString(lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Background(lipgloss.Color(ColorCardBackground)).
				Bold(true).
				Padding(0, 1).
				Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if pages := m.pageCount(); pages > 1 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1).
			Render(fmt.Sprintf("Page %d/%d", m.currentPage+1, pages)))
	}

	return m.framed(b.String(), width)
}

// renderSummary renders the import totals, the selected category and warnings
func (m PreviewModel) renderSummary(width int) string {
	p := m.preview
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Width(width)
	b.WriteString(titleStyle.Render("📥 " + p.SourceFile))
	b.WriteString("\n\n")

	value := func(label, v, color string) {
		b.WriteString(label + ": ")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(v))
		b.WriteString("\n")
	}

	value("Session", fmt.Sprintf("%s %d", p.Season, p.Year), ColorAccentBright)
	if p.Label != "" {
		value("Label", p.Label, ColorSecondaryText)
	}
	if len(p.DateRange) == 2 {
		value("Dates", p.DateRange[0]+" → "+p.DateRange[1], ColorSecondaryText)
	} else {
		value("Dates", "none", ColorDisabledText)
	}
	value("Days", fmt.Sprintf("%d", p.RowCount), ColorSecondaryText)
	value("Total", FormatMinutes(p.TotalMinutes), ColorSuccess)
	if p.TextRowCount > 0 {
		value("Text rows", fmt.Sprintf("%d", p.TextRowCount), ColorSecondaryText)
	}
	if p.ExpiresAt != nil {
		value("Expires", p.ExpiresAt.Local().Format("15:04:05"), ColorWarning)
	}

	if m.selected < len(p.Categories) {
		c := p.Categories[m.selected]
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain)).Render(c.DisplayName))
		b.WriteString("\n")
		value("Key", c.Name, ColorSecondaryText)
		if c.FamilyKey != "" {
			family := c.FamilyDisplayName
			if c.IsNewFamily {
				family += " (new)"
			}
			value("Family", family, ColorAccentBright)
		}
		if len(c.SourceLabels) > 1 {
			value("Merged from", strings.Join(c.SourceLabels, ", "), ColorWarning)
		}
	}

	if len(p.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWarning)).
			Render(fmt.Sprintf("⚠️  Warnings (%d)", len(p.Warnings))))
		b.WriteString("\n")
		warnStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Width(width - 2)
		for _, w := range p.Warnings {
			b.WriteString(warnStyle.Render("· " + w))
			b.WriteString("\n")
		}
	}

	return m.framed(b.String(), width)
}

func (m PreviewModel) framed(content string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(content)
}

// renderHelpBar renders the help bar with hotkey hints
func (m PreviewModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render("↑/↓ nav · ←/→ page · y/enter import · n/esc cancel")
}

func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width > 3 {
		return s[:width-3] + "..."
	}
	return s[:width]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
