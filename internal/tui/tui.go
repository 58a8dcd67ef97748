package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/logbook/internal/importer"
)

var logo = []string{
	"██╗      ██████╗  ██████╗ ",
	"██║     ██╔═══██╗██╔════╝ ",
	"██║     ██║   ██║██║  ███╗",
	"██║     ██║   ██║██║   ██║",
	"███████╗╚██████╔╝╚██████╔╝",
	"╚══════╝ ╚═════╝  ╚═════╝ ",
}

// ConfirmImport shows the staged import and reports whether the user accepted it
func ConfirmImport(preview *importer.Preview) (bool, error) {
	p := tea.NewProgram(NewPreviewModel(preview), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(PreviewModel)
	return ok && m.confirmed, nil
}
