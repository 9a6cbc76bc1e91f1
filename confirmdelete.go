// Package main provides the delete confirmation modal.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmDeleteModal struct {
	fileID   string
	filename string
	yes      bool
}

func newConfirmDeleteModal(fileID, filename string) *confirmDeleteModal {
	return &confirmDeleteModal{
		fileID:   fileID,
		filename: filename,
	}
}

func (m *confirmDeleteModal) Init() tea.Cmd {
	return nil
}

func (m *confirmDeleteModal) Update(msg tea.Msg) (modal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		return m, dismissModal(confirmPayload{Confirmed: true})
	case "n", "esc":
		return m, dismissModal(confirmPayload{Confirmed: false})
	case "left", "right", "tab":
		m.yes = !m.yes
		return m, nil
	case "enter":
		return m, dismissModal(confirmPayload{Confirmed: m.yes})
	}
	return m, nil
}

func (m *confirmDeleteModal) View() string {
	question := fmt.Sprintf("Delete file %s (%s)?", m.filename, m.fileID)

	buttonStyle := lipgloss.NewStyle().Padding(0, 2).Foreground(mutedColor)
	activeStyle := buttonStyle.Foreground(lipgloss.Color("230")).Background(dangerColor).Bold(true)

	deleteBtn := buttonStyle.Render("Delete file")
	cancelBtn := activeStyle.Background(accentColor).Render("Cancel")
	if m.yes {
		deleteBtn = activeStyle.Render("Delete file")
		cancelBtn = buttonStyle.Render("Cancel")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, deleteBtn, "  ", cancelBtn)
	body := question + "\n\n" + buttons + "\n\n" + helpStyle.UnsetMargins().Render("y: delete • n/esc: cancel")

	return dialogStyle.BorderForeground(dangerColor).Render(body)
}
