// Package main provides the credential selector screen.
//
// This is the front door: it lists the named profiles from the credential
// store and resolves the chosen one to an API token before the browser
// screen is constructed.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"batchdeck/internal/config"
)

type profileSelectedMsg struct {
	profile config.Profile
}

type profileItem struct {
	profile config.Profile
}

func (i profileItem) Title() string { return i.profile.Name }
func (i profileItem) Description() string {
	if !i.profile.Valid() {
		return "invalid or missing api_key"
	}
	return maskKey(i.profile.APIKey)
}
func (i profileItem) FilterValue() string { return i.profile.Name }

func maskKey(key string) string {
	if len(key) <= 8 {
		return "sk-..."
	}
	return key[:6] + "..." + key[len(key)-4:]
}

type keySelectModel struct {
	choices  list.Model
	storeMsg string
	err      string
	width    int
}

func newKeySelectModel() keySelectModel {
	path, err := config.CredentialsPath()
	if err != nil {
		return keySelectModel{storeMsg: fmt.Sprintf("Cannot resolve config path: %v", err)}
	}

	profiles, err := config.LoadProfiles(path)

	var items []list.Item
	var storeMsg string
	switch {
	case errors.Is(err, config.ErrConfigMissing):
		storeMsg = fmt.Sprintf("'%s' not found.\nCreate it and add your API keys.", path)
	case err != nil:
		storeMsg = fmt.Sprintf("Failed to read '%s': %v", path, err)
	case len(profiles) == 0:
		storeMsg = fmt.Sprintf("No profiles found in '%s'.", path)
	default:
		for _, p := range profiles {
			items = append(items, profileItem{profile: p})
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 15)
	l.Title = "Select API Key Profile"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return keySelectModel{
		choices:  l,
		storeMsg: storeMsg,
		width:    80,
	}
}

func (m keySelectModel) Init() tea.Cmd {
	return nil
}

func (m keySelectModel) Update(msg tea.Msg) (keySelectModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.choices.SetSize(msg.Width, 15)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			// Re-read the store so freshly added profiles show up
			return newKeySelectModel(), nil
		case "enter":
			selectedItem := m.choices.SelectedItem()
			if selectedItem == nil {
				return m, nil
			}
			item := selectedItem.(profileItem)
			if !item.profile.Valid() {
				m.err = fmt.Sprintf("Invalid or missing 'api_key' in profile '%s'.", item.profile.Name)
				return m, nil
			}
			m.err = ""
			profile := item.profile
			return m, func() tea.Msg {
				return profileSelectedMsg{profile: profile}
			}
		}
	}

	var cmd tea.Cmd
	m.choices, cmd = m.choices.Update(msg)
	return m, cmd
}

func (m keySelectModel) View() string {
	var body strings.Builder
	body.WriteString(renderAppHeader(""))
	body.WriteString("\n\n")

	if m.storeMsg != "" {
		body.WriteString(errorStyle.Render("⚠ " + m.storeMsg))
		body.WriteString("\n")
		body.WriteString(helpStyle.Render("r: reload • q: quit"))
		return body.String()
	}

	body.WriteString(m.choices.View())
	if m.err != "" {
		body.WriteString("\n")
		body.WriteString(errorStyle.Render("⚠ " + m.err))
	}
	body.WriteString("\n")
	body.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • r: reload • q: quit"))
	return body.String()
}
