// Package main provides the root model that routes between the credential
// selector and the resource browser.
package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"batchdeck/internal/config"
	batchapi "batchdeck/sdk"
)

type appView int

const (
	viewKeySelect appView = iota
	viewBrowser
)

type appModel struct {
	view     appView
	settings config.Settings

	keySelect keySelectModel
	browser   browserModel
}

func newAppModel(settings config.Settings) appModel {
	return appModel{
		view:      viewKeySelect,
		settings:  settings,
		keySelect: newKeySelectModel(),
	}
}

func (m appModel) Init() tea.Cmd {
	return m.keySelect.Init()
}

// newAPIClient builds the gateway client for a validated profile.
// BATCHDECK_BASE_URL points the client at an alternate gateway, typically a
// local stub during development.
func newAPIClient(profile config.Profile) *batchapi.Client {
	opts := []batchapi.ClientOption{}
	if baseURL := os.Getenv("BATCHDECK_BASE_URL"); baseURL != "" {
		opts = append(opts, batchapi.WithBaseURL(baseURL))
	}
	return batchapi.NewClient(profile.APIKey, opts...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSelectedMsg:
		logDebug("profile %q selected", msg.profile.Name)
		m.browser = newBrowserModel(newAPIClient(msg.profile), msg.profile.Name, m.settings)
		m.view = viewBrowser
		return m, m.browser.Init()

	case changeKeyMsg:
		// Rebuild the selector so the credential store is re-read
		m.keySelect = newKeySelectModel()
		m.view = viewKeySelect
		return m, m.keySelect.Init()
	}

	var cmd tea.Cmd
	switch m.view {
	case viewBrowser:
		m.browser, cmd = m.browser.Update(msg)
	default:
		m.keySelect, cmd = m.keySelect.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	if m.view == viewBrowser {
		return m.browser.View()
	}
	return m.keySelect.View()
}
