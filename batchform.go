// Package main provides the batch creation form modal.
//
// The form offers the fixed endpoint set and an input-file selection seeded
// from the browser's cached file rows.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"batchdeck/sdk/models"
)

// batchEndpoints is the fixed set of endpoints a batch may target
var batchEndpoints = []string{
	"/v1/chat/completions",
	"/v1/completions",
	"/v1/embeddings",
}

type batchFormModal struct {
	form     *huh.Form
	endpoint string
	fileID   string
}

func newBatchFormModal(files []models.File, defaultEndpoint string) *batchFormModal {
	m := &batchFormModal{
		endpoint: defaultEndpoint,
	}

	endpointOptions := make([]huh.Option[string], 0, len(batchEndpoints))
	for _, ep := range batchEndpoints {
		endpointOptions = append(endpointOptions, huh.NewOption(ep, ep))
	}

	fileOptions := make([]huh.Option[string], 0, len(files)+1)
	for _, f := range files {
		label := fmt.Sprintf("%s (%s)", orNA(f.Filename), f.ID)
		fileOptions = append(fileOptions, huh.NewOption(label, f.ID))
	}
	if len(fileOptions) == 0 {
		fileOptions = append(fileOptions, huh.NewOption("<no files uploaded>", ""))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("endpoint").
				Title("Endpoint").
				Description("Target endpoint for every request in the batch").
				Options(endpointOptions...).
				Value(&m.endpoint),

			huh.NewSelect[string]().
				Key("input_file").
				Title("Input file").
				Description("Uploaded .jsonl file holding the batch requests").
				Options(fileOptions...).
				Value(&m.fileID),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)

	return m
}

func (m *batchFormModal) Init() tea.Cmd {
	return m.form.Init()
}

func (m *batchFormModal) Update(msg tea.Msg) (modal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" {
			return m, dismissModal(modalCancelled{})
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, dismissModal(batchFormPayload{
			Endpoint:    m.form.GetString("endpoint"),
			InputFileID: m.form.GetString("input_file"),
		})
	case huh.StateAborted:
		return m, dismissModal(modalCancelled{})
	}

	return m, cmd
}

func (m *batchFormModal) View() string {
	return dialogStyle.Render(titleStyle.Render("Create Batch") + "\n\n" + m.form.View())
}
