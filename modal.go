// Package main provides the modal result protocol for the batchdeck TUI.
//
// A modal is a transient, focus-capturing dialog that produces exactly one
// typed result or the cancellation sentinel. The browser screen binds a
// one-shot continuation at open time; the continuation runs at most once,
// when the modal emits modalDoneMsg.
package main

import tea "github.com/charmbracelet/bubbletea"

// modal is the dialog contract. While a modal is active the browser routes
// all input to it; it terminates by returning a modalDoneMsg command.
type modal interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (modal, tea.Cmd)
	View() string
}

// modalResult is the typed outcome of a dismissed modal
type modalResult interface {
	isModalResult()
}

// modalCancelled is the cancellation sentinel
type modalCancelled struct{}

// confirmPayload is the outcome of a confirmation dialog
type confirmPayload struct {
	Confirmed bool
}

// pathPayload carries the absolute path chosen in the path browser
type pathPayload struct {
	Path string
}

// batchFormPayload carries the batch creation form's values
type batchFormPayload struct {
	Endpoint    string
	InputFileID string
}

func (modalCancelled) isModalResult()   {}
func (confirmPayload) isModalResult()   {}
func (pathPayload) isModalResult()      {}
func (batchFormPayload) isModalResult() {}

// modalDoneMsg is emitted by a modal when it is dismissed
type modalDoneMsg struct {
	result modalResult
}

func dismissModal(result modalResult) tea.Cmd {
	return func() tea.Msg {
		return modalDoneMsg{result: result}
	}
}
