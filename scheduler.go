// Package main provides the worker scheduler for the batchdeck TUI.
//
// The scheduler runs at most one screen-initiated remote operation at a time.
// Dispatching a new operation supersedes the previous one: in-flight HTTP
// calls are not aborted, but their completions arrive tagged with a stale
// generation and are discarded before they can touch screen state.
package main

import tea "github.com/charmbracelet/bubbletea"

// genMsg wraps an operation's result with the generation it was dispatched
// under. Consumers must discard it when the generation is stale.
type genMsg struct {
	gen   uint64
	inner tea.Msg
}

// scheduler tags each dispatched operation with a monotonic generation
// counter. Only the latest generation's completion may mutate screen state.
type scheduler struct {
	gen uint64
}

// Run dispatches op as a non-blocking command, superseding any operation
// still in flight.
func (s *scheduler) Run(op func() tea.Msg) tea.Cmd {
	s.gen++
	gen := s.gen
	return func() tea.Msg {
		return genMsg{gen: gen, inner: op()}
	}
}

// Current returns the live generation
func (s *scheduler) Current() uint64 {
	return s.gen
}

// Stale reports whether a completion from gen must be discarded
func (s *scheduler) Stale(gen uint64) bool {
	return gen != s.gen
}
