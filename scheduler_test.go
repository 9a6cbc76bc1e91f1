package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestScheduler_RunTagsResultWithGeneration(t *testing.T) {
	s := &scheduler{}

	cmd := s.Run(func() tea.Msg { return "done" })
	if s.Current() != 1 {
		t.Fatalf("expected generation 1, got %d", s.Current())
	}

	msg, ok := cmd().(genMsg)
	if !ok {
		t.Fatalf("expected genMsg, got %T", msg)
	}
	if msg.gen != 1 {
		t.Errorf("expected gen 1, got %d", msg.gen)
	}
	if msg.inner != "done" {
		t.Errorf("expected inner result, got %v", msg.inner)
	}
}

func TestScheduler_NewDispatchSupersedesInFlight(t *testing.T) {
	s := &scheduler{}

	first := s.Run(func() tea.Msg { return "first" })
	second := s.Run(func() tea.Msg { return "second" })

	firstMsg := first().(genMsg)
	secondMsg := second().(genMsg)

	if !s.Stale(firstMsg.gen) {
		t.Error("expected the superseded dispatch to be stale")
	}
	if s.Stale(secondMsg.gen) {
		t.Error("expected the latest dispatch to be current")
	}
}
