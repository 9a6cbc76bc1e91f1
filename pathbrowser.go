// Package main provides the filesystem browser modal used to pick an upload
// source.
//
// Entries are listed directories-first, then case-insensitive by name.
// Activating a directory descends into it, the ".." entry ascends, and
// activating a file only marks it; an explicit confirm closes the modal with
// the marked file's absolute path.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type browseEntry struct {
	name  string
	isDir bool
	isUp  bool
}

func (e browseEntry) Title() string {
	if e.isUp {
		return ".. (upper)"
	}
	if e.isDir {
		return "> " + e.name
	}
	return e.name
}

func (e browseEntry) Description() string {
	if e.isDir || e.isUp {
		return "directory"
	}
	return "file"
}

func (e browseEntry) FilterValue() string { return e.name }

type pathBrowserModal struct {
	currentPath string
	entries     list.Model
	marked      string // filename marked for upload, relative to currentPath
	readErr     string
}

func newPathBrowserModal(startPath string) *pathBrowserModal {
	abs, err := filepath.Abs(startPath)
	if err != nil {
		abs = startPath
	}

	l := list.New(nil, list.NewDefaultDelegate(), 70, 18)
	l.Title = "Select file to upload"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	m := &pathBrowserModal{
		currentPath: abs,
		entries:     l,
	}
	m.refreshEntries()
	return m
}

// listDirEntries returns the directory's entries sorted with directories
// before files, then case-insensitive lexicographically.
func listDirEntries(path string) ([]browseEntry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]browseEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, browseEntry{
			name:  de.Name(),
			isDir: de.IsDir(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	return entries, nil
}

func (m *pathBrowserModal) refreshEntries() {
	m.readErr = ""
	m.marked = ""

	var items []list.Item
	if filepath.Dir(m.currentPath) != m.currentPath {
		items = append(items, browseEntry{isUp: true})
	}

	entries, err := listDirEntries(m.currentPath)
	if err != nil {
		m.readErr = err.Error()
	}
	for _, e := range entries {
		items = append(items, e)
	}

	m.entries.SetItems(items)
	m.entries.ResetSelected()
	m.entries.Title = "Select file to upload: " + m.currentPath
}

func (m *pathBrowserModal) Init() tea.Cmd {
	return nil
}

func (m *pathBrowserModal) Update(msg tea.Msg) (modal, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.entries.SetSize(msg.Width-10, 18)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, dismissModal(modalCancelled{})
		case "enter":
			selected := m.entries.SelectedItem()
			if selected == nil {
				return m, nil
			}
			entry := selected.(browseEntry)
			switch {
			case entry.isUp:
				m.currentPath = filepath.Dir(m.currentPath)
				m.refreshEntries()
			case entry.isDir:
				m.currentPath = filepath.Join(m.currentPath, entry.name)
				m.refreshEntries()
			default:
				m.marked = entry.name
			}
			return m, nil
		case "u":
			// Explicit confirm; falls back to the highlighted file when
			// nothing was marked yet.
			name := m.marked
			if name == "" {
				if selected := m.entries.SelectedItem(); selected != nil {
					if entry := selected.(browseEntry); !entry.isDir && !entry.isUp {
						name = entry.name
					}
				}
			}
			if name == "" {
				return m, nil
			}
			return m, dismissModal(pathPayload{Path: filepath.Join(m.currentPath, name)})
		}
	}

	var cmd tea.Cmd
	m.entries, cmd = m.entries.Update(msg)
	return m, cmd
}

func (m *pathBrowserModal) View() string {
	var sb strings.Builder
	sb.WriteString(m.entries.View())
	sb.WriteString("\n")
	if m.readErr != "" {
		sb.WriteString(errorStyle.Render("⚠ " + m.readErr))
		sb.WriteString("\n")
	}
	if m.marked != "" {
		sb.WriteString(noticeStyle.Render("Selected: " + m.marked))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("enter: open/select • u: upload selected • esc: cancel"))
	return dialogStyle.Render(sb.String())
}
