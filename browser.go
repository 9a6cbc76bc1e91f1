// Package main provides the resource browser screen, active after a
// credential profile is selected.
//
// The screen toggles between the batch and file collections, tracks the
// selected row and its resolved detail, and derives which actions are legal
// for the current view and selection. Every remote call is dispatched through
// the worker scheduler; completions are applied only when their generation
// and row key still match the current state.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"batchdeck/internal/config"
	batchapi "batchdeck/sdk"
	"batchdeck/sdk/models"
	"batchdeck/sdk/services"
)

type viewMode int

const (
	modeBatches viewMode = iota
	modeFiles
)

func (m viewMode) String() string {
	if m == modeFiles {
		return "files"
	}
	return "batches"
}

// changeKeyMsg asks the root model to return to the credential selector
type changeKeyMsg struct{}

// noticeMsg surfaces a transient, non-blocking notification
type noticeMsg struct {
	text string
}

func notify(format string, args ...interface{}) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg {
		return noticeMsg{text: text}
	}
}

// Operation results, always delivered wrapped in genMsg.
type batchesListedMsg struct {
	batches []models.Batch
	err     error
}

type filesListedMsg struct {
	files []models.File
	err   error
}

type batchResolvedMsg struct {
	key        string
	batch      *models.Batch
	inputName  string
	outputName string
	err        error
}

type fileResolvedMsg struct {
	key  string
	file *models.File
	err  error
}

type batchCreatedMsg struct {
	batch *models.Batch
	err   error
}

type batchCancelledMsg struct {
	err error
}

type fileUploadedMsg struct {
	file *models.File
	err  error
}

type fileDeletedMsg struct {
	deleted  bool
	filename string
	err      error
}

type fileDownloadedMsg struct {
	path string
	err  error
}

// filesForCreateMsg carries the fallback file listing fetched before the
// batch creation form opens on an empty cache.
type filesForCreateMsg struct {
	files []models.File
	err   error
}

// selectionContext tracks the selected row and its resolved detail
type selectionContext struct {
	key        string
	batch      *models.Batch
	file       *models.File
	fileID     string
	fileName   string
	inputName  string
	outputName string
}

type browserKeyMap struct {
	Toggle    key.Binding
	Select    key.Binding
	Primary   key.Binding
	Download  key.Binding
	Delete    key.Binding
	Cancel    key.Binding
	Refresh   key.Binding
	ChangeKey key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultBrowserKeyMap() browserKeyMap {
	return browserKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "batches/files"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Primary: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "create/upload"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel batch"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ChangeKey: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "change key"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k browserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Select, k.Primary, k.Refresh, k.Help, k.Quit}
}

func (k browserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Select, k.Refresh},
		{k.Primary, k.Download, k.Delete, k.Cancel},
		{k.ChangeKey, k.Help, k.Quit},
	}
}

func batchColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 34},
		{Title: "Status", Width: 12},
		{Title: "Created At", Width: 17},
	}
}

func fileColumns() []table.Column {
	return []table.Column{
		{Title: "Filename", Width: 26},
		{Title: "Size", Width: 9},
		{Title: "Purpose", Width: 11},
		{Title: "Created At", Width: 17},
	}
}

type browserModel struct {
	client   *batchapi.Client
	profile  string
	settings config.Settings

	mode      viewMode
	table     table.Model
	batchRows []models.Batch
	fileRows  []models.File
	rowKeys   []string

	sel         selectionContext
	canDownload bool
	canDelete   bool
	canCancel   bool

	sched   *scheduler
	loading bool
	spin    spinner.Model

	notice string

	activeModal modal
	onModalDone func(modalResult) tea.Cmd

	keys   browserKeyMap
	help   help.Model
	width  int
	height int
}

func newBrowserModel(client *batchapi.Client, profile string, settings config.Settings) browserModel {
	t := table.New(
		table.WithColumns(batchColumns()),
		table.WithHeight(14),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(accentColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("230")).Background(accentColor).Bold(true)
	t.SetStyles(styles)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return browserModel{
		client:   client,
		profile:  profile,
		settings: settings,
		mode:     modeBatches,
		table:    t,
		sched:    &scheduler{},
		spin:     s,
		keys:     defaultBrowserKeyMap(),
		help:     help.New(),
		width:    100,
		height:   30,
	}
}

func (m browserModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.listCmd())
}

// setMode switches the active collection, clearing the selection, the cached
// rows, and the selection-dependent actions before any listing arrives.
func (m *browserModel) setMode(mode viewMode) {
	m.mode = mode
	m.clearSelection()
	m.batchRows = nil
	m.fileRows = nil
	m.rowKeys = nil
	m.table.SetRows(nil)
	if mode == modeBatches {
		m.table.SetColumns(batchColumns())
	} else {
		m.table.SetColumns(fileColumns())
	}
	m.table.SetCursor(0)
}

func (m *browserModel) clearSelection() {
	m.sel = selectionContext{}
	m.canDownload = false
	m.canDelete = false
	m.canCancel = false
}

// listCmd dispatches the active mode's listing fetch
func (m *browserModel) listCmd() tea.Cmd {
	m.loading = true
	client := m.client
	if m.mode == modeBatches {
		limit := m.settings.BatchLimit
		return m.sched.Run(func() tea.Msg {
			batches, err := client.Batches.List(context.Background(), limit)
			return batchesListedMsg{batches: batches, err: err}
		})
	}
	return m.sched.Run(func() tea.Msg {
		files, err := client.Files.List(context.Background())
		return filesListedMsg{files: files, err: err}
	})
}

// lookupFilename resolves a file id to its filename as a best-effort
// enrichment; failure is not an error surface.
func lookupFilename(client *batchapi.Client, fileID string) (string, bool) {
	if fileID == "" {
		return "", false
	}
	meta, err := client.Files.Retrieve(context.Background(), fileID)
	if err != nil {
		logDebug("filename lookup failed for %s: %v", fileID, err)
		return "", false
	}
	return meta.Filename, true
}

func (m *browserModel) detailCmd(key string) tea.Cmd {
	m.loading = true
	client := m.client
	if m.mode == modeBatches {
		return m.sched.Run(func() tea.Msg {
			batch, err := client.Batches.Retrieve(context.Background(), key)
			if err != nil {
				return batchResolvedMsg{key: key, err: err}
			}
			inputName, _ := lookupFilename(client, batch.InputFileID)
			outputName, _ := lookupFilename(client, batch.OutputFileID)
			return batchResolvedMsg{key: key, batch: batch, inputName: inputName, outputName: outputName}
		})
	}
	return m.sched.Run(func() tea.Msg {
		file, err := client.Files.Retrieve(context.Background(), key)
		return fileResolvedMsg{key: key, file: file, err: err}
	})
}

func (m *browserModel) createBatchCmd(payload batchFormPayload) tea.Cmd {
	m.loading = true
	client := m.client
	return m.sched.Run(func() tea.Msg {
		batch, err := client.Batches.Create(context.Background(), services.CreateBatchParams{
			InputFileID: payload.InputFileID,
			Endpoint:    payload.Endpoint,
		})
		return batchCreatedMsg{batch: batch, err: err}
	})
}

func (m *browserModel) uploadCmd(path string) tea.Cmd {
	m.loading = true
	client := m.client
	return m.sched.Run(func() tea.Msg {
		file, err := client.Files.Upload(context.Background(), path, "batch")
		return fileUploadedMsg{file: file, err: err}
	})
}

func (m *browserModel) deleteCmd(fileID, filename string) tea.Cmd {
	m.loading = true
	client := m.client
	return m.sched.Run(func() tea.Msg {
		deleted, err := client.Files.Delete(context.Background(), fileID)
		return fileDeletedMsg{deleted: deleted, filename: filename, err: err}
	})
}

func (m *browserModel) cancelBatchCmd(batchID string) tea.Cmd {
	m.loading = true
	client := m.client
	return m.sched.Run(func() tea.Msg {
		_, err := client.Batches.Cancel(context.Background(), batchID)
		return batchCancelledMsg{err: err}
	})
}

func (m *browserModel) downloadCmd(fileID, filename string) tea.Cmd {
	m.loading = true
	client := m.client
	dir := m.settings.DownloadDir
	return m.sched.Run(func() tea.Msg {
		data, err := client.Files.Content(context.Background(), fileID)
		if err != nil {
			return fileDownloadedMsg{err: err}
		}
		path, err := saveDownload(dir, filename, data)
		return fileDownloadedMsg{path: path, err: err}
	})
}

func (m *browserModel) filesForCreateCmd() tea.Cmd {
	m.loading = true
	client := m.client
	return m.sched.Run(func() tea.Msg {
		files, err := client.Files.List(context.Background())
		return filesForCreateMsg{files: files, err: err}
	})
}

// openModal activates a modal and binds its one-shot continuation
func (m *browserModel) openModal(dialog modal, onResult func(modalResult) tea.Cmd) tea.Cmd {
	m.activeModal = dialog
	m.onModalDone = onResult
	return dialog.Init()
}

func (m *browserModel) openCreateForm() tea.Cmd {
	form := newBatchFormModal(m.fileRows, m.settings.DefaultEndpoint)
	return m.openModal(form, func(result modalResult) tea.Cmd {
		payload, ok := result.(batchFormPayload)
		if !ok {
			return nil
		}
		if payload.InputFileID == "" {
			return notify("Batch not created: no input file selected.")
		}
		return m.createBatchCmd(payload)
	})
}

func (m browserModel) Update(msg tea.Msg) (browserModel, tea.Cmd) {
	// While a modal is open the command surface is suspended; everything
	// routes into the modal until its continuation runs.
	if m.activeModal != nil {
		if done, ok := msg.(modalDoneMsg); ok {
			callback := m.onModalDone
			m.activeModal = nil
			m.onModalDone = nil
			if callback == nil {
				return m, nil
			}
			// The continuation holds a snapshot of the model; only the shared
			// scheduler reflects a dispatch, so derive the loading flag from it.
			genBefore := m.sched.Current()
			cmd := callback(done.result)
			if m.sched.Current() != genBefore {
				m.loading = true
			}
			return m, cmd
		}
		if _, ok := msg.(tea.WindowSizeMsg); !ok {
			dialog, cmd := m.activeModal.Update(msg)
			m.activeModal = dialog
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case genMsg:
		if m.sched.Stale(msg.gen) {
			logDebug("discarding stale completion (gen %d, current %d)", msg.gen, m.sched.Current())
			return m, nil
		}
		return m.handleOpResult(msg.inner)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browserModel) handleKey(msg tea.KeyMsg) (browserModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.ChangeKey):
		return m, func() tea.Msg { return changeKeyMsg{} }

	case key.Matches(msg, m.keys.Toggle):
		if m.mode == modeBatches {
			m.setMode(modeFiles)
		} else {
			m.setMode(modeBatches)
		}
		m.notice = fmt.Sprintf("Loading %s...", m.mode)
		cmd := m.listCmd()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		m.clearSelection()
		m.notice = fmt.Sprintf("Loading %s...", m.mode)
		cmd := m.listCmd()
		return m, cmd

	case key.Matches(msg, m.keys.Select):
		if len(m.rowKeys) == 0 || m.table.Cursor() >= len(m.rowKeys) {
			return m, nil
		}
		m.clearSelection()
		m.sel.key = m.rowKeys[m.table.Cursor()]
		cmd := m.detailCmd(m.sel.key)
		return m, cmd

	case key.Matches(msg, m.keys.Primary):
		if m.mode == modeFiles {
			cmd := m.openModal(newPathBrowserModal("."), func(result modalResult) tea.Cmd {
				payload, ok := result.(pathPayload)
				if !ok {
					return nil
				}
				return m.uploadCmd(payload.Path)
			})
			return m, cmd
		}
		if len(m.fileRows) == 0 {
			cmd := m.filesForCreateCmd()
			return m, cmd
		}
		cmd := m.openCreateForm()
		return m, cmd

	case key.Matches(msg, m.keys.Download):
		if !m.canDownload || m.sel.fileID == "" {
			m.notice = "Download unavailable: resolve an item with output first."
			return m, nil
		}
		name := m.sel.fileName
		if name == "" {
			name = m.sel.fileID
		}
		m.notice = fmt.Sprintf("Downloading %s...", name)
		cmd := m.downloadCmd(m.sel.fileID, name)
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if m.mode != modeFiles || !m.canDelete || m.sel.fileID == "" {
			m.notice = "Delete unavailable: resolve a file first."
			return m, nil
		}
		fileID := m.sel.fileID
		name := m.sel.fileName
		cmd := m.openModal(newConfirmDeleteModal(fileID, name), func(result modalResult) tea.Cmd {
			payload, ok := result.(confirmPayload)
			if !ok || !payload.Confirmed {
				return notify("File deletion cancelled.")
			}
			return m.deleteCmd(fileID, name)
		})
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		if m.mode != modeBatches || !m.canCancel || m.sel.batch == nil {
			m.notice = "Cancel unavailable: resolve a batch first."
			return m, nil
		}
		m.notice = fmt.Sprintf("Cancelling batch %s...", m.sel.batch.ID)
		cmd := m.cancelBatchCmd(m.sel.batch.ID)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleOpResult applies a current-generation operation result
func (m browserModel) handleOpResult(inner tea.Msg) (browserModel, tea.Cmd) {
	m.loading = false

	switch msg := inner.(type) {
	case batchesListedMsg:
		if msg.err != nil {
			m.notice = "API error: " + msg.err.Error()
			return m, nil
		}
		if m.mode != modeBatches {
			return m, nil
		}
		m.applyBatchListing(msg.batches)
		m.notice = fmt.Sprintf("%d batches.", len(m.batchRows))
		return m, nil

	case filesListedMsg:
		if msg.err != nil {
			m.notice = "API error: " + msg.err.Error()
			return m, nil
		}
		if m.mode != modeFiles {
			return m, nil
		}
		m.applyFileListing(msg.files)
		m.notice = fmt.Sprintf("%d files.", len(m.fileRows))
		return m, nil

	case batchResolvedMsg:
		if msg.err != nil {
			m.notice = "API error: " + msg.err.Error()
			return m, nil
		}
		// Stale selection: the user moved on while the fetch was in flight
		if m.mode != modeBatches || msg.key != m.sel.key {
			return m, nil
		}
		m.sel.batch = msg.batch
		m.sel.inputName = msg.inputName
		m.sel.outputName = msg.outputName
		m.canCancel = true
		if msg.batch.OutputFileID != "" {
			m.canDownload = true
			m.sel.fileID = msg.batch.OutputFileID
			m.sel.fileName = msg.outputName
		}
		m.notice = ""
		return m, nil

	case fileResolvedMsg:
		if msg.err != nil {
			m.notice = "API error: " + msg.err.Error()
			return m, nil
		}
		if m.mode != modeFiles || msg.key != m.sel.key {
			return m, nil
		}
		m.sel.file = msg.file
		m.sel.fileID = msg.file.ID
		m.sel.fileName = msg.file.Filename
		if m.sel.fileName == "" {
			m.sel.fileName = msg.file.ID
		}
		m.canDownload = true
		m.canDelete = true
		m.notice = ""
		return m, nil

	case batchCreatedMsg:
		if msg.err != nil {
			m.notice = "API error: " + msg.err.Error()
			return m, nil
		}
		m.notice = fmt.Sprintf("Batch %s created.", msg.batch.ID)
		cmd := m.listCmd()
		return m, cmd

	case batchCancelledMsg:
		if msg.err != nil {
			m.notice = "API error: " + msg.err.Error()
			return m, nil
		}
		// Acknowledgment shape varies; no error means accepted
		m.notice = "Cancellation requested."
		m.clearSelection()
		cmd := m.listCmd()
		return m, cmd

	case fileUploadedMsg:
		if msg.err != nil {
			m.notice = "Upload failed: " + msg.err.Error()
			return m, nil
		}
		m.notice = fmt.Sprintf("File %s uploaded.", orNA(msg.file.Filename))
		cmd := m.listCmd()
		return m, cmd

	case fileDeletedMsg:
		if msg.err != nil {
			m.notice = "API error: " + msg.err.Error()
			return m, nil
		}
		if msg.deleted {
			m.notice = fmt.Sprintf("File %s deleted.", msg.filename)
		} else {
			m.notice = fmt.Sprintf("Failed to delete file %s.", msg.filename)
		}
		m.clearSelection()
		cmd := m.listCmd()
		return m, cmd

	case fileDownloadedMsg:
		if msg.err != nil {
			m.notice = "Download failed: " + msg.err.Error()
			return m, nil
		}
		m.notice = "Saved to " + msg.path
		return m, nil

	case filesForCreateMsg:
		if msg.err != nil {
			m.notice = "API error: " + msg.err.Error()
			return m, nil
		}
		m.fileRows = msg.files
		cmd := m.openCreateForm()
		return m, cmd
	}

	return m, nil
}

// applyBatchListing replaces the cached batch rows, last-write-wins by key
func (m *browserModel) applyBatchListing(batches []models.Batch) {
	index := make(map[string]int, len(batches))
	rows := make([]models.Batch, 0, len(batches))
	for _, b := range batches {
		if i, ok := index[b.ID]; ok {
			rows[i] = b
			continue
		}
		index[b.ID] = len(rows)
		rows = append(rows, b)
	}

	m.batchRows = rows
	m.rowKeys = make([]string, len(rows))
	tableRows := make([]table.Row, len(rows))
	for i, b := range rows {
		m.rowKeys[i] = b.ID
		tableRows[i] = table.Row{b.ID, b.Status, formatEpoch(b.CreatedAt)}
	}
	m.table.SetRows(tableRows)
	m.table.SetCursor(0)
}

// applyFileListing replaces the cached file rows, last-write-wins by key
func (m *browserModel) applyFileListing(files []models.File) {
	index := make(map[string]int, len(files))
	rows := make([]models.File, 0, len(files))
	for _, f := range files {
		if i, ok := index[f.ID]; ok {
			rows[i] = f
			continue
		}
		index[f.ID] = len(rows)
		rows = append(rows, f)
	}

	m.fileRows = rows
	m.rowKeys = make([]string, len(rows))
	tableRows := make([]table.Row, len(rows))
	for i, f := range rows {
		m.rowKeys[i] = f.ID
		tableRows[i] = table.Row{
			orNA(f.Filename),
			humanize.IBytes(uint64(f.Bytes)),
			f.Purpose,
			formatEpoch(f.CreatedAt),
		}
	}
	m.table.SetRows(tableRows)
	m.table.SetCursor(0)
}

func (m browserModel) renderDetailPane() string {
	switch {
	case m.sel.batch != nil:
		return renderBatchDetail(m.sel.batch, m.sel.inputName, m.sel.outputName)
	case m.sel.file != nil:
		return renderFileDetail(m.sel.file)
	case m.sel.key != "":
		return fmt.Sprintf("Fetching %s...", m.sel.key)
	default:
		return "Select an item to view details."
	}
}

func (m browserModel) renderModeTabs() string {
	active := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(mutedColor)

	batches := inactive.Render("Batches")
	files := inactive.Render("Files")
	if m.mode == modeBatches {
		batches = active.Render("[ Batches ]")
	} else {
		files = active.Render("[ Files ]")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, batches, "  ", files)
}

func (m browserModel) View() string {
	if m.activeModal != nil {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.activeModal.View(),
		)
	}

	var sb strings.Builder
	sb.WriteString(renderAppHeader(m.profile))
	sb.WriteString("\n\n")
	sb.WriteString("  " + m.renderModeTabs())
	if m.loading {
		sb.WriteString("  " + m.spin.View() + " loading")
	}
	sb.WriteString("\n\n")

	detailWidth := m.width - 56
	if detailWidth < 30 {
		detailWidth = 30
	}
	detail := detailPaneStyle.Width(detailWidth).Render(m.renderDetailPane())
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), " ", detail))
	sb.WriteString("\n")

	if m.notice != "" {
		sb.WriteString(noticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return sb.String()
}
