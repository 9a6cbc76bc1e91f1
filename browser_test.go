package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"batchdeck/internal/config"
	batchapi "batchdeck/sdk"
	"batchdeck/sdk/models"
)

func newTestBrowser() browserModel {
	client := batchapi.NewClient("sk-test")
	return newBrowserModel(client, "default", config.DefaultSettings())
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// deliver applies an operation result as if the scheduler's current dispatch
// had completed.
func deliver(t *testing.T, m browserModel, inner tea.Msg) (browserModel, tea.Cmd) {
	t.Helper()
	return m.Update(genMsg{gen: m.sched.Current(), inner: inner})
}

func loadBatches(t *testing.T, m browserModel, batches []models.Batch) browserModel {
	t.Helper()
	_ = m.listCmd()
	m, _ = deliver(t, m, batchesListedMsg{batches: batches})
	return m
}

func loadFiles(t *testing.T, m browserModel, files []models.File) browserModel {
	t.Helper()
	_ = m.listCmd()
	m, _ = deliver(t, m, filesListedMsg{files: files})
	return m
}

func TestBrowser_StaleCompletionDiscarded(t *testing.T) {
	m := newTestBrowser()

	_ = m.listCmd()
	staleGen := m.sched.Current()
	_ = m.listCmd() // supersedes the first dispatch

	m, _ = m.Update(genMsg{gen: staleGen, inner: batchesListedMsg{
		batches: []models.Batch{{ID: "batch_old"}},
	}})
	if len(m.batchRows) != 0 {
		t.Fatal("stale listing must not touch screen state")
	}

	m, _ = deliver(t, m, batchesListedMsg{batches: []models.Batch{{ID: "batch_new"}}})
	if len(m.batchRows) != 1 || m.batchRows[0].ID != "batch_new" {
		t.Errorf("expected current listing applied, got %+v", m.batchRows)
	}
}

func TestBrowser_ModeSwitchClearsSelectionAndEligibility(t *testing.T) {
	m := newTestBrowser()
	m = loadBatches(t, m, []models.Batch{{ID: "batch_1", Status: "completed", CreatedAt: 100}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, batchResolvedMsg{
		key:        "batch_1",
		batch:      &models.Batch{ID: "batch_1", Status: "completed", OutputFileID: "file-out"},
		outputName: "out.jsonl",
	})

	if !m.canCancel || !m.canDownload {
		t.Fatal("expected a resolved batch to enable cancel and download")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if m.mode != modeFiles {
		t.Errorf("expected files mode after toggle, got %v", m.mode)
	}
	if m.sel.key != "" || m.sel.batch != nil {
		t.Error("expected selection cleared on mode switch")
	}
	if m.canCancel || m.canDownload || m.canDelete {
		t.Error("expected no eligible actions before the new listing resolves")
	}
	if len(m.rowKeys) != 0 {
		t.Error("expected cached rows cleared on mode switch")
	}
}

func TestBrowser_ListingIgnoredAfterModeSwitch(t *testing.T) {
	m := newTestBrowser()
	_ = m.listCmd()
	m.setMode(modeFiles)

	// The batches listing raced the toggle; its generation is current only
	// because no new dispatch happened yet, but the mode guard still applies.
	m, _ = deliver(t, m, batchesListedMsg{batches: []models.Batch{{ID: "batch_1"}}})
	if len(m.batchRows) != 0 {
		t.Error("expected a batches listing to be ignored in files mode")
	}
}

func TestBrowser_ListingLastWriteWinsByKey(t *testing.T) {
	m := newTestBrowser()
	m = loadBatches(t, m, []models.Batch{
		{ID: "batch_1", Status: "validating"},
		{ID: "batch_2", Status: "in_progress"},
		{ID: "batch_1", Status: "completed"},
	})

	if len(m.batchRows) != 2 {
		t.Fatalf("expected duplicate keys collapsed, got %d rows", len(m.batchRows))
	}
	if m.batchRows[0].Status != "completed" {
		t.Errorf("expected the later record to win, got %q", m.batchRows[0].Status)
	}
}

func TestBrowser_FileResolutionEnablesDownloadAndDelete(t *testing.T) {
	m := newTestBrowser()
	m.setMode(modeFiles)
	m = loadFiles(t, m, []models.File{{ID: "file-123", Filename: "in.jsonl", Bytes: 42}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, fileResolvedMsg{
		key:  "file-123",
		file: &models.File{ID: "file-123", Filename: "in.jsonl", Bytes: 42},
	})

	if !m.canDownload || !m.canDelete {
		t.Error("expected a resolved file to enable download and delete")
	}
	if m.canCancel {
		t.Error("cancel must never be eligible in files mode")
	}
	if m.sel.fileID != "file-123" || m.sel.fileName != "in.jsonl" {
		t.Errorf("unexpected selection context: %+v", m.sel)
	}
}

func TestBrowser_DetailForSupersededSelectionIgnored(t *testing.T) {
	m := newTestBrowser()
	m = loadBatches(t, m, []models.Batch{
		{ID: "batch_1", CreatedAt: 100},
		{ID: "batch_2", CreatedAt: 200},
	})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	// The user re-selects before the first detail fetch lands
	m.sel = selectionContext{key: "batch_2"}
	_ = m.detailCmd("batch_2")

	m, _ = deliver(t, m, batchResolvedMsg{
		key:   "batch_1",
		batch: &models.Batch{ID: "batch_1"},
	})
	if m.sel.batch != nil {
		t.Error("detail for a superseded selection must be dropped")
	}
	if m.canCancel {
		t.Error("superseded detail must not enable actions")
	}
}

func TestBrowser_DeleteFlowForResolvedFile(t *testing.T) {
	m := newTestBrowser()
	m.setMode(modeFiles)
	m = loadFiles(t, m, []models.File{{ID: "file-123", Filename: "in.jsonl"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, fileResolvedMsg{
		key:  "file-123",
		file: &models.File{ID: "file-123", Filename: "in.jsonl"},
	})

	m, _ = m.Update(keyRune('x'))
	if m.activeModal == nil {
		t.Fatal("expected delete to open a confirmation modal")
	}

	// Confirm; the modal dismisses with a typed payload
	m, cmd := m.Update(keyRune('y'))
	if cmd == nil {
		t.Fatal("expected a dismiss command from the modal")
	}
	m, cmd = m.Update(cmd())
	if m.activeModal != nil {
		t.Error("expected modal closed after its result was delivered")
	}
	if cmd == nil {
		t.Fatal("expected the confirmed continuation to dispatch the deletion")
	}

	m, cmd = deliver(t, m, fileDeletedMsg{deleted: true, filename: "in.jsonl"})
	if m.sel.key != "" || m.canDelete {
		t.Error("expected selection cleared after deletion")
	}
	if cmd == nil {
		t.Error("expected a re-list after deletion")
	}
	if !strings.Contains(m.notice, "deleted") {
		t.Errorf("unexpected notice: %q", m.notice)
	}
}

func TestBrowser_DeleteDeclinedDoesNotDispatch(t *testing.T) {
	m := newTestBrowser()
	m.setMode(modeFiles)
	m = loadFiles(t, m, []models.File{{ID: "file-123", Filename: "in.jsonl"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, fileResolvedMsg{
		key:  "file-123",
		file: &models.File{ID: "file-123", Filename: "in.jsonl"},
	})
	genBefore := m.sched.Current()

	m, _ = m.Update(keyRune('x'))
	m, cmd := m.Update(keyRune('n'))
	m, cmd = m.Update(cmd())

	if cmd == nil {
		t.Fatal("expected a notice command for the declined deletion")
	}
	if _, ok := cmd().(noticeMsg); !ok {
		t.Errorf("expected a notice, got %T", cmd())
	}
	if m.sched.Current() != genBefore {
		t.Error("declining must not dispatch a remote operation")
	}
}

func TestBrowser_DeleteUnavailableWithoutResolvedFile(t *testing.T) {
	m := newTestBrowser()
	m.setMode(modeFiles)
	m = loadFiles(t, m, []models.File{{ID: "file-123", Filename: "in.jsonl"}})

	m, _ = m.Update(keyRune('x'))
	if m.activeModal != nil {
		t.Error("delete must not open a modal before a file is resolved")
	}
	if m.notice == "" {
		t.Error("expected a notice explaining the ineligible action")
	}
}

func TestBrowser_CreateFlowReusesCachedFiles(t *testing.T) {
	m := newTestBrowser()
	m = loadBatches(t, m, []models.Batch{{ID: "batch_1"}})
	m.fileRows = []models.File{{ID: "file-1", Filename: "in.jsonl"}}

	m, _ = m.Update(keyRune('n'))
	if m.activeModal == nil {
		t.Fatal("expected the creation form to open from the cache")
	}
	if _, ok := m.activeModal.(*batchFormModal); !ok {
		t.Fatalf("expected batch form, got %T", m.activeModal)
	}

	m, cmd := m.Update(modalDoneMsg{result: batchFormPayload{
		Endpoint:    "/v1/embeddings",
		InputFileID: "file-1",
	}})
	if m.activeModal != nil {
		t.Error("expected form closed after submission")
	}
	if cmd == nil {
		t.Fatal("expected the submission to dispatch batch creation")
	}

	m, cmd = deliver(t, m, batchCreatedMsg{batch: &models.Batch{ID: "batch_new"}})
	if cmd == nil {
		t.Error("expected a re-list after creation")
	}
	if !strings.Contains(m.notice, "batch_new") {
		t.Errorf("unexpected notice: %q", m.notice)
	}
}

func TestBrowser_CreateWithEmptyCacheFetchesFilesFirst(t *testing.T) {
	m := newTestBrowser()
	m = loadBatches(t, m, []models.Batch{{ID: "batch_1"}})

	m, cmd := m.Update(keyRune('n'))
	if m.activeModal != nil {
		t.Fatal("form must wait for the file listing")
	}
	if cmd == nil {
		t.Fatal("expected a file listing dispatch")
	}

	m, _ = deliver(t, m, filesForCreateMsg{files: []models.File{{ID: "file-1", Filename: "in.jsonl"}}})
	if m.activeModal == nil {
		t.Fatal("expected the form to open once files arrived")
	}
	if len(m.fileRows) != 1 {
		t.Error("expected the fetched files cached for the form")
	}
}

func TestBrowser_CancelClearsSelectionAndRelists(t *testing.T) {
	m := newTestBrowser()
	m = loadBatches(t, m, []models.Batch{{ID: "batch_1", Status: "in_progress"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, batchResolvedMsg{
		key:   "batch_1",
		batch: &models.Batch{ID: "batch_1", Status: "in_progress"},
	})
	if !m.canCancel {
		t.Fatal("expected cancel eligible for a resolved batch")
	}

	m, cmd := m.Update(keyRune('c'))
	if cmd == nil {
		t.Fatal("expected a cancellation dispatch")
	}

	m, cmd = deliver(t, m, batchCancelledMsg{})
	if m.sel.key != "" || m.canCancel {
		t.Error("expected selection cleared after cancellation")
	}
	if cmd == nil {
		t.Error("expected a re-list after cancellation")
	}
}

func TestBrowser_RefreshClearsSelection(t *testing.T) {
	m := newTestBrowser()
	m = loadBatches(t, m, []models.Batch{{ID: "batch_1"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, batchResolvedMsg{key: "batch_1", batch: &models.Batch{ID: "batch_1"}})

	m, cmd := m.Update(keyRune('r'))
	if m.sel.key != "" || m.canCancel {
		t.Error("expected refresh to clear the selection")
	}
	if m.mode != modeBatches {
		t.Error("refresh must not change the mode")
	}
	if cmd == nil {
		t.Error("expected refresh to dispatch a listing")
	}
}

func TestBrowser_DownloadUnavailableWithoutOutput(t *testing.T) {
	m := newTestBrowser()
	m = loadBatches(t, m, []models.Batch{{ID: "batch_1", Status: "in_progress"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	// No output file yet
	m, _ = deliver(t, m, batchResolvedMsg{
		key:   "batch_1",
		batch: &models.Batch{ID: "batch_1", Status: "in_progress"},
	})

	genBefore := m.sched.Current()
	m, _ = m.Update(keyRune('d'))
	if m.sched.Current() != genBefore {
		t.Error("download must not dispatch without an output file")
	}
	if m.notice == "" {
		t.Error("expected a notice explaining the ineligible action")
	}
}

func TestBrowser_ContinuationDispatchShowsLoading(t *testing.T) {
	m := newTestBrowser()
	m.setMode(modeFiles)
	m = loadFiles(t, m, []models.File{{ID: "file-123", Filename: "in.jsonl"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, fileResolvedMsg{
		key:  "file-123",
		file: &models.File{ID: "file-123", Filename: "in.jsonl"},
	})
	m.loading = false

	m, _ = m.Update(keyRune('x'))
	m, _ = m.Update(modalDoneMsg{result: confirmPayload{Confirmed: true}})
	if !m.loading {
		t.Error("expected loading shown for an operation dispatched from a modal continuation")
	}

	// A declined confirmation dispatches nothing and must not show loading
	m, _ = deliver(t, m, fileDeletedMsg{deleted: true, filename: "in.jsonl"})
	m, _ = deliver(t, m, filesListedMsg{files: []models.File{{ID: "file-123", Filename: "in.jsonl"}}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, fileResolvedMsg{
		key:  "file-123",
		file: &models.File{ID: "file-123", Filename: "in.jsonl"},
	})
	m.loading = false
	m, _ = m.Update(keyRune('x'))
	m, _ = m.Update(modalDoneMsg{result: confirmPayload{Confirmed: false}})
	if m.loading {
		t.Error("loading must not be shown when the continuation dispatches nothing")
	}
}

func TestBrowser_ModalContinuationFiresOnce(t *testing.T) {
	m := newTestBrowser()
	m.setMode(modeFiles)
	m = loadFiles(t, m, []models.File{{ID: "file-123", Filename: "in.jsonl"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, fileResolvedMsg{
		key:  "file-123",
		file: &models.File{ID: "file-123", Filename: "in.jsonl"},
	})

	m, _ = m.Update(keyRune('x'))
	m, cmd := m.Update(modalDoneMsg{result: confirmPayload{Confirmed: true}})
	if cmd == nil {
		t.Fatal("expected the continuation to run on first dismissal")
	}
	genAfterFirst := m.sched.Current()

	// A duplicate dismissal must not re-run the continuation
	m, _ = m.Update(modalDoneMsg{result: confirmPayload{Confirmed: true}})
	if m.sched.Current() != genAfterFirst {
		t.Error("duplicate dismissal must not dispatch again")
	}
}

func TestBrowser_ModalCapturesInput(t *testing.T) {
	m := newTestBrowser()
	m.setMode(modeFiles)
	m = loadFiles(t, m, []models.File{{ID: "file-123", Filename: "in.jsonl"}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = deliver(t, m, fileResolvedMsg{
		key:  "file-123",
		file: &models.File{ID: "file-123", Filename: "in.jsonl"},
	})
	m, _ = m.Update(keyRune('x'))

	// 'r' normally refreshes; with the modal open it must not
	genBefore := m.sched.Current()
	m, _ = m.Update(keyRune('r'))
	if m.sched.Current() != genBefore {
		t.Error("screen keys must be suspended while a modal is open")
	}
	if m.activeModal == nil {
		t.Error("expected the modal to stay open")
	}
}
