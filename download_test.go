package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadPath_Naming(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"already suffixed", "results.jsonl", "results.jsonl"},
		{"suffix appended", "output", "output.jsonl"},
		{"separators flattened", "runs/july/output.jsonl", "runs_july_output.jsonl"},
		{"flattened and suffixed", "runs/output", "runs_output.jsonl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := downloadPath("downloads", tt.filename)
			want := filepath.Join("downloads", tt.want)
			if got != want {
				t.Errorf("downloadPath(%q) = %q, want %q", tt.filename, got, want)
			}
		})
	}
}

func TestSaveDownload_CreatesDirAndOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")

	path, err := saveDownload(dir, "output", []byte("first"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "output.jsonl" {
		t.Errorf("unexpected filename: %s", path)
	}

	// Same name again silently replaces the previous download
	path, err = saveDownload(dir, "output", []byte("second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read download: %v", err)
	}
	if string(content) != "second" {
		t.Errorf("expected overwrite, got %q", content)
	}
}
