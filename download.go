// Package main provides the local download path handling for file content.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const downloadExtension = ".jsonl"

// downloadPath derives the local output path for a remote filename. Path
// separators in the remote name are flattened and the batch output extension
// is appended when absent. Existing files at the path are overwritten.
func downloadPath(dir, filename string) string {
	safe := strings.ReplaceAll(filename, "/", "_")
	if !strings.HasSuffix(safe, downloadExtension) {
		safe += downloadExtension
	}
	return filepath.Join(dir, safe)
}

// saveDownload writes data under dir using the name derived from filename,
// creating dir when absent.
func saveDownload(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	path := downloadPath(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
