// Package main provides detail pane rendering for the browser screen.
package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"batchdeck/sdk/models"
)

const timestampLayout = "2006-01-02 15:04"

// timelineEvent is one lifecycle timestamp of a batch
type timelineEvent struct {
	Label string
	At    int64
}

// batchTimeline collects the batch's non-zero lifecycle timestamps sorted
// ascending by epoch time.
func batchTimeline(b *models.Batch) []timelineEvent {
	candidates := []timelineEvent{
		{Label: "created", At: b.CreatedAt},
		{Label: "in progress", At: b.InProgressAt},
		{Label: "finalizing", At: b.FinalizingAt},
		{Label: "completed", At: b.CompletedAt},
		{Label: "failed", At: b.FailedAt},
		{Label: "expired", At: b.ExpiredAt},
		{Label: "cancelling", At: b.CancellingAt},
		{Label: "cancelled", At: b.CancelledAt},
	}

	var events []timelineEvent
	for _, e := range candidates {
		if e.At > 0 {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At < events[j].At
	})
	return events
}

func formatEpoch(epoch int64) string {
	return time.Unix(epoch, 0).Format(timestampLayout)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// renderBatchDetail assembles the detail pane text for a resolved batch.
// inputName and outputName are best-effort filename enrichments and may be
// empty.
func renderBatchDetail(b *models.Batch, inputName, outputName string) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("BATCH"))
	sb.WriteString("\n" + b.ID + "\n\n")
	sb.WriteString(fmt.Sprintf("Status:   %s\n", b.Status))
	sb.WriteString(fmt.Sprintf("Endpoint: %s\n\n", b.Endpoint))

	rc := b.RequestCounts
	sb.WriteString(fmt.Sprintf("Requests: %d/%d (failed %d)\n\n", rc.Completed, rc.Total, rc.Failed))

	sb.WriteString("Files:\n")
	sb.WriteString(fmt.Sprintf("  Input:  %s (%s)\n", orNA(b.InputFileID), orNA(inputName)))
	sb.WriteString(fmt.Sprintf("  Output: %s (%s)\n\n", orNA(b.OutputFileID), orNA(outputName)))

	if msg, ok := b.FirstErrorMessage(); ok {
		sb.WriteString("Errors: " + msg + "\n\n")
	} else {
		sb.WriteString("Errors: None\n\n")
	}

	sb.WriteString("Timeline:\n")
	for _, e := range batchTimeline(b) {
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", e.Label, formatEpoch(e.At)))
	}

	return sb.String()
}

// renderFileDetail assembles the detail pane text for a resolved file
func renderFileDetail(f *models.File) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("FILE"))
	sb.WriteString("\n" + orNA(f.Filename) + "\n\n")
	sb.WriteString(fmt.Sprintf("File ID:    %s\n", f.ID))
	sb.WriteString(fmt.Sprintf("Purpose:    %s\n", f.Purpose))
	sb.WriteString(fmt.Sprintf("Size:       %s\n", humanize.IBytes(uint64(f.Bytes))))
	sb.WriteString(fmt.Sprintf("Created at: %s\n", formatEpoch(f.CreatedAt)))

	return sb.String()
}
