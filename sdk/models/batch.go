// Package models defines the wire types exchanged with the batch and file API.
package models

// RequestCounts summarizes request progress within a batch
type RequestCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// BatchError is a single error entry attached to a batch
type BatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    *int   `json:"line,omitempty"`
}

// BatchErrorList wraps the error entries of a batch
type BatchErrorList struct {
	Data []BatchError `json:"data"`
}

// Batch is the full batch record. Lifecycle timestamps are unix epochs and
// are zero when the batch has not reached that state.
type Batch struct {
	ID               string          `json:"id"`
	Endpoint         string          `json:"endpoint"`
	Status           string          `json:"status"`
	InputFileID      string          `json:"input_file_id"`
	OutputFileID     string          `json:"output_file_id"`
	ErrorFileID      string          `json:"error_file_id"`
	CompletionWindow string          `json:"completion_window"`
	RequestCounts    RequestCounts   `json:"request_counts"`
	Errors           *BatchErrorList `json:"errors,omitempty"`

	CreatedAt    int64 `json:"created_at"`
	InProgressAt int64 `json:"in_progress_at"`
	FinalizingAt int64 `json:"finalizing_at"`
	CompletedAt  int64 `json:"completed_at"`
	FailedAt     int64 `json:"failed_at"`
	ExpiredAt    int64 `json:"expired_at"`
	CancellingAt int64 `json:"cancelling_at"`
	CancelledAt  int64 `json:"cancelled_at"`
}

// FirstErrorMessage returns the first attached error message, if any.
func (b *Batch) FirstErrorMessage() (string, bool) {
	if b.Errors == nil || len(b.Errors.Data) == 0 {
		return "", false
	}
	return b.Errors.Data[0].Message, true
}

// BatchList is the listing envelope for batches
type BatchList struct {
	Data    []Batch `json:"data"`
	HasMore bool    `json:"has_more"`
}
