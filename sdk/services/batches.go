// Package services provides the batch service for the batch and file API.
//
// This file implements the BatchService which handles batch lifecycle
// operations: listing recent batches, retrieving a full batch record,
// creating a batch from an uploaded input file, and requesting cancellation.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"batchdeck/sdk/models"
)

// DefaultCompletionWindow is the only completion window the API accepts today.
const DefaultCompletionWindow = "24h"

type BatchService struct {
	client ClientInterface
}

func NewBatchService(client ClientInterface) *BatchService {
	return &BatchService{
		client: client,
	}
}

// CreateBatchParams contains the parameters for creating a batch
type CreateBatchParams struct {
	InputFileID      string `json:"input_file_id"`
	Endpoint         string `json:"endpoint"`
	CompletionWindow string `json:"completion_window"`
}

// List returns up to limit batches, most recent first
func (s *BatchService) List(ctx context.Context, limit int) ([]models.Batch, error) {
	req, err := s.client.NewRequest(ctx, "GET", fmt.Sprintf("/batches?limit=%d", limit), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var list models.BatchList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}

	return list.Data, nil
}

// Retrieve fetches the full record for one batch
func (s *BatchService) Retrieve(ctx context.Context, batchID string) (*models.Batch, error) {
	if batchID == "" {
		return nil, fmt.Errorf("batch id is required")
	}

	req, err := s.client.NewRequest(ctx, "GET", "/batches/"+batchID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var batch models.Batch
	if err := decodeJSON(resp, &batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

// Create submits a new batch. The completion window defaults to
// DefaultCompletionWindow when unset.
func (s *BatchService) Create(ctx context.Context, params CreateBatchParams) (*models.Batch, error) {
	if params.InputFileID == "" {
		return nil, fmt.Errorf("input file id is required")
	}
	if params.CompletionWindow == "" {
		params.CompletionWindow = DefaultCompletionWindow
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := s.client.NewRequest(ctx, "POST", "/batches", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var batch models.Batch
	if err := decodeJSON(resp, &batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

// Cancel requests cancellation of a batch. The acknowledgment payload is not
// uniform across server versions, so any successful exchange is treated as
// acceptance; the returned record is best-effort and may be nil.
func (s *BatchService) Cancel(ctx context.Context, batchID string) (*models.Batch, error) {
	if batchID == "" {
		return nil, fmt.Errorf("batch id is required")
	}

	req, err := s.client.NewRequest(ctx, "POST", "/batches/"+batchID+"/cancel", nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var batch models.Batch
	if err := decodeJSON(resp, &batch); err != nil {
		return nil, nil
	}

	return &batch, nil
}
