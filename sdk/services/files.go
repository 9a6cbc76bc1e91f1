// Package services provides the file service for the batch and file API.
//
// This file implements the FileService which handles stored file operations:
// listing, retrieving metadata, multipart upload, deletion, and raw content
// download.
package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"batchdeck/sdk/models"
)

type FileService struct {
	client ClientInterface
}

func NewFileService(client ClientInterface) *FileService {
	return &FileService{
		client: client,
	}
}

// List returns all stored files
func (s *FileService) List(ctx context.Context) ([]models.File, error) {
	req, err := s.client.NewRequest(ctx, "GET", "/files", nil)
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

	var list models.FileList
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}

	return list.Data, nil
}

// Retrieve fetches metadata for one stored file
func (s *FileService) Retrieve(ctx context.Context, fileID string) (*models.File, error) {
	if fileID == "" {
		return nil, fmt.Errorf("file id is required")
	}

	req, err := s.client.NewRequest(ctx, "GET", "/files/"+fileID, nil)
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

	var file models.File
	if err := decodeJSON(resp, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// Upload stores the file at path with the given purpose via multipart upload
func (s *FileService) Upload(ctx context.Context, path, purpose string) (*models.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var werr error
		defer func() { pw.CloseWithError(werr) }()

		if werr = mw.WriteField("purpose", purpose); werr != nil {
			return
		}
		part, perr := mw.CreateFormFile("file", filepath.Base(path))
		if perr != nil {
			werr = perr
			return
		}
		if _, werr = io.Copy(part, f); werr != nil {
			return
		}
		werr = mw.Close()
	}()

	req, err := s.client.NewRequest(ctx, "POST", "/files", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var file models.File
	if err := decodeJSON(resp, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// Delete removes a stored file. The deleted flag reflects the server's
// acknowledgment.
func (s *FileService) Delete(ctx context.Context, fileID string) (bool, error) {
	if fileID == "" {
		return false, fmt.Errorf("file id is required")
	}

	req, err := s.client.NewRequest(ctx, "DELETE", "/files/"+fileID, nil)
	if err != nil {
		return false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return false, err
	}

	var ack models.FileDeleted
	if err := decodeJSON(resp, &ack); err != nil {
		return false, err
	}

	return ack.Deleted, nil
}

// Content downloads the raw content of a stored file
func (s *FileService) Content(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, fmt.Errorf("file id is required")
	}

	req, err := s.client.NewRequest(ctx, "GET", "/files/"+fileID+"/content", nil)
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

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	return data, nil
}
