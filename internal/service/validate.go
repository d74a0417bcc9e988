package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"portfolioapi/internal/model"
	"portfolioapi/internal/repository"
	"portfolioapi/internal/storage"
	"portfolioapi/internal/validation"
)

var ErrReaderNil = errors.New("reader is nil")

// ReportListResult is the service-level DTO for paginated reports.
type ReportListResult struct {
	Items []model.ValidationReport `json:"data"`
	Total int                      `json:"total"`
}

// ValidateService defines the use cases around upload validation:
// validate-and-persist, and report retrieval.
type ValidateService interface {
	// Validate checks the upload against the configured schema, persists
	// the resulting report, and returns it. A validation failure is a
	// normal "invalid" report, not an error; only unparseable input
	// (validation.ErrMalformedInput) and persistence problems error out.
	Validate(ctx context.Context, r io.Reader, filename string) (*model.ValidationReport, error)

	// Get returns a previously persisted report by id.
	Get(ctx context.Context, id string) (*model.ValidationReport, error)

	// List returns persisted reports using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ReportListResult, error)
}

// validateService is a concrete implementation of ValidateService.
// archive is optional; when set, the raw upload bytes are kept in object
// storage next to the report, and removed again if the report cannot be
// persisted.
type validateService struct {
	validator *validation.Validator
	repo      repository.ReportRepository
	archive   storage.Storage
}

// NewValidateService constructs a new ValidateService. Pass a nil archive
// to disable upload archiving.
func NewValidateService(validator *validation.Validator, repo repository.ReportRepository, archive storage.Storage) ValidateService {
	return &validateService{validator: validator, repo: repo, archive: archive}
}

func (s *validateService) Validate(ctx context.Context, r io.Reader, filename string) (*model.ValidationReport, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	// Buffer the upload so it can be validated and archived from the same bytes.
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	report, err := s.validator.Validate(ctx, bytes.NewReader(content), filename)
	if err != nil {
		return nil, err
	}

	var archiveKey string
	if s.archive != nil {
		archiveKey = filepath.ToSlash(filepath.Join("uploads", report.ID+filepath.Ext(filename)))
		_, err := s.archive.Put(ctx, archiveKey, bytes.NewReader(content), storage.PutObjectOptions{
			Size:        int64(len(content)),
			ContentType: "text/csv",
			Metadata: map[string]string{
				"original-filename": filename,
				"report-id":         report.ID,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("archive upload: %w", err)
		}
	}

	if err := s.repo.Put(ctx, report); err != nil {
		if s.archive != nil {
			if delErr := s.archive.Delete(ctx, archiveKey); delErr != nil {
				return nil, fmt.Errorf("persist report failed: %w; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("persist report: %w", err)
	}
	return report, nil
}

// Get returns a report by id.
func (s *validateService) Get(ctx context.Context, id string) (*model.ValidationReport, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// List returns paginated reports without exposing repository types.
func (s *validateService) List(ctx context.Context, limit, offset int) (*ReportListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ReportListResult{Items: res.Items, Total: res.Total}, nil
}
