package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"portfolioapi/internal/model"
	"portfolioapi/internal/repository"
)

// ReportFile is a filesystem implementation of repository.ReportRepository.
// Each report is one JSON artifact named <id>.json under a dedicated
// directory. Writes go through a temp file plus rename so concurrent puts
// with distinct ids never observe partial artifacts.
type ReportFile struct {
	dir string
}

// NewReportFile creates the report directory if needed and returns the store.
func NewReportFile(dir string) (*ReportFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("report directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", repository.ErrUnavailable, dir, err)
	}
	return &ReportFile{dir: dir}, nil
}

var _ repository.ReportRepository = (*ReportFile)(nil)

// Put writes the report artifact atomically. A retry with identical content
// is a no-op; the same id with different content fails with ErrConflict.
func (r *ReportFile) Put(ctx context.Context, report *model.ValidationReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if report == nil || report.ID == "" {
		return fmt.Errorf("report id is required")
	}
	path, err := r.path(report.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
		return fmt.Errorf("%w: id %s", repository.ErrConflict, report.ID)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: read %s: %v", repository.ErrUnavailable, path, err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+report.ID+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	return nil
}

// Get reads one report artifact by id.
func (r *ReportFile) Get(ctx context.Context, id string) (*model.ValidationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.path(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", repository.ErrUnavailable, path, err)
	}

	var report model.ValidationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", repository.ErrUnavailable, path, err)
	}
	return &report, nil
}

// List reads all artifacts and returns a page ordered newest first.
func (r *ReportFile) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ValidationReport], error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}

	reports := make([]model.ValidationReport, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		rep, err := r.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			// Non-report files (no uuid name) or artifacts removed between
			// ReadDir and the read are skipped; a damaged artifact is an error.
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		reports = append(reports, *rep)
	}

	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.After(reports[j].CreatedAt)
		}
		return reports[i].ID > reports[j].ID
	})

	total := len(reports)
	start := pq.Offset
	if start > total {
		start = total
	}
	end := start + pq.Limit
	if pq.Limit <= 0 || end > total {
		end = total
	}

	return &repository.PageResult[model.ValidationReport]{
		Items: reports[start:end],
		Total: total,
	}, nil
}

// path maps an id to its artifact path. Ids must be UUIDs, which also
// keeps path traversal out of the report directory.
func (r *ReportFile) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("invalid report id %q: %w", id, err)
	}
	return filepath.Join(r.dir, id+".json"), nil
}
