package repository

import (
	"context"
	"errors"

	"portfolioapi/internal/model"
)

var (
	// ErrNotFound is returned by Get when no report has the given id.
	ErrNotFound = errors.New("report not found")
	// ErrUnavailable means the persistence medium cannot be read or written.
	ErrUnavailable = errors.New("report store unavailable")
	// ErrConflict means a different report already exists under the same id.
	// Reports are write-once; Put is only idempotent for identical content.
	ErrConflict = errors.New("conflicting report already stored")
)

// ReportRepository is durable, write-once persistence for validation
// reports keyed by report id. No update or delete is defined.
type ReportRepository interface {
	// Put persists a report. Retrying with the same id and identical
	// content is a no-op; the same id with different content fails with
	// ErrConflict. Write failures surface as ErrUnavailable.
	Put(ctx context.Context, report *model.ValidationReport) error

	// Get returns a previously stored report, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.ValidationReport, error)

	// List returns stored reports newest first with a total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.ValidationReport], error)
}
