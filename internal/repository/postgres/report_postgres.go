package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolioapi/internal/model"
	"portfolioapi/internal/repository"
)

// ReportPostgres is a PostgreSQL implementation of repository.ReportRepository.
// It uses database/sql with parameterized queries; issues and the row sample
// are stored as JSONB alongside the indexed report columns.
type ReportPostgres struct {
	db *sql.DB
}

// NewReportPostgres creates a new ReportPostgres repository.
func NewReportPostgres(db *sql.DB) *ReportPostgres {
	return &ReportPostgres{db: db}
}

var _ repository.ReportRepository = (*ReportPostgres)(nil)

// Put inserts a report row. ON CONFLICT DO NOTHING makes a retry with the
// same id a no-op; when the insert is skipped the stored row is compared
// against the incoming report to distinguish idempotent retries from
// conflicting writes.
func (r *ReportPostgres) Put(ctx context.Context, report *model.ValidationReport) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("report id is required")
	}

	issues, err := json.Marshal(report.Issues)
	if err != nil {
		return fmt.Errorf("encode issues: %w", err)
	}
	sample, err := json.Marshal(report.Sample)
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}

	const q = `
		INSERT INTO validation_reports (id, filename, status, issues, row_count, valid_rows, dropped_rows, sample, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q,
		report.ID,
		report.Filename,
		report.Status,
		issues,
		report.RowCount,
		report.ValidRows,
		report.DroppedRows,
		sample,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	if affected > 0 {
		return nil
	}

	stored, err := r.Get(ctx, report.ID)
	if err != nil {
		return err
	}
	if !reportsEqual(stored, report) {
		return fmt.Errorf("%w: id %s", repository.ErrConflict, report.ID)
	}
	return nil
}

// Get fetches a single report by its id.
func (r *ReportPostgres) Get(ctx context.Context, id string) (*model.ValidationReport, error) {
	const q = `
		SELECT id, filename, status, issues, row_count, valid_rows, dropped_rows, sample, created_at
		FROM validation_reports
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)

	rep, err := scanReport(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	return rep, nil
}

// List returns reports using LIMIT/OFFSET pagination and a total count.
func (r *ReportPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ValidationReport], error) {
	const qCount = `SELECT COUNT(*) FROM validation_reports`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}

	const qList = `
		SELECT id, filename, status, issues, row_count, valid_rows, dropped_rows, sample, created_at
		FROM validation_reports
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	defer rows.Close()

	items := make([]model.ValidationReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
		}
		items = append(items, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}

	return &repository.PageResult[model.ValidationReport]{
		Items: items,
		Total: total,
	}, nil
}

func scanReport(scan func(dest ...any) error) (*model.ValidationReport, error) {
	var (
		rep    model.ValidationReport
		issues []byte
		sample []byte
	)
	if err := scan(
		&rep.ID,
		&rep.Filename,
		&rep.Status,
		&issues,
		&rep.RowCount,
		&rep.ValidRows,
		&rep.DroppedRows,
		&sample,
		&rep.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(issues, &rep.Issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	if len(sample) > 0 {
		if err := json.Unmarshal(sample, &rep.Sample); err != nil {
			return nil, fmt.Errorf("decode sample: %w", err)
		}
	}
	return &rep, nil
}

// reportsEqual compares a stored row against an incoming report.
// created_at is compared at microsecond precision because TIMESTAMPTZ
// keeps microseconds while report ids are minted with nanosecond clocks;
// a retried Put must not conflict over that round-trip loss.
func reportsEqual(a, b *model.ValidationReport) bool {
	if !a.CreatedAt.Truncate(time.Microsecond).Equal(b.CreatedAt.Truncate(time.Microsecond)) {
		return false
	}

	ac, bc := *a, *b
	ac.CreatedAt, bc.CreatedAt = time.Time{}, time.Time{}

	aj, err := json.Marshal(ac)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(bc)
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}
