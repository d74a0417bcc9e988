package model

import "time"

// Report status values. A report is valid exactly when its issue list is empty.
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

// Issue is a single schema violation found in an uploaded file,
// localized to a data row (1-based, header excluded) and a column.
type Issue struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// ValidationReport records the outcome of validating one uploaded file.
// Reports are write-once: created per upload and never mutated afterwards.
// This is a pure domain model with no database-specific dependencies or tags.
type ValidationReport struct {
	ID          string              `json:"id"`
	Filename    string              `json:"filename"`
	Status      string              `json:"status"`
	Issues      []Issue             `json:"issues"`
	RowCount    int                 `json:"row_count"`
	ValidRows   int                 `json:"valid_rows"`
	DroppedRows int                 `json:"dropped_rows"`
	Sample      []map[string]string `json:"sample,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}
