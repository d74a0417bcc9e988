package validation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"portfolioapi/internal/model"
)

// ErrMalformedInput means the upload could not be parsed as delimited
// tabular text at all. This is a hard failure; no report is produced.
var ErrMalformedInput = errors.New("malformed input")

// Validator checks an uploaded file against a Schema and produces a
// ValidationReport. It has no side effects; persistence is the caller's job.
type Validator struct {
	schema     Schema
	sampleRows int
}

// NewValidator constructs a Validator for the given schema.
// sampleRows caps how many clean rows are echoed back in the report sample.
func NewValidator(schema Schema, sampleRows int) *Validator {
	if sampleRows < 0 {
		sampleRows = 0
	}
	return &Validator{schema: schema, sampleRows: sampleRows}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Validate parses r as CSV and checks every data row against the schema.
//
// Issues are reported in row order of first detection, then schema column
// order within a row. Header-level problems (a required column absent from
// the header) are reported once with row 0. Rows shorter than the header
// are padded with blanks; extra cells are ignored.
func (v *Validator) Validate(ctx context.Context, r io.Reader, filename string) (*model.ValidationReport, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no content", ErrMalformedInput)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read header: %v", ErrMalformedInput, err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: empty header", ErrMalformedInput)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
		if !utf8.ValidString(header[i]) || strings.ContainsRune(header[i], 0) {
			return nil, fmt.Errorf("%w: header is not valid text", ErrMalformedInput)
		}
	}

	// Map schema columns to header positions. Unknown header columns are ignored.
	colIndex := make(map[string]int, len(v.schema.Columns))
	for i, name := range header {
		if _, ok := v.schema.Column(name); ok {
			if _, dup := colIndex[name]; !dup {
				colIndex[name] = i
			}
		}
	}

	report := &model.ValidationReport{
		ID:       uuid.NewString(),
		Filename: filename,
		Issues:   []model.Issue{},
		// Microsecond precision survives the TIMESTAMPTZ round-trip intact.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	// A required column absent from the header is reported once, not per row.
	// No row can be valid when the header itself is incomplete.
	headerComplete := true
	for _, col := range v.schema.Columns {
		if _, ok := colIndex[col.Name]; !ok && col.Required {
			headerComplete = false
			report.Issues = append(report.Issues, model.Issue{
				Row:     0,
				Column:  col.Name,
				Message: "missing required column",
			})
		}
	}

	seenKeys := make(map[string]map[string]int) // column -> value -> first row

	row := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, row+1, err)
		}

		row++
		rowIssues := v.checkRow(record, colIndex, seenKeys, row)
		report.Issues = append(report.Issues, rowIssues...)

		if len(rowIssues) == 0 && headerComplete {
			report.ValidRows++
			if len(report.Sample) < v.sampleRows {
				report.Sample = append(report.Sample, v.sampleRow(record, colIndex))
			}
		}
	}

	report.RowCount = row
	report.DroppedRows = report.RowCount - report.ValidRows

	if len(report.Issues) == 0 {
		report.Status = model.StatusValid
	} else {
		report.Status = model.StatusInvalid
	}
	return report, nil
}

func (v *Validator) checkRow(record []string, colIndex map[string]int, seenKeys map[string]map[string]int, row int) []model.Issue {
	var issues []model.Issue

	for _, col := range v.schema.Columns {
		idx, ok := colIndex[col.Name]
		if !ok {
			continue
		}

		var value string
		if idx < len(record) {
			value = strings.TrimSpace(record[idx])
		}

		if value == "" {
			if col.Required {
				issues = append(issues, model.Issue{Row: row, Column: col.Name, Message: "missing value"})
			}
			continue
		}

		switch col.Type {
		case TypeNumber:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				issues = append(issues, model.Issue{Row: row, Column: col.Name, Message: fmt.Sprintf("not a number: %q", value)})
				continue
			}
		case TypeDate:
			if !parseableDate(value) {
				issues = append(issues, model.Issue{Row: row, Column: col.Name, Message: fmt.Sprintf("not a date: %q", value)})
				continue
			}
		}

		if col.Key {
			if seenKeys[col.Name] == nil {
				seenKeys[col.Name] = make(map[string]int)
			}
			if first, dup := seenKeys[col.Name][value]; dup {
				issues = append(issues, model.Issue{
					Row:     row,
					Column:  col.Name,
					Message: fmt.Sprintf("duplicate key %q (first seen at row %d)", value, first),
				})
			} else {
				seenKeys[col.Name][value] = row
			}
		}
	}
	return issues
}

// sampleRow projects a clean record onto the schema columns present in the header.
func (v *Validator) sampleRow(record []string, colIndex map[string]int) map[string]string {
	out := make(map[string]string, len(colIndex))
	for name, idx := range colIndex {
		if idx < len(record) {
			out[name] = strings.TrimSpace(record[idx])
		} else {
			out[name] = ""
		}
	}
	return out
}

func parseableDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
