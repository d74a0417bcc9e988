package validation

import (
	"fmt"
	"strings"
)

// ColumnType is the expected type of a CSV column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeNumber ColumnType = "number"
	TypeDate   ColumnType = "date"
)

// Column describes one expected column of an uploaded file.
type Column struct {
	Name     string
	Type     ColumnType
	Required bool
	// Key marks the column as a uniqueness key; duplicate values are flagged.
	Key bool
}

// Schema is the ordered list of expected columns. It is explicit
// configuration passed into the validator, never inferred from the upload.
type Schema struct {
	Columns []Column
}

// Column returns the schema column with the given name (case-insensitive).
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// ParseSchema parses a compact schema description of the form
//
//	name:type[:required][:key],name:type[:required][:key],...
//
// where type is one of string, number, date. Example:
//
//	ticker:string:required,shares:number:required,price:number:required
func ParseSchema(spec string) (Schema, error) {
	var s Schema
	seen := make(map[string]struct{})

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.Split(part, ":")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		if name == "" {
			return Schema{}, fmt.Errorf("schema column with empty name in %q", part)
		}
		if _, dup := seen[name]; dup {
			return Schema{}, fmt.Errorf("schema column %q declared twice", name)
		}
		seen[name] = struct{}{}

		col := Column{Name: name, Type: TypeString}
		for _, attr := range fields[1:] {
			switch strings.ToLower(strings.TrimSpace(attr)) {
			case string(TypeString), "":
				col.Type = TypeString
			case string(TypeNumber):
				col.Type = TypeNumber
			case string(TypeDate):
				col.Type = TypeDate
			case "required":
				col.Required = true
			case "key":
				col.Key = true
			default:
				return Schema{}, fmt.Errorf("unknown schema attribute %q for column %q", attr, name)
			}
		}
		s.Columns = append(s.Columns, col)
	}

	if len(s.Columns) == 0 {
		return Schema{}, fmt.Errorf("schema %q defines no columns", spec)
	}
	return s, nil
}
