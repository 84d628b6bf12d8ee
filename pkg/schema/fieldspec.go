package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// column headers of the field-specification CSV, mapped to their role.
var specHeaders = map[string]string{
	"Metadata":      "field",
	"regex_pattern": "regex",
	"Definition":    "definition",
	"Expected value OR expected unit of measurement": "expected",
	"Example filed field":                            "example",
	"Structured_pattern":                             "structured",
}

// noPattern is the field-spec convention for "this field has no regex".
const noPattern = "/"

// LoadFieldSpec reads the proposed-metadata-fields CSV and normalizes
// it into field definitions.
//
// Duplicated field rows keep their first occurrence. Fields listed in
// RequiredColumns but missing from the CSV are appended (pattern-less)
// so that the required pass can see them. Kinds are inferred from the
// field name; a field with a pattern and no more specific kind is Regex.
//
// # Args
//
// - r: CSV with a header row.
//
// # Returns
//
// - *Fields: loaded definitions, CSV order first, appended required
// columns after.
//
// - error: when the CSV is unreadable or has no field column.
func LoadFieldSpec(r io.Reader) (*Fields, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("broken field-spec table: %w", err)
	}

	index := map[string]int{}
	for nth, h := range header {
		if role, ok := specHeaders[strings.TrimSpace(h)]; ok {
			index[role] = nth
		}
	}
	if _, ok := index["field"]; !ok {
		return nil, fmt.Errorf("field-spec table has no %q column", "Metadata")
	}

	get := func(record []string, role string) string {
		nth, ok := index[role]
		if !ok || len(record) <= nth {
			return ""
		}
		return strings.TrimSpace(record[nth])
	}

	fields := NewFields()
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("broken field-spec table: %w", err)
		}

		name := get(record, "field")
		if name == "" {
			continue
		}

		pattern := get(record, "regex")
		if pattern == noPattern {
			pattern = ""
		}

		def := FieldDefinition{
			Name:        name,
			Description: get(record, "definition"),
			Expected:    get(record, "expected"),
			Example:     get(record, "example"),
			Required:    IsRequiredColumn(name),
			Kind:        inferKind(name, pattern),
		}
		compilePattern(&def, pattern)
		if def.Name == ChecklistColumn {
			def.Kind = Enum
			def.Enum = append([]string{}, AllowedChecklists...)
		}
		fields.Add(def)
	}

	for _, name := range RequiredColumns {
		if _, ok := fields.GetFold(name); ok {
			continue
		}
		def := FieldDefinition{
			Name:     name,
			Required: true,
			Kind:     inferKind(name, ""),
		}
		if name == ChecklistColumn {
			def.Kind = Enum
			def.Enum = append([]string{}, AllowedChecklists...)
		}
		fields.Add(def)
	}

	return fields, nil
}

// inferKind guesses the editor/coercion kind of a field from its name.
func inferKind(name string, pattern string) Kind {
	f := strings.ToLower(name)
	switch {
	case strings.Contains(f, "latitude"):
		return Lat
	case strings.Contains(f, "longitude"):
		return Lon
	case strings.Contains(f, "date"), strings.Contains(f, "timestamp"):
		return Date
	}
	for _, k := range []string{"depth", "temperature", "altitude", "elevation", "coverage", "score", "tax_id"} {
		if strings.Contains(f, k) {
			return Number
		}
	}
	if pattern != "" {
		return Regex
	}
	return Free
}
