package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/nfdi-tools/magsub/pkg/schema"
)

// Dataset is the in-memory metadata table under edit.
//
// Columns are stable and ordered; every row has exactly one cell per
// column. Cells are strings; semantic kinds (dates, numbers, lat/lon)
// live in the schema and drive coercion, not storage.
//
// The last row is always a single blank row, kept so an editor can
// type into it. Every mutation re-establishes that invariant: all
// trailing blank rows are stripped, then exactly one is appended.
// Snapshot and CSV export never include it.
type Dataset struct {
	columns []string
	index   map[string]int
	fields  *schema.Fields
	rows    [][]string
}

// New returns an empty dataset over the schema's columns, already
// normalized (one blank row).
func New(fields *schema.Fields) *Dataset {
	return newDataset(fields.Names(), fields)
}

// WithColumns returns an empty dataset over the given column subset.
// Columns unknown to the schema are dropped.
func WithColumns(columns []string, fields *schema.Fields) *Dataset {
	known := []string{}
	for _, c := range columns {
		if fields.Has(c) {
			known = append(known, c)
		}
	}
	return newDataset(known, fields)
}

func newDataset(columns []string, fields *schema.Fields) *Dataset {
	d := &Dataset{
		columns: append([]string{}, columns...),
		index:   map[string]int{},
		fields:  fields,
	}
	for nth, c := range d.columns {
		d.index[c] = nth
	}
	d.normalize()
	return d
}

// Columns returns the column names in table order.
func (d *Dataset) Columns() []string {
	return append([]string{}, d.columns...)
}

// HasColumn reports whether the table carries the column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Len is the number of data rows, the trailing blank row excluded.
func (d *Dataset) Len() int {
	return len(d.rows) - 1
}

// Cell reads one cell. Out-of-range coordinates read as "".
func (d *Dataset) Cell(row int, column string) string {
	nth, ok := d.index[column]
	if !ok || row < 0 || len(d.rows) <= row {
		return ""
	}
	return d.rows[row][nth]
}

// Row returns the cells of one data row, in column order.
func (d *Dataset) Row(row int) []string {
	if row < 0 || len(d.rows) <= row {
		return make([]string, len(d.columns))
	}
	return append([]string{}, d.rows[row]...)
}

// Snapshot returns all data rows, the trailing blank row excluded.
// The result is a copy and is never written back.
func (d *Dataset) Snapshot() [][]string {
	snap := [][]string{}
	for _, row := range d.rows[:d.Len()] {
		snap = append(snap, append([]string{}, row...))
	}
	return snap
}

// Set writes one cell and re-normalizes. Writing into the trailing
// blank row grows the table by one data row.
func (d *Dataset) Set(row int, column string, value string) error {
	nth, ok := d.index[column]
	if !ok {
		return fmt.Errorf("no such column: %s", column)
	}
	if row < 0 || len(d.rows) <= row {
		return fmt.Errorf("row out of range: %d", row)
	}
	d.rows[row][nth] = value
	d.normalize()
	return nil
}

// Append adds a row from a column→value map. Unknown keys are a no-op.
func (d *Dataset) Append(values map[string]string) {
	row := make([]string, len(d.columns))
	for c, v := range values {
		if nth, ok := d.index[c]; ok {
			row[nth] = v
		}
	}
	d.rows = append(d.rows[:d.Len()], row)
	d.normalize()
}

// AppendExampleRow adds a row filled with each column's schema example
// value. Columns without an example stay blank.
func (d *Dataset) AppendExampleRow() {
	values := map[string]string{}
	for _, c := range d.columns {
		if def, ok := d.fields.Get(c); ok {
			values[c] = def.Example
		}
	}
	d.Append(values)
}

// DeleteRows removes the data rows at the given indexes. Indexes out
// of range (including the trailing blank row's) are ignored.
func (d *Dataset) DeleteRows(indexes ...int) {
	doomed := map[int]bool{}
	for _, i := range indexes {
		doomed[i] = true
	}
	kept := [][]string{}
	for nth, row := range d.rows[:d.Len()] {
		if !doomed[nth] {
			kept = append(kept, row)
		}
	}
	d.rows = kept
	d.normalize()
}

// AutoFix applies the mechanical repairs a curator would otherwise do
// by hand: trims whitespace in every cell, rewrites decimal commas to
// dots in latitude/longitude columns, and re-renders parsable dates as
// ISO-8601.
func (d *Dataset) AutoFix() {
	for _, row := range d.rows[:d.Len()] {
		for nth, c := range d.columns {
			v := strings.TrimSpace(row[nth])
			def, ok := d.fields.Get(c)
			if ok && v != "" {
				switch def.Kind {
				case schema.Lat, schema.Lon:
					v = strings.ReplaceAll(v, ",", ".")
				case schema.Date:
					v = CoerceDate(v)
				}
			}
			row[nth] = v
		}
	}
	d.normalize()
}

// normalize strips all trailing blank rows and appends exactly one.
// Idempotent.
func (d *Dataset) normalize() {
	n := len(d.rows)
	for 0 < n && blankRow(d.rows[n-1]) {
		n -= 1
	}
	d.rows = append(d.rows[:n], make([]string, len(d.columns)))
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// dateLayouts are the input formats CoerceDate understands, tried in
// order. Output is always ISO-8601 at the input's precision.
var dateLayouts = []struct {
	in, out string
}{
	{"2006-01-02T15:04:05", "2006-01-02T15:04:05"},
	{"2006-01-02 15:04:05", "2006-01-02T15:04:05"},
	{"2006-01-02", "2006-01-02"},
	{"2006/01/02", "2006-01-02"},
	{"02.01.2006", "2006-01-02"},
	{"2006-01", "2006-01"},
	{"2006", "2006"},
}

// CoerceDate renders a date value as ISO-8601. Unparsable values are
// returned unchanged so the format check can report them.
func CoerceDate(value string) string {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l.in, value); err == nil {
			return t.Format(l.out)
		}
	}
	return value
}
