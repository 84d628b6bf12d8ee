package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/nfdi-tools/magsub/pkg/schema"
)

// ReadCSV loads a metadata table from CSV.
//
// The first record is the header; columns unknown to the schema are
// dropped, known ones keep their CSV order. Date cells are coerced to
// ISO-8601 on the way in. The loaded dataset is normalized.
//
// # Args
//
// - r: CSV with a header row.
//
// - fields: the schema the table is edited against.
//
// # Returns
//
// - *Dataset
//
// - error: when the CSV is unreadable or its header names no known
// column at all.
func ReadCSV(r io.Reader, fields *schema.Fields) (*Dataset, error) {
	return readTable(r, fields, ',')
}

// ReadTSV is ReadCSV for tab-separated tables, the format the
// submission CLI takes.
func ReadTSV(r io.Reader, fields *schema.Fields) (*Dataset, error) {
	return readTable(r, fields, '\t')
}

func readTable(r io.Reader, fields *schema.Fields, comma rune) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("broken metadata table: %w", err)
	}

	d := WithColumns(header, fields)
	if len(d.columns) == 0 {
		return nil, fmt.Errorf("metadata table has no known columns")
	}

	// position of each kept column in the CSV record.
	source := map[string]int{}
	for nth, h := range header {
		if _, kept := d.index[h]; kept {
			if _, dup := source[h]; !dup {
				source[h] = nth
			}
		}
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("broken metadata table: %w", err)
		}

		values := map[string]string{}
		for _, c := range d.columns {
			nth := source[c]
			if len(record) <= nth {
				continue
			}
			v := record[nth]
			if def, ok := fields.Get(c); ok && def.Kind == schema.Date && v != "" {
				v = CoerceDate(v)
			}
			values[c] = v
		}
		d.Append(values)
	}

	return d, nil
}

// WriteCSV exports the dataset: header row, then every data row. The
// trailing blank row is never exported. Exporting what ReadCSV loaded
// reproduces schema-conformant input byte for byte.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns()); err != nil {
		return fmt.Errorf("cannot export metadata table: %w", err)
	}
	for _, row := range d.Snapshot() {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot export metadata table: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cannot export metadata table: %w", err)
	}
	return nil
}
