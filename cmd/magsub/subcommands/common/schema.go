package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfdi-tools/magsub/cmd/magsub/env"
	"github.com/nfdi-tools/magsub/pkg/dataset"
	"github.com/nfdi-tools/magsub/pkg/schema"
)

var ErrNoSchemaSource = errors.New("no checklist nor fieldspec is given")

// LoadFields resolves the field schema a command validates against.
//
// Overrides given on the command line win over the magsubenv defaults;
// a checklist XML wins over a fieldspec CSV.
func LoadFields(e env.MagsubEnv, checklistOverride string, fieldspecOverride string) (*schema.Fields, error) {
	checklist := e.Checklist
	if checklistOverride != "" {
		checklist = checklistOverride
	}
	fieldspec := e.FieldSpec
	if fieldspecOverride != "" {
		fieldspec = fieldspecOverride
	}

	switch {
	case checklist != "":
		f, err := os.Open(checklist)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot open checklist", err)
		}
		defer f.Close()
		return schema.LoadChecklist(f)
	case fieldspec != "":
		f, err := os.Open(fieldspec)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot open fieldspec", err)
		}
		defer f.Close()
		return schema.LoadFieldSpec(f)
	default:
		return nil, ErrNoSchemaSource
	}
}

// ReadTable reads a metadata table, picking the cell separator by the
// file extension: ".tsv" and ".tab" are tab-separated, anything else
// comma-separated.
func ReadTable(path string, fields *schema.Fields) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open metadata table", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return dataset.ReadTSV(f, fields)
	default:
		return dataset.ReadCSV(f, fields)
	}
}
