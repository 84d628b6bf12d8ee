package validation

import (
	"fmt"
	"strings"

	"github.com/nfdi-tools/magsub/pkg/dataset"
	"github.com/nfdi-tools/magsub/pkg/schema"
	"github.com/nfdi-tools/magsub/pkg/utils/pointer"
)

// UniqueKeyAliases are the acceptable names of the unique-key column,
// tried in order. The first one present in the table is the key.
// Sample identifiers key the accession bookkeeping, so they must not
// collide; project names are shared between rows on purpose.
var UniqueKeyAliases = []string{"sample_name", "sample name"}

// shapeChecks maps the semantically constrained columns to their shape
// validator. Shape checks are structural only; no identifier is ever
// resolved against a live vocabulary.
var shapeChecks = map[string]func(string) bool{
	"env_broad_scale":     EnvoLike,
	"env_local_scale":     EnvoLike,
	"env_medium":          EnvoLike,
	"chem_administration": ChebiLike,
	"samp_taxon_id":       TaxIDLike,
	"tax_id":              TaxIDLike,
}

// Engine validates whole datasets against a schema.
type Engine struct {
	fields *schema.Fields
}

func New(fields *schema.Fields) *Engine {
	return &Engine{fields: fields}
}

// Validate runs all validation passes over the dataset and returns
// the aggregated report.
//
// The passes are independent and always all evaluated: required
// columns, per-cell patterns, unique-key collisions, and ontology
// shape / closed-vocabulary membership. A zero-row dataset yields an
// empty report. Fully blank rows never produce issues.
func (e *Engine) Validate(d *dataset.Dataset) *Report {
	report := &Report{}
	e.requiredPass(d, report)
	e.patternPass(d, report)
	e.uniqueKeyPass(d, report)
	e.shapePass(d, report)
	return report
}

// requiredPass flags empty cells in required columns, and required
// columns absent from the table as one table-level issue each.
func (e *Engine) requiredPass(d *dataset.Dataset, report *Report) {
	present := columnsFold(d)
	for _, name := range e.fields.Required() {
		column, ok := present[strings.ToLower(name)]
		if !ok {
			report.Add(Issue{
				Field:   name,
				Message: "required column missing from the table",
			})
			continue
		}
		for row := 0; row < d.Len(); row += 1 {
			if blankRow(d, row) {
				continue
			}
			if strings.TrimSpace(d.Cell(row, column)) == "" {
				report.Add(Issue{
					Row:     pointer.Ref(row),
					Field:   column,
					Message: "required: must not be empty",
				})
			}
		}
	}
}

// patternPass checks every non-empty cell of every present column
// against the column's pattern.
func (e *Engine) patternPass(d *dataset.Dataset, report *Report) {
	for _, column := range d.Columns() {
		def, ok := e.fields.GetFold(column)
		if !ok || !def.HasPattern() {
			continue
		}
		for row := 0; row < d.Len(); row += 1 {
			value := strings.TrimSpace(d.Cell(row, column))
			if message, ok := CheckPattern(def, value); !ok {
				report.Add(Issue{
					Row:     pointer.Ref(row),
					Field:   column,
					Value:   value,
					Message: message,
				})
			}
		}
	}
}

// uniqueKeyPass flags every row whose key value collides with another
// row's. Rows with an empty key are never flagged. When no alias of
// the key column is present at all, one table-level issue is emitted.
func (e *Engine) uniqueKeyPass(d *dataset.Dataset, report *Report) {
	present := columnsFold(d)
	key := ""
	for _, alias := range UniqueKeyAliases {
		if column, ok := present[strings.ToLower(alias)]; ok {
			key = column
			break
		}
	}
	if key == "" {
		report.Add(Issue{
			Field:   UniqueKeyAliases[0],
			Message: fmt.Sprintf("unique key column %q missing from the table", UniqueKeyAliases[0]),
		})
		return
	}

	counts := map[string]int{}
	for row := 0; row < d.Len(); row += 1 {
		if value := strings.TrimSpace(d.Cell(row, key)); value != "" {
			counts[value] += 1
		}
	}
	for row := 0; row < d.Len(); row += 1 {
		value := strings.TrimSpace(d.Cell(row, key))
		if value != "" && 1 < counts[value] {
			report.Add(Issue{
				Row:     pointer.Ref(row),
				Field:   key,
				Value:   value,
				Message: fmt.Sprintf("duplicate %q: must be unique", key),
			})
		}
	}
}

// shapePass checks the fixed set of ontology-shaped columns and every
// closed-vocabulary column present in the table. Empty cells pass.
func (e *Engine) shapePass(d *dataset.Dataset, report *Report) {
	for _, column := range d.Columns() {
		check, shaped := shapeChecks[column]
		def, known := e.fields.GetFold(column)
		enumed := known && 0 < len(def.Enum)
		if !shaped && !enumed {
			continue
		}
		for row := 0; row < d.Len(); row += 1 {
			value := strings.TrimSpace(d.Cell(row, column))
			if value == "" {
				continue
			}
			if shaped && !check(value) {
				report.Add(Issue{
					Row:     pointer.Ref(row),
					Field:   column,
					Value:   value,
					Message: "identifier shape mismatch (expected ENVO/CHEBI/TaxID pattern)",
				})
				continue
			}
			if enumed {
				if message, ok := CheckEnum(def, value); !ok {
					report.Add(Issue{
						Row:     pointer.Ref(row),
						Field:   column,
						Value:   value,
						Message: message,
					})
				}
			}
		}
	}
}

// columnsFold maps lowercased column names to the table's actual ones.
func columnsFold(d *dataset.Dataset) map[string]string {
	fold := map[string]string{}
	for _, c := range d.Columns() {
		fold[strings.ToLower(c)] = c
	}
	return fold
}

func blankRow(d *dataset.Dataset, row int) bool {
	for _, v := range d.Row(row) {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
