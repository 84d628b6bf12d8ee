package validation

import (
	"fmt"
	"strings"

	"github.com/nfdi-tools/magsub/pkg/dataset"
)

// Issue is one validation finding. Only invalid findings are recorded;
// a report never carries "this cell is fine" entries.
type Issue struct {
	// Row is the zero-based data-row index the issue belongs to.
	// nil means the issue is about the table as a whole (a missing
	// column, for example), not about any one row.
	Row *int

	Field   string
	Value   string
	Message string
}

func (i Issue) String() string {
	where := "table"
	if i.Row != nil {
		where = fmt.Sprintf("row %d", *i.Row)
	}
	return fmt.Sprintf("%s, %s: %s", where, i.Field, i.Message)
}

// Report is the aggregated outcome of validating a dataset. Export and
// submission are gated on IsEmpty.
type Report struct {
	issues []Issue
}

func (r *Report) Add(issues ...Issue) {
	r.issues = append(r.issues, issues...)
}

// IsEmpty reports whether validation found nothing wrong.
func (r *Report) IsEmpty() bool {
	return len(r.issues) == 0
}

// Issues returns all findings, in pass order.
func (r *Report) Issues() []Issue {
	return append([]Issue{}, r.issues...)
}

// CountByField counts findings per column, table-level ones included.
func (r *Report) CountByField() map[string]int {
	counts := map[string]int{}
	for _, i := range r.issues {
		counts[i.Field] += 1
	}
	return counts
}

// Error renders the whole report as one error value listing every
// issue, or nil when the report is empty.
func (r *Report) Error() error {
	if r.IsEmpty() {
		return nil
	}
	lines := []string{}
	for _, i := range r.issues {
		lines = append(lines, i.String())
	}
	return fmt.Errorf("metadata is not valid:\n%s", strings.Join(lines, "\n"))
}

// Mask derives the per-row/per-column invalid view of a report,
// aligned to the dataset's data rows and column order. Table-level
// issues and issues about absent columns do not appear in the mask.
// Presentation only; never a source of truth.
func Mask(d *dataset.Dataset, r *Report) [][]bool {
	columns := map[string]int{}
	for nth, c := range d.Columns() {
		columns[c] = nth
	}
	mask := make([][]bool, d.Len())
	for nth := range mask {
		mask[nth] = make([]bool, len(columns))
	}
	for _, i := range r.issues {
		if i.Row == nil {
			continue
		}
		col, ok := columns[i.Field]
		if !ok || *i.Row < 0 || len(mask) <= *i.Row {
			continue
		}
		mask[*i.Row][col] = true
	}
	return mask
}
