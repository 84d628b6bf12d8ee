// Package metadata declares the wire types exchanged between magsubd and
// its clients.
package metadata

import (
	"github.com/nfdi-tools/magsub/pkg/cmp"
	"github.com/nfdi-tools/magsub/pkg/schema"
	"github.com/nfdi-tools/magsub/pkg/validation"
)

// FieldCheckRequest asks whether a single value conforms to the rule of one
// well-known field key, like "site_pH" or "sample_samp_taxon_id".
type FieldCheckRequest struct {
	FieldKey string `json:"field_key"`
	Value    string `json:"value"`
}

// FieldCheckResponse reports the verdict for a FieldCheckRequest.
type FieldCheckResponse struct {
	FieldKey string `json:"field_key"`
	Value    string `json:"value"`
	Valid    bool   `json:"valid"`

	// Error explains the verdict when the value is not valid.
	Error string `json:"error,omitempty"`
}

// FieldDescription is the client-facing view of one schema field.
type FieldDescription struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Example     string   `json:"example,omitempty"`
	Required    bool     `json:"required"`
	Pattern     string   `json:"pattern,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

func (f FieldDescription) Equal(o FieldDescription) bool {
	return f.Name == o.Name &&
		f.Description == o.Description &&
		f.Expected == o.Expected &&
		f.Example == o.Example &&
		f.Required == o.Required &&
		f.Pattern == o.Pattern &&
		cmp.SliceEq(f.Enum, o.Enum)
}

// ComposeFieldDescription converts an in-memory field definition into its
// wire representation.
func ComposeFieldDescription(def schema.FieldDefinition) FieldDescription {
	return FieldDescription{
		Name:        def.Name,
		Description: def.Description,
		Expected:    def.Expected,
		Example:     def.Example,
		Required:    def.Required,
		Pattern:     def.PatternSrc,
		Enum:        def.Enum,
	}
}

// Issue is one finding of a table validation run.
type Issue struct {
	// Row is the zero-based data row the finding belongs to,
	// or null for table-level findings.
	Row *int `json:"row"`

	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (i Issue) Equal(o Issue) bool {
	if (i.Row == nil) != (o.Row == nil) {
		return false
	}
	if i.Row != nil && *i.Row != *o.Row {
		return false
	}
	return i.Field == o.Field && i.Value == o.Value && i.Message == o.Message
}

// TableCheckResponse is the result of validating a whole metadata table.
type TableCheckResponse struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`

	// CountByField maps column names to the number of findings they carry.
	CountByField map[string]int `json:"count_by_field"`

	// Mask flags each cell of the submitted table: true means the cell
	// has at least one finding. Row and column order follow the table.
	Mask [][]bool `json:"mask"`
}

// ComposeIssue converts a validation finding into its wire representation.
func ComposeIssue(in validation.Issue) Issue {
	return Issue{
		Row:     in.Row,
		Field:   in.Field,
		Value:   in.Value,
		Message: in.Message,
	}
}
