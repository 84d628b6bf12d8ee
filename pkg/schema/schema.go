package schema

import (
	"regexp"
	"strings"
)

// Kind is the closed set of semantic kinds a metadata field can have.
//
// It drives value coercion (dates, numbers) and editor column types.
// Pattern and Enum constraints are carried on the FieldDefinition
// itself, independent of the Kind.
type Kind int

const (
	Free Kind = iota
	Regex
	Enum
	Date
	Number
	Lat
	Lon
)

func (k Kind) String() string {
	switch k {
	case Regex:
		return "regex"
	case Enum:
		return "enum"
	case Date:
		return "date"
	case Number:
		return "number"
	case Lat:
		return "lat"
	case Lon:
		return "lon"
	default:
		return "free"
	}
}

// FieldDefinition describes one metadata column.
//
// It is immutable once loaded; loaders return a fresh Fields collection
// per call, one definition per column name.
type FieldDefinition struct {
	Name        string
	Kind        Kind
	Description string
	Expected    string
	Example     string
	Required    bool

	// Pattern is the compiled regex, anchored so that MatchString
	// means "the whole value matches". nil when the field has no
	// pattern.
	Pattern *regexp.Regexp

	// PatternSrc is the pattern text as loaded. It is kept even when
	// compilation failed, for error messages.
	PatternSrc string

	// BadPattern is set when PatternSrc did not compile. Validation
	// reports such fields as invalid with an explanatory message
	// instead of silently passing them.
	BadPattern bool

	// Enum is the ordered closed vocabulary for the field. Empty means
	// the field is not enumerated.
	Enum []string
}

// HasPattern reports whether a pattern check applies to this field,
// compilable or not.
func (d FieldDefinition) HasPattern() bool {
	return d.Pattern != nil || d.BadPattern
}

// Fields is an ordered collection of field definitions, keyed by name.
type Fields struct {
	order  []string
	byName map[string]FieldDefinition
}

func NewFields() *Fields {
	return &Fields{byName: map[string]FieldDefinition{}}
}

// Add registers def. When a definition with the same name exists
// already, the first one wins and Add is a no-op (the field-spec CSV
// may carry duplicated rows).
func (f *Fields) Add(def FieldDefinition) {
	if _, ok := f.byName[def.Name]; ok {
		return
	}
	f.order = append(f.order, def.Name)
	f.byName[def.Name] = def
}

func (f *Fields) Get(name string) (FieldDefinition, bool) {
	def, ok := f.byName[name]
	return def, ok
}

// GetFold looks a field up by case-insensitive name.
func (f *Fields) GetFold(name string) (FieldDefinition, bool) {
	if def, ok := f.byName[name]; ok {
		return def, true
	}
	for n, def := range f.byName {
		if strings.EqualFold(n, name) {
			return def, true
		}
	}
	return FieldDefinition{}, false
}

func (f *Fields) Has(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Names returns the field names in declaration order.
func (f *Fields) Names() []string {
	return append([]string{}, f.order...)
}

func (f *Fields) Len() int {
	return len(f.order)
}

// Required returns the names of required fields, in declaration order.
func (f *Fields) Required() []string {
	req := []string{}
	for _, n := range f.order {
		if f.byName[n].Required {
			req = append(req, n)
		}
	}
	return req
}

// compilePattern compiles src into def's Pattern slot. A non-compilable
// pattern is a field-local schema error: the definition is still
// loaded, marked BadPattern.
func compilePattern(def *FieldDefinition, src string) {
	def.PatternSrc = src
	if src == "" {
		return
	}
	// anchored so a match is always a whole-value match.
	if re, err := regexp.Compile(`\A(?:` + src + `)\z`); err == nil {
		def.Pattern = re
	} else {
		def.BadPattern = true
	}
}

// AllowedChecklists is the closed vocabulary of the ENA-CHECKLIST
// column. ERC000047 is the checklist this tool submits against; the
// others are accepted for tables prepared for related checklists.
var AllowedChecklists = []string{
	"ERC000011",
	"ERC000012",
	"ERC000013",
	"ERC000047",
}

// ChecklistColumn is the column naming the ENA checklist a row is
// validated against. The submission pipeline stamps it.
const ChecklistColumn = "ENA-CHECKLIST"

// DefaultChecklistID is stamped on every submitted row.
const DefaultChecklistID = "ERC000047"

// RequiredColumns are the columns every submittable table must carry,
// enforced as required regardless of what the schema source declares.
var RequiredColumns = []string{
	"sample_name",
	"experiment",
	"completeness score",
	"contamination score",
	"organism",
	"tax_id",
	"metagenomic source",
	"sample derived from",
	"project name",
	"completeness software",
	"binning software",
	"assembly quality",
	"binning parameters",
	"taxonomic identity marker",
	"isolation_source",
	"collection date",
	"geographic location (latitude)",
	"geographic location (longitude)",
	"broad-scale environmental context",
	"local environmental context",
	"environmental medium",
	"geographic location (country and/or sea)",
	"assembly software",
	"genome coverage",
	"platform",
	ChecklistColumn,
}

// IsRequiredColumn reports whether name is one of RequiredColumns,
// compared case-insensitively.
func IsRequiredColumn(name string) bool {
	for _, c := range RequiredColumns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
