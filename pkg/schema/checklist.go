package schema

import (
	"encoding/xml"
	"fmt"
	"io"
)

// structure of an ENA checklist document, reduced to what this tool
// reads. Checklists nest FIELDs in FIELD_GROUPs under DESCRIPTOR.
type checklistDoc struct {
	XMLName xml.Name        `xml:"CHECKLIST_SET"`
	Fields  []checklistItem `xml:"CHECKLIST>DESCRIPTOR>FIELD_GROUP>FIELD"`
}

type checklistItem struct {
	Label       string   `xml:"LABEL"`
	Description string   `xml:"DESCRIPTION"`
	Mandatory   string   `xml:"MANDATORY"`
	Regex       string   `xml:"FIELD_TYPE>TEXT_FIELD>REGEX_VALUE"`
	Choices     []string `xml:"FIELD_TYPE>TEXT_CHOICE_FIELD>TEXT_VALUE>VALUE"`
}

// LoadChecklist reads an ENA checklist XML document and normalizes it
// into field definitions.
//
// Ahead of the checklist's own fields it seeds the identity columns the
// submission needs but the checklist does not declare (sample_name,
// organism, tax_id), and after them the assembly columns required by
// the upload manifest (genome coverage, platform).
//
// # Args
//
// - r: checklist XML.
//
// # Returns
//
// - *Fields: loaded definitions, in checklist order.
//
// - error: when the document is not parsable at all. A field whose
// REGEX_VALUE does not compile is loaded marked BadPattern instead of
// failing the load.
func LoadChecklist(r io.Reader) (*Fields, error) {
	doc := checklistDoc{}
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("broken checklist document: %w", err)
	}

	fields := NewFields()
	fields.Add(FieldDefinition{
		Name:        "sample_name",
		Description: "Name of the sample. Must match the submitted fasta.gz file name.",
		Kind:        Free,
		Required:    true,
	})
	fields.Add(FieldDefinition{
		Name:        "organism",
		Description: "Scientific name of the organism.",
		Kind:        Free,
		Required:    true,
	})
	fields.Add(FieldDefinition{
		Name:        "tax_id",
		Description: "NCBI Taxonomy ID of the organism.",
		Kind:        Free,
		Required:    true,
	})

	for _, item := range doc.Fields {
		if item.Label == "" {
			continue
		}
		def := FieldDefinition{
			Name:        item.Label,
			Description: item.Description,
			Required:    item.Mandatory == "mandatory",
		}
		switch {
		case item.Regex != "":
			def.Kind = Regex
			compilePattern(&def, item.Regex)
		case 0 < len(item.Choices):
			def.Kind = Enum
			def.Enum = append([]string{}, item.Choices...)
		default:
			def.Kind = Free
		}
		fields.Add(def)
	}

	coverage := FieldDefinition{
		Name:        "genome coverage",
		Description: "The estimated depth of sequencing coverage.",
		Kind:        Regex,
		Required:    true,
	}
	compilePattern(&coverage, `^(?:0?\.[0-9]*[1-9][0-9]*|[1-9][0-9]*(?:\.[0-9]+)?)$`)
	fields.Add(coverage)

	fields.Add(FieldDefinition{
		Name:        "platform",
		Description: "The sequencing platform, or comma-separated list of platforms.",
		Kind:        Free,
		Required:    true,
	})

	return fields, nil
}
