// Package webin builds and parses the XML documents exchanged with
// the ENA Webin submission service.
package webin

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/nfdi-tools/magsub/pkg/dataset"
	"github.com/nfdi-tools/magsub/pkg/schema"
)

// DefaultBatchSize is how many samples go into one submission
// document.
const DefaultBatchSize = 1000

// Study identifies the project the samples belong to. Either an
// existing Accession, or Name/Title/Description for a project to be
// created with the first batch.
type Study struct {
	Accession   string
	Name        string
	Title       string
	Description string
}

// Document is one Webin submission payload: the ADD action, the
// project to create (first batch only, when no study accession is
// known yet) and one SAMPLE per metadata row.
type Document struct {
	XMLName    xml.Name      `xml:"WEBIN"`
	Submission submissionSet `xml:"SUBMISSION_SET"`
	Project    *ProjectSet   `xml:"PROJECT_SET,omitempty"`
	Samples    SampleSet     `xml:"SAMPLE_SET"`
}

type submissionSet struct {
	Submission struct {
		Actions struct {
			Action struct {
				Add struct{} `xml:"ADD"`
			} `xml:"ACTION"`
		} `xml:"ACTIONS"`
	} `xml:"SUBMISSION"`
}

type ProjectSet struct {
	Project Project `xml:"PROJECT"`
}

type Project struct {
	Alias       string `xml:"alias,attr"`
	Title       string `xml:"TITLE"`
	Description string `xml:"DESCRIPTION"`
	Submission  struct {
		Sequencing struct{} `xml:"SEQUENCING_PROJECT"`
	} `xml:"SUBMISSION_PROJECT"`
}

type SampleSet struct {
	Samples []Sample `xml:"SAMPLE"`
}

type Sample struct {
	Alias      string      `xml:"alias,attr"`
	CenterName string      `xml:"center_name,attr"`
	Title      string      `xml:"TITLE"`
	Name       SampleName  `xml:"SAMPLE_NAME"`
	Attributes []Attribute `xml:"SAMPLE_ATTRIBUTES>SAMPLE_ATTRIBUTE"`
}

type SampleName struct {
	TaxonID        string `xml:"TAXON_ID"`
	ScientificName string `xml:"SCIENTIFIC_NAME"`
}

type Attribute struct {
	Tag   string `xml:"TAG"`
	Value string `xml:"VALUE"`
	Units string `xml:"UNITS,omitempty"`
}

// Encode serializes the document, indented, with the XML declaration.
// Serialization is byte-for-byte reproducible: element order is fixed
// by the struct layout.
func (d Document) Encode() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot serialize submission document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// orderedAttributes is the fixed attribute sequence of every SAMPLE,
// ahead of user-supplied columns.
var orderedAttributes = []struct {
	Column string
	Units  string
}{
	{Column: "metagenomic source"},
	{Column: "sample derived from"},
	{Column: "project name"},
	{Column: "completeness score", Units: "%"},
	{Column: "completeness software"},
	{Column: "contamination score", Units: "%"},
	{Column: "binning software"},
	{Column: "assembly quality"},
	{Column: "binning parameters"},
	{Column: "taxonomic identity marker"},
	{Column: "isolation_source"},
	{Column: "collection date"},
	{Column: "geographic location (latitude)", Units: "DD"},
	{Column: "geographic location (longitude)", Units: "DD"},
	{Column: "broad-scale environmental context"},
	{Column: "local environmental context"},
	{Column: "environmental medium"},
	{Column: "geographic location (country and/or sea)"},
	{Column: "assembly software"},
}

// reservedColumns feed SAMPLE structure, not attributes.
var reservedColumns = map[string]bool{
	"sample_name":          true,
	"organism":             true,
	"tax_id":               true,
	schema.ChecklistColumn: true,
}

// manifestColumns go into the upload manifest only, never into sample
// attributes.
var manifestColumns = map[string]bool{
	"platform":        true,
	"genome coverage": true,
}

// Builder turns validated metadata rows into submission documents.
type Builder struct {
	batchSize  int
	centerName string
}

type BuilderOption func(*Builder)

func WithBatchSize(n int) BuilderOption {
	return func(b *Builder) {
		if 0 < n {
			b.batchSize = n
		}
	}
}

func WithCenterName(name string) BuilderOption {
	return func(b *Builder) { b.centerName = name }
}

func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{batchSize: DefaultBatchSize}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// BatchSize returns the number of samples per document.
func (b *Builder) BatchSize() int {
	return b.batchSize
}

// Offsets returns the starting row of each batch for a table of n
// data rows: 0, batchSize, 2*batchSize, … Empty for n == 0.
func (b *Builder) Offsets(n int) []int {
	offsets := []int{}
	for at := 0; at < n; at += b.batchSize {
		offsets = append(offsets, at)
	}
	return offsets
}

// Build assembles the document for the batch starting at offset.
//
// study.Accession == "" means the project is not registered yet, so a
// PROJECT_SET is included. Every sample is stamped with the default
// checklist id regardless of what the table carries.
func (b *Builder) Build(d *dataset.Dataset, study Study, offset int) (Document, error) {
	if offset < 0 || d.Len() <= offset {
		return Document{}, fmt.Errorf("batch offset %d out of range (table has %d rows)", offset, d.Len())
	}

	doc := Document{}
	if study.Accession == "" {
		doc.Project = &ProjectSet{
			Project: Project{
				Alias:       study.Name,
				Title:       study.Title,
				Description: study.Description,
			},
		}
	}

	end := offset + b.batchSize
	if d.Len() < end {
		end = d.Len()
	}
	for row := offset; row < end; row += 1 {
		doc.Samples.Samples = append(doc.Samples.Samples, b.sample(d, row))
	}
	return doc, nil
}

// BuildAll assembles every batch with the same study descriptor.
func (b *Builder) BuildAll(d *dataset.Dataset, study Study) ([]Document, error) {
	documents := []Document{}
	for _, offset := range b.Offsets(d.Len()) {
		doc, err := b.Build(d, study, offset)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

func (b *Builder) sample(d *dataset.Dataset, row int) Sample {
	alias := d.Cell(row, "sample_name")
	sample := Sample{
		Alias:      alias,
		CenterName: b.centerName,
		Title: "This sample represents a MAG derived from the metagenomic sample " +
			d.Cell(row, "sample derived from"),
		Name: SampleName{
			TaxonID:        d.Cell(row, "tax_id"),
			ScientificName: d.Cell(row, "organism"),
		},
	}

	explicit := map[string]bool{}
	for _, attr := range orderedAttributes {
		explicit[attr.Column] = true
		sample.Attributes = append(sample.Attributes, Attribute{
			Tag:   attr.Column,
			Value: d.Cell(row, attr.Column),
			Units: attr.Units,
		})
	}

	for _, column := range d.Columns() {
		if reservedColumns[column] || manifestColumns[column] || explicit[column] {
			continue
		}
		value := d.Cell(row, column)
		if strings.TrimSpace(value) == "" {
			continue
		}
		sample.Attributes = append(sample.Attributes, Attribute{Tag: column, Value: value})
	}

	sample.Attributes = append(sample.Attributes, Attribute{
		Tag:   schema.ChecklistColumn,
		Value: schema.DefaultChecklistID,
	})
	return sample
}
