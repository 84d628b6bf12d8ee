package webin_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nfdi-tools/magsub/pkg/dataset"
	"github.com/nfdi-tools/magsub/pkg/schema"
	"github.com/nfdi-tools/magsub/pkg/utils/try"
	"github.com/nfdi-tools/magsub/pkg/webin"
)

func submittableFields() *schema.Fields {
	fields := schema.NewFields()
	for _, name := range schema.RequiredColumns {
		fields.Add(schema.FieldDefinition{Name: name, Required: true})
	}
	fields.Add(schema.FieldDefinition{Name: "depth"})
	fields.Add(schema.FieldDefinition{Name: "notes"})
	return fields
}

func submittableRow(name string) map[string]string {
	row := map[string]string{
		"sample_name":         name,
		"organism":            "uncultured organism",
		"tax_id":              "155900",
		"sample derived from": "ERS9876543",
		"project name":        "Forest soil metagenome",
		"completeness score":  "93.5",
		"contamination score": "2.1",
		"assembly software":   "SPAdes v3.15",
		"genome coverage":     "42.0",
		"platform":            "Illumina NovaSeq 6000",
		"depth":               "0.5",
	}
	return row
}

func testTable(t *testing.T, rows ...map[string]string) *dataset.Dataset {
	t.Helper()
	fields := submittableFields()
	d := dataset.WithColumns(fields.Names(), fields)
	for _, row := range rows {
		d.Append(row)
	}
	return d
}

func TestBuilderBuild(t *testing.T) {
	study := webin.Study{
		Name:        "forest-soil-mags",
		Title:       "Forest soil MAGs",
		Description: "MAGs recovered from forest soil metagenomes",
	}

	t.Run("a new study gets a PROJECT_SET, a known accession does not", func(t *testing.T) {
		d := testTable(t, submittableRow("mag_001"))
		b := webin.NewBuilder()

		doc := try.To(b.Build(d, study, 0)).OrFatal(t)
		if doc.Project == nil {
			t.Fatal("PROJECT_SET expected when no accession is known")
		}
		if doc.Project.Project.Alias != "forest-soil-mags" {
			t.Errorf("unexpected project alias: %s", doc.Project.Project.Alias)
		}

		doc = try.To(b.Build(d, webin.Study{Accession: "PRJEB00001"}, 0)).OrFatal(t)
		if doc.Project != nil {
			t.Error("PROJECT_SET should be omitted for a registered study")
		}
	})

	t.Run("samples carry identity, title and the fixed attribute order", func(t *testing.T) {
		d := testTable(t, submittableRow("mag_001"))
		doc := try.To(webin.NewBuilder().Build(d, study, 0)).OrFatal(t)

		if len(doc.Samples.Samples) != 1 {
			t.Fatalf("1 sample expected: %d", len(doc.Samples.Samples))
		}
		sample := doc.Samples.Samples[0]
		if sample.Alias != "mag_001" {
			t.Errorf("unexpected alias: %s", sample.Alias)
		}
		if sample.Name.TaxonID != "155900" || sample.Name.ScientificName != "uncultured organism" {
			t.Errorf("unexpected SAMPLE_NAME: %+v", sample.Name)
		}
		if !strings.HasSuffix(sample.Title, "ERS9876543") {
			t.Errorf("title should name the source sample: %s", sample.Title)
		}

		if sample.Attributes[0].Tag != "metagenomic source" {
			t.Errorf("first attribute should be metagenomic source: %+v", sample.Attributes[0])
		}
		last := sample.Attributes[len(sample.Attributes)-1]
		if last.Tag != schema.ChecklistColumn || last.Value != schema.DefaultChecklistID {
			t.Errorf("the checklist must be stamped last: %+v", last)
		}
	})

	t.Run("score and coordinate attributes carry units", func(t *testing.T) {
		d := testTable(t, submittableRow("mag_001"))
		doc := try.To(webin.NewBuilder().Build(d, study, 0)).OrFatal(t)

		units := map[string]string{}
		for _, attr := range doc.Samples.Samples[0].Attributes {
			units[attr.Tag] = attr.Units
		}
		for tag, expected := range map[string]string{
			"completeness score":              "%",
			"contamination score":             "%",
			"geographic location (latitude)":  "DD",
			"geographic location (longitude)": "DD",
			"assembly software":               "",
		} {
			if units[tag] != expected {
				t.Errorf("units of %q: expected %q (actual: %q)", tag, expected, units[tag])
			}
		}
	})

	t.Run("user columns ride along, manifest columns and empties do not", func(t *testing.T) {
		d := testTable(t, submittableRow("mag_001"))
		doc := try.To(webin.NewBuilder().Build(d, study, 0)).OrFatal(t)

		tags := map[string]bool{}
		for _, attr := range doc.Samples.Samples[0].Attributes {
			tags[attr.Tag] = true
		}
		if !tags["depth"] {
			t.Error("non-empty user column should become an attribute")
		}
		if tags["notes"] {
			t.Error("empty user column should be skipped")
		}
		if tags["platform"] || tags["genome coverage"] {
			t.Error("manifest columns must not become attributes")
		}
	})

	t.Run("an out-of-range offset is an error", func(t *testing.T) {
		d := testTable(t, submittableRow("mag_001"))
		if _, err := webin.NewBuilder().Build(d, study, 5); err == nil {
			t.Error("error expected")
		}
	})
}

func TestBuilderBatching(t *testing.T) {
	t.Run("1500 rows make two documents of 1000 and 500 samples", func(t *testing.T) {
		rows := []map[string]string{}
		for nth := 0; nth < 1500; nth += 1 {
			rows = append(rows, submittableRow(fmt.Sprintf("mag_%04d", nth)))
		}
		d := testTable(t, rows...)

		b := webin.NewBuilder()
		documents := try.To(b.BuildAll(d, webin.Study{Accession: "PRJEB00001"})).OrFatal(t)

		if len(documents) != 2 {
			t.Fatalf("2 documents expected: %d", len(documents))
		}
		if len(documents[0].Samples.Samples) != 1000 || len(documents[1].Samples.Samples) != 500 {
			t.Errorf(
				"unexpected batch sizes: %d, %d",
				len(documents[0].Samples.Samples), len(documents[1].Samples.Samples),
			)
		}
		if documents[0].Samples.Samples[0].Alias != "mag_0000" {
			t.Errorf("row order should survive batching: %s", documents[0].Samples.Samples[0].Alias)
		}
		if documents[1].Samples.Samples[0].Alias != "mag_1000" {
			t.Errorf("second batch should start at row 1000: %s", documents[1].Samples.Samples[0].Alias)
		}
	})

	t.Run("Offsets honors a custom batch size", func(t *testing.T) {
		b := webin.NewBuilder(webin.WithBatchSize(2))
		offsets := b.Offsets(5)
		if len(offsets) != 3 || offsets[0] != 0 || offsets[1] != 2 || offsets[2] != 4 {
			t.Errorf("unexpected offsets: %v", offsets)
		}
		if len(b.Offsets(0)) != 0 {
			t.Error("an empty table has no batches")
		}
	})
}

func TestDocumentEncode(t *testing.T) {
	t.Run("serialization is reproducible and carries the declaration", func(t *testing.T) {
		d := testTable(t, submittableRow("mag_001"))
		doc := try.To(webin.NewBuilder(webin.WithCenterName("NFDI")).Build(d, webin.Study{Accession: "PRJEB00001"}, 0)).OrFatal(t)

		first := try.To(doc.Encode()).OrFatal(t)
		second := try.To(doc.Encode()).OrFatal(t)
		if string(first) != string(second) {
			t.Error("serialization should be byte-for-byte reproducible")
		}

		text := string(first)
		if !strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`) {
			t.Errorf("declaration expected: %s", text[:60])
		}
		for _, fragment := range []string{
			"<WEBIN>",
			"<SUBMISSION_SET>", "<ADD>",
			`<SAMPLE alias="mag_001" center_name="NFDI">`,
			"<TAXON_ID>155900</TAXON_ID>",
			"<TAG>completeness score</TAG>",
			"<UNITS>%</UNITS>",
		} {
			if !strings.Contains(text, fragment) {
				t.Errorf("serialized document should contain %s", fragment)
			}
		}
		if strings.Contains(text, "PROJECT_SET") {
			t.Error("no PROJECT_SET expected for a registered study")
		}
	})
}
