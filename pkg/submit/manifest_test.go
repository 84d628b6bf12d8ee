package submit_test

import (
	"compress/gzip"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/nfdi-tools/magsub/pkg/submit"
	"github.com/nfdi-tools/magsub/pkg/utils/try"
)

func TestManifest(t *testing.T) {
	manifest := submit.Manifest{
		Study:        "PRJEB99999",
		Sample:       "ERS1111111",
		AssemblyName: "mag_001",
		Coverage:     "42.0",
		Program:      "SPAdes v3.15",
		Platform:     "Illumina NovaSeq 6000",
		Fasta:        "/staging/mag_001.fasta.gz",
	}

	t.Run("it renders the fixed key order", func(t *testing.T) {
		lines := strings.Split(strings.TrimRight(manifest.Render(), "\n"), "\n")
		expected := []string{
			"STUDY\tPRJEB99999",
			"SAMPLE\tERS1111111",
			"ASSEMBLYNAME\tmag_001",
			"ASSEMBLY_TYPE\tMetagenome-Assembled Genome (MAG)",
			"COVERAGE\t42.0",
			"PROGRAM\tSPAdes v3.15",
			"PLATFORM\tIllumina NovaSeq 6000",
			"FASTA\t/staging/mag_001.fasta.gz",
		}
		if len(lines) != len(expected) {
			t.Fatalf("unexpected manifest: %q", lines)
		}
		for nth, line := range expected {
			if lines[nth] != line {
				t.Errorf("line %d: expected %q (actual: %q)", nth, line, lines[nth])
			}
		}
	})

	t.Run("the chromosome list line appears only when set", func(t *testing.T) {
		if strings.Contains(manifest.Render(), "CHROMOSOME_LIST") {
			t.Error("no CHROMOSOME_LIST expected")
		}
		withList := manifest
		withList.ChromosomeList = "/tmp/list.gz"
		if !strings.HasSuffix(strings.TrimRight(withList.Render(), "\n"), "CHROMOSOME_LIST\t/tmp/list.gz") {
			t.Errorf("CHROMOSOME_LIST should be the last line: %q", withList.Render())
		}
	})

	t.Run("WriteTemp stages the rendered manifest", func(t *testing.T) {
		path := try.To(manifest.WriteTemp()).OrFatal(t)
		defer os.Remove(path)

		content := try.To(os.ReadFile(path)).OrFatal(t)
		if string(content) != manifest.Render() {
			t.Errorf("staged manifest differs:\n%s", content)
		}
	})
}

func TestStageChromosomeList(t *testing.T) {
	path := try.To(submit.StageChromosomeList("chromosome_1 circular", "mag_001")).OrFatal(t)
	defer os.Remove(path)

	f := try.To(os.Open(path)).OrFatal(t)
	defer f.Close()
	gz := try.To(gzip.NewReader(f)).OrFatal(t)
	defer gz.Close()

	content := try.To(io.ReadAll(gz)).OrFatal(t)
	if string(content) != "chromosome_1 circular\tmag_001\tchromosome" {
		t.Errorf("unexpected chromosome list: %q", content)
	}
}
