// Package submit drives the two-phase ENA submission: register
// metadata batches, then upload each accepted sample's sequence file
// through the external webin-cli tool.
package submit

import (
	"compress/gzip"
	"fmt"
	"os"
	"strings"
)

// AssemblyType is fixed: everything this tool submits is a MAG.
const AssemblyType = "Metagenome-Assembled Genome (MAG)"

// Manifest is the per-sample descriptor handed to the upload tool.
type Manifest struct {
	Study        string
	Sample       string
	AssemblyName string
	Coverage     string
	Program      string
	Platform     string
	Fasta        string

	// ChromosomeList points at the gzipped chromosome-list side file.
	// Set only for single-record assemblies.
	ChromosomeList string
}

// Render serializes the manifest in the KEY<TAB>VALUE format webin-cli
// reads. The CHROMOSOME_LIST line appears only when set.
func (m Manifest) Render() string {
	lines := []string{
		"STUDY\t" + m.Study,
		"SAMPLE\t" + m.Sample,
		"ASSEMBLYNAME\t" + m.AssemblyName,
		"ASSEMBLY_TYPE\t" + AssemblyType,
		"COVERAGE\t" + m.Coverage,
		"PROGRAM\t" + m.Program,
		"PLATFORM\t" + m.Platform,
		"FASTA\t" + m.Fasta,
	}
	if m.ChromosomeList != "" {
		lines = append(lines, "CHROMOSOME_LIST\t"+m.ChromosomeList)
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteTemp writes the rendered manifest to a temporary file and
// returns its path. The caller removes it after the upload tool
// returns, whatever the outcome.
func (m Manifest) WriteTemp() (string, error) {
	f, err := os.CreateTemp("", "manifest-*.txt")
	if err != nil {
		return "", fmt.Errorf("cannot stage manifest: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(m.Render()); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("cannot stage manifest: %w", err)
	}
	return f.Name(), nil
}

// StageChromosomeList writes the gzipped chromosome-list side file for
// a single-record assembly: one line tagging the record as a
// chromosome. Returns the temporary file's path; the caller removes it
// together with the manifest.
func StageChromosomeList(header string, alias string) (string, error) {
	f, err := os.CreateTemp("", "chromosome-list-*.gz")
	if err != nil {
		return "", fmt.Errorf("cannot stage chromosome list: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(header + "\t" + alias + "\tchromosome")); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("cannot stage chromosome list: %w", err)
	}
	if err := gz.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("cannot stage chromosome list: %w", err)
	}
	return f.Name(), nil
}
