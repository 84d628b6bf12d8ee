// Package fasta locates and inspects the gzipped sequence files paired
// with metadata rows.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Suffix is the file naming convention pairing a sequence file with
// its sample: <sample_name>.fasta.gz.
const Suffix = ".fasta.gz"

// Collect maps the sample names under dir to their sequence files.
// Only files matching the naming convention are picked up.
func Collect(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot scan sequence directory %s: %w", dir, err)
	}
	found := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Suffix) {
			continue
		}
		sample := strings.TrimSuffix(entry.Name(), Suffix)
		path, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		found[sample] = path
	}
	return found, nil
}

// Missing returns the sample names in aliases that have no sequence
// file, sorted by their order in aliases.
func Missing(aliases []string, files map[string]string) []string {
	missing := []string{}
	for _, alias := range aliases {
		if _, ok := files[alias]; !ok {
			missing = append(missing, alias)
		}
	}
	return missing
}

// Stage copies the sequence files into dir and returns a map pointing
// at the copies. Submission runs consume staged copies so that
// end-of-run cleanup never touches the caller's originals.
func Stage(dir string, files map[string]string) (map[string]string, error) {
	staged := map[string]string{}
	for sample, src := range files {
		dst := filepath.Join(dir, sample+Suffix)
		if err := copyFile(dst, src); err != nil {
			return nil, fmt.Errorf("cannot stage sequence file for %s: %w", sample, err)
		}
		staged[sample] = dst
	}
	return staged, nil
}

func copyFile(dst string, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Summary is what a submission needs to know about a sequence file:
// whether it holds one record or many, and the first record's header.
type Summary struct {
	// SingleRecord is true when the file holds exactly one sequence.
	SingleRecord bool

	// Header is the first record's header line, ">" and surrounding
	// whitespace stripped.
	Header string
}

// Scan reads a gzipped FASTA file just far enough to tell one record
// from many. Scanning stops as soon as a second record is seen; the
// exact count beyond "one vs many" is never needed.
func Scan(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("cannot read sequence file %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Summary{}, fmt.Errorf("cannot read sequence file %s: %w", path, err)
	}
	defer gz.Close()

	summary := Summary{}
	records := 0
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}
		records += 1
		if records == 1 {
			summary.Header = strings.TrimSpace(line[1:])
		}
		if 1 < records {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return Summary{}, fmt.Errorf("cannot read sequence file %s: %w", path, err)
	}
	if records == 0 {
		return Summary{}, fmt.Errorf("sequence file %s holds no records", path)
	}
	summary.SingleRecord = records == 1
	return summary, nil
}
