package fasta_test

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/nfdi-tools/magsub/pkg/cmp"
	"github.com/nfdi-tools/magsub/pkg/fasta"
	"github.com/nfdi-tools/magsub/pkg/utils/try"
)

func writeGz(t *testing.T, path string, content string) {
	t.Helper()
	f := try.To(os.Create(path)).OrFatal(t)
	defer f.Close()
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCollect(t *testing.T) {
	t.Run("it maps sample names to their files", func(t *testing.T) {
		dir := t.TempDir()
		writeGz(t, filepath.Join(dir, "mag_001.fasta.gz"), ">contig_1\nACGT\n")
		writeGz(t, filepath.Join(dir, "mag_002.fasta.gz"), ">contig_1\nACGT\n")
		try.To(os.Create(filepath.Join(dir, "notes.txt"))).OrFatal(t).Close()

		files := try.To(fasta.Collect(dir)).OrFatal(t)
		if len(files) != 2 {
			t.Fatalf("2 files expected: %v", files)
		}
		for _, sample := range []string{"mag_001", "mag_002"} {
			path, ok := files[sample]
			if !ok || !filepath.IsAbs(path) {
				t.Errorf("%s should map to an absolute path: %q", sample, path)
			}
		}
	})

	t.Run("a missing directory is an error", func(t *testing.T) {
		if _, err := fasta.Collect(filepath.Join(t.TempDir(), "nowhere")); err == nil {
			t.Error("error expected")
		}
	})
}

func TestMissing(t *testing.T) {
	files := map[string]string{"mag_001": "/tmp/mag_001.fasta.gz"}
	missing := fasta.Missing([]string{"mag_001", "mag_002", "mag_003"}, files)
	if !cmp.SliceEq(missing, []string{"mag_002", "mag_003"}) {
		t.Errorf("unexpected missing set: %v", missing)
	}
}

func TestStage(t *testing.T) {
	src := t.TempDir()
	writeGz(t, filepath.Join(src, "mag_001.fasta.gz"), ">contig_1\nACGT\n")
	files := try.To(fasta.Collect(src)).OrFatal(t)

	dst := t.TempDir()
	staged := try.To(fasta.Stage(dst, files)).OrFatal(t)

	path, ok := staged["mag_001"]
	if !ok || filepath.Dir(path) != dst {
		t.Fatalf("copy should land in the staging dir: %q", path)
	}
	original := try.To(os.ReadFile(files["mag_001"])).OrFatal(t)
	copied := try.To(os.ReadFile(path)).OrFatal(t)
	if string(original) != string(copied) {
		t.Error("staged copy should be identical")
	}
	if err := os.Remove(path); err != nil {
		t.Errorf("staged copy should be removable: %s", err)
	}
	if _, err := os.Stat(files["mag_001"]); err != nil {
		t.Errorf("the original must survive staging: %s", err)
	}
}

func TestScan(t *testing.T) {
	t.Run("a single-record file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mag_001.fasta.gz")
		writeGz(t, path, "> chromosome_1 circular\nACGTACGT\nACGT\n")

		summary := try.To(fasta.Scan(path)).OrFatal(t)
		if !summary.SingleRecord {
			t.Error("the file holds exactly one record")
		}
		if summary.Header != "chromosome_1 circular" {
			t.Errorf("unexpected header: %q", summary.Header)
		}
	})

	t.Run("a multi-record file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mag_002.fasta.gz")
		writeGz(t, path, ">contig_1\nACGT\n>contig_2\nACGT\n>contig_3\nACGT\n")

		summary := try.To(fasta.Scan(path)).OrFatal(t)
		if summary.SingleRecord {
			t.Error("the file holds several records")
		}
		if summary.Header != "contig_1" {
			t.Errorf("the first header should be kept: %q", summary.Header)
		}
	})

	t.Run("a file with no records is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "empty.fasta.gz")
		writeGz(t, path, "")
		if _, err := fasta.Scan(path); err == nil {
			t.Error("error expected")
		}
	})

	t.Run("a non-gzip file is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "plain.fasta.gz")
		if err := os.WriteFile(path, []byte(">contig_1\nACGT\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := fasta.Scan(path); err == nil {
			t.Error("error expected")
		}
	})
}
