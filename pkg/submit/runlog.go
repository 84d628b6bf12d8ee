package submit

import (
	"fmt"
	"os"
	"path/filepath"
)

// RunLog is the per-run audit trail: receipt XML per batch, and one
// entry per sample in success.txt or error.txt with the upload tool's
// raw output.
type RunLog struct {
	dir string
}

// NewRunLog (re)creates the log directory. Logs from an earlier run
// are removed; each run's trail stands alone.
func NewRunLog(dir string) (*RunLog, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("cannot reset log directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory %s: %w", dir, err)
	}
	return &RunLog{dir: dir}, nil
}

// SaveReceipt stores a batch's raw receipt XML as log_<offset>.xml.
func (l *RunLog) SaveReceipt(offset int, body []byte) error {
	path := filepath.Join(l.dir, fmt.Sprintf("log_%d.xml", offset))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("cannot save receipt %s: %w", path, err)
	}
	return nil
}

// Success appends one uploaded sample's entry to success.txt.
func (l *RunLog) Success(alias string, output string) error {
	return l.append("success.txt", alias, output)
}

// Error appends one failed sample's entry to error.txt.
func (l *RunLog) Error(alias string, output string) error {
	return l.append("error.txt", alias, output)
}

func (l *RunLog) append(name string, alias string, output string) error {
	path := filepath.Join(l.dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot append to %s: %w", path, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "SAMPLE : %s\n%s", alias, output); err != nil {
		return fmt.Errorf("cannot append to %s: %w", path, err)
	}
	return nil
}
