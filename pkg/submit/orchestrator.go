package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/nfdi-tools/magsub/pkg/dataset"
	"github.com/nfdi-tools/magsub/pkg/fasta"
	"github.com/nfdi-tools/magsub/pkg/webin"
)

// Status is where one sample stands in the submission run.
type Status string

const (
	StatusBuilt        Status = "BUILT"
	StatusRegistered   Status = "REGISTERED"
	StatusUploading    Status = "UPLOADING"
	StatusUploaded     Status = "UPLOADED"
	StatusUploadFailed Status = "UPLOAD_FAILED"
)

// Registrar queues one encoded submission document with the archive
// and returns the raw receipt XML, polling as long as the service is
// still processing.
type Registrar interface {
	Register(ctx context.Context, document []byte) ([]byte, error)
}

// Summary aggregates the outcome of a whole run.
type Summary struct {
	Submitted int
	Errored   int

	// StudyAccession is the project everything was submitted under,
	// whether supplied or freshly registered.
	StudyAccession string

	// Samples maps each sample to the state it ended the run in.
	Samples map[string]Status
}

// Orchestrator drives the registration and upload of a validated
// metadata table, strictly sequentially: one registration per batch,
// then one upload per accepted sample.
type Orchestrator struct {
	builder   *webin.Builder
	registrar Registrar
	tool      Tool
	logger    *log.Logger
	logsDir   string
	progress  io.Writer
}

type Option func(*Orchestrator)

// WithLogsDir relocates the audit trail. Default "logs".
func WithLogsDir(dir string) Option {
	return func(o *Orchestrator) { o.logsDir = dir }
}

// WithProgress draws a per-batch progress bar on w.
func WithProgress(w io.Writer) Option {
	return func(o *Orchestrator) { o.progress = w }
}

func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

func New(builder *webin.Builder, registrar Registrar, tool Tool, options ...Option) *Orchestrator {
	o := &Orchestrator{
		builder:   builder,
		registrar: registrar,
		tool:      tool,
		logger:    log.New(io.Discard, "", log.LstdFlags),
		logsDir:   "logs",
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Run submits the table: per batch, register the metadata document and
// upload each sample the receipt gave an accession for.
//
// files maps sample names to their staged sequence files; a sample
// without a file is a hard error before anything is sent. Staged files
// are removed best-effort when the run ends.
func (o *Orchestrator) Run(
	ctx context.Context,
	d *dataset.Dataset,
	study webin.Study,
	files map[string]string,
) (Summary, error) {
	summary := Summary{Samples: map[string]Status{}}

	aliases := []string{}
	for row := 0; row < d.Len(); row += 1 {
		aliases = append(aliases, d.Cell(row, "sample_name"))
	}
	if missing := fasta.Missing(aliases, files); 0 < len(missing) {
		return summary, fmt.Errorf(
			"missing sequence files for: %s", strings.Join(missing, ", "),
		)
	}
	defer func() {
		// staged inputs are spent after a run, success or not.
		for _, path := range files {
			os.Remove(path)
		}
	}()

	logs, err := NewRunLog(o.logsDir)
	if err != nil {
		return summary, err
	}

	for _, alias := range aliases {
		summary.Samples[alias] = StatusBuilt
	}

	offsets := o.builder.Offsets(d.Len())
	var bar *pb.ProgressBar
	if o.progress != nil {
		bar = pb.New(len(offsets))
		bar.SetWriter(o.progress)
		bar.Start()
		defer bar.Finish()
	}

	for _, offset := range offsets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		document, err := o.builder.Build(d, study, offset)
		if err != nil {
			return summary, err
		}
		encoded, err := document.Encode()
		if err != nil {
			return summary, err
		}

		end := offset + o.builder.BatchSize()
		if d.Len() < end {
			end = d.Len()
		}

		// a failed registration spoils this batch only. later batches
		// still get their chance.
		body, err := o.registrar.Register(ctx, encoded)
		if err != nil {
			if ctx.Err() != nil {
				return summary, err
			}
			o.logger.Printf("registration of batch at row %d: %s", offset, err)
			summary.Errored += end - offset
			if bar != nil {
				bar.Increment()
			}
			continue
		}
		if err := logs.SaveReceipt(offset, body); err != nil {
			return summary, err
		}

		receipt, err := webin.ParseReceipt(bytes.NewReader(body))
		if err != nil {
			o.logger.Printf("registration of batch at row %d: %s", offset, err)
			summary.Errored += end - offset
			if bar != nil {
				bar.Increment()
			}
			continue
		}

		accessions, failures := receipt.Accessions()
		for _, message := range failures {
			o.logger.Printf("submission error: %s", message)
		}
		if study.Accession == "" {
			study.Accession = receipt.ProjectAccession()
		}

		for row := offset; row < end; row += 1 {
			alias := d.Cell(row, "sample_name")
			accession, ok := accessions[alias]
			if !ok {
				summary.Errored += 1
				continue
			}
			summary.Samples[alias] = StatusRegistered

			status, err := o.upload(ctx, logs, d, row, alias, accession, study.Accession, files[alias])
			summary.Samples[alias] = status
			if err != nil {
				return summary, err
			}
			if status == StatusUploaded {
				summary.Submitted += 1
			} else {
				summary.Errored += 1
			}
		}

		if bar != nil {
			bar.Increment()
		}
	}

	summary.StudyAccession = study.Accession
	return summary, nil
}

// upload stages the manifest (and, for single-record assemblies, the
// chromosome list), runs the tool, and records the outcome. The staged
// temporary files are removed whatever the tool said.
func (o *Orchestrator) upload(
	ctx context.Context,
	logs *RunLog,
	d *dataset.Dataset,
	row int,
	alias string,
	accession string,
	studyAccession string,
	fastaPath string,
) (Status, error) {
	summary, err := fasta.Scan(fastaPath)
	if err != nil {
		o.logger.Printf("upload of %s: %s", alias, err)
		if err := logs.Error(alias, err.Error()+"\n"); err != nil {
			return StatusUploadFailed, err
		}
		return StatusUploadFailed, nil
	}

	manifest := Manifest{
		Study:        studyAccession,
		Sample:       accession,
		AssemblyName: alias,
		Coverage:     d.Cell(row, "genome coverage"),
		Program:      d.Cell(row, "assembly software"),
		Platform:     d.Cell(row, "platform"),
		Fasta:        fastaPath,
	}
	if summary.SingleRecord {
		sideFile, err := StageChromosomeList(summary.Header, alias)
		if err != nil {
			return StatusUploadFailed, err
		}
		defer os.Remove(sideFile)
		manifest.ChromosomeList = sideFile
	}

	manifestPath, err := manifest.WriteTemp()
	if err != nil {
		return StatusUploadFailed, err
	}
	defer os.Remove(manifestPath)

	outcome, err := o.tool.Submit(ctx, manifestPath)
	if err != nil {
		if ctx.Err() != nil {
			return StatusUploading, err
		}
		o.logger.Printf("upload of %s: %s", alias, err)
		if err := logs.Error(alias, err.Error()+"\n"); err != nil {
			return StatusUploadFailed, err
		}
		return StatusUploadFailed, nil
	}

	if outcome.Success {
		return StatusUploaded, logs.Success(alias, outcome.Output)
	}
	return StatusUploadFailed, logs.Error(alias, outcome.Output)
}
