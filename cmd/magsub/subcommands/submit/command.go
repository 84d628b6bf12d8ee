package submit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/nfdi-tools/magsub/cmd/magsub/config/profiles"
	"github.com/nfdi-tools/magsub/cmd/magsub/env"
	"github.com/nfdi-tools/magsub/cmd/magsub/rest"
	"github.com/nfdi-tools/magsub/cmd/magsub/subcommands/common"
	"github.com/nfdi-tools/magsub/pkg/fasta"
	"github.com/nfdi-tools/magsub/pkg/submit"
	"github.com/nfdi-tools/magsub/pkg/validation"
	"github.com/nfdi-tools/magsub/pkg/webin"
	"github.com/youta-t/flarc"
)

type Flag struct {
	FastaDir  string `flag:"fasta-dir" help:"directory holding one <sample_name>.fasta.gz per sample."`
	Portal    string `flag:"portal" help:"submission portal: test or prod. Overrides the profile."`
	Checklist string `flag:"checklist" help:"path to an ENA checklist XML to validate against. Overrides magsubenv."`
	FieldSpec string `flag:"fieldspec" help:"path to a field specification CSV to validate against. Overrides magsubenv."`
	LogsDir   string `flag:"logs-dir" help:"directory for receipts and per-sample logs. Recreated each run."`

	StudyAccession   string `flag:"study-accession" help:"accession of an already registered study (project) to submit under."`
	StudyName        string `flag:"study-name" help:"name of a study to register. Ignored when --study-accession is given."`
	StudyTitle       string `flag:"study-title" help:"title of the study to register."`
	StudyDescription string `flag:"study-description" help:"description of the study to register."`
}

const ARG_METADATA = "METADATA"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"register MAG metadata and upload assemblies to ENA.",
		Flag{LogsDir: "logs"},
		flarc.Args{
			{
				Name: ARG_METADATA, Required: true,
				Help: "validated metadata table (.csv, or .tsv/.tab for tab-separated).",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Submit MAGs described by a metadata table.

The table is validated first; a table with findings is never sent. Then,
in batches, samples are registered through the Webin submission queue, and
each sample which received an accession has its assembly uploaded with
webin-cli. Samples the service already knows are treated as registered.

Either an existing study,

    {{ .Command }} ./mags.csv --fasta-dir ./fastas --study-accession PRJEB12345

or a study to register alongside the first batch:

    {{ .Command }} ./mags.csv --fasta-dir ./fastas --study-name mag-study \
        --study-title "MAGs from ..." --study-description "..."

Receipts and per-sample outcomes land in --logs-dir (default: ./logs).
`),
	)
}

func Task() common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		e env.MagsubEnv,
		profile profiles.MagsubProfile,
		client rest.Client,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		flags := cl.Flags()

		if flags.FastaDir == "" {
			return errors.Join(flarc.ErrUsage, errors.New("--fasta-dir is required"))
		}
		if flags.StudyAccession == "" && flags.StudyName == "" {
			return errors.Join(flarc.ErrUsage, errors.New(
				"either --study-accession or --study-name is required",
			))
		}
		if e.WebinCliJar == "" {
			return errors.New("webinCliJar is not set in magsubenv")
		}

		if flags.Portal != "" && flags.Portal != profile.Portal {
			profile.Portal = flags.Portal
			c, err := rest.NewClient(&profile)
			if err != nil {
				return err
			}
			client = c
		}

		fields, err := common.LoadFields(e, flags.Checklist, flags.FieldSpec)
		if err != nil {
			return err
		}
		d, err := common.ReadTable(cl.Args()[ARG_METADATA][0], fields)
		if err != nil {
			return err
		}

		if report := validation.New(fields).Validate(d); !report.IsEmpty() {
			for _, issue := range report.Issues() {
				fmt.Fprintln(cl.Stderr(), issue.String())
			}
			return report.Error()
		}
		logger.Printf("metadata is valid: %d rows", d.Len())

		files, err := fasta.Collect(flags.FastaDir)
		if err != nil {
			return err
		}
		aliases := make([]string, 0, d.Len())
		for row := 0; row < d.Len(); row += 1 {
			aliases = append(aliases, d.Cell(row, "sample_name"))
		}
		if missing := fasta.Missing(aliases, files); 0 < len(missing) {
			return fmt.Errorf(
				"sequence files are missing in %s for: %v", flags.FastaDir, missing,
			)
		}

		staging, err := os.MkdirTemp("", "magsub-fasta-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(staging)
		staged, err := fasta.Stage(staging, files)
		if err != nil {
			return err
		}

		builderOptions := []webin.BuilderOption{}
		if 0 < e.BatchSize {
			builderOptions = append(builderOptions, webin.WithBatchSize(e.BatchSize))
		}
		if e.CenterName != "" {
			builderOptions = append(builderOptions, webin.WithCenterName(e.CenterName))
		}

		orchestrator := submit.New(
			webin.NewBuilder(builderOptions...),
			client,
			submit.NewWebinCli(e.WebinCliJar, profile.User, profile.Password, profile.IsTest()),
			submit.WithLogsDir(flags.LogsDir),
			submit.WithLogger(logger),
			submit.WithProgress(cl.Stderr()),
		)

		study := webin.Study{
			Accession:   flags.StudyAccession,
			Name:        flags.StudyName,
			Title:       flags.StudyTitle,
			Description: flags.StudyDescription,
		}
		summary, err := orchestrator.Run(ctx, d, study, staged)
		if err != nil {
			return err
		}

		fmt.Fprintf(cl.Stdout(), "study: %s\n", summary.StudyAccession)
		for _, alias := range aliases {
			fmt.Fprintf(cl.Stdout(), "%s: %s\n", alias, summary.Samples[alias])
		}
		fmt.Fprintf(
			cl.Stdout(), "submitted: %d, errored: %d (see %s)\n",
			summary.Submitted, summary.Errored, flags.LogsDir,
		)

		if 0 < summary.Errored {
			return fmt.Errorf("%d sample(s) were not submitted", summary.Errored)
		}
		return nil
	}
}
