package validate

import (
	"context"
	"fmt"
	"log"

	"github.com/nfdi-tools/magsub/cmd/magsub/env"
	"github.com/nfdi-tools/magsub/cmd/magsub/subcommands/common"
	"github.com/nfdi-tools/magsub/pkg/validation"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Checklist string `flag:"checklist" help:"path to an ENA checklist XML to validate against. Overrides magsubenv."`
	FieldSpec string `flag:"fieldspec" help:"path to a field specification CSV to validate against. Overrides magsubenv."`
}

const ARG_METADATA = "METADATA"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"validate a MAG metadata table.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_METADATA, Required: true,
				Help: "metadata table to validate (.csv, or .tsv/.tab for tab-separated).",
			},
		},
		common.NewTaskWithCommonFlag(Task()),
		flarc.WithDescription(`
Check a metadata table against the field schema of your project.

The schema comes from the checklist (or fieldspec) named in your magsubenv
file, or from --checklist / --fieldspec. Each finding is printed with the
row and column it belongs to. The command fails when the table has any
finding, so it can gate a submission in scripts:

    {{ .Command }} ./mags.csv && magsub submit ./mags.csv --fasta-dir ./fastas
`),
	)
}

func Task() common.MagsubTaskWithCommonFlag[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		cf common.CommonFlags,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		flags := cl.Flags()

		e, err := env.LoadMagsubEnv(cf.Env)
		if err != nil {
			return fmt.Errorf("%w: failed to load magsubenv", err)
		}

		fields, err := common.LoadFields(*e, flags.Checklist, flags.FieldSpec)
		if err != nil {
			return err
		}

		table := cl.Args()[ARG_METADATA][0]
		d, err := common.ReadTable(table, fields)
		if err != nil {
			return err
		}

		report := validation.New(fields).Validate(d)
		if report.IsEmpty() {
			fmt.Fprintf(cl.Stdout(), "%s: ok (%d rows)\n", table, d.Len())
			return nil
		}

		for _, issue := range report.Issues() {
			fmt.Fprintln(cl.Stdout(), issue.String())
		}
		for _, column := range d.Columns() {
			if n := report.CountByField()[column]; 0 < n {
				logger.Printf("%s: %d finding(s)", column, n)
			}
		}

		return report.Error()
	}
}
