package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/nfdi-tools/magsub/cmd/magsub/subcommands/common"
	subinit "github.com/nfdi-tools/magsub/cmd/magsub/subcommands/initialize"
	"github.com/nfdi-tools/magsub/cmd/magsub/subcommands/logger"
	subsubmit "github.com/nfdi-tools/magsub/cmd/magsub/subcommands/submit"
	subvalidate "github.com/nfdi-tools/magsub/cmd/magsub/subcommands/validate"
	subver "github.com/nfdi-tools/magsub/cmd/magsub/subcommands/version"
	"github.com/nfdi-tools/magsub/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	init := try.To(subinit.New()).OrFatal(logger)
	validate := try.To(subvalidate.New()).OrFatal(logger)
	submit := try.To(subsubmit.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	magsub := try.To(
		flarc.NewCommandGroup(
			"MAG metadata validation & ENA submission commandline interface",
			cf,
			flarc.WithSubcommand("init", init),
			flarc.WithSubcommand("validate", validate),
			flarc.WithSubcommand("submit", submit),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, magsub, flarc.WithHelp(true)))
}
