package initialize

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	prof "github.com/nfdi-tools/magsub/cmd/magsub/config/profiles"
	"github.com/nfdi-tools/magsub/cmd/magsub/subcommands/common"
	"github.com/youta-t/flarc"
)

const ARG_PROFILE_FILE = "MAGSUB_PROFILE_FILE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"initialize this directory as a MAG submission project.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PROFILE_FILE, Required: true,
				Help: "filepath to a magsubprofile file holding your Webin account and target portal.",
			},
		},
		common.NewTaskWithCommonFlag(Task()),
		flarc.WithDescription(`
Register a new magsubprofile into your profile store.

A "magsubprofile" is a yaml file with your Webin account and the portal
submissions should go to:

    portal: test        # or "prod"
    user: Webin-12345
    password: ...

"{{ .Command }}" verifies the profile and registers it into your profile store.
The name of the profile is given by "--profile" ( default: current filepath ).
`),
	)
}

func Task() common.MagsubTaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		cf common.CommonFlags,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		profFile := cl.Args()[ARG_PROFILE_FILE][0]

		profStore, err := prof.LoadProfileStore(cf.ProfileStore)
		if errors.Is(err, prof.ErrProfileStoreNotFound) {
			// ok.
			profStore = prof.ProfileStore{}
		} else if err != nil {
			return fmt.Errorf(
				"%w: failed to load profile store (%s)", err, cf.ProfileStore,
			)
		}

		newProf := new(prof.MagsubProfile)
		{
			content, err := os.ReadFile(profFile)
			if err != nil {
				return fmt.Errorf("%w: failed to read profile file (%s)", err, profFile)
			}
			if err := yaml.Unmarshal(content, newProf); err != nil {
				return fmt.Errorf("%w: failed to parse profile file (%s)", err, profFile)
			}
		}
		if err := newProf.Verify(); err != nil {
			return fmt.Errorf("%w: %s", err, profFile)
		}

		profName := cf.Profile
		profStore[profName] = newProf
		if err := profStore.Save(cf.ProfileStore); err != nil {
			return fmt.Errorf(
				"%w: failed to save profile store (%s)", err, cf.ProfileStore,
			)
		}
		logger.Printf("profile %s is saved to %s", profName, cf.ProfileStore)

		{
			f, err := os.OpenFile(".magsubprofile", os.O_RDWR|os.O_CREATE|os.O_TRUNC, os.FileMode(0600))
			if err != nil {
				return fmt.Errorf("%w: failed to open .magsubprofile", err)
			}
			defer f.Close()
			f.Write([]byte(profName))
		}

		return nil
	}
}
