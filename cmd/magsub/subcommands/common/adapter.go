package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/nfdi-tools/magsub/cmd/magsub/config/profiles"
	"github.com/nfdi-tools/magsub/cmd/magsub/env"
	mrest "github.com/nfdi-tools/magsub/cmd/magsub/rest"
	"github.com/youta-t/flarc"
)

type MagsubTaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task MagsubTaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		return task(
			ctx,
			logger,
			commonFlag,
			cl,
			newpos,
		)
	}
}

// Task is a subcommand body which needs the Webin account and project
// defaults resolved before it runs.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	magsubEnv env.MagsubEnv,
	profile profiles.MagsubProfile,
	client mrest.Client,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTask[T any](task Task[T]) flarc.Task[T] {

	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		store, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, profiles.ErrProfileStoreNotFound) {
				return fmt.Errorf(
					"%w: magsubprofile store (%s) is not found. Please try `magsub init` first",
					err, commonFlag.ProfileStore,
				)
			}
			return fmt.Errorf(
				"%w: failed to load magsubprofile store (%s)",
				err, commonFlag.ProfileStore,
			)
		}
		prof, ok := store[commonFlag.Profile]
		if !ok {
			return fmt.Errorf(
				"profile '%s' not found in the profile store (%s)",
				commonFlag.Profile, commonFlag.ProfileStore,
			)
		}

		e, err := env.LoadMagsubEnv(commonFlag.Env)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: failed to load magsubenv", err)
			}
		}

		client, err := mrest.NewClient(prof)
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create submission client. Your magsubprofile (%s in %s) can be broken.\n\nRemove it and try `magsub init` again",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		return task(ctx, logger, *e, *prof, client, cl, params)
	})
}
