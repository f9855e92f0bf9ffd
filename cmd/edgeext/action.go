package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/edgeext/internal/actions"
	"github.com/alfredjeanlab/edgeext/internal/model"
	"github.com/alfredjeanlab/edgeext/internal/registry"
)

var actionCmd = &cobra.Command{
	Use:       "action <type> <settings-file> <action-file>",
	Short:     "Run an action against the instances of a settings file",
	Long:      "Configures every instance in the settings file, then runs the action.\nUse - as the action file to read action settings from stdin.",
	GroupID:   "runtime",
	Args:      cobra.ExactArgs(3),
	ValidArgs: actions.Types(),
	RunE: func(cmd *cobra.Command, args []string) error {
		actionType, settingsPath, actionPath := args[0], args[1], args[2]

		saved, err := loadSettings(settingsPath)
		if err != nil {
			return err
		}
		raw, err := readInput(actionPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		pub, closePub, err := newPublisher()
		if err != nil {
			return err
		}
		defer closePub()

		reg := registry.New(pub, logger)
		working := model.HydrateSettings(saved, cfg.Defaults())
		if err := reg.Configure(ctx, working.Instances); err != nil {
			return err
		}

		runner := actions.NewRunner(reg, cfg.Resolver(), logger)
		if err := runner.Execute(ctx, actionType, raw); err != nil {
			return fmt.Errorf("%s: %w", actionType, err)
		}
		return nil
	},
}
