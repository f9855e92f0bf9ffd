package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/edgeext/internal/editor"
	"github.com/alfredjeanlab/edgeext/internal/events"
	"github.com/alfredjeanlab/edgeext/internal/export"
	"github.com/alfredjeanlab/edgeext/internal/model"
	"github.com/alfredjeanlab/edgeext/internal/registry"
	"github.com/alfredjeanlab/edgeext/internal/schema"
	"github.com/alfredjeanlab/edgeext/internal/ui"
)

func newSession(saved model.Settings) *editor.Session {
	return editor.NewSession(saved, cfg.Defaults(), cfg.NameChecker(), nil, logger)
}

var defaultsCmd = &cobra.Command{
	Use:     "defaults",
	Short:   "Print the defaults a new instance starts from",
	GroupID: "settings",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printJSON(cfg.Defaults().Clone())
		return nil
	},
}

var hydrateCmd = &cobra.Command{
	Use:     "hydrate <settings-file>",
	Short:   "Fill saved settings with defaults for editing",
	GroupID: "settings",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := loadSettings(args[0])
		if err != nil {
			return err
		}
		printJSON(model.HydrateSettings(saved, cfg.Defaults()))
		return nil
	},
}

var trimCmd = &cobra.Command{
	Use:     "trim <working-file>",
	Short:   "Reduce working settings to their minimal saved form",
	GroupID: "settings",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		working, err := loadWorking(args[0])
		if err != nil {
			return err
		}
		return export.WriteSettings(os.Stdout, model.TrimSettings(working, cfg.Defaults()))
	},
}

var validateCmd = &cobra.Command{
	Use:     "validate <settings-file>",
	Short:   "Check saved settings against the instance rules",
	GroupID: "settings",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := loadSettings(args[0])
		if err != nil {
			return err
		}
		s := newSession(saved)
		if err := s.Validate(); err != nil {
			return printValidationErrors(err)
		}
		if jsonOutput {
			printJSON(map[string]any{"valid": true, "instances": s.Len()})
			return nil
		}
		fmt.Printf("%s %d instance(s) valid\n", ui.RenderOK("✓"), s.Len())
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:     "save <settings-file>",
	Short:   "Validate, trim, and write settings to every configured destination",
	GroupID: "settings",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		publish, _ := cmd.Flags().GetBool("publish")
		if out == "" {
			out = args[0]
		}

		saved, err := loadSettings(args[0])
		if err != nil {
			return err
		}
		s := newSession(saved)
		trimmed, err := s.Submit()
		if err != nil {
			return printValidationErrors(err)
		}

		ctx := context.Background()
		return persist(ctx, s, trimmed, out, publish)
	},
}

// persist writes trimmed settings to the file and, when configured, S3. It
// announces the save on the event bus and, with configure set, registers the
// instances so the SDK runtime receives their configure commands.
func persist(ctx context.Context, s *editor.Session, trimmed model.Settings, out string, configure bool) error {
	dests := []export.Destination{export.NewFileDestination(out)}
	if cfg.S3Bucket != "" {
		s3, err := export.NewS3Destination(ctx, export.S3Config{
			Bucket:   cfg.S3Bucket,
			Key:      cfg.S3Key,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return err
		}
		dests = append(dests, s3)
	}
	if err := export.Publish(ctx, trimmed, logger, dests...); err != nil {
		return err
	}

	pub, closePub, err := newPublisher()
	if err != nil {
		return err
	}
	defer closePub()

	instances := s.Instances()
	names := make([]string, len(instances))
	for i, in := range instances {
		names[i] = in.Name
	}
	if err := pub.Publish(ctx, events.TopicSettingsSaved, events.SettingsSaved{
		Instances:    names,
		Destinations: len(dests),
		SavedAt:      time.Now().UTC(),
	}); err != nil {
		logger.Warn("publishing settings saved event", "err", err)
	}

	if configure {
		if err := registry.New(pub, logger).Configure(ctx, instances); err != nil {
			return err
		}
	}

	if jsonOutput {
		printJSON(trimmed)
		return nil
	}
	fmt.Printf("Saved %d instance(s) to %d destination(s)\n", len(instances), len(dests))
	return nil
}

var schemaCmd = &cobra.Command{
	Use:       "schema <kind>",
	Short:     "Print the JSON schema for settings or an action",
	GroupID:   "settings",
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := schema.Raw(schema.Kind(args[0]))
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}

func kindNames() []string {
	kinds := schema.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func init() {
	saveCmd.Flags().String("out", "", "write to this file instead of replacing the input")
	saveCmd.Flags().Bool("publish", false, "dispatch configure commands for the saved instances")
}
