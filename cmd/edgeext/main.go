package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/edgeext/internal/config"
	"github.com/alfredjeanlab/edgeext/internal/events"
	"github.com/alfredjeanlab/edgeext/internal/ui"
)

var (
	jsonOutput bool
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "edgeext",
	Short:         "Edit, validate, and exercise edge SDK tag extension settings",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		if !ui.ShouldUseColorOn(os.Stderr) {
			ui.ForceNoColor()
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// newPublisher connects to NATS when EDGEEXT_NATS_URL is set. The returned
// close function flushes pending events first.
func newPublisher() (events.Publisher, func(), error) {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}, func() {}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.FlushTimeout)
		defer cancel()
		if err := pub.Flush(ctx); err != nil {
			logger.Warn("nats: flush failed", "err", err)
		}
		pub.Close()
	}
	return pub, closeFn, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddGroup(&cobra.Group{ID: "settings", Title: "Settings:"})
	rootCmd.AddGroup(&cobra.Group{ID: "runtime", Title: "Runtime:"})

	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(hydrateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(trimCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(instanceCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(watchCmd)

	rootCmd.SetHelpFunc(colorizedHelpFunc())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderError("Error:"), err)
		os.Exit(1)
	}
}
