package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/edgeext/internal/events"
	"github.com/alfredjeanlab/edgeext/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch [command]",
	Short:   "Stream commands dispatched to SDK instances",
	GroupID: "runtime",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instance, _ := cmd.Flags().GetString("instance")
		if cfg.NATSURL == "" {
			return fmt.Errorf("EDGEEXT_NATS_URL is required for watch")
		}

		topic := events.TopicAllCommands
		if len(args) == 1 {
			topic = events.CommandTopic(args[0])
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(cfg.NATSURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats: disconnected", "err", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				logger.Info("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		return watchCommands(ctx, os.Stdout, sub, topic, instance)
	},
}

// watchCommands prints every command received on topic to w until ctx is
// done or the subscription closes.
func watchCommands(ctx context.Context, w io.Writer, sub events.Subscriber, topic, instance string) error {
	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return fmt.Errorf("subscribing to commands: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c, err := msg.DecodeCommand()
			if err != nil {
				logger.Warn("watch: skipping malformed event", "topic", msg.Topic, "err", err)
				continue
			}
			// The topic names the command when the payload does not.
			if name, ok := msg.Command(); ok && c.Command == "" {
				c.Command = name
			}
			if instance != "" && c.Instance != instance {
				continue
			}
			printCommand(w, c)
		}
	}
}

func printCommand(w io.Writer, c events.CommandDispatched) {
	if jsonOutput {
		data, _ := json.Marshal(c)
		fmt.Fprintln(w, string(data))
		return
	}
	options, _ := json.Marshal(c.Options)
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		ui.RenderMuted(c.DispatchedAt.Local().Format(time.TimeOnly)),
		ui.RenderAccent(c.Instance),
		ui.RenderCommand(c.Command),
		options)
}

func init() {
	watchCmd.Flags().String("instance", "", "only show commands for this instance")
}
