package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	// TopicCommandPrefix prefixes the topic of every command dispatched to an
	// SDK instance; the command name follows, e.g. "edgeext.command.sendEvent".
	TopicCommandPrefix = "edgeext.command."

	TopicCommandConfigure      = TopicCommandPrefix + "configure"
	TopicCommandSendEvent      = TopicCommandPrefix + "sendEvent"
	TopicCommandOptIn          = TopicCommandPrefix + "optIn"
	TopicCommandSetCustomerIDs = TopicCommandPrefix + "setCustomerIds"

	// TopicAllCommands matches every command topic.
	TopicAllCommands = TopicCommandPrefix + ">"

	TopicSettingsSaved = "edgeext.settings.saved"
)

// CommandTopic returns the topic a command is published on.
func CommandTopic(command string) string {
	return TopicCommandPrefix + command
}

// Event types

// CommandDispatched is published for every command an instance accessor runs.
type CommandDispatched struct {
	ID           string         `json:"id"`
	Instance     string         `json:"instance"`
	Command      string         `json:"command"`
	Options      map[string]any `json:"options,omitempty"`
	DispatchedAt time.Time      `json:"dispatched_at"`
}

// SettingsSaved is published after validated settings are trimmed and written.
type SettingsSaved struct {
	Instances    []string  `json:"instances"`
	Destinations int       `json:"destinations"`
	SavedAt      time.Time `json:"saved_at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
