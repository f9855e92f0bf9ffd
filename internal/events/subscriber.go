package events

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message is a raw event payload and the topic it arrived on.
type Message struct {
	Topic string
	Data  []byte
}

// Command returns the command name of a command topic, e.g. "sendEvent" for
// "edgeext.command.sendEvent".
func (m Message) Command() (string, bool) {
	if !strings.HasPrefix(m.Topic, TopicCommandPrefix) {
		return "", false
	}
	return strings.TrimPrefix(m.Topic, TopicCommandPrefix), true
}

// DecodeCommand decodes a CommandDispatched payload.
func (m Message) DecodeCommand() (CommandDispatched, error) {
	var c CommandDispatched
	if err := json.Unmarshal(m.Data, &c); err != nil {
		return c, fmt.Errorf("decoding %s payload: %w", m.Topic, err)
	}
	return c, nil
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}
