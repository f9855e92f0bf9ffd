// Package idgen generates the short, URL-safe IDs that correlate dispatched
// SDK commands, backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// CommandPrefix is prepended to every command ID.
const CommandPrefix = "cmd-"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 12
)

// Func returns a new ID. Registries accept one so tests can supply fixed IDs.
type Func func() (string, error)

// CommandID returns a new command ID such as "cmd-V1StGXR8Z5jd".
func CommandID() (string, error) {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return CommandPrefix + id, nil
}

// Sequence returns a Func yielding prefix1, prefix2, ... for deterministic IDs.
func Sequence(prefix string) Func {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s%d", prefix, n), nil
	}
}
