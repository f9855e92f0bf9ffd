// Package actions translates action settings configured in the host into
// commands on a named SDK instance.
//
// Adapters fail soft: when the instance is not configured, or a data element
// cannot be resolved, they log through the injected logger and return without
// dispatching anything.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/edgeext/internal/model"
	"github.com/alfredjeanlab/edgeext/internal/schema"
)

// SDK command names.
const (
	CommandSendEvent      = "sendEvent"
	CommandOptIn          = "optIn"
	CommandSetCustomerIDs = "setCustomerIds"
)

// Action type identifiers, as named in the extension manifest.
const (
	TypeSendEvent           = "send-event"
	TypeSetOptInPreferences = "set-opt-in-preferences"
	TypeSetCustomerIDs      = "set-customer-ids"
)

// Accessor is the SDK's per-instance handle.
type Accessor interface {
	Dispatch(ctx context.Context, command string, options map[string]any) error
}

// Registry looks up accessors by instance name.
type Registry interface {
	GetAccessor(name string) (Accessor, bool)
}

// Runner executes actions against the instances in a registry.
type Runner struct {
	registry Registry
	resolver model.Resolver
	logger   *slog.Logger
}

// NewRunner creates a Runner. resolver may be nil when no data elements are
// available; actions that reference one are then logged and skipped.
func NewRunner(registry Registry, resolver model.Resolver, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{registry: registry, resolver: resolver, logger: logger}
}

// accessor finds the named instance, logging when it is missing.
func (r *Runner) accessor(action, name string) (Accessor, bool) {
	a, ok := r.registry.GetAccessor(name)
	if !ok {
		r.logger.Error(fmt.Sprintf("Failed to find the instance %q. Make sure the instance is configured in the extension settings.", name),
			"action", action, "instance", name)
		return nil, false
	}
	return a, true
}

func (r *Runner) dispatch(ctx context.Context, a Accessor, action, instance, command string, options map[string]any) error {
	if err := a.Dispatch(ctx, command, options); err != nil {
		return fmt.Errorf("%s on instance %q: %w", action, instance, err)
	}
	r.logger.Debug("actions: dispatched", "action", action, "instance", instance, "command", command)
	return nil
}

// unresolved logs a data element that could not be resolved.
func (r *Runner) unresolved(action, instance, field string, err error) {
	r.logger.Error("actions: could not resolve data element",
		"action", action, "instance", instance, "field", field, "err", err)
}

// Execute checks raw action settings against the action's schema, decodes
// them, and runs the matching adapter.
func (r *Runner) Execute(ctx context.Context, actionType string, raw []byte) error {
	switch actionType {
	case TypeSendEvent:
		var s SendEventSettings
		if err := decode(schema.KindSendEvent, raw, &s); err != nil {
			return err
		}
		return r.SendEvent(ctx, s)
	case TypeSetOptInPreferences:
		var s OptInSettings
		if err := decode(schema.KindSetOptInPreferences, raw, &s); err != nil {
			return err
		}
		return r.SetOptInPreferences(ctx, s)
	case TypeSetCustomerIDs:
		var s CustomerIDSettings
		if err := decode(schema.KindSetCustomerIDs, raw, &s); err != nil {
			return err
		}
		return r.SetCustomerIDs(ctx, s)
	}
	return fmt.Errorf("unknown action type %q", actionType)
}

// Types returns the known action types.
func Types() []string {
	return []string{TypeSendEvent, TypeSetOptInPreferences, TypeSetCustomerIDs}
}

func decode(kind schema.Kind, raw []byte, v any) error {
	if err := schema.Validate(kind, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %s settings: %w", kind, err)
	}
	return nil
}
