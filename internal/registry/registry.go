// Package registry is the instance manager the action adapters talk to. It
// creates one accessor per configured instance; accessors publish every
// command they receive on the event bus, where the SDK runtime consumes them.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/edgeext/internal/actions"
	"github.com/alfredjeanlab/edgeext/internal/events"
	"github.com/alfredjeanlab/edgeext/internal/idgen"
	"github.com/alfredjeanlab/edgeext/internal/model"
)

// CommandConfigure is dispatched once per instance when it is registered.
const CommandConfigure = "configure"

// Registry holds the accessors of the configured instances.
type Registry struct {
	publisher events.Publisher
	logger    *slog.Logger
	newID     idgen.Func
	now       func() time.Time

	mu        sync.RWMutex
	accessors map[string]*Accessor
}

// Option customizes a Registry.
type Option func(*Registry)

// WithIDFunc overrides command ID generation.
func WithIDFunc(f idgen.Func) Option {
	return func(r *Registry) { r.newID = f }
}

// WithClock overrides the dispatch timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New creates an empty registry publishing commands to publisher.
func New(publisher events.Publisher, logger *slog.Logger, opts ...Option) *Registry {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{
		publisher: publisher,
		logger:    logger,
		newID:     idgen.CommandID,
		now:       time.Now,
		accessors: make(map[string]*Accessor),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Configure registers an accessor for each instance and dispatches its
// configure command. Instances already registered under the same name are
// replaced.
func (r *Registry) Configure(ctx context.Context, instances []model.Instance) error {
	for _, in := range instances {
		a := &Accessor{name: in.Name, registry: r}
		r.mu.Lock()
		r.accessors[in.Name] = a
		r.mu.Unlock()

		if err := a.Dispatch(ctx, CommandConfigure, SDKConfig(in)); err != nil {
			return fmt.Errorf("configuring instance %q: %w", in.Name, err)
		}
		r.logger.Info("registry: instance configured", "instance", in.Name, "edge_domain", in.EdgeDomain)
	}
	return nil
}

// GetAccessor returns the accessor for the named instance.
func (r *Registry) GetAccessor(name string) (actions.Accessor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accessors[name]
	if !ok {
		return nil, false
	}
	return a, true
}

// Names returns the registered instance names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.accessors))
	for n := range r.accessors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Accessor dispatches commands for one instance.
type Accessor struct {
	name     string
	registry *Registry
}

// Name returns the instance name.
func (a *Accessor) Name() string {
	return a.name
}

// Dispatch publishes the command on its command topic.
func (a *Accessor) Dispatch(ctx context.Context, command string, options map[string]any) error {
	id, err := a.registry.newID()
	if err != nil {
		return err
	}
	event := events.CommandDispatched{
		ID:           id,
		Instance:     a.name,
		Command:      command,
		Options:      options,
		DispatchedAt: a.registry.now().UTC(),
	}
	if err := a.registry.publisher.Publish(ctx, events.CommandTopic(command), event); err != nil {
		return fmt.Errorf("dispatching %s: %w", command, err)
	}
	return nil
}

// SDKConfig maps a working instance to the options of the SDK's configure
// command.
func SDKConfig(in model.Instance) map[string]any {
	cfg := map[string]any{
		"configId":            in.PropertyID,
		"orgId":               in.OrganizationID,
		"edgeDomain":          in.EdgeDomain,
		"errorsEnabled":       in.ErrorsEnabled,
		"optInEnabled":        in.OptInEnabled,
		"idSyncEnabled":       in.IDSyncEnabled,
		"destinationsEnabled": in.DestinationsEnabled,
	}

	if in.IDSyncEnabled {
		switch v := model.ParseContainerID(in.IDSyncContainerID); v.Kind {
		case model.ContainerIDNumeric:
			cfg["idSyncContainerId"] = v.Number
		case model.ContainerIDToken:
			cfg["idSyncContainerId"] = v.Token
		}
	}

	selected := model.AllContextTags()
	if in.ContextGranularity == model.GranularitySpecific {
		selected = in.Context
	}
	tags := make([]string, len(selected))
	for i, c := range selected {
		tags[i] = string(c)
	}
	cfg["context"] = tags

	if in.PrehidingStyle != "" {
		cfg["prehidingStyle"] = in.PrehidingStyle
	}
	return cfg
}
