package model

import (
	"slices"
)

// ContextGranularity selects whether the SDK collects every context tag or
// only an explicit subset.
type ContextGranularity string

const (
	GranularityAll      ContextGranularity = "all"
	GranularitySpecific ContextGranularity = "specific"
)

// IsValid checks whether the granularity is a known value.
func (g ContextGranularity) IsValid() bool {
	switch g {
	case GranularityAll, GranularitySpecific:
		return true
	}
	return false
}

// ContextTag names a category of automatically collected context data.
type ContextTag string

const (
	ContextWeb          ContextTag = "web"
	ContextDevice       ContextTag = "device"
	ContextEnvironment  ContextTag = "environment"
	ContextPlaceContext ContextTag = "placeContext"
)

// IsValid checks whether the tag is a known value.
func (c ContextTag) IsValid() bool {
	switch c {
	case ContextWeb, ContextDevice, ContextEnvironment, ContextPlaceContext:
		return true
	}
	return false
}

// AllContextTags returns every known context tag in display order.
func AllContextTags() []ContextTag {
	return []ContextTag{ContextWeb, ContextDevice, ContextEnvironment, ContextPlaceContext}
}

// Instance is a fully populated instance as edited in the configuration view.
// IDSyncContainerID is kept as text because form inputs yield strings.
type Instance struct {
	Name                string             `json:"name"`
	PropertyID          string             `json:"propertyId"`
	OrganizationID      string             `json:"organizationId"`
	EdgeDomain          string             `json:"edgeDomain"`
	ErrorsEnabled       bool               `json:"errorsEnabled"`
	OptInEnabled        bool               `json:"optInEnabled"`
	IDSyncEnabled       bool               `json:"idSyncEnabled"`
	IDSyncContainerID   string             `json:"idSyncContainerId"`
	ContextGranularity  ContextGranularity `json:"contextGranularity"`
	Context             []ContextTag       `json:"context"`
	DestinationsEnabled bool               `json:"destinationsEnabled"`
	PrehidingStyle      string             `json:"prehidingStyle"`
}

// Clone returns a deep copy of the instance.
func (in Instance) Clone() Instance {
	in.Context = slices.Clone(in.Context)
	return in
}

// StoredInstance is the persisted shape of an instance. A nil field was not
// stored and takes its default on hydration. There is no stored granularity:
// a stored Context implies GranularitySpecific.
type StoredInstance struct {
	Name                *string       `json:"name,omitempty"`
	PropertyID          *string       `json:"propertyId,omitempty"`
	OrganizationID      *string       `json:"organizationId,omitempty"`
	EdgeDomain          *string       `json:"edgeDomain,omitempty"`
	ErrorsEnabled       *bool         `json:"errorsEnabled,omitempty"`
	OptInEnabled        *bool         `json:"optInEnabled,omitempty"`
	IDSyncEnabled       *bool         `json:"idSyncEnabled,omitempty"`
	IDSyncContainerID   *ContainerID  `json:"idSyncContainerId,omitempty"`
	Context             *[]ContextTag `json:"context,omitempty"`
	DestinationsEnabled *bool         `json:"destinationsEnabled,omitempty"`
	PrehidingStyle      *string       `json:"prehidingStyle,omitempty"`
}

// Settings is the extension settings object exchanged with the host.
type Settings struct {
	Instances []StoredInstance `json:"instances"`
}

// WorkingSettings holds the hydrated instances of an editing session.
type WorkingSettings struct {
	Instances []Instance `json:"instances"`
}

// Defaults is the fully populated instance that seeds new instances and fills
// fields missing from stored ones. It is computed once per editing session.
type Defaults struct {
	instance Instance
}

// Default values that do not depend on the session context.
const (
	DefaultInstanceName = "alloy"
	DefaultEdgeDomain   = "edge.adobedc.net"
)

// NewDefaults computes the instance defaults for a session whose host context
// reports the given organization ID.
func NewDefaults(orgID string) Defaults {
	return Defaults{instance: Instance{
		Name:                DefaultInstanceName,
		PropertyID:          "",
		OrganizationID:      orgID,
		EdgeDomain:          DefaultEdgeDomain,
		ErrorsEnabled:       true,
		OptInEnabled:        false,
		IDSyncEnabled:       true,
		IDSyncContainerID:   "",
		ContextGranularity:  GranularityAll,
		Context:             AllContextTags(),
		DestinationsEnabled: true,
		PrehidingStyle:      "",
	}}
}

// Clone returns a fresh instance populated with the defaults.
func (d Defaults) Clone() Instance {
	return d.instance.Clone()
}

// Fields returns the defaults keyed by settings field name.
func (d Defaults) Fields() map[string]any {
	return d.instance.Fields()
}

// Fields returns the instance keyed by settings field name.
func (in Instance) Fields() map[string]any {
	return map[string]any{
		"name":                in.Name,
		"propertyId":          in.PropertyID,
		"organizationId":      in.OrganizationID,
		"edgeDomain":          in.EdgeDomain,
		"errorsEnabled":       in.ErrorsEnabled,
		"optInEnabled":        in.OptInEnabled,
		"idSyncEnabled":       in.IDSyncEnabled,
		"idSyncContainerId":   in.IDSyncContainerID,
		"contextGranularity":  in.ContextGranularity,
		"context":             slices.Clone(in.Context),
		"destinationsEnabled": in.DestinationsEnabled,
		"prehidingStyle":      in.PrehidingStyle,
	}
}
