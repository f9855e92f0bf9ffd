package model

import "slices"

// Hydrate turns stored instances into fully populated working instances.
// Fields missing from a stored instance take their default. With no stored
// instances it returns a single instance built from the defaults.
// Inputs are never modified.
func Hydrate(stored []StoredInstance, d Defaults) []Instance {
	if len(stored) == 0 {
		return []Instance{d.Clone()}
	}

	out := make([]Instance, len(stored))
	for i, s := range stored {
		in := d.Clone()
		if s.Name != nil {
			in.Name = *s.Name
		}
		if s.PropertyID != nil {
			in.PropertyID = *s.PropertyID
		}
		if s.OrganizationID != nil {
			in.OrganizationID = *s.OrganizationID
		}
		if s.EdgeDomain != nil {
			in.EdgeDomain = *s.EdgeDomain
		}
		if s.ErrorsEnabled != nil {
			in.ErrorsEnabled = *s.ErrorsEnabled
		}
		if s.OptInEnabled != nil {
			in.OptInEnabled = *s.OptInEnabled
		}
		if s.IDSyncEnabled != nil {
			in.IDSyncEnabled = *s.IDSyncEnabled
		}
		if s.IDSyncContainerID != nil {
			in.IDSyncContainerID = s.IDSyncContainerID.String()
		}
		if s.DestinationsEnabled != nil {
			in.DestinationsEnabled = *s.DestinationsEnabled
		}
		if s.PrehidingStyle != nil {
			in.PrehidingStyle = *s.PrehidingStyle
		}
		// Granularity is never stored; a stored context implies it.
		if s.Context != nil {
			in.ContextGranularity = GranularitySpecific
			in.Context = slices.Clone(*s.Context)
			if in.Context == nil {
				in.Context = []ContextTag{}
			}
		}
		out[i] = in
	}
	return out
}

// Trim reduces working instances to their minimal stored form. The name is
// always kept; every other field is kept only when it differs from its
// default, so stored settings follow future changes to the defaults.
func Trim(working []Instance, d Defaults) []StoredInstance {
	def := d.instance
	out := make([]StoredInstance, len(working))
	for i, w := range working {
		s := StoredInstance{Name: ptr(w.Name)}

		s.PropertyID = ifChanged(w.PropertyID, def.PropertyID)
		s.OrganizationID = ifChanged(w.OrganizationID, def.OrganizationID)
		s.EdgeDomain = ifChanged(w.EdgeDomain, def.EdgeDomain)
		s.ErrorsEnabled = ifChanged(w.ErrorsEnabled, def.ErrorsEnabled)
		s.OptInEnabled = ifChanged(w.OptInEnabled, def.OptInEnabled)
		s.IDSyncEnabled = ifChanged(w.IDSyncEnabled, def.IDSyncEnabled)
		s.DestinationsEnabled = ifChanged(w.DestinationsEnabled, def.DestinationsEnabled)
		s.PrehidingStyle = ifChanged(w.PrehidingStyle, def.PrehidingStyle)

		if id := storedContainerID(w.IDSyncContainerID); w.IDSyncEnabled && !id.Equal(storedContainerID(def.IDSyncContainerID)) {
			s.IDSyncContainerID = &id
		}

		if w.ContextGranularity == GranularitySpecific {
			ctx := slices.Clone(w.Context)
			if ctx == nil {
				ctx = []ContextTag{}
			}
			s.Context = &ctx
		}

		out[i] = s
	}
	return out
}

// HydrateSettings hydrates the instances of a settings object.
func HydrateSettings(s Settings, d Defaults) WorkingSettings {
	return WorkingSettings{Instances: Hydrate(s.Instances, d)}
}

// TrimSettings trims working instances into a settings object.
func TrimSettings(w WorkingSettings, d Defaults) Settings {
	return Settings{Instances: Trim(w.Instances, d)}
}

// storedContainerID coerces a numeric form value to a number and keeps
// anything else as text.
func storedContainerID(v string) ContainerID {
	if p := ParseContainerID(v); p.Kind == ContainerIDNumeric {
		return NumericContainerID(p.Number)
	}
	return TextContainerID(v)
}

func ifChanged[T comparable](v, def T) *T {
	if v == def {
		return nil
	}
	return &v
}

func ptr[T any](v T) *T {
	return &v
}
