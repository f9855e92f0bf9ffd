package actions

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/edgeext/internal/model"
)

// Opt-in purposes accepted by the SDK.
const (
	PurposesAll  = "all"
	PurposesNone = "none"
)

// OptInSettings configures the set-opt-in-preferences action. Purposes is
// "all", "none", or a data element resolving to one of them.
type OptInSettings struct {
	InstanceName string            `json:"instanceName"`
	Purposes     model.Ref[string] `json:"purposes"`
}

// SetOptInPreferences dispatches an optIn command with the chosen purposes.
func (r *Runner) SetOptInPreferences(ctx context.Context, s OptInSettings) error {
	a, ok := r.accessor(TypeSetOptInPreferences, s.InstanceName)
	if !ok {
		return nil
	}

	purposes, err := s.Purposes.Resolve(r.resolver)
	if err != nil {
		r.unresolved(TypeSetOptInPreferences, s.InstanceName, "purposes", err)
		return nil
	}
	if purposes != PurposesAll && purposes != PurposesNone {
		r.unresolved(TypeSetOptInPreferences, s.InstanceName, "purposes",
			fmt.Errorf("purposes must be %q or %q, got %q", PurposesAll, PurposesNone, purposes))
		return nil
	}

	return r.dispatch(ctx, a, TypeSetOptInPreferences, s.InstanceName, CommandOptIn, map[string]any{
		"purposes": purposes,
	})
}
