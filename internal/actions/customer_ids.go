package actions

import (
	"context"

	"github.com/alfredjeanlab/edgeext/internal/model"
)

// Authenticated states of a customer ID.
const (
	AuthStateAmbiguous     = "ambiguous"
	AuthStateAuthenticated = "authenticated"
	AuthStateLoggedOut     = "loggedOut"
)

// CustomerID is one row of the set-customer-ids action settings.
type CustomerID struct {
	Namespace          string            `json:"namespace"`
	ID                 model.Ref[string] `json:"id"`
	AuthenticatedState string            `json:"authenticatedState"`
	Primary            *bool             `json:"primary,omitempty"`
	HashEnabled        *bool             `json:"hashEnabled,omitempty"`
}

// CustomerIDSettings configures the set-customer-ids action.
type CustomerIDSettings struct {
	InstanceName string       `json:"instanceName"`
	CustomerIDs  []CustomerID `json:"customerIds"`
}

// Identity is the per-namespace value of a setCustomerIds command.
type Identity struct {
	ID                 string `json:"id"`
	AuthenticatedState string `json:"authenticatedState"`
	Primary            *bool  `json:"primary,omitempty"`
	HashEnabled        *bool  `json:"hashEnabled,omitempty"`
}

// SetCustomerIDs dispatches a setCustomerIds command keyed by namespace.
func (r *Runner) SetCustomerIDs(ctx context.Context, s CustomerIDSettings) error {
	a, ok := r.accessor(TypeSetCustomerIDs, s.InstanceName)
	if !ok {
		return nil
	}

	identities, err := ReshapeCustomerIDs(s.CustomerIDs, r.resolver)
	if err != nil {
		r.unresolved(TypeSetCustomerIDs, s.InstanceName, "customerIds", err)
		return nil
	}

	options := make(map[string]any, len(identities))
	for ns, id := range identities {
		options[ns] = id
	}
	return r.dispatch(ctx, a, TypeSetCustomerIDs, s.InstanceName, CommandSetCustomerIDs, options)
}

// ReshapeCustomerIDs turns the configured rows into a map keyed by namespace.
// A later row for the same namespace replaces an earlier one.
func ReshapeCustomerIDs(rows []CustomerID, res model.Resolver) (map[string]Identity, error) {
	out := make(map[string]Identity, len(rows))
	for _, row := range rows {
		id, err := row.ID.Resolve(res)
		if err != nil {
			return nil, err
		}
		out[row.Namespace] = Identity{
			ID:                 id,
			AuthenticatedState: row.AuthenticatedState,
			Primary:            row.Primary,
			HashEnabled:        row.HashEnabled,
		}
	}
	return out, nil
}
