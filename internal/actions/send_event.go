package actions

import (
	"context"

	"github.com/alfredjeanlab/edgeext/internal/model"
)

// SendEventSettings configures the send-event action.
type SendEventSettings struct {
	InstanceName      string                     `json:"instanceName"`
	XDM               *model.Ref[map[string]any] `json:"xdm,omitempty"`
	Data              *model.Ref[map[string]any] `json:"data,omitempty"`
	Type              string                     `json:"type,omitempty"`
	MergeID           string                     `json:"mergeId,omitempty"`
	DatasetID         string                     `json:"datasetId,omitempty"`
	RenderDecisions   bool                       `json:"renderDecisions,omitempty"`
	DocumentUnloading bool                       `json:"documentUnloading,omitempty"`
	DecisionScopes    *model.Ref[[]string]       `json:"decisionScopes,omitempty"`
}

// SendEvent dispatches a sendEvent command. Unset settings are left out of
// the command options.
func (r *Runner) SendEvent(ctx context.Context, s SendEventSettings) error {
	a, ok := r.accessor(TypeSendEvent, s.InstanceName)
	if !ok {
		return nil
	}

	options := map[string]any{}
	if s.XDM != nil {
		xdm, err := s.XDM.Resolve(r.resolver)
		if err != nil {
			r.unresolved(TypeSendEvent, s.InstanceName, "xdm", err)
			return nil
		}
		options["xdm"] = xdm
	}
	if s.Data != nil {
		data, err := s.Data.Resolve(r.resolver)
		if err != nil {
			r.unresolved(TypeSendEvent, s.InstanceName, "data", err)
			return nil
		}
		options["data"] = data
	}
	if s.DecisionScopes != nil {
		scopes, err := s.DecisionScopes.Resolve(r.resolver)
		if err != nil {
			r.unresolved(TypeSendEvent, s.InstanceName, "decisionScopes", err)
			return nil
		}
		options["decisionScopes"] = scopes
	}
	if s.Type != "" {
		options["type"] = s.Type
	}
	if s.MergeID != "" {
		options["mergeId"] = s.MergeID
	}
	if s.DatasetID != "" {
		options["datasetId"] = s.DatasetID
	}
	if s.RenderDecisions {
		options["renderDecisions"] = true
	}
	if s.DocumentUnloading {
		options["documentUnloading"] = true
	}

	return r.dispatch(ctx, a, TypeSendEvent, s.InstanceName, CommandSendEvent, options)
}
