package coordinatornode

import (
	"fmt"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
)

// MergeContext applies the turn to the conversation context: turn accounting
// first, then the decision-driven slot merge.
func MergeContext(in *GraphState) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: graph context is nil", contractx.ErrValidation)
	}

	in.Context.AdvanceTurn(string(in.Intent), in.Now)
	in.Context = in.Context.Merge(in.Entities, in.Decision, in.Now)
	return in, nil
}
