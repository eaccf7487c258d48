package coordinatornode

import (
	"fmt"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	statex "github.com/tripsmith/tripsmith/agent/state"
	toolx "github.com/tripsmith/tripsmith/agent/tool"
)

// PlanTools builds the tool plan for the turn. A mid-conversation turn that
// produced no entities and changed nothing gets no plan and is flagged for
// clarification instead, so the assistant never repeats a full answer to a
// contentless message.
func PlanTools(in *GraphState, planner *toolx.Planner) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: graph context is nil", contractx.ErrValidation)
	}
	if planner == nil {
		return nil, fmt.Errorf("%w: planner is nil", contractx.ErrValidation)
	}

	if in.Intent == contractx.IntentClarifyRequest {
		in.NeedsClarification = true
		return in, nil
	}
	if in.Entities.IsEmpty() && in.Decision.Kind == statex.DecisionAdd && in.Context.TurnCount > 1 && !in.Intent.IsToolQuery() {
		in.NeedsClarification = true
		return in, nil
	}

	in.Plan = planner.Plan(in.Intent, in.Context)
	return in, nil
}
