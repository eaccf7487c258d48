package coordinatornode

import (
	"fmt"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
)

// AssembleBrief packs everything the turn produced into the response brief
// handed to the generation layer.
func AssembleBrief(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Context == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph context is nil", contractx.ErrValidation)
	}

	return GraphOutput{
		Brief: contractx.ResponseBrief{
			SessionID:          in.SessionID,
			Utterance:          in.Text,
			Intent:             in.Intent,
			Decision:           in.Decision,
			Entities:           in.Entities,
			Context:            in.Context,
			Plan:               in.Plan,
			Results:            in.Results,
			NeedsClarification: in.NeedsClarification,
			CreatedAt:          in.Now,
		},
	}, nil
}
